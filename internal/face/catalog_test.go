package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogContainsEveryExpression(t *testing.T) {
	catalog := NewCatalog()

	for _, id := range IDs() {
		expr, err := catalog.Lookup(id)
		require.NoError(t, err, "expression %s must exist", id)
		assert.Equal(t, id, expr.ID)
		assert.NotEmpty(t, expr.Lines, "expression %s must have face lines", id)
		assert.Positive(t, expr.Duration)
	}
}

func TestCatalogUnknownExpression(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Lookup(ID(99))
	assert.ErrorIs(t, err, ErrUnknownExpression)
}

func TestCatalogTalkSupport(t *testing.T) {
	catalog := NewCatalog()

	talkCapable := map[ID]bool{
		Happy:   true,
		Neutral: true,
	}

	for _, id := range IDs() {
		expr, err := catalog.Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, talkCapable[id], expr.SupportsTalk(), "talk support for %s", id)
	}
}

func TestCatalogTalkVariantsComplete(t *testing.T) {
	catalog := NewCatalog()

	for _, id := range []ID{Happy, Neutral} {
		expr, err := catalog.Lookup(id)
		require.NoError(t, err)
		for _, state := range []TalkState{TalkOpen, TalkPartial, TalkClosed} {
			assert.NotEmpty(t, expr.TalkVariants[state], "%s missing %s variant", id, state)
		}
	}
}

func TestWinkHasSingleEyePoint(t *testing.T) {
	catalog := NewCatalog()

	wink, err := catalog.Lookup(Wink)
	require.NoError(t, err)
	assert.Len(t, wink.Points, 1)
	assert.True(t, wink.Lines[0].IsDot(), "winking eye is a degenerate segment")
}

func TestEyeLinesSplitAtMouthBoundary(t *testing.T) {
	catalog := NewCatalog()

	sleeping, err := catalog.Lookup(Sleeping)
	require.NoError(t, err)

	eyes := sleeping.EyeLines()
	require.Len(t, eyes, 1, "sleeping has one closed-lid eye line")
	assert.Less(t, eyes[0].MaxY(), MouthBoundaryRow)

	// The mouth line must not be classified as eye geometry.
	for _, s := range eyes {
		assert.NotEqual(t, 5, s.Start.Y)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("happy")
	require.NoError(t, err)
	assert.Equal(t, Happy, id)

	_, err = ParseID("smug")
	assert.ErrorIs(t, err, ErrUnknownExpression)
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "sleeping", Sleeping.String())
	assert.Equal(t, "open", TalkOpen.String())
}
