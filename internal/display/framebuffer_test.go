package display

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/matrixface/internal/geom"
)

func TestFramebufferDrawPoints(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	err := fb.DrawPoints([]geom.Point{{X: 2, Y: 2}, {X: 5, Y: 2}}, On)
	require.NoError(t, err)

	assert.True(t, fb.Lit(2, 2))
	assert.True(t, fb.Lit(5, 2))
	assert.False(t, fb.Lit(3, 3))
}

func TestFramebufferClipsOutOfRange(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	err := fb.DrawPoints([]geom.Point{{X: -1, Y: 0}, {X: 8, Y: 8}, {X: 100, Y: 100}}, On)
	require.NoError(t, err)

	for _, px := range fb.Snapshot() {
		assert.False(t, px)
	}
}

func TestFramebufferLineEndpoints(t *testing.T) {
	tests := []struct {
		name string
		seg  geom.Segment
	}{
		{"horizontal", geom.Line(1, 5, 6, 5)},
		{"vertical", geom.Line(3, 1, 3, 6)},
		{"diagonal", geom.Line(0, 0, 7, 7)},
		{"steep", geom.Line(1, 0, 3, 7)},
		{"reversed", geom.Line(6, 5, 1, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			require.NoError(t, fb.DrawLines([]geom.Segment{tt.seg}, On))

			assert.True(t, fb.Lit(tt.seg.Start.X, tt.seg.Start.Y), "start endpoint must be lit")
			assert.True(t, fb.Lit(tt.seg.End.X, tt.seg.End.Y), "end endpoint must be lit")
		})
	}
}

func TestFramebufferDegenerateSegment(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	require.NoError(t, fb.DrawLines([]geom.Segment{geom.Dot(2, 2)}, On))

	lit := 0
	for _, px := range fb.Snapshot() {
		if px {
			lit++
		}
	}
	assert.Equal(t, 1, lit, "degenerate segment lights exactly one pixel")
	assert.True(t, fb.Lit(2, 2))
}

func TestFramebufferHorizontalLineFull(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	require.NoError(t, fb.DrawLines([]geom.Segment{geom.Line(1, 5, 6, 5)}, On))

	for x := 1; x <= 6; x++ {
		assert.True(t, fb.Lit(x, 5), "pixel (%d,5) should be lit", x)
	}
	assert.False(t, fb.Lit(0, 5))
	assert.False(t, fb.Lit(7, 5))
}

func TestFramebufferDirectionless(t *testing.T) {
	a := NewFramebuffer(8, 8)
	b := NewFramebuffer(8, 8)

	require.NoError(t, a.DrawLines([]geom.Segment{geom.Line(0, 0, 7, 5)}, On))
	require.NoError(t, b.DrawLines([]geom.Segment{geom.Line(7, 5, 0, 0)}, On))

	assert.Equal(t, a.Snapshot(), b.Snapshot(), "segments render identically in either direction")
}

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	require.NoError(t, fb.DrawRect(geom.Point{X: 0, Y: 0}, geom.Point{X: 7, Y: 7}, On))
	require.NoError(t, fb.Clear())

	for _, px := range fb.Snapshot() {
		assert.False(t, px)
	}
}

func TestFramebufferDrawRect(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	require.NoError(t, fb.DrawRect(geom.Point{X: 1, Y: 1}, geom.Point{X: 2, Y: 2}, On))

	assert.True(t, fb.Lit(1, 1))
	assert.True(t, fb.Lit(2, 1))
	assert.True(t, fb.Lit(1, 2))
	assert.True(t, fb.Lit(2, 2))
	assert.False(t, fb.Lit(3, 3))
}

func TestFramebufferBrightnessBounds(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	assert.NoError(t, fb.SetBrightness(0))
	assert.NoError(t, fb.SetBrightness(15))
	assert.ErrorIs(t, fb.SetBrightness(16), ErrInvalidParameter)
	assert.ErrorIs(t, fb.SetBrightness(-1), ErrInvalidParameter)

	// A rejected level must not overwrite the previous one.
	require.NoError(t, fb.SetBrightness(7))
	_ = fb.SetBrightness(99)
	assert.Equal(t, 7, fb.Brightness())
}

func TestFramebufferScrollOffset(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	fb.SetScrollMode(true)
	require.NoError(t, fb.SetPosition(2))
	require.NoError(t, fb.DrawPoints([]geom.Point{{X: 4, Y: 3}}, On))

	assert.True(t, fb.Lit(2, 3), "point shifts left by the viewport offset")
	assert.False(t, fb.Lit(4, 3))

	// Outside scroll mode the offset is ignored.
	fb.SetScrollMode(false)
	require.NoError(t, fb.Clear())
	require.NoError(t, fb.DrawPoints([]geom.Point{{X: 4, Y: 3}}, On))
	assert.True(t, fb.Lit(4, 3))
}

func TestFramebufferOffColorErases(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	require.NoError(t, fb.DrawPoints([]geom.Point{{X: 1, Y: 1}}, On))
	require.NoError(t, fb.DrawPoints([]geom.Point{{X: 1, Y: 1}}, color.Black))
	assert.False(t, fb.Lit(1, 1))
}

func TestFramebufferRows(t *testing.T) {
	fb := NewFramebuffer(16, 8)
	require.NoError(t, fb.DrawPoints([]geom.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 15, Y: 7}}, On))

	rows := fb.Rows()
	require.Len(t, rows, 8)
	require.Len(t, rows[0], 2)

	assert.Equal(t, byte(0x80), rows[0][0], "x=0 is the MSB of the first block")
	assert.Equal(t, byte(0x80), rows[0][1], "x=8 is the MSB of the second block")
	assert.Equal(t, byte(0x01), rows[7][1], "x=15 is the LSB of the second block")
}
