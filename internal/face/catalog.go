package face

import (
	"fmt"
	"time"

	"github.com/normanking/matrixface/internal/geom"
)

// Catalog is the immutable lookup table of built-in expressions. It is
// constructed once and read-only afterwards.
type Catalog struct {
	expressions map[ID]Expression
}

// NewCatalog builds the fixed expression table. A missing identifier is
// a construction defect, so the constructor panics rather than deferring
// the failure to lookup time.
func NewCatalog() *Catalog {
	c := &Catalog{expressions: buildExpressions()}
	for _, id := range IDs() {
		if _, ok := c.expressions[id]; !ok {
			panic(fmt.Sprintf("face: catalog is missing expression %s", id))
		}
	}
	return c
}

// Lookup returns the expression for id, or ErrUnknownExpression.
func (c *Catalog) Lookup(id ID) (Expression, error) {
	expr, ok := c.expressions[id]
	if !ok {
		return Expression{}, fmt.Errorf("%w: %s", ErrUnknownExpression, id)
	}
	return expr, nil
}

// Geometry anchors for the default 8x8 face: eyes on row 2, mouth on
// rows 4-6.
const (
	eyeRow      = 2
	leftEyeCol  = 2
	rightEyeCol = 5
)

// eyes returns the standard pair of single-pixel eyes.
func eyes() []geom.Point {
	return []geom.Point{
		{X: leftEyeCol, Y: eyeRow},
		{X: rightEyeCol, Y: eyeRow},
	}
}

// rightEyeOnly returns just the right eye point, for winking and
// sleeping faces whose left eye is drawn as line geometry instead.
func rightEyeOnly() []geom.Point {
	return []geom.Point{{X: rightEyeCol, Y: eyeRow}}
}

// mouthKind selects one of the handful of mouth geometries shared by
// the catalog. Keeping these behind one generator avoids re-declaring
// near-identical coordinate lists per expression.
type mouthKind int

const (
	mouthSmile mouthKind = iota
	mouthFrown
	mouthO
	mouthFlat
	mouthGritted
)

func mouth(kind mouthKind) []geom.Segment {
	switch kind {
	case mouthSmile:
		return []geom.Segment{geom.Line(1, 5, 6, 5), geom.Line(2, 6, 5, 6)}
	case mouthFrown:
		return []geom.Segment{geom.Line(1, 5, 6, 5), geom.Line(2, 4, 5, 4)}
	case mouthO:
		return []geom.Segment{geom.Line(3, 5, 4, 5), geom.Line(3, 6, 4, 6)}
	case mouthFlat:
		return []geom.Segment{geom.Line(2, 5, 5, 5)}
	case mouthGritted:
		return []geom.Segment{geom.Line(1, 5, 6, 5), geom.Line(2, 4, 3, 4), geom.Line(4, 4, 5, 4)}
	default:
		return nil
	}
}

func buildExpressions() map[ID]Expression {
	const hold = time.Second

	smile := mouth(mouthSmile)

	return map[ID]Expression{
		Happy: {
			ID:     Happy,
			Points: eyes(),
			Lines:  smile,
			TalkVariants: map[TalkState][]geom.Segment{
				TalkOpen:    append(append([]geom.Segment{}, smile...), geom.Line(3, 4, 4, 4)),
				TalkClosed:  smile,
				TalkPartial: append(append([]geom.Segment{}, smile...), geom.Line(3, 5, 4, 5)),
			},
			Duration: hold,
		},
		Sad: {
			ID:       Sad,
			Points:   eyes(),
			Lines:    mouth(mouthFrown),
			Duration: hold,
		},
		Surprised: {
			ID:       Surprised,
			Points:   eyes(),
			Lines:    mouth(mouthO),
			Duration: hold,
		},
		Wink: {
			ID:     Wink,
			Points: rightEyeOnly(),
			// Left eye collapses to a dot, plus the smile.
			Lines:    append([]geom.Segment{geom.Dot(leftEyeCol, eyeRow)}, smile...),
			Duration: hold,
		},
		Neutral: {
			ID:     Neutral,
			Points: eyes(),
			Lines:  mouth(mouthFlat),
			TalkVariants: map[TalkState][]geom.Segment{
				TalkOpen:    {geom.Line(2, 4, 5, 4)},
				TalkClosed:  {geom.Line(2, 5, 5, 5)},
				TalkPartial: {geom.Line(2, 4, 5, 4), geom.Line(2, 5, 5, 5)},
			},
			Duration: hold,
		},
		Angry: {
			ID:       Angry,
			Points:   eyes(),
			Lines:    mouth(mouthGritted),
			Duration: hold,
		},
		Sleeping: {
			ID:     Sleeping,
			Points: rightEyeOnly(),
			// Closed left eye drawn as a lid line.
			Lines:    append([]geom.Segment{geom.Line(1, 2, 3, 2)}, mouth(mouthFlat)...),
			Duration: hold,
		},
	}
}
