// Package geom holds the grid-space primitives that expressions are
// built from: integer points, line segments, and the interpolation
// helpers used by frame blending.
package geom

import "math"

// Point addresses a single LED cell in the matrix grid.
type Point struct {
	X int
	Y int
}

// Segment is a line between two grid points. Segments are directionless
// for drawing purposes; a degenerate segment (Start == End) renders as a
// single pixel.
type Segment struct {
	Start Point
	End   Point
}

// Dot returns a degenerate segment lighting exactly one pixel.
func Dot(x, y int) Segment {
	p := Point{X: x, Y: y}
	return Segment{Start: p, End: p}
}

// Line returns a segment between (x0,y0) and (x1,y1).
func Line(x0, y0, x1, y1 int) Segment {
	return Segment{Start: Point{X: x0, Y: y0}, End: Point{X: x1, Y: y1}}
}

// IsDot reports whether the segment collapses to a single pixel.
func (s Segment) IsDot() bool {
	return s.Start == s.End
}

// MaxY returns the lower of the segment's two rows (larger Y is further
// down the grid).
func (s Segment) MaxY() int {
	if s.Start.Y > s.End.Y {
		return s.Start.Y
	}
	return s.End.Y
}

// Easing shapes the progress value of an interpolated transition.
type Easing int

const (
	// EaseLinear leaves progress untouched.
	EaseLinear Easing = iota
	// EaseSmoothstep applies 3p^2 - 2p^3, giving zero velocity at both
	// endpoints. Default for expression transitions.
	EaseSmoothstep
)

// Apply maps progress in [0,1] through the easing curve. Values outside
// the range are clamped first so callers can hand in raw step ratios.
func (e Easing) Apply(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	if e == EaseSmoothstep {
		return p * p * (3 - 2*p)
	}
	return p
}

// LerpPoint interpolates between two grid points at eased progress t,
// rounding to the nearest cell.
func LerpPoint(a, b Point, t float64) Point {
	return Point{
		X: lerpInt(a.X, b.X, t),
		Y: lerpInt(a.Y, b.Y, t),
	}
}

// LerpSegment interpolates both endpoints of two segments at eased
// progress t.
func LerpSegment(a, b Segment, t float64) Segment {
	return Segment{
		Start: LerpPoint(a.Start, b.Start, t),
		End:   LerpPoint(a.End, b.End, t),
	}
}

func lerpInt(a, b int, t float64) int {
	return int(math.Round(float64(a) + float64(b-a)*t))
}
