package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothstepEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, EaseSmoothstep.Apply(0))
	assert.Equal(t, 1.0, EaseSmoothstep.Apply(1))
	assert.Equal(t, 0.5, EaseSmoothstep.Apply(0.5))
}

func TestSmoothstepMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		p := float64(i) / 100
		v := EaseSmoothstep.Apply(p)
		if v < prev {
			t.Fatalf("smoothstep not monotonic at p=%.2f: %f < %f", p, v, prev)
		}
		prev = v
	}
}

func TestEasingClamps(t *testing.T) {
	assert.Equal(t, 0.0, EaseLinear.Apply(-0.5))
	assert.Equal(t, 1.0, EaseLinear.Apply(1.5))
	assert.Equal(t, 0.0, EaseSmoothstep.Apply(-1))
	assert.Equal(t, 1.0, EaseSmoothstep.Apply(2))
}

func TestLerpPoint(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 4, Y: 2}

	assert.Equal(t, a, LerpPoint(a, b, 0))
	assert.Equal(t, b, LerpPoint(a, b, 1))
	assert.Equal(t, Point{X: 2, Y: 1}, LerpPoint(a, b, 0.5))
}

func TestLerpPointRounds(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 3}

	// 0.5 * 3 = 1.5, rounds up to 2.
	assert.Equal(t, Point{X: 2, Y: 2}, LerpPoint(a, b, 0.5))
}

func TestLerpSegment(t *testing.T) {
	a := Line(1, 5, 6, 5)
	b := Line(2, 4, 5, 4)

	mid := LerpSegment(a, b, 0.5)
	assert.Equal(t, Line(2, 5, 6, 5), mid)
	assert.Equal(t, a, LerpSegment(a, b, 0))
	assert.Equal(t, b, LerpSegment(a, b, 1))
}

func TestDot(t *testing.T) {
	d := Dot(2, 2)
	assert.True(t, d.IsDot())
	assert.False(t, Line(1, 5, 6, 5).IsDot())
}

func TestSegmentMaxY(t *testing.T) {
	assert.Equal(t, 5, Line(1, 5, 6, 2).MaxY())
	assert.Equal(t, 5, Line(1, 2, 6, 5).MaxY())
}
