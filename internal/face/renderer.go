package face

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/matrixface/internal/display"
	"github.com/normanking/matrixface/internal/geom"
)

// Renderer draws expressions and interpolated blends onto a Sink. One
// renderer owns its sink for the duration of an animation; the engine
// never draws to the same sink from two goroutines.
type Renderer struct {
	sink   display.Sink
	easing geom.Easing
	log    zerolog.Logger
}

// NewRenderer creates a renderer with smoothstep easing, the default
// for expression transitions.
func NewRenderer(sink display.Sink, logger zerolog.Logger) *Renderer {
	return &Renderer{
		sink:   sink,
		easing: geom.EaseSmoothstep,
		log:    logger.With().Str("component", "renderer").Logger(),
	}
}

// SetEasing selects the interpolation curve. The curve is constant
// within a transition; changing it mid-animation is not supported.
func (r *Renderer) SetEasing(e geom.Easing) {
	r.easing = e
}

// Sink exposes the renderer's drawing target.
func (r *Renderer) Sink() display.Sink {
	return r.sink
}

// Clear blanks the sink.
func (r *Renderer) Clear() error {
	return r.sink.Clear()
}

// Draw renders a single expression as one frame: clear, eye points,
// then face lines.
func (r *Renderer) Draw(expr Expression) error {
	if err := r.sink.Clear(); err != nil {
		return err
	}
	if err := r.sink.DrawPoints(expr.Points, display.On); err != nil {
		return err
	}
	return r.sink.DrawLines(expr.Lines, display.On)
}

// DrawBlend renders the interpolation of two expressions at progress in
// [0,1], applying the renderer's easing curve. Primitives are matched
// by position; when the sequences differ in length only the overlapping
// prefix is interpolated and the trailing remainder is dropped.
func (r *Renderer) DrawBlend(from, to Expression, progress float64) error {
	t := r.easing.Apply(progress)

	n := len(from.Points)
	if len(to.Points) < n {
		n = len(to.Points)
	}
	points := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		points[i] = geom.LerpPoint(from.Points[i], to.Points[i], t)
	}

	n = len(from.Lines)
	if len(to.Lines) < n {
		n = len(to.Lines)
	}
	lines := make([]geom.Segment, n)
	for i := 0; i < n; i++ {
		lines[i] = geom.LerpSegment(from.Lines[i], to.Lines[i], t)
	}

	if err := r.sink.Clear(); err != nil {
		return err
	}
	if err := r.sink.DrawPoints(points, display.On); err != nil {
		return err
	}
	return r.sink.DrawLines(lines, display.On)
}

// DrawTalkFrame renders the expression with its mouth replaced by the
// talk variant for state. Expressions without a variant for the state
// fall back to their static lines.
func (r *Renderer) DrawTalkFrame(expr Expression, state TalkState) error {
	lines := expr.Lines
	if variant, ok := expr.TalkVariants[state]; ok {
		lines = variant
	}

	if err := r.sink.Clear(); err != nil {
		return err
	}
	if err := r.sink.DrawPoints(expr.Points, display.On); err != nil {
		return err
	}
	return r.sink.DrawLines(lines, display.On)
}

// DrawVisemeFrame renders the expression's eye region unchanged and
// substitutes the mouth region with the shape for the given viseme. A
// tag with no shape keeps the expression's static mouth.
func (r *Renderer) DrawVisemeFrame(expr Expression, v Viseme) error {
	mouth, ok := MouthShape(v)
	if !ok {
		mouth = expr.MouthLines()
	}

	if err := r.sink.Clear(); err != nil {
		return err
	}
	if err := r.sink.DrawPoints(expr.Points, display.On); err != nil {
		return err
	}
	if err := r.sink.DrawLines(expr.EyeLines(), display.On); err != nil {
		return err
	}
	return r.sink.DrawLines(mouth, display.On)
}

// Transition animates from one expression to another over steps+1
// evenly spaced frames. The final frame is the target expression drawn
// outright, so it matches Draw(to) even when the two expressions have
// unequal primitive counts. Cancellation between frames clears the sink
// and surfaces ctx.Err().
func (r *Renderer) Transition(ctx context.Context, from, to Expression, steps int, duration time.Duration) error {
	if steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidParameter, steps)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidParameter, duration)
	}

	r.log.Debug().
		Stringer("from", from.ID).
		Stringer("to", to.ID).
		Int("steps", steps).
		Dur("duration", duration).
		Msg("transition start")

	interval := duration / time.Duration(steps)
	clock := newPacer()

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			r.sink.Clear()
			return err
		}
		progress := float64(i) / float64(steps)
		if err := r.DrawBlend(from, to, progress); err != nil {
			return err
		}
		if err := clock.wait(ctx, interval); err != nil {
			r.sink.Clear()
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		r.sink.Clear()
		return err
	}
	return r.Draw(to)
}

// pacer schedules animation frames against wall-clock time. Sleeps are
// shortened by the time the previous frame took to compute and draw, so
// animations do not slow down under load.
type pacer struct {
	last time.Time
}

func newPacer() *pacer {
	return &pacer{last: time.Now()}
}

// wait sleeps the remainder of interval since the last frame, waking
// early only on context cancellation.
func (p *pacer) wait(ctx context.Context, interval time.Duration) error {
	remaining := interval - time.Since(p.last)
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	p.last = time.Now()
	return nil
}
