package face

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/matrixface/internal/display"
)

// Config carries the animation defaults used when callers pass zero
// values to the facade operations.
type Config struct {
	// TransitionSteps is the default frame count for Transition.
	TransitionSteps int
	// TransitionDuration is the default total time for Transition.
	TransitionDuration time.Duration
	// ScrollInterval is the cadence of the scrolling display effect.
	ScrollInterval time.Duration
	// Speech calibrates the talking animations.
	Speech SpeechConfig
}

// DefaultConfig returns the stock animation defaults.
func DefaultConfig() Config {
	return Config{
		TransitionSteps:    10,
		TransitionDuration: time.Second,
		ScrollInterval:     100 * time.Millisecond,
		Speech:             DefaultSpeechConfig(),
	}
}

// Face is the public facade over the expression catalog, renderer, and
// speech engine. All animation methods block the calling goroutine and
// honor cancellation between frames; an interrupted animation leaves
// the sink cleared.
type Face struct {
	catalog  *Catalog
	renderer *Renderer
	speech   *SpeechEngine
	sink     display.Sink
	cfg      Config
	log      zerolog.Logger
}

// New assembles a face that draws onto sink.
func New(sink display.Sink, cfg Config, logger zerolog.Logger) *Face {
	if cfg.TransitionSteps <= 0 {
		cfg.TransitionSteps = DefaultConfig().TransitionSteps
	}
	if cfg.TransitionDuration <= 0 {
		cfg.TransitionDuration = DefaultConfig().TransitionDuration
	}
	if cfg.ScrollInterval <= 0 {
		cfg.ScrollInterval = DefaultConfig().ScrollInterval
	}

	renderer := NewRenderer(sink, logger)
	return &Face{
		catalog:  NewCatalog(),
		renderer: renderer,
		speech:   NewSpeechEngine(renderer, cfg.Speech, logger),
		sink:     sink,
		cfg:      cfg,
		log:      logger.With().Str("component", "face").Logger(),
	}
}

// Renderer exposes the underlying renderer, mainly for tests and for
// callers composing custom animations.
func (f *Face) Renderer() *Renderer {
	return f.renderer
}

// Catalog exposes the expression lookup table.
func (f *Face) Catalog() *Catalog {
	return f.catalog
}

// Display shows an expression for a duration (the expression's default
// when duration is 0). With scroll set and a sink that supports
// panning, the frame pans horizontally across the panel instead of
// holding still.
func (f *Face) Display(ctx context.Context, id ID, duration time.Duration, scroll bool) error {
	expr, err := f.catalog.Lookup(id)
	if err != nil {
		return err
	}
	if duration <= 0 {
		duration = expr.Duration
	}

	panner, canScroll := f.sink.(display.Panner)
	if scroll && canScroll {
		return f.scrollExpression(ctx, panner, expr)
	}

	if err := f.renderer.Draw(expr); err != nil {
		return err
	}
	if err := newPacer().wait(ctx, duration); err != nil {
		f.sink.Clear()
		return err
	}
	return nil
}

// Transition animates between two catalog expressions. Zero steps or
// duration select the configured defaults.
func (f *Face) Transition(ctx context.Context, from, to ID, steps int, duration time.Duration) error {
	fromExpr, err := f.catalog.Lookup(from)
	if err != nil {
		return err
	}
	toExpr, err := f.catalog.Lookup(to)
	if err != nil {
		return err
	}
	if steps == 0 {
		steps = f.cfg.TransitionSteps
	}
	if duration == 0 {
		duration = f.cfg.TransitionDuration
	}
	return f.renderer.Transition(ctx, fromExpr, toExpr, steps, duration)
}

// Talk animates random mouth movement on an expression. The expression
// must carry talk variants.
func (f *Face) Talk(ctx context.Context, id ID, duration time.Duration, wpm int) error {
	expr, err := f.catalog.Lookup(id)
	if err != nil {
		return err
	}
	if duration == 0 {
		duration = 2 * time.Second
	}
	return f.speech.Talk(ctx, expr, duration, wpm)
}

// Say animates the expression speaking a phrase, with timing derived
// from the word count and speech rate.
func (f *Face) Say(ctx context.Context, id ID, phrase string, wpm int) error {
	expr, err := f.catalog.Lookup(id)
	if err != nil {
		return err
	}
	return f.speech.Say(ctx, expr, phrase, wpm)
}

// Clear blanks the display.
func (f *Face) Clear() error {
	return f.sink.Clear()
}

// SetBrightness sets panel intensity in [0,15].
func (f *Face) SetBrightness(level int) error {
	return f.sink.SetBrightness(level)
}

// scrollExpression pans the expression across the panel, one column
// offset per frame at the configured cadence.
func (f *Face) scrollExpression(ctx context.Context, panner display.Panner, expr Expression) error {
	width, _ := f.sink.Size()

	panner.SetScrollMode(true)
	defer panner.SetScrollMode(false)

	clock := newPacer()
	for offset := 0; offset < width; offset++ {
		if err := panner.SetPosition(offset); err != nil {
			return err
		}
		if err := f.renderer.Draw(expr); err != nil {
			return err
		}
		if err := clock.wait(ctx, f.cfg.ScrollInterval); err != nil {
			f.sink.Clear()
			return err
		}
	}
	return nil
}

// Demo runs the full showcase: brightness ramp, an expression tour with
// transitions, an emotional phrase sequence, and the sleep/wake bit.
// It is what cmd/matrixface runs by default.
func (f *Face) Demo(ctx context.Context) error {
	if err := f.SetBrightness(8); err != nil {
		return err
	}

	ids := IDs()
	for i, id := range ids {
		next := ids[(i+1)%len(ids)]
		if err := f.Display(ctx, id, 1500*time.Millisecond, false); err != nil {
			return err
		}
		if err := f.Transition(ctx, id, next, 8, 400*time.Millisecond); err != nil {
			return err
		}
	}

	sequence := []struct {
		id     ID
		phrase string
	}{
		{Happy, "I'm so happy to see you!"},
		{Surprised, "Oh! What's that?"},
		{Neutral, "Hmm, let me think about that."},
		{Sad, "That makes me a bit sad..."},
		{Angry, "But that's not fair!"},
		{Wink, "Just kidding! *wink*"},
		{Happy, "I'm actually quite cheerful!"},
	}
	for _, step := range sequence {
		if err := f.Say(ctx, step.id, step.phrase, 120); err != nil {
			return err
		}
	}

	if err := f.Transition(ctx, Neutral, Sleeping, 5, 500*time.Millisecond); err != nil {
		return err
	}
	if err := f.Display(ctx, Sleeping, 2*time.Second, false); err != nil {
		return err
	}
	if err := f.Transition(ctx, Sleeping, Surprised, 5, 300*time.Millisecond); err != nil {
		return err
	}
	if err := f.Transition(ctx, Surprised, Happy, 5, 300*time.Millisecond); err != nil {
		return err
	}

	for _, level := range []int{4, 8, 12, 15, 12, 8, 4} {
		if err := f.SetBrightness(level); err != nil {
			return err
		}
		if err := f.Display(ctx, Happy, 500*time.Millisecond, false); err != nil {
			return err
		}
	}

	if err := f.Transition(ctx, Happy, Neutral, 5, 300*time.Millisecond); err != nil {
		return err
	}
	return f.Display(ctx, Neutral, time.Second, false)
}

// String renders a one-line summary useful in logs.
func (f *Face) String() string {
	w, h := f.sink.Size()
	return fmt.Sprintf("face(%dx%d)", w, h)
}
