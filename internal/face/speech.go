package face

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SpeechConfig calibrates talking animation timing.
type SpeechConfig struct {
	// WordsPerMinute is the default speech rate when a caller passes 0.
	WordsPerMinute int
	// SyllableFactor converts words per minute into mouth shapes per
	// minute. Four shapes per word reads smoothly on an 8x8 panel.
	SyllableFactor float64
	// MinShapeHold floors the per-shape hold time so fast rates do not
	// flicker unreadably.
	MinShapeHold time.Duration
	// WordPauseFactor stretches phrase time slightly to account for
	// inter-word pauses.
	WordPauseFactor float64
}

// DefaultSpeechConfig returns the calibration used by the demo.
func DefaultSpeechConfig() SpeechConfig {
	return SpeechConfig{
		WordsPerMinute:  150,
		SyllableFactor:  4,
		MinShapeHold:    100 * time.Millisecond,
		WordPauseFactor: 1.08,
	}
}

// SpeechEngine animates the mouth while an expression is held: either
// an untimed weighted-random sequence of talk states, or a phrase-timed
// sequence of visemes derived from the spoken text.
type SpeechEngine struct {
	renderer *Renderer
	cfg      SpeechConfig
	rng      *rand.Rand
	log      zerolog.Logger
}

// NewSpeechEngine creates a speech engine drawing through r.
func NewSpeechEngine(r *Renderer, cfg SpeechConfig, logger zerolog.Logger) *SpeechEngine {
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultSpeechConfig().WordsPerMinute
	}
	if cfg.SyllableFactor <= 0 {
		cfg.SyllableFactor = DefaultSpeechConfig().SyllableFactor
	}
	if cfg.MinShapeHold <= 0 {
		cfg.MinShapeHold = DefaultSpeechConfig().MinShapeHold
	}
	if cfg.WordPauseFactor <= 0 {
		cfg.WordPauseFactor = DefaultSpeechConfig().WordPauseFactor
	}
	return &SpeechEngine{
		renderer: r,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logger.With().Str("component", "speech").Logger(),
	}
}

// Talk animates random mouth movement on the expression for the given
// duration. The expression must carry talk variants. A wpm of 0 uses
// the configured default rate.
func (e *SpeechEngine) Talk(ctx context.Context, expr Expression, duration time.Duration, wpm int) error {
	if !expr.SupportsTalk() {
		return fmt.Errorf("%w: %s", ErrUnsupportedExpression, expr.ID)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidParameter, duration)
	}
	if wpm <= 0 {
		wpm = e.cfg.WordsPerMinute
	}

	hold := e.shapeHold(wpm)
	e.log.Debug().
		Stringer("expression", expr.ID).
		Dur("duration", duration).
		Dur("shape_hold", hold).
		Msg("talk start")

	states := e.newStateStream()
	clock := newPacer()
	end := time.Now().Add(duration)

	for time.Now().Before(end) {
		if err := e.renderer.DrawTalkFrame(expr, states.next()); err != nil {
			return err
		}
		// A touch of jitter keeps the movement from looking metronomic.
		jitter := time.Duration(20+e.rng.Intn(30)) * time.Millisecond
		if err := clock.wait(ctx, hold+jitter); err != nil {
			e.renderer.Clear()
			return err
		}
	}
	return nil
}

// Say animates the expression speaking a specific phrase. Total time is
// derived from the word count and speech rate; each viseme in the
// phrase's letter sequence gets an equal share. A phrase with no
// letters holds a neutral mouth for the whole duration.
func (e *SpeechEngine) Say(ctx context.Context, expr Expression, phrase string, wpm int) error {
	if wpm <= 0 {
		wpm = e.cfg.WordsPerMinute
	}

	words := len(strings.Fields(phrase))
	total := time.Duration(float64(words) * 60 / float64(wpm) * e.cfg.WordPauseFactor * float64(time.Second))
	visemes := PhraseVisemes(phrase)

	e.log.Info().
		Stringer("expression", expr.ID).
		Str("phrase", phrase).
		Int("wpm", wpm).
		Dur("duration", total).
		Msg("saying phrase")

	if len(visemes) == 0 {
		if err := e.renderer.DrawVisemeFrame(expr, VisemeNeutral); err != nil {
			return err
		}
		if total <= 0 {
			return nil
		}
		if err := newPacer().wait(ctx, total); err != nil {
			e.renderer.Clear()
			return err
		}
		return nil
	}

	hold := total / time.Duration(len(visemes))
	clock := newPacer()

	for _, v := range visemes {
		if err := e.renderer.DrawVisemeFrame(expr, v); err != nil {
			return err
		}
		if err := clock.wait(ctx, hold); err != nil {
			e.renderer.Clear()
			return err
		}
	}
	return nil
}

// shapeHold derives the per-shape hold time from the speech rate.
func (e *SpeechEngine) shapeHold(wpm int) time.Duration {
	shapesPerSecond := float64(wpm) * e.cfg.SyllableFactor / 60
	hold := time.Duration(float64(time.Second) / shapesPerSecond)
	if hold < e.cfg.MinShapeHold {
		hold = e.cfg.MinShapeHold
	}
	return hold
}

var (
	talkStates  = [...]TalkState{TalkOpen, TalkPartial, TalkClosed}
	talkWeights = [...]float64{0.3, 0.4, 0.3}
)

// stateStream is a pull-based source of talk states: a weighted-random
// draw biased toward the partial state, never repeating the previous
// state while an alternative exists.
type stateStream struct {
	rng     *rand.Rand
	last    TalkState
	started bool
}

func (e *SpeechEngine) newStateStream() *stateStream {
	return &stateStream{rng: e.rng}
}

func (s *stateStream) next() TalkState {
	var total float64
	for i, st := range talkStates {
		if s.started && st == s.last {
			continue
		}
		total += talkWeights[i]
	}

	r := s.rng.Float64() * total
	for i, st := range talkStates {
		if s.started && st == s.last {
			continue
		}
		r -= talkWeights[i]
		if r < 0 {
			s.last = st
			s.started = true
			return st
		}
	}

	// Floating point slack: fall back to the last eligible candidate.
	for i := len(talkStates) - 1; i >= 0; i-- {
		if !s.started || talkStates[i] != s.last {
			s.last = talkStates[i]
			break
		}
	}
	s.started = true
	return s.last
}
