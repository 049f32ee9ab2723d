// Package face implements the expression and speech animation engine:
// a fixed catalog of vector expressions, interpolated transitions
// between them, and viseme-driven talking animation, all drawn through
// the display.Sink boundary.
package face

import (
	"errors"
	"fmt"
	"time"

	"github.com/normanking/matrixface/internal/display"
	"github.com/normanking/matrixface/internal/geom"
)

var (
	// ErrUnknownExpression is returned when an identifier outside the
	// fixed catalog is requested.
	ErrUnknownExpression = errors.New("face: unknown expression")
	// ErrUnsupportedExpression is returned when talking is requested on
	// an expression with no talk-capable mouth data.
	ErrUnsupportedExpression = errors.New("face: expression does not support talking")
	// ErrInvalidParameter is returned for non-positive step or duration
	// values, before any drawing side effect occurs. It aliases the
	// display sentinel so facade callers match one error regardless of
	// which layer rejected the input.
	ErrInvalidParameter = display.ErrInvalidParameter
)

// ID identifies one expression in the fixed catalog.
type ID int

const (
	Happy ID = iota
	Sad
	Surprised
	Wink
	Neutral
	Angry
	Sleeping
	idCount
)

var idNames = [idCount]string{
	"happy",
	"sad",
	"surprised",
	"wink",
	"neutral",
	"angry",
	"sleeping",
}

// IDs returns every catalog identifier in declaration order.
func IDs() []ID {
	out := make([]ID, idCount)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

func (id ID) String() string {
	if id < 0 || id >= idCount {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return idNames[id]
}

// ParseID resolves an expression name, case-sensitively, to its ID.
func ParseID(name string) (ID, error) {
	for i, n := range idNames {
		if n == name {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownExpression, name)
}

// TalkState is a coarse mouth-openness tag used by the untimed talking
// animation to key into an expression's talk variants.
type TalkState int

const (
	TalkOpen TalkState = iota
	TalkPartial
	TalkClosed
)

func (s TalkState) String() string {
	switch s {
	case TalkOpen:
		return "open"
	case TalkPartial:
		return "partial"
	case TalkClosed:
		return "closed"
	default:
		return fmt.Sprintf("TalkState(%d)", int(s))
	}
}

// MouthBoundaryRow splits the face grid: primitives whose rows are all
// above this line are eye geometry, everything at or below it is mouth.
const MouthBoundaryRow = 4

// Expression is one face in the catalog: eye points, the static face
// lines, optional per-TalkState mouth replacements, and the default
// hold duration used when Display gets no explicit duration.
type Expression struct {
	ID           ID
	Points       []geom.Point
	Lines        []geom.Segment
	TalkVariants map[TalkState][]geom.Segment
	Duration     time.Duration
}

// SupportsTalk reports whether the expression carries talk variants for
// the untimed talking animation.
func (e Expression) SupportsTalk() bool {
	return len(e.TalkVariants) > 0
}

// EyeLines returns the static lines that belong to the eye region, i.e.
// segments whose both endpoints lie above MouthBoundaryRow.
func (e Expression) EyeLines() []geom.Segment {
	var out []geom.Segment
	for _, s := range e.Lines {
		if s.MaxY() < MouthBoundaryRow {
			out = append(out, s)
		}
	}
	return out
}

// MouthLines returns the static lines that reach the mouth region, the
// complement of EyeLines.
func (e Expression) MouthLines() []geom.Segment {
	var out []geom.Segment
	for _, s := range e.Lines {
		if s.MaxY() >= MouthBoundaryRow {
			out = append(out, s)
		}
	}
	return out
}
