package face

import (
	"unicode"

	"github.com/normanking/matrixface/internal/geom"
)

// Viseme tags a mouth shape by the class of speech sound it renders,
// independent of any particular expression.
type Viseme string

const (
	VisemeNeutral Viseme = "neutral"
	VisemeClosed  Viseme = "closed"
	VisemeWide    Viseme = "wide"
	VisemeRound   Viseme = "round"
	VisemeTeeth   Viseme = "teeth"
	VisemeOpen    Viseme = "open"
)

// letterVisemes maps every lowercase ASCII letter to exactly one
// viseme, grouped by articulation: bilabials close the mouth, spread
// vowels widen it, rounded vowels and glides purse it, fricatives and
// dentals show teeth, open vowels and aspirates drop the jaw.
var letterVisemes = map[rune]Viseme{
	'a': VisemeOpen,
	'b': VisemeClosed,
	'c': VisemeTeeth,
	'd': VisemeTeeth,
	'e': VisemeWide,
	'f': VisemeTeeth,
	'g': VisemeOpen,
	'h': VisemeOpen,
	'i': VisemeWide,
	'j': VisemeRound,
	'k': VisemeOpen,
	'l': VisemeTeeth,
	'm': VisemeClosed,
	'n': VisemeTeeth,
	'o': VisemeRound,
	'p': VisemeClosed,
	'q': VisemeRound,
	'r': VisemeRound,
	's': VisemeTeeth,
	't': VisemeTeeth,
	'u': VisemeRound,
	'v': VisemeTeeth,
	'w': VisemeRound,
	'x': VisemeTeeth,
	'y': VisemeWide,
	'z': VisemeTeeth,
}

// visemeMouths holds the line geometry substituted into the mouth
// region for each viseme, on the standard mouth rows 4-6.
var visemeMouths = map[Viseme][]geom.Segment{
	VisemeNeutral: {geom.Line(2, 5, 5, 5)},
	VisemeClosed:  {geom.Line(3, 5, 4, 5)},
	VisemeWide:    {geom.Line(1, 5, 6, 5)},
	VisemeOpen: {
		geom.Line(2, 4, 5, 4),
		geom.Line(2, 6, 5, 6),
		geom.Dot(1, 5),
		geom.Dot(6, 5),
	},
	VisemeRound: {
		geom.Line(3, 4, 4, 4),
		geom.Line(3, 6, 4, 6),
		geom.Dot(2, 5),
		geom.Dot(5, 5),
	},
	VisemeTeeth: {
		geom.Line(2, 4, 5, 4),
		geom.Line(2, 5, 5, 5),
	},
}

// VisemeForRune returns the viseme for a letter, case-insensitively.
// The second result is false for anything outside the letter table.
func VisemeForRune(r rune) (Viseme, bool) {
	v, ok := letterVisemes[unicode.ToLower(r)]
	return v, ok
}

// PhraseVisemes decomposes a phrase into its per-letter viseme
// sequence. Digits, punctuation, and whitespace carry no mouth shape
// and are skipped rather than mapped to neutral, so a phrase's timing
// is spread over its speakable letters only.
func PhraseVisemes(phrase string) []Viseme {
	var out []Viseme
	for _, r := range phrase {
		if v, ok := VisemeForRune(r); ok {
			out = append(out, v)
		}
	}
	return out
}

// MouthShape returns the mouth geometry for a viseme. The second result
// is false for tags outside the shape table; the renderer then keeps the
// expression's own mouth instead.
func MouthShape(v Viseme) ([]geom.Segment, bool) {
	segs, ok := visemeMouths[v]
	return segs, ok
}
