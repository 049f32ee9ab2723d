// Package display is the hardware-facing boundary of the face engine.
// Everything above it draws through the Sink contract; implementations
// range from an in-memory framebuffer to a MAX7219 chain on a serial
// bus and a websocket simulator.
package display

import (
	"errors"
	"image/color"

	"github.com/normanking/matrixface/internal/geom"
)

// ErrInvalidParameter is returned for out-of-range sink inputs, e.g. a
// brightness level outside [0,15]. Validation happens before any write
// side effect.
var ErrInvalidParameter = errors.New("invalid parameter")

// MinBrightness and MaxBrightness bound SetBrightness levels. The range
// mirrors the MAX7219 intensity register nibble.
const (
	MinBrightness = 0
	MaxBrightness = 15
)

// Sink accepts pixel draw commands for one LED matrix panel. The engine
// assumes exclusive single-writer access; no Sink is required to be safe
// for concurrent draws.
type Sink interface {
	// Size returns the addressable grid dimensions.
	Size() (w, h int)
	// Clear blanks every pixel.
	Clear() error
	// DrawPoints lights the given single pixels. Out-of-range points are
	// clipped silently.
	DrawPoints(points []geom.Point, c color.Color) error
	// DrawLines lights all pixels on each segment, rasterizing straight
	// lines between endpoints. Degenerate segments render as one pixel.
	DrawLines(segments []geom.Segment, c color.Color) error
	// SetBrightness sets panel intensity in [MinBrightness, MaxBrightness].
	SetBrightness(level int) error
}

// RectDrawer is an optional Sink extension for filled axis-aligned
// rectangles, used by block-eye rendering styles.
type RectDrawer interface {
	DrawRect(topLeft, bottomRight geom.Point, c color.Color) error
}

// Panner is an optional Sink extension for horizontal viewport panning.
// When scroll mode is off, all draws target the fixed full-frame origin.
type Panner interface {
	SetScrollMode(enabled bool)
	// SetPosition shifts the viewport origin by offset columns.
	SetPosition(offset int) error
}

// On is the conventional pixel-on color for monochrome panels.
var On = color.Gray{Y: 0xff}

func validBrightness(level int) error {
	if level < MinBrightness || level > MaxBrightness {
		return ErrInvalidParameter
	}
	return nil
}

func pixelOn(c color.Color) bool {
	if c == nil {
		return true
	}
	r, g, b, _ := c.RGBA()
	return r|g|b != 0
}
