package display

import (
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/normanking/matrixface/internal/geom"
)

// MAX7219 register map. Each cascaded chip drives one 8x8 block; digit
// registers hold one row of eight column bits.
const (
	regNoOp        = 0x00
	regDigit0      = 0x01
	regDecodeMode  = 0x09
	regIntensity   = 0x0a
	regScanLimit   = 0x0b
	regShutdown    = 0x0c
	regDisplayTest = 0x0f
)

const blockSize = 8

// SerialSink drives a chain of cascaded MAX7219 matrix blocks through an
// io.Writer (an opened SPI or UART device). Draw commands rasterize into
// an internal framebuffer; every mutation flushes the full frame, one
// register transaction per row across the whole chain.
type SerialSink struct {
	// mu serializes bus transactions: brightness reloads arrive on the
	// config watcher goroutine while the animation goroutine flushes.
	mu       sync.Mutex
	fb       *Framebuffer
	w        io.Writer
	cascaded int
	log      zerolog.Logger
}

var (
	_ Sink   = (*SerialSink)(nil)
	_ Panner = (*SerialSink)(nil)
)

// NewSerialSink initializes a chain of cascaded blocks: display test
// off, BCD decode off, all eight scan digits, mid intensity, then
// shutdown released. The resulting grid is (cascaded*8) x 8.
func NewSerialSink(w io.Writer, cascaded int, logger zerolog.Logger) (*SerialSink, error) {
	if cascaded < 1 {
		return nil, fmt.Errorf("%w: cascaded blocks must be >= 1, got %d", ErrInvalidParameter, cascaded)
	}

	s := &SerialSink{
		fb:       NewFramebuffer(cascaded*blockSize, blockSize),
		w:        w,
		cascaded: cascaded,
		log:      logger.With().Str("component", "max7219").Logger(),
	}

	init := []struct{ reg, data byte }{
		{regDisplayTest, 0x00},
		{regDecodeMode, 0x00},
		{regScanLimit, 0x07},
		{regIntensity, 0x08},
		{regShutdown, 0x01},
	}
	for _, cmd := range init {
		if err := s.writeAll(cmd.reg, cmd.data); err != nil {
			return nil, fmt.Errorf("init chain: %w", err)
		}
	}

	s.log.Debug().Int("cascaded", cascaded).Msg("matrix chain initialized")
	return s, nil
}

// Size returns the chain's addressable grid dimensions.
func (s *SerialSink) Size() (int, int) {
	return s.fb.Size()
}

// Clear blanks the buffer and pushes the empty frame to the chain.
func (s *SerialSink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fb.Clear(); err != nil {
		return err
	}
	return s.flush()
}

// DrawPoints lights the given pixels and flushes the frame.
func (s *SerialSink) DrawPoints(points []geom.Point, c color.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fb.DrawPoints(points, c); err != nil {
		return err
	}
	return s.flush()
}

// DrawLines rasterizes the segments and flushes the frame.
func (s *SerialSink) DrawLines(segments []geom.Segment, c color.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fb.DrawLines(segments, c); err != nil {
		return err
	}
	return s.flush()
}

// SetBrightness writes the intensity register on every chip in the
// chain. The level maps directly to the MAX7219 intensity nibble.
func (s *SerialSink) SetBrightness(level int) error {
	if err := validBrightness(level); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(regIntensity, byte(level))
}

// SetScrollMode enables viewport panning on the backing buffer.
func (s *SerialSink) SetScrollMode(enabled bool) {
	s.fb.SetScrollMode(enabled)
}

// SetPosition shifts the viewport origin by offset columns.
func (s *SerialSink) SetPosition(offset int) error {
	return s.fb.SetPosition(offset)
}

// flush pushes the framebuffer to the chain, one digit register per row.
// Data for the furthest chip is shifted in first.
func (s *SerialSink) flush() error {
	rows := s.fb.Rows()
	buf := make([]byte, 2*s.cascaded)
	for y, row := range rows {
		for chip := 0; chip < s.cascaded; chip++ {
			// Last chip in the chain gets the first pair on the wire.
			i := (s.cascaded - 1 - chip) * 2
			buf[i] = byte(regDigit0 + y)
			buf[i+1] = row[chip]
		}
		if _, err := s.w.Write(buf); err != nil {
			return fmt.Errorf("flush row %d: %w", y, err)
		}
	}
	return nil
}

// writeAll sends one register/data pair to every chip in the chain.
func (s *SerialSink) writeAll(reg, data byte) error {
	buf := make([]byte, 2*s.cascaded)
	for chip := 0; chip < s.cascaded; chip++ {
		buf[chip*2] = reg
		buf[chip*2+1] = data
	}
	_, err := s.w.Write(buf)
	return err
}
