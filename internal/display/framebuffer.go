package display

import (
	"image/color"
	"strings"

	"github.com/normanking/matrixface/internal/geom"
)

// Framebuffer is an in-memory Sink. It backs the hardware sinks (which
// flush its contents to a bus) and doubles as the test double for the
// animation engine.
type Framebuffer struct {
	width      int
	height     int
	pixels     []bool
	brightness int

	scrollMode bool
	offset     int
}

var (
	_ Sink       = (*Framebuffer)(nil)
	_ RectDrawer = (*Framebuffer)(nil)
	_ Panner     = (*Framebuffer)(nil)
)

// NewFramebuffer creates a blank w x h buffer at mid brightness.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{
		width:      w,
		height:     h,
		pixels:     make([]bool, w*h),
		brightness: 8,
	}
}

// Size returns the addressable grid dimensions.
func (f *Framebuffer) Size() (int, int) {
	return f.width, f.height
}

// Clear blanks every pixel.
func (f *Framebuffer) Clear() error {
	for i := range f.pixels {
		f.pixels[i] = false
	}
	return nil
}

// DrawPoints lights the given pixels, clipping anything out of range.
func (f *Framebuffer) DrawPoints(points []geom.Point, c color.Color) error {
	on := pixelOn(c)
	for _, p := range points {
		f.set(p.X, p.Y, on)
	}
	return nil
}

// DrawLines rasterizes each segment with Bresenham's algorithm.
func (f *Framebuffer) DrawLines(segments []geom.Segment, c color.Color) error {
	on := pixelOn(c)
	for _, s := range segments {
		f.rasterize(s, on)
	}
	return nil
}

// DrawRect fills the axis-aligned rectangle spanned by the two corners.
func (f *Framebuffer) DrawRect(topLeft, bottomRight geom.Point, c color.Color) error {
	on := pixelOn(c)
	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		for x := topLeft.X; x <= bottomRight.X; x++ {
			f.set(x, y, on)
		}
	}
	return nil
}

// SetBrightness stores the panel intensity level.
func (f *Framebuffer) SetBrightness(level int) error {
	if err := validBrightness(level); err != nil {
		return err
	}
	f.brightness = level
	return nil
}

// Brightness returns the current intensity level.
func (f *Framebuffer) Brightness() int {
	return f.brightness
}

// SetScrollMode enables or disables viewport panning. Disabling resets
// the viewport to the full-frame origin.
func (f *Framebuffer) SetScrollMode(enabled bool) {
	f.scrollMode = enabled
	if !enabled {
		f.offset = 0
	}
}

// SetPosition shifts the viewport origin by offset columns. Only honored
// in scroll mode.
func (f *Framebuffer) SetPosition(offset int) error {
	if offset < 0 {
		return ErrInvalidParameter
	}
	if f.scrollMode {
		f.offset = offset
	}
	return nil
}

// Lit reports whether the pixel at (x, y) is on, in viewport-local
// coordinates.
func (f *Framebuffer) Lit(x, y int) bool {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return false
	}
	return f.pixels[y*f.width+x]
}

// Snapshot copies the current pixel grid, row-major.
func (f *Framebuffer) Snapshot() []bool {
	out := make([]bool, len(f.pixels))
	copy(out, f.pixels)
	return out
}

// Rows packs the buffer into one byte per row per 8-column block,
// MSB-first, the layout MAX7219 digit registers expect.
func (f *Framebuffer) Rows() [][]byte {
	blocks := (f.width + 7) / 8
	rows := make([][]byte, f.height)
	for y := 0; y < f.height; y++ {
		rows[y] = make([]byte, blocks)
		for x := 0; x < f.width; x++ {
			if f.pixels[y*f.width+x] {
				rows[y][x/8] |= 1 << (7 - uint(x%8))
			}
		}
	}
	return rows
}

// String renders the buffer as an ASCII grid, one row per line. Useful
// in test failure output.
func (f *Framebuffer) String() string {
	var b strings.Builder
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.pixels[y*f.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *Framebuffer) set(x, y int, on bool) {
	x -= f.offset
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.pixels[y*f.width+x] = on
}

func (f *Framebuffer) rasterize(s geom.Segment, on bool) {
	x0, y0 := s.Start.X, s.Start.Y
	x1, y1 := s.End.X, s.End.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		f.set(x0, y0, on)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
