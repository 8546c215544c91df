package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Displayer adapts a Buffer to drivers.Displayer so tinyfont and other
// drivers-level renderers can draw into it.
type Displayer[T Sample] struct {
	buf *Buffer[T]
}

var (
	_ drivers.Displayer = (*Displayer[Direct16])(nil)
	_ drivers.Displayer = (*Displayer[Indexed8])(nil)
)

// NewDisplayer returns a Displayer drawing into buf.
func NewDisplayer[T Sample](buf *Buffer[T]) *Displayer[T] {
	return &Displayer[T]{buf: buf}
}

func (d *Displayer[T]) Size() (x, y int16) {
	return int16(d.buf.w), int16(d.buf.h)
}

func (d *Displayer[T]) SetPixel(x, y int16, c color.RGBA) {
	d.buf.Set(int(x), int(y), FromRGBA[T](c))
}

// Display is a no-op; presenting is the scanout engine's job.
func (d *Displayer[T]) Display() error { return nil }

// FillRectangle fills a clipped rectangle with c.
func (d *Displayer[T]) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	b := d.buf
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1, y1 := min(int(x)+int(width), b.w), min(int(y)+int(height), b.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	s := FromRGBA[T](c)
	for py := y0; py < y1; py++ {
		row := b.pix[py*b.w+x0 : py*b.w+x1]
		for i := range row {
			row[i] = s
		}
	}
	return nil
}

func (d *Displayer[T]) SetRotation(drivers.Rotation) error { return nil }

// FromRGBA converts a truecolor value to a sample of type T.
func FromRGBA[T Sample](c color.RGBA) T {
	var zero T
	switch any(zero).(type) {
	case Indexed8:
		return T(RGB888To332(c.R, c.G, c.B))
	default:
		return T(RGB888To565(c.R, c.G, c.B))
	}
}
