package gfx

import "math"

// Flip selects mirroring for BlitFlipZoom.
type Flip uint8

const (
	FlipNone Flip = 0
	FlipH    Flip = 1 << 0
	FlipV    Flip = 1 << 1
	FlipBoth      = FlipH | FlipV
)

// footprintScale bounds the rotated footprint so the masked addressing never
// shows the source wrapping around.
var footprintScale = 1 / math.Sqrt2 / math.Sqrt(1.75)

// Blit copies src into dst with src's top-left corner at (x, y). The copy is
// clipped to dst. With alpha other than NoAlpha, source samples equal to the
// key are not drawn.
func Blit[T Sample](dst, src *Buffer[T], x, y int, alpha Alpha) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.w, dst.w), min(y+src.h, dst.h)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for dy := y0; dy < y1; dy++ {
		so := (dy-y)*src.w + (x0 - x)
		do := dy*dst.w + x0
		s := src.pix[so : so+(x1-x0)]
		d := dst.pix[do : do+(x1-x0)]
		if alpha == NoAlpha {
			copy(d, s)
			continue
		}
		for i, c := range s {
			if Alpha(c) != alpha {
				d[i] = c
			}
		}
	}
}

// BlitTransform draws src rotated by rot radians and scaled by zoom with its
// center at (cx, cy).
//
// Drawing is limited to a square of side min(w, h) * zoom / sqrt(2) /
// sqrt(1.75) centered on (cx, cy). src must have power-of-two dimensions.
func BlitTransform[T Sample](dst, src *Buffer[T], cx, cy int, zoom, rot float64, alpha Alpha) {
	if !(zoom > 0) || src.w == 0 || src.h == 0 || dst.w == 0 || dst.h == 0 {
		return
	}
	assertPow2("transform source", src.w, src.h)

	half := int(float64(min(src.w, src.h)) * zoom * footprintScale / 2)
	x0, y0 := max(cx-half, 0), max(cy-half, 0)
	x1, y1 := min(cx+half, dst.w), min(cy+half, dst.h)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	sin, cos := math.Sincos(rot)
	r0 := FixedFromFloat(cos / zoom)
	r1 := FixedFromFloat(-sin / zoom)
	r2 := FixedFromFloat(sin / zoom)
	r3 := FixedFromFloat(cos / zoom)
	ou := FixedFromInt(src.w / 2)
	ov := FixedFromInt(src.h / 2)

	g := newAddrGen(src.w, src.h)
	dx := x0 - cx
	for y := y0; y < y1; y++ {
		dy := y - cy
		g.seek(r0.Scale(dx)+r1.Scale(dy)+ou, r2.Scale(dx)+r3.Scale(dy)+ov, r0, r2)
		row := dst.pix[y*dst.w+x0 : y*dst.w+x1]
		drawRow(row, src.pix, &g, alpha)
	}
}

// BlitFlipZoom draws src scaled by zx horizontally and zy vertically, and
// optionally mirrored, with its center at (cx, cy). src must have
// power-of-two dimensions.
func BlitFlipZoom[T Sample](dst, src *Buffer[T], cx, cy int, zx, zy float64, flip Flip, alpha Alpha) {
	if !(zx > 0) || !(zy > 0) || src.w == 0 || src.h == 0 || dst.w == 0 || dst.h == 0 {
		return
	}
	assertPow2("flip/zoom source", src.w, src.h)

	rx, ry := int(float64(src.w)*zx), int(float64(src.h)*zy)
	left, top := cx-rx/2, cy-ry/2
	right, bottom := left+rx, top+ry
	x0, y0 := max(left, 0), max(top, 0)
	x1, y1 := min(right, dst.w), min(bottom, dst.h)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	du := FixedFromFloat(1 / zx)
	dv := FixedFromFloat(1 / zy)
	g := newAddrGen(src.w, src.h)
	for y := y0; y < y1; y++ {
		sy := y - top
		if flip&FlipV != 0 {
			sy = bottom - 1 - y
		}
		row := dst.pix[y*dst.w+x0 : y*dst.w+x1]
		if flip&FlipH != 0 {
			g.seek(du.Scale(right-x1), dv.Scale(sy), du, 0)
			drawRowReverse(row, src.pix, &g, alpha)
		} else {
			g.seek(du.Scale(x0-left), dv.Scale(sy), du, 0)
			drawRow(row, src.pix, &g, alpha)
		}
	}
}

func drawRow[T Sample](row, src []T, g *addrGen, alpha Alpha) {
	if alpha == NoAlpha {
		for i := range row {
			row[i] = src[g.next()]
		}
		return
	}
	for i := range row {
		if c := src[g.next()]; Alpha(c) != alpha {
			row[i] = c
		}
	}
}

func drawRowReverse[T Sample](row, src []T, g *addrGen, alpha Alpha) {
	for i := len(row) - 1; i >= 0; i-- {
		c := src[g.next()]
		if alpha == NoAlpha || Alpha(c) != alpha {
			row[i] = c
		}
	}
}
