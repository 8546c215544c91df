package gfx

import (
	"image"
	"math"
)

// TileMap is a W x H grid of tile indices, stored row-major. W and H must be
// powers of two.
type TileMap struct {
	W, H  int
	Cells []uint8
}

// NewTileMap returns a zeroed w x h map.
func NewTileMap(w, h int) *TileMap {
	return &TileMap{W: w, H: h, Cells: make([]uint8, w*h)}
}

// Set stores tile t at cell (x, y), wrapping the coordinates.
func (m *TileMap) Set(x, y int, t uint8) {
	m.Cells[(y&(m.H-1))*m.W+x&(m.W-1)] = t
}

func (m *TileMap) valid() bool {
	return m != nil && m.W > 0 && m.H > 0 && len(m.Cells) >= m.W*m.H
}

// TileSet is a strip of equally sized tiles sharing one image. Tile i is
// stored as TileW*TileH consecutive samples starting at i*TileW*TileH, which
// is rows i*TileH to (i+1)*TileH-1 of a TileW wide image.
type TileSet[T Sample] struct {
	TileW, TileH int
	Image        *Buffer[T]
}

// Count returns the number of whole tiles in the set.
func (ts *TileSet[T]) Count() int {
	area := ts.TileW * ts.TileH
	if area <= 0 || ts.Image == nil {
		return 0
	}
	return len(ts.Image.pix) / area
}

// Tile returns the samples of tile i.
func (ts *TileSet[T]) Tile(i int) []T {
	area := ts.TileW * ts.TileH
	return ts.Image.pix[i*area : (i+1)*area]
}

// tileStages holds the two chained generators: the map stage yields the
// cell, the tile stage the offset within the tile.
type tileStages[T Sample] struct {
	m     *TileMap
	ts    *TileSet[T]
	cell  addrGen
	texel addrGen
	area  int
	count int
}

func newTileStages[T Sample](m *TileMap, ts *TileSet[T]) (*tileStages[T], bool) {
	if !m.valid() || ts == nil || ts.Count() == 0 {
		return nil, false
	}
	assertPow2("tile map", m.W, m.H)
	assertPow2("tile", ts.TileW, ts.TileH)
	return &tileStages[T]{
		m:     m,
		ts:    ts,
		cell:  newAddrGen(m.W, m.H),
		texel: newAddrGen(ts.TileW, ts.TileH),
		area:  ts.TileW * ts.TileH,
		count: ts.Count(),
	}, true
}

// seek positions both stages. u and v are in map cells, Q16.16.
func (st *tileStages[T]) seek(u, v, du, dv Fixed) {
	tw, th := st.ts.TileW, st.ts.TileH
	st.cell.seek(u, v, du, dv)
	st.texel.seek(u.Scale(tw), v.Scale(th), du.Scale(tw), dv.Scale(th))
}

func (st *tileStages[T]) draw(row []T, alpha Alpha) {
	cells, pix := st.m.Cells, st.ts.Image.pix
	for i := range row {
		t := int(cells[st.cell.next()])
		o := st.texel.next()
		if t >= st.count {
			continue
		}
		c := pix[t*st.area+o]
		if alpha == NoAlpha || Alpha(c) != alpha {
			row[i] = c
		}
	}
}

// clipWindow intersects win with the destination and returns the clipped
// rectangle and how far its left edge moved.
func clipWindow[T Sample](dst *Buffer[T], win image.Rectangle) (image.Rectangle, int, bool) {
	r := win.Intersect(image.Rect(0, 0, dst.w, dst.h))
	if r.Empty() {
		return r, 0, false
	}
	return r, r.Min.X - win.Min.X, true
}

// TileBlitRot renders the tile map into the window win of dst, rotated by
// rot radians and scaled by zx and zy.
//
// pivot is relative to win.Min; the screen point win.Min+pivot shows the world
// pixel translate, and rotation and zoom are about that point.
func TileBlitRot[T Sample](dst *Buffer[T], win image.Rectangle, translate, pivot image.Point, rot, zx, zy float64, m *TileMap, ts *TileSet[T], alpha Alpha) {
	if !(zx > 0) || !(zy > 0) {
		return
	}
	r, shift, ok := clipWindow(dst, win)
	if !ok {
		return
	}
	st, ok := newTileStages(m, ts)
	if !ok {
		return
	}

	// Scaled by tile size so the map stage steps in cells.
	zx *= float64(ts.TileW)
	zy *= float64(ts.TileH)
	sin, cos := math.Sincos(rot)
	r0 := FixedFromFloat(cos / zx)
	r1 := FixedFromFloat(-sin / zy)
	r2 := FixedFromFloat(sin / zx)
	r3 := FixedFromFloat(cos / zy)
	ou := FixedFromFloat(float64(translate.X) / float64(ts.TileW))
	ov := FixedFromFloat(float64(translate.Y) / float64(ts.TileH))

	dx := shift - pivot.X
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dy := y - win.Min.Y - pivot.Y
		st.seek(r0.Scale(dx)+r1.Scale(dy)+ou, r2.Scale(dx)+r3.Scale(dy)+ov, r0, r2)
		st.draw(dst.pix[y*dst.w+r.Min.X:y*dst.w+r.Max.X], alpha)
	}
}

const (
	mode7Horizon = 400
	mode7Limit   = 200 << fixedShift
)

// TileBlitMode7 renders the tile map as a ground plane seen in perspective
// from height pz and heading rot, standing at world pixel (px, py). The top
// of win is the horizon. Positions outside the map and heights at or below
// the ground leave dst untouched.
func TileBlitMode7[T Sample](dst *Buffer[T], win image.Rectangle, px, py, pz, rot float64, m *TileMap, ts *TileSet[T], alpha Alpha) {
	if !m.valid() || ts == nil || ts.TileW <= 0 || ts.TileH <= 0 || !(pz > 0) {
		return
	}
	tw, th := float64(ts.TileW), float64(ts.TileH)
	if !(px >= 0) || !(py >= 0) || px >= float64(m.W)*tw || py >= float64(m.H)*th {
		return
	}
	r, shift, ok := clipWindow(dst, win)
	if !ok {
		return
	}
	st, ok := newTileStages(m, ts)
	if !ok {
		return
	}

	sin, cos := math.Sincos(rot)
	pu := FixedFromFloat(px / tw)
	pv := FixedFromFloat(py / th)
	pz32 := FixedFromFloat(pz / 100)
	w := win.Dx()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		n := pz32 / Fixed(y-win.Min.Y+1)
		if int64(n)*mode7Horizon > mode7Limit {
			continue
		}
		s := float64(n.Scale(mode7Horizon))
		t := float64(n.Scale(w) / 2)
		u := pu + Fixed(int32(t*cos+s*sin))
		v := pv + Fixed(int32(-t*sin+s*cos))
		du := Fixed(int32(-cos * float64(n)))
		dv := Fixed(int32(sin * float64(n)))
		st.seek(u+du.Scale(shift), v+dv.Scale(shift), du, dv)
		st.draw(dst.pix[y*dst.w+r.Min.X:y*dst.w+r.Max.X], alpha)
	}
}
