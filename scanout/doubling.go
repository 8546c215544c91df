package scanout

import (
	"encoding/binary"

	"picogfx/gfx"
)

// linear produces the 2x interpolated scanlines of one frame. Each source
// row y goes out as last = H(y) followed by mid = avg(H(y), H(y+1)), where H
// doubles a row horizontally. The final mid repeats the last row.
type linear struct {
	last, next, mid *gfx.Buffer[gfx.Direct16]

	src  []byte
	w, h int
	y    int
	odd  bool // mid is the pending row
}

func newLinear(heap *gfx.Heap, w int) (*linear, error) {
	l := &linear{}
	for _, p := range []**gfx.Buffer[gfx.Direct16]{&l.last, &l.next, &l.mid} {
		b, err := gfx.Alloc[gfx.Direct16](heap, 2*w, 1)
		if err != nil {
			l.release()
			return nil, err
		}
		*p = b
	}
	return l, nil
}

func (l *linear) release() {
	for _, b := range []*gfx.Buffer[gfx.Direct16]{l.last, l.next, l.mid} {
		if b != nil {
			b.Release()
		}
	}
	l.last, l.next, l.mid = nil, nil, nil
}

// begin primes the row buffers for a frame. The caller sends last first.
func (l *linear) begin(src []byte, w, h int) {
	l.src, l.w, l.h = src, w, h
	l.y = 0
	l.odd = false
	l.expand(l.last.Pix(), 0)
	l.prepare()
}

// advance is called when the previous row finished and returns the bytes of
// the next row to send, or nil at the end of the frame.
func (l *linear) advance() []byte {
	if !l.odd {
		l.odd = true
		return l.mid.Bytes()
	}
	l.y++
	if l.y >= l.h {
		l.src = nil
		return nil
	}
	l.last, l.next = l.next, l.last
	l.prepare()
	l.odd = false
	return l.last.Bytes()
}

// prepare fills next with row y+1 and mid with the blend. last holds row y.
func (l *linear) prepare() {
	last, mid := l.last.Pix(), l.mid.Pix()
	if l.y+1 >= l.h {
		copy(mid, last)
		return
	}
	next := l.next.Pix()
	l.expand(next, l.y+1)
	for i := range mid {
		mid[i] = gfx.Average(last[i], next[i])
	}
}

// expand writes source row y doubled horizontally into dst.
func (l *linear) expand(dst []gfx.Direct16, y int) {
	row := l.src[y*l.w*2 : (y+1)*l.w*2]
	prev := gfx.Direct16(binary.LittleEndian.Uint16(row))
	for x := 0; x < l.w; x++ {
		c := prev
		if x+1 < l.w {
			prev = gfx.Direct16(binary.LittleEndian.Uint16(row[2*x+2:]))
			dst[2*x+1] = gfx.Average(c, prev)
		} else {
			dst[2*x+1] = c
		}
		dst[2*x] = c
	}
}
