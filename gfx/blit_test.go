package gfx

import (
	"math"
	"testing"
)

func newPattern(t *testing.T, w, h int) *Buffer[Direct16] {
	t.Helper()
	b, err := NewBuffer[Direct16](w, h)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	for i := range b.Pix() {
		b.Pix()[i] = Direct16(i*31 + 1)
	}
	return b
}

func newFilled(t *testing.T, w, h int, c Direct16) *Buffer[Direct16] {
	t.Helper()
	b, err := NewBuffer[Direct16](w, h)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	b.Fill(c)
	return b
}

func equalPix(a, b *Buffer[Direct16]) bool {
	if len(a.Pix()) != len(b.Pix()) {
		return false
	}
	for i := range a.Pix() {
		if a.Pix()[i] != b.Pix()[i] {
			return false
		}
	}
	return true
}

func TestBlitExact(t *testing.T) {
	src := newPattern(t, 4, 3)
	dst := newFilled(t, 10, 10, 0)

	for pass := 0; pass < 2; pass++ {
		Blit(dst, src, 2, 3, NoAlpha)
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				want := Direct16(0)
				if x >= 2 && x < 6 && y >= 3 && y < 6 {
					want = src.At(x-2, y-3)
				}
				if got := dst.At(x, y); got != want {
					t.Fatalf("pass %d: At(%d,%d) = %#x, want %#x", pass, x, y, got, want)
				}
			}
		}
	}
}

func TestBlitClipped(t *testing.T) {
	src := newPattern(t, 4, 4)
	dst := newFilled(t, 3, 3, 0)
	Blit(dst, src, -2, -1, NoAlpha)
	if got, want := dst.At(0, 0), src.At(2, 1); got != want {
		t.Fatalf("At(0,0) = %#x, want %#x", got, want)
	}
	if got, want := dst.At(1, 2), src.At(3, 3); got != want {
		t.Fatalf("At(1,2) = %#x, want %#x", got, want)
	}
	if got := dst.At(2, 0); got != 0 {
		t.Fatalf("At(2,0) = %#x, want 0", got)
	}

	before := newFilled(t, 3, 3, 0)
	Blit(before, src, 3, 0, NoAlpha)
	Blit(before, src, 0, -4, NoAlpha)
	for i, v := range before.Pix() {
		if v != 0 {
			t.Fatalf("off-buffer blit wrote pixel %d", i)
		}
	}
}

func TestBlitAlpha(t *testing.T) {
	const key = Direct16(0xF81F)
	src := newPattern(t, 4, 4)
	src.Set(1, 1, key)
	src.Set(3, 0, key)
	dst := newFilled(t, 4, 4, 0x0001)

	Blit(dst, src, 0, 0, Key(key))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := src.At(x, y)
			if want == key {
				want = 0x0001
			}
			if got := dst.At(x, y); got != want {
				t.Fatalf("At(%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}

func TestBlitTransformIdentity(t *testing.T) {
	const bg = Direct16(0x5555)
	src := newPattern(t, 16, 16)
	dst := newFilled(t, 32, 32, bg)
	ref := newFilled(t, 32, 32, bg)

	BlitTransform(dst, src, 16, 16, 1, 0, NoAlpha)
	Blit(ref, src, 8, 8, NoAlpha)

	// 16 * 1 / sqrt(2) / sqrt(1.75) / 2 truncates to 4.
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			inside := x >= 12 && x < 20 && y >= 12 && y < 20
			want := bg
			if inside {
				want = ref.At(x, y)
			}
			if got := dst.At(x, y); got != want {
				t.Fatalf("At(%d,%d) = %#x, want %#x (inside=%v)", x, y, got, want, inside)
			}
		}
	}
}

func TestBlitTransformPeriodic(t *testing.T) {
	src := newPattern(t, 32, 16)
	for _, zoom := range []float64{1, 1.5, 3} {
		a := newFilled(t, 64, 64, 0)
		b := newFilled(t, 64, 64, 0)
		BlitTransform(a, src, 30, 34, zoom, 0, NoAlpha)
		BlitTransform(b, src, 30, 34, zoom, 2*math.Pi, NoAlpha)
		if !equalPix(a, b) {
			t.Fatalf("zoom %v: rotation 2*pi differs from rotation 0", zoom)
		}
	}
}

func TestBlitTransformNoOps(t *testing.T) {
	src := newPattern(t, 16, 16)
	dst := newFilled(t, 16, 16, 7)
	BlitTransform(dst, src, -100, 8, 1, 0.3, NoAlpha)
	BlitTransform(dst, src, 8, 8, 0, 0.3, NoAlpha)
	BlitTransform(dst, src, 8, 8, math.NaN(), 0, NoAlpha)

	key := newFilled(t, 16, 16, 0x00FF)
	BlitTransform(dst, key, 8, 8, 2, 0.5, Key(Direct16(0x00FF)))
	for i, v := range dst.Pix() {
		if v != 7 {
			t.Fatalf("pixel %d = %#x, want untouched", i, v)
		}
	}
}

func TestBlitFlipZoom(t *testing.T) {
	src := newPattern(t, 4, 4)
	cases := []struct {
		flip Flip
		col  func(x int) int
		row  func(y int) int
	}{
		{FlipNone, func(x int) int { return x }, func(y int) int { return y }},
		{FlipH, func(x int) int { return 3 - x }, func(y int) int { return y }},
		{FlipV, func(x int) int { return x }, func(y int) int { return 3 - y }},
		{FlipBoth, func(x int) int { return 3 - x }, func(y int) int { return 3 - y }},
	}
	for _, tc := range cases {
		dst := newFilled(t, 8, 8, 0)
		BlitFlipZoom(dst, src, 4, 4, 1, 1, tc.flip, NoAlpha)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				want := src.At(tc.col(x), tc.row(y))
				if got := dst.At(2+x, 2+y); got != want {
					t.Fatalf("flip %d: At(%d,%d) = %#x, want %#x", tc.flip, 2+x, 2+y, got, want)
				}
			}
		}
		if dst.At(1, 1) != 0 || dst.At(6, 6) != 0 {
			t.Fatalf("flip %d: wrote outside the footprint", tc.flip)
		}
	}
}

func TestBlitFlipZoomScale(t *testing.T) {
	src := newPattern(t, 4, 4)
	dst := newFilled(t, 8, 4, 0)
	BlitFlipZoom(dst, src, 4, 2, 2, 1, FlipNone, NoAlpha)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if got, want := dst.At(x, y), src.At(x/2, y); got != want {
				t.Fatalf("At(%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}
