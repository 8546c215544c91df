package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"picogfx/gfx"

	"golang.org/x/image/draw"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestNextPow2(t *testing.T) {
	tests := []struct{ in, want int }{{1, 1}, {2, 2}, {3, 4}, {17, 32}, {64, 64}, {100, 128}}
	for _, tt := range tests {
		if got := nextPow2(tt.in); got != tt.want {
			t.Fatalf("nextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestResizePow2(t *testing.T) {
	red := color.RGBA{R: 0xFF, A: 0xFF}
	img := resizePow2(solid(20, 10, red), draw.NearestNeighbor)
	if got := img.Bounds().Size(); got != image.Pt(32, 16) {
		t.Fatalf("size = %v, want (32,16)", got)
	}
	if got := img.RGBAAt(31, 15); got != red {
		t.Fatalf("corner = %v, want %v", got, red)
	}

	same := resizePow2(solid(16, 8, red), draw.BiLinear)
	if got := same.Bounds().Size(); got != image.Pt(16, 8) {
		t.Fatalf("size = %v, want (16,8)", got)
	}
}

func TestTileStrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	colors := []color.RGBA{{R: 1, A: 0xFF}, {R: 2, A: 0xFF}, {R: 3, A: 0xFF}, {R: 4, A: 0xFF}}
	for i, c := range colors {
		r := image.Rect(i%2*4, i/2*4, i%2*4+4, i/2*4+4)
		draw.Draw(src, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	strip, err := tileStrip(src, 4)
	if err != nil {
		t.Fatalf("tileStrip() = %v", err)
	}
	if got := strip.Bounds().Size(); got != image.Pt(4, 16) {
		t.Fatalf("size = %v, want (4,16)", got)
	}
	for i, c := range colors {
		if got := strip.RGBAAt(2, i*4+1); got != c {
			t.Fatalf("tile %d = %v, want %v", i, got, c)
		}
	}
	if _, err := tileStrip(src, 3); err == nil {
		t.Fatal("tileStrip(3) = nil, want error")
	}
}

func TestConvertTileSet(t *testing.T) {
	src := solid(16, 8, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	var buf bytes.Buffer
	if err := convert(&buf, src, options{depth: 16, tile: 8}); err != nil {
		t.Fatalf("convert() = %v", err)
	}
	ts, err := gfx.DecodeTileSet[gfx.Direct16](gfx.NewHeap(0), buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTileSet() = %v", err)
	}
	if ts.Count() != 2 || ts.TileW != 8 || ts.TileH != 8 {
		t.Fatalf("tile set = %d tiles of %dx%d, want 2 of 8x8", ts.Count(), ts.TileW, ts.TileH)
	}
	if got := ts.Tile(1)[0]; got != 0xFFFF {
		t.Fatalf("Tile(1)[0] = %#x, want 0xffff", got)
	}

	if err := convert(&buf, src, options{depth: 16, tile: 6}); err == nil {
		t.Fatal("convert(tile 6) = nil, want error")
	}
	if err := convert(&buf, src, options{depth: 24}); err == nil {
		t.Fatal("convert(depth 24) = nil, want error")
	}
}

func TestRunPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.png")
	out := filepath.Join(dir, "sprite.pgfx")

	img := solid(30, 12, color.RGBA{R: 0xFF, A: 0xFF})
	img.SetRGBA(0, 0, color.RGBA{})
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := run(in, out, options{depth: 8, scaler: "nearest"}); err != nil {
		t.Fatalf("run() = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	b, h, err := gfx.DecodeAsset[gfx.Indexed8](gfx.NewHeap(0), data)
	if err != nil {
		t.Fatalf("DecodeAsset() = %v", err)
	}
	if h.Width != 32 || h.Height != 16 {
		t.Fatalf("asset size = %dx%d, want 32x16", h.Width, h.Height)
	}
	if b.At(0, 0) != 0 {
		t.Fatalf("transparent pixel = %#x, want 0", b.At(0, 0))
	}
	if want := gfx.RGB888To332(0xFF, 0, 0); b.At(31, 15) != want {
		t.Fatalf("At(31, 15) = %#x, want %#x", b.At(31, 15), want)
	}
}
