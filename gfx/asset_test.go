package gfx

import (
	"bytes"
	"errors"
	"testing"
)

func TestAssetRoundTrip(t *testing.T) {
	src := newPattern(t, 8, 4)
	var buf bytes.Buffer
	if err := WriteAsset(&buf, src, 0, 0); err != nil {
		t.Fatalf("WriteAsset: %v", err)
	}
	if got, want := buf.Len(), AssetHeaderSize+8*4*2; got != want {
		t.Fatalf("encoded size = %d, want %d", got, want)
	}
	got, h, err := DecodeAsset[Direct16](NewHeap(0), buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeAsset: %v", err)
	}
	if h.Width != 8 || h.Height != 4 || h.Format != FormatDirect16 {
		t.Fatalf("header = %+v", h)
	}
	if !equalPix(got, src) {
		t.Fatal("decoded samples differ")
	}
}

func TestTileSetRoundTrip(t *testing.T) {
	ts := newTileSet(t, 4, 4, 3)
	var buf bytes.Buffer
	if err := WriteAsset(&buf, ts.Image, 4, 4); err != nil {
		t.Fatalf("WriteAsset: %v", err)
	}
	got, err := DecodeTileSet[Direct16](NewHeap(0), buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTileSet: %v", err)
	}
	if got.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", got.Count())
	}
	if got.Tile(2)[5] != ts.Tile(2)[5] {
		t.Fatalf("Tile(2)[5] = %d, want %d", got.Tile(2)[5], ts.Tile(2)[5])
	}
}

func TestAssetRejects(t *testing.T) {
	src := newPattern(t, 4, 4)
	var buf bytes.Buffer
	if err := WriteAsset(&buf, src, 0, 0); err != nil {
		t.Fatalf("WriteAsset: %v", err)
	}
	data := buf.Bytes()

	if _, _, err := DecodeAsset[Indexed8](nil, data); !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("format mismatch err = %v, want ErrInvalidAsset", err)
	}
	if _, _, err := DecodeAsset[Direct16](nil, data[:len(data)-1]); !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("truncated err = %v, want ErrInvalidAsset", err)
	}
	if _, err := DecodeTileSet[Direct16](nil, data); !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("plain image as tile set err = %v, want ErrInvalidAsset", err)
	}
	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	if _, err := ParseAssetHeader(bad); !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("bad magic err = %v, want ErrInvalidAsset", err)
	}
	if err := WriteAsset(&buf, src, 4, 3); !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("uneven strip err = %v, want ErrInvalidAsset", err)
	}
}
