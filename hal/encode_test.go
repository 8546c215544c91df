package hal

import (
	"bytes"
	"errors"
	"testing"
)

func collect(e *streamEncoder, src []byte, units int) []byte {
	var out []byte
	_ = e.encode(src, units, func(b []byte) error {
		out = append(out, b...)
		return nil
	})
	return out
}

func TestStreamEncoder16(t *testing.T) {
	e := newStreamEncoder(6)
	e.byteSwap = true
	src := []byte{0x34, 0x12, 0xCD, 0xAB, 0x01, 0x00}
	got := collect(e, src, 3)
	want := []byte{0x12, 0x34, 0xAB, 0xCD, 0x00, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % x, want % x", got, want)
	}

	e.byteSwap = false
	got = collect(e, src, 2)
	if !bytes.Equal(got, src[:4]) {
		t.Fatalf("encode without swap = % x, want % x", got, src[:4])
	}
}

func TestStreamEncoderDoubling(t *testing.T) {
	e := newStreamEncoder(8)
	e.byteSwap = true
	e.double = true
	got := collect(e, []byte{0x34, 0x12, 0x78, 0x56}, 2)
	want := []byte{0x12, 0x34, 0x12, 0x34, 0x56, 0x78, 0x56, 0x78}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % x, want % x", got, want)
	}
	if e.outputBytes(2) != len(want) {
		t.Fatalf("outputBytes(2) = %d, want %d", e.outputBytes(2), len(want))
	}
}

func TestStreamEncoderPalette(t *testing.T) {
	e := newStreamEncoder(64)
	e.unitBits = 8
	e.palette[3] = 0xF800
	e.palette[7] = 0x07E0
	got := collect(e, []byte{3, 7, 0}, 3)
	want := []byte{0xF8, 0x00, 0x07, 0xE0, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % x, want % x", got, want)
	}
}

func TestStreamEncoderStopsOnWriteError(t *testing.T) {
	e := newStreamEncoder(4)
	errBus := errors.New("bus stalled")
	calls := 0
	err := e.encode(make([]byte, 16), 8, func([]byte) error {
		calls++
		return errBus
	})
	if !errors.Is(err, errBus) {
		t.Fatalf("encode() = %v, want %v", err, errBus)
	}
	if calls != 1 {
		t.Fatalf("emit calls = %d, want 1", calls)
	}
}
