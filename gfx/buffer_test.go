package gfx

import (
	"errors"
	"testing"
)

func TestAllocZeroed(t *testing.T) {
	heap := NewHeap(0)
	b, err := Alloc[Direct16](heap, 7, 5)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if got := len(b.Bytes()); got != 70 {
		t.Fatalf("len(Bytes()) = %d, want 70", got)
	}
	if got := len(b.WordBytes()); got != 72 {
		t.Fatalf("len(WordBytes()) = %d, want 72", got)
	}
	for i, v := range b.WordBytes() {
		if v != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, v)
		}
	}
	if got := heap.Used(); got != 72 {
		t.Fatalf("Used() = %d, want 72", got)
	}
	if b.Format() != FormatDirect16 {
		t.Fatalf("Format() = %v, want %v", b.Format(), FormatDirect16)
	}
}

func TestAllocIndexedRoundsToWords(t *testing.T) {
	heap := NewHeap(0)
	b, err := Alloc[Indexed8](heap, 3, 3)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(b.Pix()) != 9 {
		t.Fatalf("len(Pix()) = %d, want 9", len(b.Pix()))
	}
	if got := heap.Used(); got != 12 {
		t.Fatalf("Used() = %d, want 12", got)
	}
}

func TestAllocOverBudget(t *testing.T) {
	heap := NewHeap(100)
	b, err := Alloc[Direct16](heap, 10, 10)
	if !errors.Is(err, ErrAllocationFailed) {
		t.Fatalf("Alloc err = %v, want ErrAllocationFailed", err)
	}
	if b != nil {
		t.Fatal("expected no buffer on failure")
	}
	if heap.Used() != 0 {
		t.Fatalf("Used() = %d, want 0", heap.Used())
	}

	if _, err := Alloc[Direct16](heap, 70000, 1); !errors.Is(err, ErrAllocationFailed) {
		t.Fatalf("Alloc(70000x1) err = %v, want ErrAllocationFailed", err)
	}
}

func TestReleaseWhileLeased(t *testing.T) {
	heap := NewHeap(64)
	b, err := Alloc[Direct16](heap, 4, 4)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	b.Acquire()
	if err := b.Release(); !errors.Is(err, ErrBufferBusy) {
		t.Fatalf("Release() err = %v, want ErrBufferBusy", err)
	}
	if heap.Used() != 32 {
		t.Fatalf("Used() = %d, want 32 while leased", heap.Used())
	}
	b.Unlease()
	if err := b.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if heap.Used() != 0 {
		t.Fatalf("Used() = %d, want 0", heap.Used())
	}
	if err := b.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	// The budget is reusable once released.
	if _, err := Alloc[Direct16](heap, 4, 8); err != nil {
		t.Fatalf("Alloc after release: %v", err)
	}
}

func TestSetAtClipped(t *testing.T) {
	b, err := NewBuffer[Indexed8](4, 2)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	b.Set(3, 1, 9)
	b.Set(4, 1, 7)
	b.Set(-1, 0, 7)
	if got := b.At(3, 1); got != 9 {
		t.Fatalf("At(3,1) = %d, want 9", got)
	}
	if got := b.Pix()[7]; got != 9 {
		t.Fatalf("Pix()[7] = %d, want 9", got)
	}
	if got := b.At(4, 1); got != 0 {
		t.Fatalf("At(4,1) = %d, want 0", got)
	}
	b.Fill(3)
	for i, v := range b.Pix() {
		if v != 3 {
			t.Fatalf("Pix()[%d] = %d after Fill, want 3", i, v)
		}
	}
}

func TestBytesLittleEndian(t *testing.T) {
	b, err := NewBuffer[Direct16](2, 1)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	b.Set(0, 0, 0x1234)
	b.Set(1, 0, 0xABCD)
	want := []byte{0x34, 0x12, 0xCD, 0xAB}
	got := b.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes() = % x, want % x", got, want)
		}
	}
}
