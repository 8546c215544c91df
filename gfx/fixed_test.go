package gfx

import "testing"

func TestFixedConversions(t *testing.T) {
	if got := FixedFromFloat(1.5); got != 98304 {
		t.Fatalf("FixedFromFloat(1.5) = %d, want 98304", got)
	}
	if got := FixedFromFloat(-1.5); got != -98304 {
		t.Fatalf("FixedFromFloat(-1.5) = %d, want -98304", got)
	}
	if got := FixedFromFloat(1.0 / 3); got != 21845 {
		t.Fatalf("FixedFromFloat(1/3) = %d, want 21845", got)
	}
	if got := FixedFromInt(-3); got != -3*One {
		t.Fatalf("FixedFromInt(-3) = %d, want %d", got, -3*One)
	}
	if got := FixedFromFloat(-1.5).Int(); got != -2 {
		t.Fatalf("Int() = %d, want -2", got)
	}
	if got := FixedFromFloat(2.25).Float(); got != 2.25 {
		t.Fatalf("Float() = %v, want 2.25", got)
	}
	if got := FixedFromFloat(1.5).Mul(FixedFromFloat(2.5)); got != FixedFromFloat(3.75) {
		t.Fatalf("Mul = %d, want %d", got, FixedFromFloat(3.75))
	}
}

func TestFixedMaskedWraps(t *testing.T) {
	if got := FixedFromInt(-1).Masked(7); got != 7 {
		t.Fatalf("Masked(-1, 7) = %d, want 7", got)
	}
	if got := FixedFromInt(9).Masked(7); got != 1 {
		t.Fatalf("Masked(9, 7) = %d, want 1", got)
	}
	if got := Fixed(0x7FFF0000).Scale(2); got != Fixed(-0x20000) {
		t.Fatalf("Scale overflow = %#x, want wrap to %#x", int32(got), int32(-0x20000))
	}
}

func TestAddrGen(t *testing.T) {
	g := newAddrGen(4, 2)
	g.seek(FixedFromInt(3), FixedFromInt(1), One, One/2)
	want := []int{7, 4, 1, 2}
	for i, w := range want {
		if got := g.next(); got != w {
			t.Fatalf("next() #%d = %d, want %d", i, got, w)
		}
	}
	g.skip(2)
	if got := g.index(); got != 1 {
		t.Fatalf("index() after skip = %d, want 1", got)
	}
}
