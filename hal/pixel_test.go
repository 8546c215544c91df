package hal

import "testing"

func TestShade565(t *testing.T) {
	tests := []struct {
		p       uint16
		level   uint8
		r, g, b uint8
	}{
		{0xFFFF, 100, 0xFF, 0xFF, 0xFF},
		{0xF800, 100, 0xFF, 0, 0},
		{0x07E0, 100, 0, 0xFF, 0},
		{0xFFFF, 50, 127, 127, 127},
		{0xFFFF, 0, 0, 0, 0},
		{0x001F, 200, 0, 0, 0xFF},
	}
	for _, tt := range tests {
		r, g, b := shade565(tt.p, tt.level)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("shade565(%#x, %d) = %d,%d,%d, want %d,%d,%d", tt.p, tt.level, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
