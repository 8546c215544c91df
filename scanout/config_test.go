package scanout

import (
	"errors"
	"testing"

	"picogfx/gfx"

	"tinygo.org/x/drivers"
)

func TestConfigValidate(t *testing.T) {
	base := DefaultConfig()
	base.PanelWidth, base.PanelHeight = 240, 320

	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"nearest8", func(c *Config) { c.Depth = gfx.FormatIndexed8; c.Doubling = DoublingNearest }, true},
		{"linear16", func(c *Config) { c.Doubling = DoublingLinear }, true},
		{"unknown panel size", func(c *Config) { c.PanelWidth, c.PanelHeight = 0, 0 }, true},
		{"linear8", func(c *Config) { c.Depth = gfx.FormatIndexed8; c.Doubling = DoublingLinear }, false},
		{"bad rotation", func(c *Config) { c.Rotation = 7 }, false},
		{"zero clock", func(c *Config) { c.ClockHz = 0 }, false},
		{"bad depth", func(c *Config) { c.Depth = 0 }, false},
		{"odd doubled", func(c *Config) { c.PanelWidth = 241; c.Doubling = DoublingNearest }, false},
		{"odd plain", func(c *Config) { c.PanelWidth = 241 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.modify(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestScreenSize(t *testing.T) {
	tests := []struct {
		rot          drivers.Rotation
		dbl          Doubling
		wantW, wantH int
	}{
		{drivers.Rotation0, DoublingNone, 240, 320},
		{drivers.Rotation90, DoublingNone, 320, 240},
		{drivers.Rotation180, DoublingNearest, 120, 160},
		{drivers.Rotation270, DoublingLinear, 160, 120},
	}
	for _, tt := range tests {
		c := Config{Rotation: tt.rot, Doubling: tt.dbl, PanelWidth: 240, PanelHeight: 320}
		if w, h := c.ScreenSize(); w != tt.wantW || h != tt.wantH {
			t.Fatalf("ScreenSize(%d, %v) = %dx%d, want %dx%d", tt.rot, tt.dbl, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestParse(t *testing.T) {
	if d, err := ParseDoubling("Linear"); err != nil || d != DoublingLinear {
		t.Fatalf("ParseDoubling(Linear) = %v, %v", d, err)
	}
	if _, err := ParseDoubling("bicubic"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ParseDoubling(bicubic) = %v, want ErrInvalidConfig", err)
	}
	if r, err := ParseRotation(270); err != nil || r != drivers.Rotation270 {
		t.Fatalf("ParseRotation(270) = %v, %v", r, err)
	}
	if _, err := ParseRotation(45); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ParseRotation(45) = %v, want ErrInvalidConfig", err)
	}
	if f, err := ParseDepth(8); err != nil || f != gfx.FormatIndexed8 {
		t.Fatalf("ParseDepth(8) = %v, %v", f, err)
	}
	if _, err := ParseDepth(24); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ParseDepth(24) = %v, want ErrInvalidConfig", err)
	}
}

func TestClockDivider(t *testing.T) {
	tests := []struct {
		src, hz uint32
		whole   uint16
		frac    uint8
	}{
		{125_000_000, 120_000_000, 1, 10},
		{125_000_000, 62_500_000, 2, 0},
		{125_000_000, 200_000_000, 1, 0},
		{125_000_000, 1_000_000, 125, 0},
		{125_000_000, 1000, 0xFFFF, 0},
		{120_000_000, 0, 0xFFFF, 0},
	}
	for _, tt := range tests {
		whole, frac := ClockDivider(tt.src, tt.hz)
		if whole != tt.whole || frac != tt.frac {
			t.Fatalf("ClockDivider(%d, %d) = %d+%d/256, want %d+%d/256", tt.src, tt.hz, whole, frac, tt.whole, tt.frac)
		}
	}
}
