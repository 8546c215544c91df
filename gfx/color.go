package gfx

import "image/color"

// RGB565 packs 5/6/5-bit channel values.
func RGB565(r, g, b uint8) Direct16 {
	return Direct16(uint16(r&0x1F)<<11 | uint16(g&0x3F)<<5 | uint16(b&0x1F))
}

// RGB332 packs 3/3/2-bit channel values.
func RGB332(r, g, b uint8) Indexed8 {
	return Indexed8((r&7)<<5 | (g&7)<<2 | b&3)
}

// RGB888To565 reduces a truecolor value to RGB565.
func RGB888To565(r, g, b uint8) Direct16 {
	return Direct16(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// RGB888To332 reduces a truecolor value to RGB332.
func RGB888To332(r, g, b uint8) Indexed8 {
	return Indexed8(r&0xE0 | (g&0xE0)>>3 | (b&0xC0)>>6)
}

// Channels splits an RGB565 sample into its 5/6/5-bit channel values.
func (c Direct16) Channels() (r, g, b uint8) {
	return uint8(c >> 11), uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// RGBA implements color.Color.
func (c Direct16) RGBA() (r, g, b, a uint32) {
	cr, cg, cb := c.Channels()
	r = uint32(cr) * 0xFFFF / 31
	g = uint32(cg) * 0xFFFF / 63
	b = uint32(cb) * 0xFFFF / 31
	return r, g, b, 0xFFFF
}

// Channels splits an RGB332 sample into its 3/3/2-bit channel values.
func (c Indexed8) Channels() (r, g, b uint8) {
	return uint8(c) >> 5, uint8(c) >> 2 & 7, uint8(c) & 3
}

// RGBA implements color.Color using the packed 3:3:2 interpretation.
func (c Indexed8) RGBA() (r, g, b, a uint32) {
	cr, cg, cb := c.Channels()
	r = uint32(cr) * 0xFFFF / 7
	g = uint32(cg) * 0xFFFF / 7
	b = uint32(cb) * 0xFFFF / 3
	return r, g, b, 0xFFFF
}

// Average returns the per-channel mean of two RGB565 samples, rounding down.
func Average(a, b Direct16) Direct16 {
	ar, ag, ab := a.Channels()
	br, bg, bb := b.Channels()
	return RGB565((ar+br)>>1, (ag+bg)>>1, (ab+bb)>>1)
}

// Direct16Model converts any color to RGB565.
var Direct16Model = color.ModelFunc(func(c color.Color) color.Color {
	if d, ok := c.(Direct16); ok {
		return d
	}
	r, g, b, _ := c.RGBA()
	return RGB888To565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})

// Indexed8Model converts any color to packed RGB332.
var Indexed8Model = color.ModelFunc(func(c color.Color) color.Color {
	if i, ok := c.(Indexed8); ok {
		return i
	}
	r, g, b, _ := c.RGBA()
	return RGB888To332(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})

// Palette maps 8-bit samples to RGB565 for scanout.
type Palette [256]uint16

// StdPalette returns the standard ramp: index bits rrrgggbb expanded so that
// every 3:3:2 sample shows its packed color.
func StdPalette() Palette {
	var p Palette
	p.Reset()
	return p
}

// Reset restores the standard ramp.
func (p *Palette) Reset() {
	i := 0
	for r := 0; r < 8; r++ {
		for g := 0; g < 8; g++ {
			for b := 0; b < 4; b++ {
				p[i] = uint16(RGB565(uint8(min(r*5, 31)), uint8(g*9), uint8(min(b*11, 31))))
				i++
			}
		}
	}
}

// Lookup returns the RGB565 color of sample c.
func (p *Palette) Lookup(c Indexed8) Direct16 { return Direct16(p[c]) }
