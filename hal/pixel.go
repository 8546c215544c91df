package hal

// shade565 expands an RGB565 GRAM value to 8-bit channels dimmed to level
// percent of full brightness.
func shade565(p uint16, level uint8) (r, g, b uint8) {
	l := uint32(min(level, 100))
	r5, g6, b5 := uint32(p>>11), uint32(p>>5&0x3F), uint32(p&0x1F)
	r = uint8((r5<<3 | r5>>2) * l / 100)
	g = uint8((g6<<2 | g6>>4) * l / 100)
	b = uint8((b5<<3 | b5>>2) * l / 100)
	return r, g, b
}
