package scanout

// ClockDivider splits src/hz into the serializer's 16.8 clock divider. A
// request faster than the source clamps to 1 with no fraction; one slower
// than the divider can express clamps to the slowest divider.
func ClockDivider(src, hz uint32) (whole uint16, frac uint8) {
	if hz == 0 {
		return 0xFFFF, 0
	}
	div := src / hz
	if div == 0 {
		return 1, 0
	}
	if div > 0xFFFF {
		return 0xFFFF, 0
	}
	rem := uint64(src - div*hz)
	return uint16(div), uint8(rem * 256 / uint64(hz))
}
