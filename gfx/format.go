package gfx

import "unsafe"

// Indexed8 is an 8-bit sample: packed RGB332 or an index into a Palette.
type Indexed8 uint8

// Direct16 is a 16-bit RGB565 sample: rrrrrggggggbbbbb.
type Direct16 uint16

// Sample is the set of supported pixel sample types.
type Sample interface {
	Indexed8 | Direct16
}

// Format identifies the sample encoding of a buffer.
type Format uint8

const (
	FormatIndexed8 Format = iota + 1
	FormatDirect16
)

// BytesPerPixel returns the sample size in bytes (0 for an unknown format).
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatIndexed8:
		return 1
	case FormatDirect16:
		return 2
	}
	return 0
}

// Bits returns the color depth in bits.
func (f Format) Bits() int { return f.BytesPerPixel() * 8 }

func (f Format) String() string {
	switch f {
	case FormatIndexed8:
		return "indexed8"
	case FormatDirect16:
		return "direct16"
	}
	return "unknown"
}

// FormatOf returns the Format matching the sample type T.
func FormatOf[T Sample]() Format {
	var zero T
	switch any(zero).(type) {
	case Indexed8:
		return FormatIndexed8
	default:
		return FormatDirect16
	}
}

func sampleSize[T Sample]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Alpha selects the transparent sample of a blit. It holds either NoAlpha or
// a sample value converted with Key.
type Alpha int32

// NoAlpha disables chroma keying: every source sample is drawn.
const NoAlpha Alpha = -1

// Key returns the Alpha that makes samples equal to c transparent.
func Key[T Sample](c T) Alpha { return Alpha(c) }
