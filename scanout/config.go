package scanout

import (
	"errors"
	"fmt"
	"strings"

	"picogfx/gfx"

	"tinygo.org/x/drivers"
)

var (
	// ErrNotInitialized is returned when presenting before Init.
	ErrNotInitialized = errors.New("scanout: not initialized")
	// ErrPeripheralClaim wraps the failure to claim the transfer channel or
	// the serializer.
	ErrPeripheralClaim = errors.New("scanout: peripheral claim failed")
	// ErrInvalidConfig is returned for configurations the pipeline cannot run.
	ErrInvalidConfig = errors.New("scanout: invalid configuration")
	// ErrFormatMismatch is returned when the surface format differs from the
	// configured depth.
	ErrFormatMismatch = errors.New("scanout: surface format mismatch")
	// ErrSizeMismatch is returned when the surface is not the screen size.
	ErrSizeMismatch = errors.New("scanout: surface size mismatch")
)

// Doubling selects real-time 2x upscaling during scanout.
type Doubling uint8

const (
	DoublingNone Doubling = iota
	// DoublingNearest repeats every pixel and every row.
	DoublingNearest
	// DoublingLinear interpolates between neighboring pixels and rows.
	// It needs Direct16 samples.
	DoublingLinear
)

func (d Doubling) String() string {
	switch d {
	case DoublingNone:
		return "none"
	case DoublingNearest:
		return "nearest"
	case DoublingLinear:
		return "linear"
	}
	return fmt.Sprintf("Doubling(%d)", uint8(d))
}

// ParseDoubling parses "none", "nearest" or "linear".
func ParseDoubling(s string) (Doubling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return DoublingNone, nil
	case "nearest":
		return DoublingNearest, nil
	case "linear":
		return DoublingLinear, nil
	}
	return 0, fmt.Errorf("%w: unknown doubling %q", ErrInvalidConfig, s)
}

// ParseRotation parses a rotation in degrees.
func ParseRotation(deg int) (drivers.Rotation, error) {
	switch deg {
	case 0:
		return drivers.Rotation0, nil
	case 90:
		return drivers.Rotation90, nil
	case 180:
		return drivers.Rotation180, nil
	case 270:
		return drivers.Rotation270, nil
	}
	return 0, fmt.Errorf("%w: rotation %d", ErrInvalidConfig, deg)
}

// ParseDepth parses a color depth in bits.
func ParseDepth(bits int) (gfx.Format, error) {
	switch bits {
	case 8:
		return gfx.FormatIndexed8, nil
	case 16:
		return gfx.FormatDirect16, nil
	}
	return 0, fmt.Errorf("%w: depth %d", ErrInvalidConfig, bits)
}

// DefaultClockHz is the default serializer output rate.
const DefaultClockHz = 120_000_000

// Config describes one scanout pipeline.
type Config struct {
	Depth    gfx.Format
	Doubling Doubling
	Rotation drivers.Rotation

	// PanelWidth and PanelHeight are the native (unrotated) panel size.
	// Zero takes the size reported by the controller at Init.
	PanelWidth, PanelHeight int

	ClockHz uint32

	// Heap backs the line buffers of linear doubling; nil uses
	// gfx.DefaultHeap.
	Heap *gfx.Heap
}

// DefaultConfig returns a 16-bit landscape configuration without doubling.
func DefaultConfig() Config {
	return Config{
		Depth:    gfx.FormatDirect16,
		Doubling: DoublingNone,
		Rotation: drivers.Rotation90,
		ClockHz:  DefaultClockHz,
	}
}

// Validate reports configuration errors. Zero panel dimensions are accepted
// and checked once the controller size is known.
func (c Config) Validate() error {
	switch c.Depth {
	case gfx.FormatIndexed8, gfx.FormatDirect16:
	default:
		return fmt.Errorf("%w: depth %v", ErrInvalidConfig, c.Depth)
	}
	switch c.Doubling {
	case DoublingNone, DoublingNearest, DoublingLinear:
	default:
		return fmt.Errorf("%w: doubling %v", ErrInvalidConfig, c.Doubling)
	}
	if c.Doubling == DoublingLinear && c.Depth != gfx.FormatDirect16 {
		return fmt.Errorf("%w: linear doubling needs 16-bit depth", ErrInvalidConfig)
	}
	switch c.Rotation {
	case drivers.Rotation0, drivers.Rotation90, drivers.Rotation180, drivers.Rotation270:
	default:
		return fmt.Errorf("%w: rotation %d", ErrInvalidConfig, c.Rotation)
	}
	if c.ClockHz == 0 {
		return fmt.Errorf("%w: zero transfer clock", ErrInvalidConfig)
	}
	if c.PanelWidth < 0 || c.PanelHeight < 0 || c.PanelWidth > gfx.MaxDimension || c.PanelHeight > gfx.MaxDimension {
		return fmt.Errorf("%w: panel %dx%d", ErrInvalidConfig, c.PanelWidth, c.PanelHeight)
	}
	if c.Doubling != DoublingNone && (c.PanelWidth%2 != 0 || c.PanelHeight%2 != 0) {
		return fmt.Errorf("%w: panel %dx%d cannot be doubled", ErrInvalidConfig, c.PanelWidth, c.PanelHeight)
	}
	return nil
}

// OutputSize returns the panel size in scan orientation.
func (c Config) OutputSize() (w, h int) {
	if c.Rotation == drivers.Rotation90 || c.Rotation == drivers.Rotation270 {
		return c.PanelHeight, c.PanelWidth
	}
	return c.PanelWidth, c.PanelHeight
}

// ScreenSize returns the size of the buffers Present accepts.
func (c Config) ScreenSize() (w, h int) {
	w, h = c.OutputSize()
	if c.Doubling != DoublingNone {
		w, h = w/2, h/2
	}
	return w, h
}
