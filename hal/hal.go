package hal

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoChannel is returned when no transfer channel or state machine is
	// free to claim.
	ErrNoChannel = errors.New("no free channel")
	// ErrChannelBusy is returned when a transfer is started while the
	// previous one is still running.
	ErrChannelBusy = errors.New("channel busy")
	// ErrNotClaimed is reported for a transfer fed to a serializer that
	// has not been claimed.
	ErrNotClaimed = errors.New("serializer not claimed")
)

// Controller is the panel's command interface.
type Controller interface {
	Init() error
	Size() (w, h int)
	SetRotation(r drivers.Rotation) error
	// SetAddressWindow selects the inclusive rectangle subsequent pixel data
	// fills, row by row.
	SetAddressWindow(x1, y1, x2, y2 uint16)
	SetTearing(on bool)
	// VBlank reports whether the panel is in vertical blank. It is false
	// while tearing output is disabled.
	VBlank() bool
}

// Trigger paces a transfer.
type Trigger uint8

const (
	// TriggerSerializer paces units on the serializer's FIFO requests.
	TriggerSerializer Trigger = iota
	// TriggerUnpaced runs the transfer as fast as memory allows.
	TriggerUnpaced
)

// DMAConfig describes how a channel moves data.
type DMAConfig struct {
	UnitBits uint8 // 8 or 16
	ByteSwap bool  // swap the bytes of each 16-bit unit
	Trigger  Trigger
}

// DMA hands out transfer channels.
type DMA interface {
	Claim() (DMAChannel, error)
}

// DMAChannel is one asynchronous transfer engine.
type DMAChannel interface {
	Configure(cfg DMAConfig) error
	// Start transfers units units from src. src must stay untouched until
	// the completion handler runs.
	Start(src []byte, units int) error
	Busy() bool
	// Err reports why the last completed transfer did not reach the bus in
	// full, or nil. It is valid inside the completion handler and is
	// cleared by Start.
	Err() error
	// SetHandler installs the completion handler. It runs in interrupt
	// context, never concurrently with itself.
	SetHandler(fn func())
	Release()
}

// Serializer clocks pixel data out to the panel bus.
type Serializer interface {
	Claim() error
	SourceClockHz() uint32
	SetClockDivider(whole uint16, frac uint8)
	// SetPixelDoubling makes every pixel go out twice.
	SetPixelDoubling(on bool)
	// LoadPalette sets the lookup table used for 8-bit units.
	LoadPalette(p *[256]uint16)
	Release()
}

// Backlight dims the panel.
type Backlight interface {
	// SetLevel sets the brightness, 0 (off) to 100.
	SetLevel(level uint8)
}

// Display groups the peripherals that make up one panel.
type Display interface {
	Controller() Controller
	DMA() DMA
	Serializer() Serializer
	Backlight() Backlight
}

// HAL provides the only contact point between the graphics stack and the
// outside world.
type HAL interface {
	Logger() Logger
	Display() Display
}
