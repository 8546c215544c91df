package scanout

import (
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"

	"picogfx/gfx"
	"picogfx/hal"
)

const (
	stateIdle int32 = iota
	stateArmed
	stateTransmitting
)

// Stats counts frames and transfers since Init.
type Stats struct {
	Frames    uint64 // frames fully transmitted
	Transfers uint64 // transfers issued
	Errors    uint64 // frames aborted by a failed transfer
}

// Engine drives one panel.
type Engine struct {
	cfg  Config
	disp hal.Display
	log  hal.Logger

	ctrl hal.Controller
	ser  hal.Serializer
	ch   hal.DMAChannel

	palette gfx.Palette
	ready   bool
	sw, sh  int // screen size
	ow, oh  int // output size

	state atomic.Int32

	// Session. Written by Present while armed, then only by the handler.
	src    gfx.Surface
	data   []byte
	row    int
	repeat bool
	lin    *linear

	frames    atomic.Uint64
	transfers atomic.Uint64
	errs      atomic.Uint64
}

// New returns an engine for display. Nothing is claimed until Init. A nil
// logger discards lifecycle lines.
func New(cfg Config, display hal.Display, logger hal.Logger) *Engine {
	if logger == nil {
		logger = nopLogger{}
	}
	e := &Engine{cfg: cfg, disp: display, log: logger}
	e.palette.Reset()
	return e
}

// Config returns the engine's configuration. Panel dimensions are filled in
// after Init.
func (e *Engine) Config() Config { return e.cfg }

// ScreenSize returns the size of the buffers Present accepts.
func (e *Engine) ScreenSize() (w, h int) { return e.sw, e.sh }

// Palette returns the 8-bit lookup table. Changes apply from the next
// Present.
func (e *Engine) Palette() *gfx.Palette { return &e.palette }

// Init claims the serializer and a transfer channel, brings up the panel and
// programs the pipeline. Calling Init again is a no-op.
func (e *Engine) Init() error {
	if e.ready {
		return nil
	}
	e.ctrl = e.disp.Controller()
	if e.cfg.PanelWidth == 0 || e.cfg.PanelHeight == 0 {
		e.cfg.PanelWidth, e.cfg.PanelHeight = e.ctrl.Size()
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	e.ow, e.oh = e.cfg.OutputSize()
	e.sw, e.sh = e.cfg.ScreenSize()
	if e.sw == 0 || e.sh == 0 {
		return fmt.Errorf("%w: empty screen", ErrInvalidConfig)
	}

	ser := e.disp.Serializer()
	if err := ser.Claim(); err != nil {
		return fmt.Errorf("%w: serializer: %w", ErrPeripheralClaim, err)
	}
	ch, err := e.disp.DMA().Claim()
	if err != nil {
		ser.Release()
		return fmt.Errorf("%w: dma: %w", ErrPeripheralClaim, err)
	}
	fail := func(err error) error {
		ch.Release()
		ser.Release()
		return err
	}

	if e.cfg.Doubling == DoublingLinear {
		lin, err := newLinear(e.cfg.Heap, e.sw)
		if err != nil {
			return fail(err)
		}
		e.lin = lin
	}

	dc := hal.DMAConfig{UnitBits: 16, ByteSwap: true, Trigger: hal.TriggerSerializer}
	if e.cfg.Depth == gfx.FormatIndexed8 {
		dc = hal.DMAConfig{UnitBits: 8, Trigger: hal.TriggerSerializer}
	}
	if err := ch.Configure(dc); err != nil {
		e.freeLinear()
		return fail(err)
	}
	ch.SetHandler(e.complete)

	if err := e.ctrl.Init(); err != nil {
		e.freeLinear()
		return fail(fmt.Errorf("scanout: panel init: %w", err))
	}
	if err := e.ctrl.SetRotation(e.cfg.Rotation); err != nil {
		e.freeLinear()
		return fail(fmt.Errorf("scanout: rotation: %w", err))
	}
	e.ctrl.SetTearing(true)

	ser.SetPixelDoubling(e.cfg.Doubling == DoublingNearest)
	if e.cfg.Depth == gfx.FormatIndexed8 {
		ser.LoadPalette((*[256]uint16)(&e.palette))
	}
	e.ser, e.ch = ser, ch
	e.ready = true
	e.frames.Store(0)
	e.transfers.Store(0)
	e.errs.Store(0)

	e.log.WriteLineString("scanout: init depth=" + strconv.Itoa(e.cfg.Depth.Bits()) +
		" doubling=" + e.cfg.Doubling.String() +
		" rotation=" + strconv.Itoa(int(e.cfg.Rotation)*90) +
		" screen=" + strconv.Itoa(e.sw) + "x" + strconv.Itoa(e.sh))
	return e.SetTransferClock(e.cfg.ClockHz)
}

// SetTransferClock sets the serializer output rate.
func (e *Engine) SetTransferClock(hz uint32) error {
	if hz == 0 {
		return fmt.Errorf("%w: zero transfer clock", ErrInvalidConfig)
	}
	e.cfg.ClockHz = hz
	if !e.ready {
		return ErrNotInitialized
	}
	src := e.ser.SourceClockHz()
	whole, frac := ClockDivider(src, hz)
	e.ser.SetClockDivider(whole, frac)
	e.log.WriteLineString("scanout: clock " + strconv.FormatUint(uint64(hz), 10) +
		"Hz div=" + strconv.Itoa(int(whole)) + "+" + strconv.Itoa(int(frac)) + "/256")
	return nil
}

// SetBacklight sets the panel brightness, clamped to 0..100.
func (e *Engine) SetBacklight(level int) {
	bl := e.disp.Backlight()
	if bl == nil {
		return
	}
	bl.SetLevel(uint8(max(0, min(level, 100))))
}

// VBlank reports whether the panel is in vertical blank.
func (e *Engine) VBlank() bool {
	if !e.ready {
		return false
	}
	return e.ctrl.VBlank()
}

// Busy reports whether a frame is in flight.
func (e *Engine) Busy() bool { return e.state.Load() != stateIdle }

// WaitReady blocks until no frame is in flight.
func (e *Engine) WaitReady() {
	for e.state.Load() != stateIdle {
		runtime.Gosched()
	}
}

// Stats returns the frame and transfer counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Frames:    e.frames.Load(),
		Transfers: e.transfers.Load(),
		Errors:    e.errs.Load(),
	}
}

// Present starts transmitting buf. It waits for the previous frame, leases
// buf for the duration of the transfer and returns once the first transfer
// has been issued.
func (e *Engine) Present(buf gfx.Surface) error {
	if !e.ready {
		return ErrNotInitialized
	}
	if buf.Format() != e.cfg.Depth {
		return fmt.Errorf("%w: got %v, want %v", ErrFormatMismatch, buf.Format(), e.cfg.Depth)
	}
	if buf.Width() != e.sw || buf.Height() != e.sh {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, buf.Width(), buf.Height(), e.sw, e.sh)
	}

	for !e.state.CompareAndSwap(stateIdle, stateArmed) {
		runtime.Gosched()
	}

	buf.Acquire()
	if e.cfg.Depth == gfx.FormatIndexed8 {
		e.ser.LoadPalette((*[256]uint16)(&e.palette))
	}
	e.ctrl.SetAddressWindow(0, 0, uint16(e.ow-1), uint16(e.oh-1))

	e.src = buf
	e.data = buf.Bytes()
	e.row = 0

	var (
		first []byte
		units int
	)
	switch e.cfg.Doubling {
	case DoublingNone:
		first, units = e.data, e.sw*e.sh
	case DoublingNearest:
		e.repeat = true
		first, units = e.rowBytes(0), e.sw
	case DoublingLinear:
		e.lin.begin(e.data, e.sw, e.sh)
		first, units = e.lin.last.Bytes(), 2*e.sw
	}

	e.state.Store(stateTransmitting)
	e.transfers.Add(1)
	if err := e.ch.Start(first, units); err != nil {
		e.transfers.Add(^uint64(0))
		e.src = nil
		e.data = nil
		buf.Unlease()
		e.state.Store(stateIdle)
		return fmt.Errorf("scanout: start: %w", err)
	}
	return nil
}

// Close waits for the frame in flight and releases the peripherals.
func (e *Engine) Close() error {
	if !e.ready {
		return nil
	}
	e.WaitReady()
	e.ch.SetHandler(nil)
	e.ch.Release()
	e.ser.Release()
	e.freeLinear()
	e.ready = false
	e.log.WriteLineString("scanout: close")
	return nil
}

func (e *Engine) rowBytes(y int) []byte {
	n := e.sw * e.cfg.Depth.BytesPerPixel()
	return e.data[y*n : (y+1)*n]
}

// complete runs in the transfer's completion context.
func (e *Engine) complete() {
	if e.state.Load() != stateTransmitting {
		return
	}
	if err := e.ch.Err(); err != nil {
		e.errs.Add(1)
		e.finish(false)
		return
	}

	var (
		next  []byte
		units int
	)
	switch e.cfg.Doubling {
	case DoublingNearest:
		if e.repeat {
			e.repeat = false
			next, units = e.rowBytes(e.row), e.sw
			break
		}
		e.row++
		if e.row < e.sh {
			e.repeat = true
			next, units = e.rowBytes(e.row), e.sw
		}
	case DoublingLinear:
		if b := e.lin.advance(); b != nil {
			next, units = b, 2*e.sw
		}
	}

	if next == nil {
		e.finish(true)
		return
	}
	e.transfers.Add(1)
	if err := e.ch.Start(next, units); err != nil {
		e.transfers.Add(^uint64(0))
		e.errs.Add(1)
		e.finish(false)
	}
}

// finish ends the frame. Only frames that went out in full are counted.
func (e *Engine) finish(sent bool) {
	src := e.src
	e.src = nil
	e.data = nil
	if sent {
		e.frames.Add(1)
	}
	if src != nil {
		src.Unlease()
	}
	e.state.Store(stateIdle)
}

func (e *Engine) freeLinear() {
	if e.lin != nil {
		e.lin.release()
		e.lin = nil
	}
}

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}
func (nopLogger) WriteLineBytes([]byte)  {}
