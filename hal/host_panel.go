//go:build !tinygo

package hal

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// SimOptions configures a simulated panel.
type SimOptions struct {
	Width, Height int    // native portrait size, default 240x320
	SourceClockHz uint32 // serializer source clock, default 125 MHz
	FrameRate     int    // tearing signal rate, default 60
	Channels      int    // DMA channels that can be claimed, default 4
	// TransferDelay is how long each transfer takes before completing.
	TransferDelay time.Duration
	// Sleep replaces time.Sleep during controller reset delays.
	Sleep func(time.Duration)
}

// SimStats counts what a simulated panel has seen.
type SimStats struct {
	Transfers uint64 // transfers completed
	Overlaps  uint64 // Start calls rejected because a transfer was running
	Pixels    uint64 // pixels written to GRAM
}

// SimPanel is a host model of the panel, transfer engine, serializer and
// backlight. Pixel data lands in a GRAM that can be inspected or shown in a
// window.
type SimPanel struct {
	opts SimOptions
	bus  *simBus
	ctrl *st7789
	dma  *simDMA
	ser  *simSerializer
	bl   simBacklight
	rst  *virtualPin
}

// NewSimPanel returns a simulated panel.
func NewSimPanel(opts SimOptions) *SimPanel {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 240, 320
	}
	if opts.SourceClockHz == 0 {
		opts.SourceClockHz = 125_000_000
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	if opts.Channels <= 0 {
		opts.Channels = 4
	}
	if opts.Sleep == nil {
		opts.Sleep = func(time.Duration) {}
	}

	period := time.Second / time.Duration(opts.FrameRate)
	te := newTearPin("TE", period, period/16)
	bus := newSimBus(opts.Width, opts.Height, te)
	rst := newVirtualPin("RST", GPIOCapOutput)
	ctrl := newST7789(bus, rst, te, opts.Width, opts.Height)
	ctrl.sleep = opts.Sleep

	p := &SimPanel{opts: opts, bus: bus, ctrl: ctrl, rst: rst}
	p.ser = &simSerializer{srcHz: opts.SourceClockHz, enc: newStreamEncoder(4096), bus: bus}
	p.dma = &simDMA{panel: p, free: opts.Channels}
	return p
}

func (p *SimPanel) Controller() Controller { return p.ctrl }
func (p *SimPanel) DMA() DMA               { return p.dma }
func (p *SimPanel) Serializer() Serializer { return p.ser }
func (p *SimPanel) Backlight() Backlight   { return &p.bl }

// Snapshot copies the GRAM in the current scan orientation into dst (grown
// as needed) and returns it with its dimensions.
func (p *SimPanel) Snapshot(dst []uint16) (pix []uint16, w, h int) {
	return p.bus.snapshot(dst)
}

// Stats returns the transfer counters.
func (p *SimPanel) Stats() SimStats {
	return SimStats{
		Transfers: p.dma.transfers.Load(),
		Overlaps:  p.dma.overlaps.Load(),
		Pixels:    p.bus.pixels.Load(),
	}
}

// BacklightLevel returns the last level set, 0..100.
func (p *SimPanel) BacklightLevel() uint8 { return uint8(p.bl.level.Load()) }

// ClockDivider returns the serializer's divider.
func (p *SimPanel) ClockDivider() (whole uint16, frac uint8) {
	p.ser.mu.Lock()
	defer p.ser.mu.Unlock()
	return p.ser.whole, p.ser.frac
}

// PixelDoubling reports whether the serializer doubles pixels.
func (p *SimPanel) PixelDoubling() bool {
	p.ser.mu.Lock()
	defer p.ser.mu.Unlock()
	return p.ser.enc.double
}

// simBus decodes controller commands and latches pixel data into GRAM.
type simBus struct {
	mu     sync.Mutex
	w, h   int // native
	madctl byte
	gram   []uint16
	x1, y1 int
	x2, y2 int
	cx, cy int
	te     *tearPin
	pixels atomic.Uint64
	hi     int // buffered high byte, -1 when none
}

func newSimBus(w, h int, te *tearPin) *simBus {
	return &simBus{w: w, h: h, gram: make([]uint16, w*h), x2: w - 1, y2: h - 1, te: te, hi: -1}
}

// dims returns the GRAM size as addressed under the current MADCTL.
func (b *simBus) dims() (w, h int) {
	if b.madctl&madctlMV != 0 {
		return b.h, b.w
	}
	return b.w, b.h
}

func (b *simBus) command(cmd byte, data ...byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch cmd {
	case cmdCASET:
		if len(data) == 4 {
			b.x1 = int(binary.BigEndian.Uint16(data[0:2]))
			b.x2 = int(binary.BigEndian.Uint16(data[2:4]))
		}
	case cmdPASET:
		if len(data) == 4 {
			b.y1 = int(binary.BigEndian.Uint16(data[0:2]))
			b.y2 = int(binary.BigEndian.Uint16(data[2:4]))
		}
	case cmdRAMWR:
		b.cx, b.cy = b.x1, b.y1
		b.hi = -1
	case cmdMADCTL:
		if len(data) == 1 {
			b.madctl = data[0]
		}
	case cmdTEON:
		b.te.setEnabled(true)
	case cmdTEOFF:
		b.te.setEnabled(false)
	}
}

// write latches big-endian RGB565 pixel bytes at the write cursor.
func (b *simBus) write(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, h := b.dims()
	var n uint64
	for _, v := range p {
		if b.hi < 0 {
			b.hi = int(v)
			continue
		}
		c := uint16(b.hi)<<8 | uint16(v)
		b.hi = -1
		if b.cx < w && b.cy < h {
			b.gram[b.cy*w+b.cx] = c
		}
		n++
		b.cx++
		if b.cx > b.x2 {
			b.cx = b.x1
			b.cy++
			if b.cy > b.y2 {
				b.cy = b.y1
			}
		}
	}
	b.pixels.Add(n)
}

func (b *simBus) snapshot(dst []uint16) ([]uint16, int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, h := b.dims()
	if cap(dst) < len(b.gram) {
		dst = make([]uint16, len(b.gram))
	}
	dst = dst[:len(b.gram)]
	copy(dst, b.gram)
	return dst, w, h
}

type simSerializer struct {
	mu      sync.Mutex
	claimed bool
	srcHz   uint32
	whole   uint16
	frac    uint8
	enc     *streamEncoder
	bus     *simBus
}

func (s *simSerializer) Claim() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed {
		return fmt.Errorf("serializer: %w", ErrNoChannel)
	}
	s.claimed = true
	s.whole, s.frac = 1, 0
	return nil
}

func (s *simSerializer) SourceClockHz() uint32 { return s.srcHz }

func (s *simSerializer) SetClockDivider(whole uint16, frac uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whole, s.frac = whole, frac
}

func (s *simSerializer) SetPixelDoubling(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enc.double = on
}

func (s *simSerializer) LoadPalette(p *[256]uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enc.palette = *p
}

func (s *simSerializer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claimed = false
	s.enc.double = false
}

// feed pushes one transfer's units through the serializer onto the bus.
// Data sent to an unclaimed serializer is lost.
func (s *simSerializer) feed(cfg DMAConfig, src []byte, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimed {
		return fmt.Errorf("serializer: %w", ErrNotClaimed)
	}
	s.enc.unitBits = cfg.UnitBits
	s.enc.byteSwap = cfg.ByteSwap
	return s.enc.encode(src, units, func(b []byte) error {
		s.bus.write(b)
		return nil
	})
}

type simDMA struct {
	mu        sync.Mutex
	panel     *SimPanel
	free      int
	transfers atomic.Uint64
	overlaps  atomic.Uint64
}

func (d *simDMA) Claim() (DMAChannel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.free == 0 {
		return nil, fmt.Errorf("dma: %w", ErrNoChannel)
	}
	d.free--
	ch := &simChannel{dma: d, cfg: DMAConfig{UnitBits: 16}, jobs: make(chan simJob, 1), done: make(chan struct{})}
	go ch.run()
	return ch, nil
}

type simJob struct {
	cfg   DMAConfig
	src   []byte
	units int
}

// simChannel completes transfers on its own goroutine, which plays the part
// of the DMA interrupt.
type simChannel struct {
	dma     *simDMA
	mu      sync.Mutex
	cfg     DMAConfig
	handler func()
	err     error
	busy    atomic.Bool
	jobs    chan simJob
	done    chan struct{}
	closed  bool
}

func (c *simChannel) Configure(cfg DMAConfig) error {
	if cfg.UnitBits != 8 && cfg.UnitBits != 16 {
		return fmt.Errorf("dma: invalid unit size %d", cfg.UnitBits)
	}
	if c.busy.Load() {
		return fmt.Errorf("dma: %w", ErrChannelBusy)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	return nil
}

func (c *simChannel) Start(src []byte, units int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("dma: channel released")
	}
	if !c.busy.CompareAndSwap(false, true) {
		c.dma.overlaps.Add(1)
		return fmt.Errorf("dma: %w", ErrChannelBusy)
	}
	c.err = nil
	c.jobs <- simJob{cfg: c.cfg, src: src, units: units}
	return nil
}

func (c *simChannel) Busy() bool { return c.busy.Load() }

func (c *simChannel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *simChannel) SetHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = fn
}

func (c *simChannel) Release() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.jobs)
	c.mu.Unlock()
	<-c.done

	c.dma.mu.Lock()
	c.dma.free++
	c.dma.mu.Unlock()
}

func (c *simChannel) run() {
	defer close(c.done)
	for job := range c.jobs {
		if d := c.dma.panel.opts.TransferDelay; d > 0 {
			time.Sleep(d)
		}
		err := c.dma.panel.ser.feed(job.cfg, job.src, job.units)
		c.dma.transfers.Add(1)

		c.mu.Lock()
		c.err = err
		fn := c.handler
		c.mu.Unlock()
		c.busy.Store(false)
		if fn != nil {
			fn()
		}
	}
}

type simBacklight struct {
	level atomic.Uint32
}

func (b *simBacklight) SetLevel(level uint8) {
	b.level.Store(uint32(min(level, 100)))
}
