//go:build tinygo && baremetal

package hal

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// goroutineDMA runs transfers on a worker goroutine per channel that hands
// each one to the PIO serializer and then invokes the completion handler,
// like the DMA IRQ.
type goroutineDMA struct {
	mu   sync.Mutex
	ser  *pioSerializer
	free int
}

func (d *goroutineDMA) Claim() (DMAChannel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.free == 0 {
		return nil, fmt.Errorf("dma: %w", ErrNoChannel)
	}
	d.free--
	c := &goroutineChannel{dma: d, cfg: DMAConfig{UnitBits: 16}, jobs: make(chan transfer, 1), done: make(chan struct{})}
	go c.run()
	return c, nil
}

type transfer struct {
	cfg   DMAConfig
	src   []byte
	units int
}

type goroutineChannel struct {
	dma     *goroutineDMA
	mu      sync.Mutex
	cfg     DMAConfig
	handler func()
	err     error
	busy    atomic.Bool
	jobs    chan transfer
	done    chan struct{}
	closed  bool
}

func (c *goroutineChannel) Configure(cfg DMAConfig) error {
	if cfg.UnitBits != 8 && cfg.UnitBits != 16 {
		return fmt.Errorf("dma: invalid unit size %d", cfg.UnitBits)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	return nil
}

func (c *goroutineChannel) Start(src []byte, units int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("dma: channel released")
	}
	if !c.busy.CompareAndSwap(false, true) {
		return fmt.Errorf("dma: %w", ErrChannelBusy)
	}
	c.err = nil
	c.jobs <- transfer{cfg: c.cfg, src: src, units: units}
	return nil
}

func (c *goroutineChannel) Busy() bool { return c.busy.Load() }

func (c *goroutineChannel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *goroutineChannel) SetHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = fn
}

func (c *goroutineChannel) Release() {
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

func (c *goroutineChannel) run() {
	defer close(c.done)
	for t := range c.jobs {
		err := c.dma.ser.feed(t.cfg, t.src, t.units)
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
