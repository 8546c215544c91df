package app

import (
	"fmt"

	"picogfx/gfx"
	"picogfx/hal"
	"picogfx/internal/buildinfo"
	"picogfx/scanout"
)

// Config selects the scanout pipeline and the demo content.
type Config struct {
	Scanout scanout.Config
	// Backlight is the initial brightness, 0..100.
	Backlight int
	// Sprite optionally replaces the built-in sprite with a .pgfx image of
	// the configured depth.
	Sprite []byte
	// VSync waits for vertical blank before presenting.
	VSync bool
	// Heap backs frame buffers and assets; nil uses gfx.DefaultHeap.
	Heap *gfx.Heap
}

// DefaultConfig returns the demo defaults.
func DefaultConfig() Config {
	return Config{
		Scanout:   scanout.DefaultConfig(),
		Backlight: 80,
		VSync:     true,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if err := c.Scanout.Validate(); err != nil {
		return err
	}
	if c.Backlight < 0 || c.Backlight > 100 {
		return fmt.Errorf("%w: backlight %d", scanout.ErrInvalidConfig, c.Backlight)
	}
	return nil
}

// New brings up the scanout engine and returns the per-tick step: render one
// frame and present it.
func New(h hal.HAL, cfg Config) (func() error, error) {
	r, err := start(h, cfg)
	if err != nil {
		return nil, err
	}
	return r.step, nil
}

// Run starts the demo and never returns. A failing frame is replaced by an
// error screen.
func Run(h hal.HAL, cfg Config) {
	log := h.Logger()
	r, err := start(h, cfg)
	if err != nil {
		log.WriteLineString("picogfx: " + err.Error())
		select {}
	}
	for {
		if err := r.step(); err != nil {
			log.WriteLineString("picogfx: " + err.Error())
			r.fault(err)
			select {}
		}
	}
}

type renderer interface {
	step() error
	fault(err error)
}

func start(h hal.HAL, cfg Config) (renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := h.Logger()
	log.WriteLineString("picogfx " + buildinfo.Long())

	eng := scanout.New(cfg.Scanout, h.Display(), log)
	if err := eng.Init(); err != nil {
		return nil, err
	}
	eng.SetBacklight(cfg.Backlight)

	var (
		r   renderer
		err error
	)
	if cfg.Scanout.Depth == gfx.FormatIndexed8 {
		r, err = newDemo[gfx.Indexed8](eng, log, cfg)
	} else {
		r, err = newDemo[gfx.Direct16](eng, log, cfg)
	}
	if err != nil {
		eng.Close()
		return nil, err
	}
	return r, nil
}
