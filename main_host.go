//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"picogfx/app"
	"picogfx/hal"
	"picogfx/scanout"
)

func main() {
	var hcfg hal.HeadlessConfig
	cfg := app.DefaultConfig()
	var (
		depth    = flag.Int("depth", 16, "Color depth: 8 (palette) or 16 (RGB565).")
		doubling = flag.String("doubling", "none", "Scanout doubling: none|nearest|linear.")
		rotation = flag.Int("rotation", 90, "Panel rotation in degrees: 0|90|180|270.")
		clock    = flag.Uint("clock", scanout.DefaultClockHz, "Serializer clock in Hz.")
		sprite   = flag.String("sprite", "", "Sprite asset (.pgfx) to use instead of the built-in one.")
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&cfg.Backlight, "backlight", cfg.Backlight, "Backlight level 0..100.")
	flag.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "Wait for vertical blank before presenting.")
	flag.Parse()

	var err error
	if cfg.Scanout.Depth, err = scanout.ParseDepth(*depth); err != nil {
		usage(err)
	}
	if cfg.Scanout.Doubling, err = scanout.ParseDoubling(*doubling); err != nil {
		usage(err)
	}
	if cfg.Scanout.Rotation, err = scanout.ParseRotation(*rotation); err != nil {
		usage(err)
	}
	cfg.Scanout.ClockHz = uint32(*clock)
	if *sprite != "" {
		if cfg.Sprite, err = os.ReadFile(*sprite); err != nil {
			usage(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		usage(err)
	}

	newApp := func(h hal.HAL) func() error {
		step, err := app.New(h, cfg)
		if err != nil {
			return func() error { return err }
		}
		return step
	}

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage(err error) {
	fmt.Fprintln(os.Stderr, err)
	flag.Usage()
	os.Exit(2)
}
