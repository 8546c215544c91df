//go:build tinygo && baremetal

package main

import (
	"picogfx/app"
	"picogfx/hal"
	"picogfx/scanout"
)

func main() {
	cfg := app.DefaultConfig()
	// Half resolution keeps two frame buffers inside the heap budget.
	cfg.Scanout.Doubling = scanout.DoublingLinear
	app.Run(hal.New(), cfg)
}
