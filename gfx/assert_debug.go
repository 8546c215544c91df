//go:build gfxdebug

package gfx

import "fmt"

func assertPow2(what string, w, h int) {
	if !isPow2(w) || !isPow2(h) {
		panic(fmt.Sprintf("gfx: %s is %dx%d, dimensions must be powers of two", what, w, h))
	}
}
