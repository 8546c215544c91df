//go:build !(tinygo && baremetal)

package gfx

// DefaultHeap backs NewBuffer. It is unlimited on host builds.
var DefaultHeap = NewHeap(0)
