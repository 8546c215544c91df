//go:build tinygo && baremetal

package gfx

// DefaultHeap backs NewBuffer. On the RP2040 it leaves roughly a third of the
// 264 KiB SRAM to the rest of the program.
var DefaultHeap = NewHeap(176 * 1024)
