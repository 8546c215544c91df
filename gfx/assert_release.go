//go:build !gfxdebug

package gfx

func assertPow2(string, int, int) {}
