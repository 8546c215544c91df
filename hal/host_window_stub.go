//go:build !tinygo && !cgo

package hal

import "errors"

// RunWindow needs ebiten, which needs cgo on most hosts. Use RunHeadless.
func RunWindow(func(HAL) func() error) error {
	return errors.New("hal: no window without cgo; run with -headless or CGO_ENABLED=1")
}
