//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	panel  *SimPanel
}

// New returns a host HAL backed by a simulated panel.
func New() HAL {
	return NewWithPanel(NewSimPanel(SimOptions{}), os.Stdout)
}

// NewWithPanel returns a host HAL using panel and logging to w.
func NewWithPanel(panel *SimPanel, w io.Writer) HAL {
	return &hostHAL{logger: &hostLogger{w: w}, panel: panel}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return h.panel }

// Panel returns the simulated panel behind h, or nil for other HALs.
func Panel(h HAL) *SimPanel {
	if hh, ok := h.(*hostHAL); ok {
		return hh.panel
	}
	return nil
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
