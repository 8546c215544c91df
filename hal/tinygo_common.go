//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
)

// Board wiring of the handheld.
const (
	pinTE   = machine.GP2
	pinDC   = machine.GP3
	pinWR   = machine.GP4
	pinRST  = machine.GP5
	pinD0   = machine.GP6 // D0..D7 on GP6..GP13
	pinBLPW = machine.GP14
)

type byteWriter interface {
	WriteByte(c byte) error
}

// serialLogger writes lines to the USB CDC console.
type serialLogger struct {
	w byteWriter
}

func (l *serialLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.w.WriteByte(s[i])
	}
	l.w.WriteByte('\r')
	l.w.WriteByte('\n')
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.w.WriteByte(b[i])
	}
	l.w.WriteByte('\r')
	l.w.WriteByte('\n')
}

// machinePin adapts a machine.Pin to GPIOPin.
type machinePin struct {
	name string
	pin  machine.Pin
	caps GPIOCaps
	mode GPIOMode
}

func newMachinePin(name string, pin machine.Pin, caps GPIOCaps) *machinePin {
	return &machinePin{name: name, pin: pin, caps: caps}
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return p.caps }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch mode {
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
		cfg.Mode = machine.PinOutput
	case GPIOModeInput:
		switch pull {
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}
