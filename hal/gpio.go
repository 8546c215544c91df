package hal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// virtualPin is a simulated control line (reset, chip select, data/command).
// It counts level changes so tests can check the command sequence.
type virtualPin struct {
	mu      sync.Mutex
	name    string
	caps    GPIOCaps
	mode    GPIOMode
	level   bool
	toggles int
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps, mode: GPIOModeInput}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull unsupported", p.name)
	}
	p.mode = mode
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	if p.level != level {
		p.toggles++
	}
	p.level = level
	return nil
}

func (p *virtualPin) Toggles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles
}

// tearPin simulates the panel's tearing-effect output: high for vblank at
// the start of every frame period while enabled, low otherwise.
type tearPin struct {
	mu   sync.Mutex
	name string

	mode    GPIOMode
	enabled bool

	t0     time.Time
	now    func() time.Time
	period time.Duration
	high   time.Duration
}

func newTearPin(name string, period, high time.Duration) *tearPin {
	return newTearPinWithClock(name, period, high, time.Now)
}

func newTearPinWithClock(name string, period, high time.Duration, now func() time.Time) *tearPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = time.Second / 60
	}
	if high < 0 {
		high = 0
	}
	if high > period {
		high = period
	}
	return &tearPin{
		name:   name,
		mode:   GPIOModeInput,
		t0:     now(),
		now:    now,
		period: period,
		high:   high,
	}
}

func (p *tearPin) Name() string   { return p.name }
func (p *tearPin) Caps() GPIOCaps { return GPIOCapInput }

func (p *tearPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull unsupported", p.name)
	}
	return nil
}

// setEnabled is driven by the controller's tearing on/off commands.
func (p *tearPin) setEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = on
}

func (p *tearPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return false, nil
	}
	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return elapsed%p.period < p.high, nil
}

func (p *tearPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}
