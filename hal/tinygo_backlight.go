//go:build tinygo && baremetal

package hal

import "machine"

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Set(channel uint8, value uint32)
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

// pwmBacklight drives the backlight with a PWM slice wrapping at 100, so the
// duty value is the level in percent.
type pwmBacklight struct {
	pwm pwmDevice
	ch  uint8
	ok  bool
}

func newPWMBacklight(pin machine.Pin) *pwmBacklight {
	b := &pwmBacklight{pwm: pwmForPin(pin)}
	if b.pwm == nil {
		return b
	}
	if err := b.pwm.Configure(machine.PWMConfig{Period: 1e9 / 1000}); err != nil {
		return b
	}
	ch, err := b.pwm.Channel(pin)
	if err != nil {
		return b
	}
	b.pwm.SetTop(100)
	b.ch, b.ok = ch, true
	return b
}

func (b *pwmBacklight) SetLevel(level uint8) {
	if !b.ok {
		return
	}
	b.pwm.Set(b.ch, uint32(min(level, 100)))
}
