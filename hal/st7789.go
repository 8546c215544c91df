package hal

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

const (
	cmdSLPOUT = 0x11
	cmdNORON  = 0x13
	cmdINVON  = 0x21
	cmdDISPON = 0x29
	cmdCASET  = 0x2A
	cmdPASET  = 0x2B
	cmdRAMWR  = 0x2C
	cmdTEOFF  = 0x34
	cmdTEON   = 0x35
	cmdMADCTL = 0x36
	cmdCOLMOD = 0x3A

	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlMV  = 0x20
	madctlRGB = 0x00
)

// panelBus sends command bytes with their parameters. Pixel data after
// RAMWR travels through the serializer, not the bus.
type panelBus interface {
	command(cmd byte, data ...byte)
}

// st7789 drives an ST7789 controller over an 8080-style parallel bus.
type st7789 struct {
	bus   panelBus
	rst   GPIOPin
	te    GPIOPin
	w, h  int
	sleep func(time.Duration)
}

func newST7789(bus panelBus, rst, te GPIOPin, w, h int) *st7789 {
	return &st7789{bus: bus, rst: rst, te: te, w: w, h: h, sleep: time.Sleep}
}

func (c *st7789) Init() error {
	if c.rst != nil {
		if err := c.rst.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
			return fmt.Errorf("st7789: %w", err)
		}
		for _, step := range []struct {
			level bool
			hold  time.Duration
		}{{true, 20 * time.Millisecond}, {false, 20 * time.Millisecond}, {true, 50 * time.Millisecond}} {
			if err := c.rst.Write(step.level); err != nil {
				return fmt.Errorf("st7789: reset: %w", err)
			}
			c.sleep(step.hold)
		}
	}
	if c.te != nil {
		if err := c.te.Configure(GPIOModeInput, GPIOPullNone); err != nil {
			return fmt.Errorf("st7789: %w", err)
		}
	}

	c.bus.command(cmdSLPOUT)
	c.sleep(120 * time.Millisecond)
	c.bus.command(cmdCOLMOD, 0x55) // 16-bit color
	c.bus.command(cmdMADCTL, madctlRGB)
	c.bus.command(cmdINVON) // IPS panel
	c.bus.command(cmdNORON)
	c.bus.command(cmdDISPON)
	return nil
}

// Size returns the native portrait size.
func (c *st7789) Size() (w, h int) { return c.w, c.h }

func (c *st7789) SetRotation(r drivers.Rotation) error {
	var madctl byte
	switch r {
	case drivers.Rotation0:
		madctl = madctlRGB
	case drivers.Rotation90:
		madctl = madctlMV | madctlMY | madctlRGB
	case drivers.Rotation180:
		madctl = madctlMX | madctlMY | madctlRGB
	case drivers.Rotation270:
		madctl = madctlMV | madctlMX | madctlRGB
	default:
		return fmt.Errorf("st7789: unsupported rotation %d", r)
	}
	c.bus.command(cmdMADCTL, madctl)
	return nil
}

func (c *st7789) SetAddressWindow(x1, y1, x2, y2 uint16) {
	c.bus.command(cmdCASET, byte(x1>>8), byte(x1), byte(x2>>8), byte(x2))
	c.bus.command(cmdPASET, byte(y1>>8), byte(y1), byte(y2>>8), byte(y2))
	c.bus.command(cmdRAMWR)
}

func (c *st7789) SetTearing(on bool) {
	if on {
		c.bus.command(cmdTEON, 0x00) // vblank only
	} else {
		c.bus.command(cmdTEOFF)
	}
}

func (c *st7789) VBlank() bool {
	if c.te == nil {
		return false
	}
	level, err := c.te.Read()
	return err == nil && level
}
