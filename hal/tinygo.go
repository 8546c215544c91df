//go:build tinygo && baremetal

package hal

import "machine"

type tinyGoHAL struct {
	logger *serialLogger
	disp   *tinyGoDisplay
}

// New returns the RP2040 HAL: an ST7789 240x320 panel on an 8-bit parallel
// bus driven by PIO0, with the backlight on PWM and the console on USB CDC.
func New() HAL {
	logger := &serialLogger{w: machine.Serial}
	ser := &pioSerializer{pio: defaultPIO, wr: pinWR, d0: pinD0, log: logger}
	bus := &pioBus{ser: ser, dc: pinDC}
	rst := newMachinePin("RST", pinRST, GPIOCapOutput)
	te := newMachinePin("TE", pinTE, GPIOCapInput)
	return &tinyGoHAL{
		logger: logger,
		disp: &tinyGoDisplay{
			ctrl: newST7789(bus, rst, te, 240, 320),
			ser:  ser,
			dma:  &goroutineDMA{ser: ser, free: 2},
			bl:   newPWMBacklight(pinBLPW),
		},
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return h.disp }

type tinyGoDisplay struct {
	ctrl *st7789
	ser  *pioSerializer
	dma  *goroutineDMA
	bl   *pwmBacklight
}

func (d *tinyGoDisplay) Controller() Controller { return d.ctrl }
func (d *tinyGoDisplay) DMA() DMA               { return d.dma }
func (d *tinyGoDisplay) Serializer() Serializer { return d.ser }
func (d *tinyGoDisplay) Backlight() Backlight   { return d.bl }
