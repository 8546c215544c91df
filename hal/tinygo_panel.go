//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"sync"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

var defaultPIO = pio.PIO0

// pioSerializer clocks bytes onto the 8-bit panel bus with a PIO state
// machine. Palette lookup and pixel doubling are applied on the way out.
type pioSerializer struct {
	mu  sync.Mutex
	pio *pio.PIO
	wr  machine.Pin
	d0  machine.Pin

	log Logger

	sm  pio.StateMachine
	pl  *piolib.Parallel8Tx
	enc *streamEncoder
}

func (s *pioSerializer) Claim() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pl != nil {
		return fmt.Errorf("serializer: %w", ErrNoChannel)
	}
	sm, err := s.pio.ClaimStateMachine()
	if err != nil {
		return fmt.Errorf("serializer: %w: %v", ErrNoChannel, err)
	}
	pl, err := piolib.NewParallel8Tx(sm, s.wr, s.d0, 1_000_000)
	if err != nil {
		return fmt.Errorf("serializer: %w", err)
	}
	if err := pl.EnableDMA(true); err != nil && s.log != nil {
		s.log.WriteLineString("serializer: dma unavailable, using FIFO writes: " + err.Error())
	}
	s.sm, s.pl = sm, pl
	s.enc = newStreamEncoder(1024)
	return nil
}

func (s *pioSerializer) SourceClockHz() uint32 { return machine.CPUFrequency() }

func (s *pioSerializer) SetClockDivider(whole uint16, frac uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pl != nil {
		s.sm.SetClkDiv(whole, frac)
	}
}

func (s *pioSerializer) SetPixelDoubling(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc != nil {
		s.enc.double = on
	}
}

func (s *pioSerializer) LoadPalette(p *[256]uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc != nil {
		s.enc.palette = *p
	}
}

func (s *pioSerializer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pl == nil {
		return
	}
	s.sm.SetEnabled(false)
	_ = s.pl.EnableDMA(false)
	s.pl = nil
	s.enc = nil
}

func (s *pioSerializer) writeRaw(b []byte) error {
	if s.pl == nil {
		return fmt.Errorf("serializer: %w", ErrNotClaimed)
	}
	if err := s.pl.Write(b); err != nil {
		return fmt.Errorf("serializer: %w", err)
	}
	return nil
}

// feed encodes and writes one transfer. It blocks until the state machine
// has taken the last byte.
func (s *pioSerializer) feed(cfg DMAConfig, src []byte, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pl == nil {
		return fmt.Errorf("serializer: %w", ErrNotClaimed)
	}
	s.enc.unitBits = cfg.UnitBits
	s.enc.byteSwap = cfg.ByteSwap
	return s.enc.encode(src, units, s.writeRaw)
}

// pioBus sends controller commands over the serializer with DC low.
// Commands sent before the serializer is claimed are dropped.
type pioBus struct {
	ser *pioSerializer
	dc  machine.Pin
	cfg bool
}

func (b *pioBus) command(cmd byte, data ...byte) {
	b.ser.mu.Lock()
	defer b.ser.mu.Unlock()
	if !b.cfg {
		b.dc.Configure(machine.PinConfig{Mode: machine.PinOutput})
		b.cfg = true
	}
	if b.ser.pl == nil {
		return
	}
	b.dc.Low()
	err := b.ser.writeRaw([]byte{cmd})
	b.dc.High()
	if err == nil && len(data) > 0 {
		err = b.ser.writeRaw(data)
	}
	if err != nil && b.ser.log != nil {
		b.ser.log.WriteLineString("st7789: command failed: " + err.Error())
	}
}
