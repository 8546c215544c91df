package hal

import (
	"errors"
	"testing"
	"time"
)

type recordBus struct{ cmds []byte }

func (b *recordBus) command(cmd byte, data ...byte) { b.cmds = append(b.cmds, cmd) }

// stuckPin configures fine but rejects the write numbered failAt.
type stuckPin struct {
	*virtualPin
	writes int
	failAt int
}

var errStuck = errors.New("pin stuck")

func (p *stuckPin) Write(level bool) error {
	p.writes++
	if p.writes == p.failAt {
		return errStuck
	}
	return p.virtualPin.Write(level)
}

func TestST7789InitResetWriteError(t *testing.T) {
	bus := &recordBus{}
	rst := &stuckPin{virtualPin: newVirtualPin("RST", GPIOCapOutput), failAt: 2}
	c := newST7789(bus, rst, nil, 240, 320)
	c.sleep = func(time.Duration) {}

	if err := c.Init(); !errors.Is(err, errStuck) {
		t.Fatalf("Init() = %v, want %v", err, errStuck)
	}
	if rst.writes != 2 {
		t.Fatalf("reset writes = %d, want 2", rst.writes)
	}
	if len(bus.cmds) != 0 {
		t.Fatalf("commands sent = % x, want none", bus.cmds)
	}
}

func TestST7789InitSequence(t *testing.T) {
	bus := &recordBus{}
	rst := &stuckPin{virtualPin: newVirtualPin("RST", GPIOCapOutput)}
	c := newST7789(bus, rst, nil, 240, 320)
	var slept time.Duration
	c.sleep = func(d time.Duration) { slept += d }

	if err := c.Init(); err != nil {
		t.Fatalf("Init() = %v, want nil", err)
	}
	if rst.writes != 3 {
		t.Fatalf("reset writes = %d, want 3", rst.writes)
	}
	if level, _ := rst.Read(); !level {
		t.Fatalf("RST level = %v, want true", level)
	}
	want := []byte{cmdSLPOUT, cmdCOLMOD, cmdMADCTL, cmdINVON, cmdNORON, cmdDISPON}
	if string(bus.cmds) != string(want) {
		t.Fatalf("commands = % x, want % x", bus.cmds, want)
	}
	if slept != 210*time.Millisecond {
		t.Fatalf("slept %v, want %v", slept, 210*time.Millisecond)
	}
}
