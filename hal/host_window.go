//go:build !tinygo && cgo

package hal

import (
	"image"

	"picogfx/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window showing the simulated panel and calls
// the app step once per tick. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error) error {
	h := New().(*hostHAL)
	step := newApp(h)

	w, ht := h.panel.opts.Width, h.panel.opts.Height
	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("picogfx (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(max(w, ht)*2, max(w, ht)*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	panImg  *ebiten.Image
	scratch []uint16
	w, ht   int
	step    func() error
}

func (g *hostGame) Update() error {
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	var w, h int
	g.scratch, w, h = g.h.panel.Snapshot(g.scratch)
	if g.img == nil || g.w != w || g.ht != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.panImg != nil {
			g.panImg.Deallocate()
		}
		g.panImg = ebiten.NewImage(w, h)
		g.w, g.ht = w, h
	}

	level := g.h.panel.BacklightLevel()
	dst := g.img.Pix
	for i, p := range g.scratch {
		j := i * 4
		dst[j+0], dst[j+1], dst[j+2] = shade565(p, level)
		dst[j+3] = 0xFF
	}

	g.panImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.panImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.w == 0 {
		_, g.w, g.ht = g.h.panel.Snapshot(nil)
	}
	return g.w, g.ht
}
