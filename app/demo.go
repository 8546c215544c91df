package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"strconv"
	"time"

	"picogfx/gfx"
	"picogfx/hal"
	"picogfx/scanout"

	"tinygo.org/x/tinyfont"
)

const (
	tileSize   = 8
	worldCells = 32
	spriteSize = 32
	cameraZ    = 60
	fpsEvery   = 2 * time.Second
	vblankWait = 20 * time.Millisecond
)

var (
	skyColor  = color.RGBA{R: 0x40, G: 0x80, B: 0xE0, A: 0xFF}
	textColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// demo renders a mode 7 ground plane with a rotating minimap, three sprites
// and an fps line, double buffered when the heap allows it.
type demo[T gfx.Sample] struct {
	eng   *scanout.Engine
	log   hal.Logger
	vsync bool

	bufs [2]*gfx.Buffer[T]
	huds [2]*gfx.Displayer[T]
	cur  int

	sky    T
	world  *gfx.TileMap
	tiles  *gfx.TileSet[T]
	sprite *gfx.Buffer[T]
	key    gfx.Alpha

	frame     int
	status    string
	fpsStart  time.Time
	fpsFrames int
}

func newDemo[T gfx.Sample](eng *scanout.Engine, log hal.Logger, cfg Config) (*demo[T], error) {
	heap := cfg.Heap
	if heap == nil {
		heap = gfx.DefaultHeap
	}
	d := &demo[T]{
		eng:      eng,
		log:      log,
		vsync:    cfg.VSync,
		sky:      gfx.FromRGBA[T](skyColor),
		status:   "fps --",
		fpsStart: time.Now(),
	}

	w, h := eng.ScreenSize()
	for i := range d.bufs {
		b, err := gfx.Alloc[T](heap, w, h)
		if err != nil {
			if i == 1 && errors.Is(err, gfx.ErrAllocationFailed) {
				log.WriteLineString("app: single buffering (" + err.Error() + ")")
				break
			}
			d.release()
			return nil, err
		}
		d.bufs[i] = b
		d.huds[i] = gfx.NewDisplayer(b)
	}

	var err error
	if d.tiles, err = newTiles[T](heap); err != nil {
		d.release()
		return nil, err
	}
	d.world = newWorld()

	if len(cfg.Sprite) > 0 {
		d.sprite, err = loadSprite[T](heap, cfg.Sprite)
	} else {
		d.sprite, err = newSprite[T](heap)
	}
	if err != nil {
		d.release()
		return nil, err
	}
	d.key = gfx.Key(d.sprite.At(0, 0))

	log.WriteLineString("app: screen " + strconv.Itoa(w) + "x" + strconv.Itoa(h) +
		" depth=" + strconv.Itoa(eng.Config().Depth.Bits()) +
		" doubling=" + eng.Config().Doubling.String() +
		" buffers=" + strconv.Itoa(d.buffers()))
	return d, nil
}

func (d *demo[T]) buffers() int {
	if d.bufs[1] == nil {
		return 1
	}
	return 2
}

func (d *demo[T]) release() {
	for i, b := range d.bufs {
		if b != nil {
			b.Release()
			d.bufs[i] = nil
		}
	}
	if d.tiles != nil {
		d.tiles.Image.Release()
	}
	if d.sprite != nil {
		d.sprite.Release()
	}
}

func (d *demo[T]) step() error {
	if d.bufs[1] == nil {
		// The only buffer may still be going out.
		d.eng.WaitReady()
	}
	buf := d.bufs[d.cur]
	d.render(buf, &tinyfont.TomThumb)
	if d.vsync {
		d.waitVBlank()
	}
	if err := d.eng.Present(buf); err != nil {
		return err
	}
	if d.bufs[1] != nil {
		d.cur ^= 1
	}
	d.frame++
	d.countFrame()
	return nil
}

func (d *demo[T]) render(buf *gfx.Buffer[T], font tinyfont.Fonter) {
	w, h := buf.Width(), buf.Height()
	t := float64(d.frame) / 60

	buf.Fill(d.sky)

	heading := t * 0.3
	span := float64(worldCells * tileSize)
	px := span/2 + span/3*math.Cos(heading)
	py := span/2 + span/3*math.Sin(heading)
	rot := heading + math.Pi/2
	horizon := h / 3
	gfx.TileBlitMode7(buf, image.Rect(0, horizon, w, h), px, py, cameraZ, rot, d.world, d.tiles, gfx.NoAlpha)

	if size := h / 4; size >= tileSize {
		win := image.Rect(w-size-2, 2, w-2, 2+size)
		gfx.TileBlitRot(buf, win, image.Pt(int(px), int(py)), image.Pt(size/2, size/2), -rot, 0.25, 0.25, d.world, d.tiles, gfx.NoAlpha)
	}

	x := d.frame*2%(w+spriteSize) - spriteSize
	gfx.Blit(buf, d.sprite, x, horizon-spriteSize, d.key)
	gfx.BlitTransform(buf, d.sprite, w/4, h*2/3, 1+0.5*math.Sin(t), t, d.key)
	gfx.BlitFlipZoom(buf, d.sprite, w*3/4, h*2/3, 1+0.25*math.Sin(t*1.3), 1+0.25*math.Cos(t*0.7), gfx.Flip(d.frame/60%4), d.key)

	if hud := d.huds[d.cur]; hud != nil {
		tinyfont.WriteLine(hud, font, 2, 7, d.status, textColor)
	}
}

func (d *demo[T]) waitVBlank() {
	deadline := time.Now().Add(vblankWait)
	for !d.eng.VBlank() && time.Now().Before(deadline) {
		runtime.Gosched()
	}
}

func (d *demo[T]) countFrame() {
	d.fpsFrames++
	elapsed := time.Since(d.fpsStart)
	if elapsed < fpsEvery {
		return
	}
	fps := float64(d.fpsFrames) / elapsed.Seconds()
	d.status = "fps " + strconv.FormatFloat(fps, 'f', 1, 64)
	st := d.eng.Stats()
	d.log.WriteLineString("app: " + d.status +
		" frames=" + strconv.FormatUint(st.Frames, 10) +
		" transfers=" + strconv.FormatUint(st.Transfers, 10))
	d.fpsStart = time.Now()
	d.fpsFrames = 0
}

// newTiles builds four 8x8 ground tiles: grass, road, water and flowers.
func newTiles[T gfx.Sample](heap *gfx.Heap) (*gfx.TileSet[T], error) {
	img, err := gfx.Alloc[T](heap, tileSize, 4*tileSize)
	if err != nil {
		return nil, err
	}
	grass := [2]T{gfx.FromRGBA[T](color.RGBA{G: 0xA0, A: 0xFF}), gfx.FromRGBA[T](color.RGBA{G: 0x70, A: 0xFF})}
	road := [2]T{gfx.FromRGBA[T](color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}), gfx.FromRGBA[T](color.RGBA{R: 0xF0, G: 0xF0, A: 0xFF})}
	water := [2]T{gfx.FromRGBA[T](color.RGBA{B: 0xC0, A: 0xFF}), gfx.FromRGBA[T](color.RGBA{G: 0x40, B: 0xFF, A: 0xFF})}
	flower := gfx.FromRGBA[T](color.RGBA{R: 0xFF, G: 0x40, B: 0xC0, A: 0xFF})

	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			img.Set(x, y, grass[(x^y)>>1&1])
			c := road[0]
			if x == tileSize/2 && y&2 == 0 {
				c = road[1]
			}
			img.Set(x, tileSize+y, c)
			img.Set(x, 2*tileSize+y, water[(x+y)/3&1])
			c = grass[0]
			if (x+2*y)%5 == 0 {
				c = flower
			}
			img.Set(x, 3*tileSize+y, c)
		}
	}
	return &gfx.TileSet[T]{TileW: tileSize, TileH: tileSize, Image: img}, nil
}

// newWorld lays out a lake, a ring road and scattered flowers.
func newWorld() *gfx.TileMap {
	m := gfx.NewTileMap(worldCells, worldCells)
	c := worldCells / 2
	for y := 0; y < worldCells; y++ {
		for x := 0; x < worldCells; x++ {
			dx, dy := x-c, y-c
			r2 := dx*dx + dy*dy
			var t uint8
			switch {
			case r2 < 16:
				t = 2
			case r2 >= 81 && r2 < 121:
				t = 1
			case (x*7+y*3)%11 == 0:
				t = 3
			}
			m.Set(x, y, t)
		}
	}
	return m
}

// newSprite draws a ring with a diamond inside on a transparent background.
func newSprite[T gfx.Sample](heap *gfx.Heap) (*gfx.Buffer[T], error) {
	b, err := gfx.Alloc[T](heap, spriteSize, spriteSize)
	if err != nil {
		return nil, err
	}
	ring := gfx.FromRGBA[T](color.RGBA{R: 0xFF, G: 0xC0, A: 0xFF})
	core := gfx.FromRGBA[T](color.RGBA{R: 0xE0, B: 0x20, A: 0xFF})
	c := spriteSize/2 - 1
	for y := 0; y < spriteSize; y++ {
		for x := 0; x < spriteSize; x++ {
			dx, dy := x-c, y-c
			r2 := dx*dx + dy*dy
			switch {
			case r2 >= 100 && r2 < 196:
				b.Set(x, y, ring)
			case abs(dx)+abs(dy) < 8:
				b.Set(x, y, core)
			}
		}
	}
	return b, nil
}

func loadSprite[T gfx.Sample](heap *gfx.Heap, data []byte) (*gfx.Buffer[T], error) {
	b, _, err := gfx.DecodeAsset[T](heap, data)
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	if w, h := b.Width(), b.Height(); w&(w-1) != 0 || h&(h-1) != 0 {
		b.Release()
		return nil, fmt.Errorf("sprite: %w: %dx%d is not a power of two", gfx.ErrInvalidAsset, w, h)
	}
	return b, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
