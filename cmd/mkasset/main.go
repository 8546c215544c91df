// Command mkasset converts PNG, GIF, JPEG and BMP images into .pgfx assets.
//
// Plain images are resampled to power-of-two dimensions so they can be used
// by the transforming blitters. With -tile, the image is read as a grid of
// tiles and written as a vertical tile strip in row-major tile order.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"picogfx/gfx"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input image (.png, .gif, .jpg, .bmp).")
		outPath = flag.String("out", "", "Output asset (.pgfx).")
		depth   = flag.Int("depth", 16, "Sample depth: 8 (RGB332) or 16 (RGB565).")
		tile    = flag.Int("tile", 0, "Tile size; writes a tile strip when > 0.")
		scaler  = flag.String("scaler", "bilinear", "nearest|bilinear|catmullrom (plain images only).")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fatalf("usage: mkasset -in in.png -out out.pgfx [-depth 8|16] [-tile N] [-scaler nearest|bilinear|catmullrom]")
	}
	if err := run(*inPath, *outPath, options{depth: *depth, tile: *tile, scaler: *scaler}); err != nil {
		fatalf("mkasset: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

type options struct {
	depth  int
	tile   int
	scaler string
}

func run(inPath, outPath string, opts options) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	src, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := convert(bw, src, opts); err != nil {
		out.Close()
		os.Remove(outPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// convert prepares src according to opts and writes it as an asset.
func convert(w io.Writer, src image.Image, opts options) error {
	var (
		img          *image.RGBA
		tileW, tileH int
		err          error
	)
	if opts.tile > 0 {
		if !isPow2(opts.tile) {
			return fmt.Errorf("tile size %d is not a power of two", opts.tile)
		}
		if img, err = tileStrip(src, opts.tile); err != nil {
			return err
		}
		tileW, tileH = opts.tile, opts.tile
	} else {
		interp, err := interpolator(opts.scaler)
		if err != nil {
			return err
		}
		img = resizePow2(src, interp)
	}

	switch opts.depth {
	case 8:
		return writeAsset[gfx.Indexed8](w, img, tileW, tileH)
	case 16:
		return writeAsset[gfx.Direct16](w, img, tileW, tileH)
	}
	return fmt.Errorf("unsupported depth %d", opts.depth)
}

func interpolator(name string) (draw.Interpolator, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return draw.NearestNeighbor, nil
	case "", "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown scaler: %s", name)
}

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// resizePow2 scales src up to the next power of two in each dimension.
func resizePow2(src image.Image, interp draw.Interpolator) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, nextPow2(b.Dx()), nextPow2(b.Dy())))
	if dst.Bounds().Size() == b.Size() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	interp.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// tileStrip cuts src into size x size tiles, left to right and top to
// bottom, and stacks them into one column.
func tileStrip(src image.Image, size int) (*image.RGBA, error) {
	b := src.Bounds()
	if b.Dx()%size != 0 || b.Dy()%size != 0 {
		return nil, fmt.Errorf("image %dx%d is not a grid of %d pixel tiles", b.Dx(), b.Dy(), size)
	}
	cols, rows := b.Dx()/size, b.Dy()/size
	if cols*rows > 256 {
		return nil, errors.New("more than 256 tiles")
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size*cols*rows))
	for i := 0; i < cols*rows; i++ {
		sp := b.Min.Add(image.Pt(i%cols*size, i/cols*size))
		draw.Draw(dst, image.Rect(0, i*size, size, (i+1)*size), src, sp, draw.Src)
	}
	return dst, nil
}

// writeAsset quantizes img to T. Mostly transparent pixels become sample 0,
// the transparent key used for sprites.
func writeAsset[T gfx.Sample](w io.Writer, img *image.RGBA, tileW, tileH int) error {
	b := img.Bounds()
	buf, err := gfx.Alloc[T](gfx.NewHeap(0), b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	defer buf.Release()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.A < 0x80 {
				continue
			}
			buf.Set(x, y, gfx.FromRGBA[T](color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}))
		}
	}
	return gfx.WriteAsset(w, buf, tileW, tileH)
}
