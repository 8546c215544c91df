package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"picogfx/gfx"

	"tinygo.org/x/tinyfont"
)

var faultColor = color.RGBA{R: 0x80, A: 0xFF}

// fault shows err on the panel in place of the next frame.
func (d *demo[T]) fault(err error) {
	d.eng.WaitReady()
	buf := d.bufs[d.cur]
	drawFault(buf, &tinyfont.TomThumb, []string{"picogfx fault:", err.Error()})
	if err := d.eng.Present(buf); err != nil {
		d.log.WriteLineString("app: fault screen: " + err.Error())
		return
	}
	d.eng.WaitReady()
}

// drawFault clears buf and writes lines wrapped to the buffer width.
func drawFault[T gfx.Sample](buf *gfx.Buffer[T], font *tinyfont.Font, lines []string) {
	buf.Fill(gfx.FromRGBA[T](faultColor))
	disp := gfx.NewDisplayer(buf)

	_, outbox := tinyfont.LineWidth(font, "0")
	fontW := int16(outbox)
	fontH := int16(font.YAdvance)
	if fontW <= 0 || fontH <= 0 {
		return
	}
	cols := int16(buf.Width()) / fontW
	if cols <= 0 {
		cols = 1
	}

	y := fontH
	for _, line := range lines {
		for len(line) > 0 {
			if y > int16(buf.Height()) {
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(disp, font, 0, y, chunk, textColor)
			y += fontH
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
