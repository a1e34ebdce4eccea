package main

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/nusantara/qr"
)

func eps(w io.Writer, c *qr.Symbol, o qr.RenderOptions) error {
	const midx, midy = 306, 396
	siz := c.Size
	scale := o.Scale
	bord := o.Margin
	xorig := (midx*2 - (siz+2*bord)*scale) / 2
	yorig := (midy*2 - (siz+2*bord)*scale) / 2
	fmt.Fprintf(w, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: qr
%%%%Title: QR Code %s-%s
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		c.Version, c.Level, xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(siz*scale)/2, midy+float64((siz-1)*scale)/2-1,
		scale)
	if g.rev || g.colSet {
		bg := color.NRGBAModel.Convert(o.Background).(color.NRGBA)
		fg := color.NRGBAModel.Convert(o.Foreground).(color.NRGBA)
		fmt.Fprintf(w, `gsave
newpath %d %d moveto
%d dup neg scale
%.3g %.3g %.3g setrgbcolor
1 0 rlineto stroke
grestore
%.3g %.3g %.3g setrgbcolor
`,
			-bord, siz/2, siz+2*bord,
			float64(bg.R)/0xff, float64(bg.G)/0xff,
			float64(bg.B)/0xff, float64(fg.R)/0xff,
			float64(fg.G)/0xff, float64(fg.B)/0xff)
	}
	// Each dark run is a stroke along the row: skip the light
	// modules, then draw the dark ones.
	fmt.Fprintln(w, "newpath 0 0 moveto")
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			s := x
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			b := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(w, "%d %d p ", x-b, b-s)
		}
		fmt.Fprintln(w, "r")
	}
	_, err := io.WriteString(w, "stroke grestore\nend\n%%Trailer\n")
	return err
}

// utf8 writes c in half blocks, inverted for the "i" types.
func utf8(w io.Writer, c *qr.Symbol, o qr.RenderOptions) error {
	if !g.rev {
		return c.WriteText(w, o.Margin)
	}
	const blocks = " ▄▀█"
	var b strings.Builder
	bord := o.Margin
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			i := 0
			if c.Black(x, y) {
				i |= 2
			}
			if c.Black(x, y+1) {
				i |= 1
			}
			b.WriteString(string([]rune(blocks)[i]))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func ascii(w io.Writer, c *qr.Symbol, o qr.RenderOptions) error {
	siz := c.Size
	bord := o.Margin
	pix := siz + 2*bord
	dark, light := byte('#'), byte(' ')
	if g.rev {
		dark, light = light, dark
	}
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			p := light
			if c.Black(x, y) {
				p = dark
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
