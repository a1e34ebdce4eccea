// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// A Primitive is a dark rectangle, in pixels.  R is the corner radius
// of the corners in Corners.
type Primitive struct {
	X, Y, W, H int
	R          int
	Corners    Corner
}

// A LogoBox is a logo placed over the code, in pixels.
type LogoBox struct {
	image.Rectangle
	Image image.Image // scaled to the box
	Clear bool        // background under the logo
}

// A LabelBox is a label placed below the code.  X is the anchor of
// the text and Y the top of the text, in pixels.
type LabelBox struct {
	Text  string
	X, Y  int
	Size  int
	Color color.Color
	Align Alignment
}

// A VectorImage describes a rendered symbol as paths.
type VectorImage struct {
	Width, Height int
	Foreground    color.Color
	Background    color.Color
	Modules       []Primitive
	Logo          *LogoBox
	Label         *LabelBox
}

// Vector returns the rendering of s as a list of primitives, with the
// same geometry as Render.  Square dark modules adjacent in a row are
// merged into one rectangle.
func Vector(s *Symbol, o RenderOptions) (*VectorImage, error) {
	g, err := o.geometry(s.Size)
	if err != nil {
		return nil, err
	}
	fg, bg := o.colors()
	v := &VectorImage{
		Width:      g.side,
		Height:     g.side + g.label,
		Foreground: fg,
		Background: bg,
	}
	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			if !s.Black(x, y) {
				continue
			}
			r := g.module(x, y)
			p := Primitive{X: r.Min.X, Y: r.Min.Y, W: g.scale, H: g.scale}
			if o.Shape == Rounded {
				if p.Corners = s.corners(x, y); p.Corners != 0 {
					p.R = g.scale / 2
				}
			} else {
				for x+1 < s.Size && s.Black(x+1, y) {
					x++
					p.W += g.scale
				}
			}
			v.Modules = append(v.Modules, p)
		}
	}
	if o.Logo != nil {
		box, img, err := o.Logo.place(&g)
		if err != nil {
			return nil, err
		}
		v.Logo = &LogoBox{Rectangle: box, Image: img, Clear: o.Logo.PunchOut}
	}
	if g.label != 0 {
		l := o.Label
		lb := &LabelBox{Text: l.Text, Size: l.size(), Color: l.Color, Align: l.Align}
		if lb.Color == nil {
			lb.Color = fg
		}
		code := g.code()
		switch l.Align {
		case AlignLeft:
			lb.X = code.Min.X
		case AlignRight:
			lb.X = code.Max.X
		default:
			lb.X = g.side / 2
		}
		lb.Y = g.side + (g.label-lb.Size)/2
		v.Label = lb
	}
	return v, nil
}

func svgColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", n.R, n.G, n.B, float64(n.A)/0xff)
}

// path writes p as an SVG path with arcs on the rounded corners.
func (p *Primitive) path(w io.Writer) {
	r := p.R
	rad := func(c Corner) int {
		if p.Corners&c != 0 {
			return r
		}
		return 0
	}
	tl, tr, br, bl := rad(TopLeft), rad(TopRight), rad(BottomRight), rad(BottomLeft)
	fmt.Fprintf(w, `<path d="M%d %dh%d`, p.X+tl, p.Y, p.W-tl-tr)
	if tr != 0 {
		fmt.Fprintf(w, "a%d %d 0 0 1 %d %d", tr, tr, tr, tr)
	}
	fmt.Fprintf(w, "v%d", p.H-tr-br)
	if br != 0 {
		fmt.Fprintf(w, "a%d %d 0 0 1 %d %d", br, br, -br, br)
	}
	fmt.Fprintf(w, "h%d", -(p.W - br - bl))
	if bl != 0 {
		fmt.Fprintf(w, "a%d %d 0 0 1 %d %d", bl, bl, -bl, -bl)
	}
	fmt.Fprintf(w, "v%d", -(p.H - bl - tl))
	if tl != 0 {
		fmt.Fprintf(w, "a%d %d 0 0 1 %d %d", tl, tl, tl, -tl)
	}
	io.WriteString(w, "z\"/>\n")
}

var svgAnchor = [...]string{
	AlignCenter: "middle",
	AlignLeft:   "start",
	AlignRight:  "end",
}

// WriteSVG writes v to w as an SVG document.
func (v *VectorImage) WriteSVG(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="%d" height="%d" fill="%s"/>
<g fill="%s">
`,
		v.Width, v.Height, v.Width, v.Height,
		v.Width, v.Height, svgColor(v.Background), svgColor(v.Foreground))
	for i := range v.Modules {
		p := &v.Modules[i]
		if p.Corners == 0 || p.R == 0 {
			fmt.Fprintf(b, "<rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"/>\n",
				p.X, p.Y, p.W, p.H)
		} else {
			p.path(b)
		}
	}
	io.WriteString(b, "</g>\n")
	if l := v.Logo; l != nil {
		if l.Clear {
			fmt.Fprintf(b, "<rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
				l.Min.X, l.Min.Y, l.Dx(), l.Dy(), svgColor(v.Background))
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, l.Image); err != nil {
			return err
		}
		fmt.Fprintf(b, "<image x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" href=\"data:image/png;base64,%s\"/>\n",
			l.Min.X, l.Min.Y, l.Dx(), l.Dy(), base64.StdEncoding.EncodeToString(buf.Bytes()))
	}
	if l := v.Label; l != nil {
		fmt.Fprintf(b, "<text x=\"%d\" y=\"%d\" font-family=\"Go, sans-serif\" font-size=\"%d\" dominant-baseline=\"hanging\" text-anchor=\"%s\" fill=\"%s\">",
			l.X, l.Y, l.Size, svgAnchor[l.Align], svgColor(l.Color))
		if err := xml.EscapeText(b, []byte(l.Text)); err != nil {
			return err
		}
		io.WriteString(b, "</text>\n")
	}
	io.WriteString(b, "</svg>\n")
	return b.Flush()
}
