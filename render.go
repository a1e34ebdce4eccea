// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// A Shape is the shape of dark modules.
type Shape int

const (
	Square  Shape = iota // square modules, adjacent runs merged
	Rounded              // corners with no dark neighbour rounded off
)

// A Corner is a set of module corners.
type Corner uint8

const (
	TopLeft Corner = 1 << iota
	TopRight
	BottomRight
	BottomLeft
)

// RenderOptions control rendering.
type RenderOptions struct {
	Scale      int         // pixels per module
	Size       int         // image width in pixels; overrides Scale if set
	Margin     int         // quiet zone in modules
	Padding    int         // extra quiet zone in pixels
	Foreground color.Color // dark modules, black if nil
	Background color.Color // light modules and quiet zone, white if nil
	Shape      Shape
	Label      *Label // text below the code
	Logo       *Logo  // image over the centre of the code
}

// MaxImageSide is the largest width or height of a rendered image in
// pixels, label strip included.
const MaxImageSide = 1 << 15

// DefaultRenderOptions renders 8 pixels per module
// with the standard quiet zone of 4 modules.
var DefaultRenderOptions = RenderOptions{Scale: 8, Margin: 4}

func (o *RenderOptions) colors() (fg, bg color.Color) {
	fg, bg = o.Foreground, o.Background
	if fg == nil {
		fg = color.Black
	}
	if bg == nil {
		bg = color.White
	}
	return fg, bg
}

// geometry is the pixel layout of a rendered symbol.
type geometry struct {
	n     int // modules on a side
	scale int // pixels per module
	off   int // offset of the first module from the image edge
	side  int // image width, quiet zone included
	label int // height of the label strip
}

// Validate reports invalid options as *ConfigError.
func (o *RenderOptions) Validate() error {
	switch {
	case o.Scale < 0:
		return &ConfigError{Field: "Scale", Reason: "negative scale " + strconv.Itoa(o.Scale)}
	case o.Size < 0:
		return &ConfigError{Field: "Size", Reason: "negative size " + strconv.Itoa(o.Size)}
	case o.Margin < 0:
		return &ConfigError{Field: "Margin", Reason: "negative margin " + strconv.Itoa(o.Margin)}
	case o.Padding < 0:
		return &ConfigError{Field: "Padding", Reason: "negative padding " + strconv.Itoa(o.Padding)}
	case o.Scale > MaxImageSide:
		return &ConfigError{Field: "Scale", Reason: "scale " + strconv.Itoa(o.Scale) + " exceeds " + strconv.Itoa(MaxImageSide)}
	case o.Size > MaxImageSide:
		return &ConfigError{Field: "Size", Reason: "size " + strconv.Itoa(o.Size) + " exceeds " + strconv.Itoa(MaxImageSide)}
	case o.Padding > MaxImageSide:
		return &ConfigError{Field: "Padding", Reason: "padding " + strconv.Itoa(o.Padding) + " exceeds " + strconv.Itoa(MaxImageSide)}
	case o.Margin > MaxImageSide:
		return &ConfigError{Field: "Margin", Reason: "margin " + strconv.Itoa(o.Margin) + " exceeds " + strconv.Itoa(MaxImageSide)}
	case o.Scale == 0 && o.Size == 0:
		return &ConfigError{Field: "Scale", Reason: "one of Scale and Size must be set"}
	case o.Shape != Square && o.Shape != Rounded:
		return &ConfigError{Field: "Shape", Reason: "unknown shape " + strconv.Itoa(int(o.Shape))}
	}
	if o.Label != nil {
		if err := o.Label.validate(); err != nil {
			return err
		}
	}
	if o.Logo != nil {
		if err := o.Logo.validate(); err != nil {
			return err
		}
	}
	return nil
}

// geometry lays out a symbol with n modules on a side.  With Size set,
// the scale is the largest that fits inside the padding and the pixels
// left over widen the quiet zone.
func (o *RenderOptions) geometry(n int) (geometry, error) {
	if err := o.Validate(); err != nil {
		return geometry{}, err
	}
	g := geometry{n: n, scale: o.Scale}
	t := n + 2*o.Margin
	if o.Size != 0 {
		avail := o.Size - 2*o.Padding
		if g.scale = avail / t; g.scale < 1 {
			return geometry{}, &ConfigError{
				Field:  "Size",
				Reason: strconv.Itoa(o.Size) + " pixels cannot hold " + strconv.Itoa(t) + " modules",
			}
		}
		g.side = o.Size
		g.off = o.Padding + o.Margin*g.scale + (avail-t*g.scale)/2
	} else {
		g.side = t*g.scale + 2*o.Padding
		g.off = o.Padding + o.Margin*g.scale
	}
	if o.Label != nil && o.Label.Text != "" {
		g.label = o.Label.strip()
	}
	if h := g.side + g.label; h > MaxImageSide {
		field := "Scale"
		if o.Size != 0 {
			field = "Size"
		}
		return geometry{}, &ConfigError{
			Field:  field,
			Reason: "image of " + strconv.Itoa(g.side) + "x" + strconv.Itoa(h) + " pixels exceeds " + strconv.Itoa(MaxImageSide),
		}
	}
	return g, nil
}

// module returns the pixel rectangle of module x, y.
func (g *geometry) module(x, y int) image.Rectangle {
	x0, y0 := g.off+x*g.scale, g.off+y*g.scale
	return image.Rect(x0, y0, x0+g.scale, y0+g.scale)
}

// code returns the pixel rectangle of the module grid.
func (g *geometry) code() image.Rectangle {
	return image.Rect(g.off, g.off, g.off+g.n*g.scale, g.off+g.n*g.scale)
}

// corners returns the corners of the dark module x, y whose both
// adjacent sides border light modules.
func (s *Symbol) corners(x, y int) Corner {
	up, down := s.Black(x, y-1), s.Black(x, y+1)
	left, right := s.Black(x-1, y), s.Black(x+1, y)
	var c Corner
	if !up && !left {
		c |= TopLeft
	}
	if !up && !right {
		c |= TopRight
	}
	if !down && !right {
		c |= BottomRight
	}
	if !down && !left {
		c |= BottomLeft
	}
	return c
}

// inside reports whether pixel px, py of a module of the given size
// lies within the module with corners c rounded to a radius of size/2.
func inside(px, py, size int, c Corner) bool {
	r := size / 2
	var cx, cy int
	switch {
	case px < r && py < r && c&TopLeft != 0:
		cx, cy = r, r
	case px >= size-r && py < r && c&TopRight != 0:
		cx, cy = size-r, r
	case px >= size-r && py >= size-r && c&BottomRight != 0:
		cx, cy = size-r, size-r
	case px < r && py >= size-r && c&BottomLeft != 0:
		cx, cy = r, size-r
	default:
		return true
	}
	// Distance from the pixel centre, doubled.
	dx, dy := 2*(px-cx)+1, 2*(py-cy)+1
	return dx*dx+dy*dy <= 4*r*r
}

// Render draws s into a new image.  Rendering does not modify s, and
// the same symbol and options always produce the same image.
func Render(s *Symbol, o RenderOptions) (*image.RGBA, error) {
	g, err := o.geometry(s.Size)
	if err != nil {
		return nil, err
	}
	fg, bg := o.colors()
	img := image.NewRGBA(image.Rect(0, 0, g.side, g.side+g.label))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	fgu := image.NewUniform(fg)
	fgc := color.RGBAModel.Convert(fg).(color.RGBA)
	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			if !s.Black(x, y) {
				continue
			}
			r := g.module(x, y)
			c := Corner(0)
			if o.Shape == Rounded {
				c = s.corners(x, y)
			}
			if c == 0 {
				draw.Draw(img, r, fgu, image.Point{}, draw.Src)
				continue
			}
			for py := 0; py < g.scale; py++ {
				for px := 0; px < g.scale; px++ {
					if inside(px, py, g.scale, c) {
						img.SetRGBA(r.Min.X+px, r.Min.Y+py, fgc)
					}
				}
			}
		}
	}
	if o.Logo != nil {
		box, logo, err := o.Logo.place(&g)
		if err != nil {
			return nil, err
		}
		if o.Logo.PunchOut {
			draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)
		}
		draw.Draw(img, box, logo, logo.Bounds().Min, draw.Over)
	}
	if g.label != 0 {
		lc := o.Label.Color
		if lc == nil {
			lc = fg
		}
		glyphs, err := o.Label.glyphs(lc, g.side)
		if err != nil {
			return nil, err
		}
		draw.Draw(img, o.Label.box(&g, glyphs.Bounds().Size()), glyphs, image.Point{}, draw.Over)
	}
	return img, nil
}
