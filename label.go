// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"image/color"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// An Alignment is the horizontal placement of a label.
type Alignment int

const (
	AlignCenter Alignment = iota
	AlignLeft
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return "alignment(" + strconv.Itoa(int(a)) + ")"
}

// ParseAlignment parses left, center or right.
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "", "center", "centre":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return 0, &ConfigError{Field: "LabelAlign", Reason: "unknown alignment " + strconv.Quote(s)}
}

// DefaultLabelSize is the label text height in pixels.
const DefaultLabelSize = 16

// A Label is a line of text in a strip below the code, set in Go
// Regular.  The font covers Latin, Greek and Cyrillic; other
// characters render as a box.
type Label struct {
	Text  string
	Size  int         // text height in pixels; 0 is DefaultLabelSize
	Color color.Color // foreground colour if nil
	Align Alignment
}

func (l *Label) validate() error {
	if l.Size < 0 {
		return &ConfigError{Field: "LabelSize", Reason: "negative size " + strconv.Itoa(l.Size)}
	}
	if l.Size > MaxImageSide {
		return &ConfigError{Field: "LabelSize", Reason: "size " + strconv.Itoa(l.Size) + " exceeds " + strconv.Itoa(MaxImageSide)}
	}
	if l.Align < AlignCenter || l.Align > AlignRight {
		return &ConfigError{Field: "LabelAlign", Reason: "unknown alignment " + l.Align.String()}
	}
	return nil
}

func (l *Label) size() int {
	if l.Size == 0 {
		return DefaultLabelSize
	}
	return l.Size
}

// strip returns the height of the label strip: the text with a quarter
// of its height above and below.
func (l *Label) strip() int {
	return l.size() * 3 / 2
}

var labelFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

func labelFace(size float64) (font.Face, error) {
	f, err := labelFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// glyphs draws the label text in colour c at the label size, with
// the font shrunk to fit if the text is wider than width.
func (l *Label) glyphs(c color.Color, width int) (image.Image, error) {
	size := float64(l.size())
	face, err := labelFace(size)
	if err != nil {
		return nil, err
	}
	if w := font.MeasureString(face, l.Text).Ceil(); w > width {
		face.Close()
		if face, err = labelFace(size * float64(width) / float64(w)); err != nil {
			return nil, err
		}
	}
	defer face.Close()
	m := face.Metrics()
	w := min(font.MeasureString(face, l.Text).Ceil(), width)
	h := (m.Ascent + m.Descent).Ceil()
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(l.Text)
	return img, nil
}

// box returns where text of size sz goes in the label strip of g.
func (l *Label) box(g *geometry, sz image.Point) image.Rectangle {
	code := g.code()
	var x int
	switch l.Align {
	case AlignLeft:
		x = code.Min.X
	case AlignRight:
		x = code.Max.X - sz.X
	default:
		x = (g.side - sz.X) / 2
	}
	x = max(0, min(x, g.side-sz.X))
	y := g.side + (g.label-sz.Y)/2
	return image.Rect(x, y, x+sz.X, y+sz.Y)
}
