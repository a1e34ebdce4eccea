// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"strconv"

	"github.com/disintegration/imaging"
)

// A Logo is an image centred over the code.  The modules it hides
// are recovered by error correction, see LogoCoverage.
type Logo struct {
	Image    image.Image
	Width    int  // maximum width and height in pixels; 0 is a fifth of the code
	PunchOut bool // clear the modules under the logo
}

func (l *Logo) validate() error {
	if l.Image == nil {
		return &ConfigError{Field: "Logo", Reason: "no image"}
	}
	if l.Width < 0 {
		return &ConfigError{Field: "Logo", Reason: "negative width " + strconv.Itoa(l.Width)}
	}
	return nil
}

// place returns the pixel box of the logo and the logo scaled to fit
// the box.  The box may not come within a module of a finder pattern
// or its separator.
func (l *Logo) place(g *geometry) (image.Rectangle, image.Image, error) {
	w := l.Width
	if w == 0 {
		w = g.n * g.scale / 5
	}
	if w > g.n*g.scale {
		return image.Rectangle{}, nil, &ConfigError{
			Field:  "Logo",
			Reason: "width " + strconv.Itoa(w) + " exceeds the code width " + strconv.Itoa(g.n*g.scale),
		}
	}
	var img *image.NRGBA
	if b := l.Image.Bounds(); b.Dx() >= b.Dy() {
		img = imaging.Resize(l.Image, w, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(l.Image, 0, w, imaging.Lanczos)
	}
	sz := img.Bounds().Size()
	if sz.X == 0 || sz.Y == 0 {
		return image.Rectangle{}, nil, &ConfigError{Field: "Logo", Reason: "empty image"}
	}
	c := g.code()
	mid := c.Min.Add(c.Max).Div(2)
	box := image.Rectangle{Min: mid.Sub(sz.Div(2))}
	box.Max = box.Min.Add(sz)

	// Finders with separators are 8x8; pad by one module.
	const f = 9
	n := g.n
	for _, m := range [3]image.Point{{0, 0}, {n - f, 0}, {0, n - f}} {
		r := image.Rect(m.X*g.scale, m.Y*g.scale, (m.X+f)*g.scale, (m.Y+f)*g.scale).Add(c.Min)
		if box.Overlaps(r) {
			return image.Rectangle{}, nil, &ConfigError{
				Field:  "Logo",
				Reason: "logo of " + sz.String() + " pixels overlaps a finder pattern",
			}
		}
	}
	return box, img, nil
}

// Coverage is the share of codewords a logo hides.
type Coverage struct {
	Codewords int     // codewords with at least one module under the logo
	Total     int     // codewords in the symbol
	Fraction  float64 // Codewords / Total
	Limit     float64 // share of codewords the level recovers
}

// OK reports whether the hidden codewords are within the recovery
// capacity of the level.
func (c Coverage) OK() bool { return c.Fraction <= c.Limit }

// LogoCoverage reports how many codewords of s the logo of o hides.
// Exceeding the limit is not an error: the code may still scan, and
// callers decide whether to warn.
func LogoCoverage(s *Symbol, o RenderOptions) (Coverage, error) {
	cov := Coverage{
		Total: s.Version.Bytes(),
		Limit: float64(s.plan.Level.Recovery()) / 100,
	}
	if o.Logo == nil {
		return cov, nil
	}
	g, err := o.geometry(s.Size)
	if err != nil {
		return Coverage{}, err
	}
	box, _, err := o.Logo.place(&g)
	if err != nil {
		return Coverage{}, err
	}
	hit := make([]bool, cov.Total)
	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			if !g.module(x, y).Overlaps(box) {
				continue
			}
			if i := s.plan.Codeword(x, y); i >= 0 && !hit[i] {
				hit[i] = true
				cov.Codewords++
			}
		}
	}
	cov.Fraction = float64(cov.Codewords) / float64(cov.Total)
	return cov, nil
}
