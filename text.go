// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"io"
	"strings"
)

// Half blocks indexed by the colour of the upper and lower module,
// dark on light as seen on a terminal with light text on a dark
// background: a printed block is a light module.
var halfBlocks = [4]string{
	0:     "█", // light, light
	1:     "▀", // light, dark
	2:     "▄", // dark, light
	2 | 1: " ", // dark, dark
}

// WriteText writes s to w in UTF-8 half blocks, two module rows per
// line, with a quiet zone of margin modules.
func (s *Symbol) WriteText(w io.Writer, margin int) error {
	_, err := io.WriteString(w, s.text(margin))
	return err
}

func (s *Symbol) text(margin int) string {
	var b strings.Builder
	n := s.Size + 2*margin
	b.Grow((n + 1) / 2 * (n*3 + 1))
	for y := -margin; y < s.Size+margin; y += 2 {
		for x := -margin; x < s.Size+margin; x++ {
			i := 0
			if s.Black(x, y) {
				i |= 2
			}
			if y+1 < s.Size+margin && s.Black(x, y+1) {
				i |= 1
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String returns s in UTF-8 half blocks with a quiet zone of
// 4 modules.
func (s *Symbol) String() string {
	return s.text(4)
}
