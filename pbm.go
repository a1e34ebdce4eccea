// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"strconv"
)

// EncodePBM writes img to w as a raw Portable Bit Map, for use with
// netpbm.  Pixels darker than middle grey are black.
func EncodePBM(w io.Writer, img image.Image) error {
	b := bufio.NewWriter(w)
	r := img.Bounds()
	if _, err := b.WriteString("P4\n" + strconv.Itoa(r.Dx()) + " " +
		strconv.Itoa(r.Dy()) + "\n"); err != nil {
		return err
	}
	row := make([]byte, (r.Dx()+7)/8)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		clear(row)
		for x := r.Min.X; x < r.Max.X; x++ {
			if dark(img.At(x, y)) {
				i := x - r.Min.X
				row[i>>3] |= 0x80 >> (i & 7)
			}
		}
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	return b.Flush()
}

func dark(c color.Color) bool {
	_, _, _, a := c.RGBA()
	if a == 0 {
		return false
	}
	return color.GrayModel.Convert(c).(color.Gray).Y < 0x80
}
