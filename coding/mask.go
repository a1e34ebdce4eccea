// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Masked reports whether mask pattern mask inverts module x, y.
func Masked(mask, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (y/2+x/3)%2 == 0
	case 5:
		return x*y%2+x*y%3 == 0
	case 6:
		return (x*y%2+x*y%3)%2 == 0
	case 7:
		return ((x+y)%2+x*y%3)%2 == 0
	}
	panic("qr: invalid mask")
}

// bch returns data followed by the remainder of its division by the
// generator polynomial gen of degree n.
func bch(data, gen uint32, n int) uint32 {
	r := data << n
	for i := 31 - n; i >= 0; i-- {
		if r>>(i+n)&1 != 0 {
			r ^= gen << i
		}
	}
	return data<<n | r
}

// FormatBits returns the 15 bit format information for level l and
// mask pattern mask: the BCH(15,5) code of the level and mask bits,
// XORed with 0x5412.
func FormatBits(l Level, mask int) uint32 {
	return bch(l.formatBits()<<3|uint32(mask), 0x537, 10) ^ 0x5412
}

// VersionBits returns the 18 bit version information of version v,
// the BCH(18,6) code of v.  Only versions 7 and up carry it.
func VersionBits(v Version) uint32 {
	return bch(uint32(v), 0x1f25, 12)
}

// A Code is a square module grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of modules on a side
	Stride int    // number of bytes per row
	Mask   int    // mask pattern
	Score  int    // penalty of the chosen mask, see Penalty
}

func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Finder-like patterns with the light modules before or after.
var (
	findB = [11]bool{false, false, false, false, true, false, true, true, true, false, true}
	findA = [11]bool{true, false, true, true, true, false, true, false, false, false, false}
)

// Penalty returns the penalty value of the code, used for choosing
// the mask.  It is the sum of:
//
//   - RunP: for each row or column run of n >= 5 same-colour
//     modules, n-2
//   - BoxP: for each, possibly overlapping, 2x2 box of same-colour
//     modules, 3
//   - FindP: for each row or column occurrence of 1011101 with 0000
//     on either side, 40; the quiet zone counts as light
//   - BalP: for dark modules making n% of the code,
//     10 for every full 5% n deviates from 50%
func (c *Code) Penalty() int {
	const (
		MinRun    = 5  // RunP:  minimum run length
		RunPDelta = -2 // RunP:  add to run length
		BoxPP     = 3  // BoxP:  points per box
		FindPP    = 40 // FindP: points per pattern
		BalPP     = 10 // BalP:  points per 5%
	)
	siz := c.Size
	// line holds a row or column with 4 light modules on either side.
	line := make([]bool, siz+8)
	px := line[4 : 4+siz]
	p := 0
	lines := func() {
		// RunP
		r := 1
		for i := 1; i < siz; i++ {
			if px[i] == px[i-1] {
				r++
				continue
			}
			if r >= MinRun {
				p += r + RunPDelta
			}
			r = 1
		}
		if r >= MinRun {
			p += r + RunPDelta
		}
		// FindP
		for i := 0; i+11 <= len(line); i++ {
			if w := [11]bool(line[i : i+11]); w == findB || w == findA {
				p += FindPP
			}
		}
	}
	dark := 0
	for y := 0; y < siz; y++ {
		for x := range px {
			px[x] = c.Black(x, y)
			if px[x] {
				dark++
			}
		}
		lines()
	}
	for x := 0; x < siz; x++ {
		for y := range px {
			px[y] = c.Black(x, y)
		}
		lines()
	}

	// BoxP
	for y := 0; y+1 < siz; y++ {
		for x := 0; x+1 < siz; x++ {
			b := c.Black(x, y)
			if c.Black(x+1, y) == b && c.Black(x, y+1) == b &&
				c.Black(x+1, y+1) == b {
				p += BoxPP
			}
		}
	}

	// BalP.  No need to handle 50% as c.Size is always odd.
	total := siz * siz
	k := (abs(dark*20-total*10)+total-1)/total - 1
	p += k * BalPP
	return p
}
