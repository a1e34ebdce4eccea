// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBits(t *testing.T) {
	assert.Equal(t, uint32(0x77c4), FormatBits(L, 0))
	assert.Equal(t, uint32(0x5412), FormatBits(M, 0))
	assert.Equal(t, uint32(0x355f), FormatBits(Q, 0))
	assert.Equal(t, uint32(0x083b), FormatBits(H, 7))

	// All 32 format words differ in at least 7 bits.
	var words []uint32
	for l := L; l <= H; l++ {
		for m := 0; m < 8; m++ {
			words = append(words, FormatBits(l, m))
		}
	}
	for i, a := range words {
		for _, b := range words[i+1:] {
			d := 0
			for x := a ^ b; x != 0; x &= x - 1 {
				d++
			}
			assert.GreaterOrEqual(t, d, 7)
		}
	}
}

func TestVersionBits(t *testing.T) {
	assert.Equal(t, uint32(0x07c94), VersionBits(7))
	assert.Equal(t, uint32(0x085bc), VersionBits(8))
	assert.Equal(t, uint32(0x28c69), VersionBits(40))
}

func TestMasked(t *testing.T) {
	// Mask patterns of the top left 6x6 modules, row by row.
	want := [8][6]string{
		{"#.#.#.", ".#.#.#", "#.#.#.", ".#.#.#", "#.#.#.", ".#.#.#"},
		{"######", "......", "######", "......", "######", "......"},
		{"#..#..", "#..#..", "#..#..", "#..#..", "#..#..", "#..#.."},
		{"#..#..", "..#..#", ".#..#.", "#..#..", "..#..#", ".#..#."},
		{"###...", "###...", "...###", "...###", "###...", "###..."},
		{"######", "#.....", "#..#..", "#.#.#.", "#..#..", "#....."},
		{"######", "###...", "##.##.", "#.#.#.", "#.##.#", "#...##"},
		{"#.#.#.", "...###", "#...##", ".#.#.#", "###...", ".###.."},
	}
	for m, rows := range want {
		for y, row := range rows {
			for x, c := range row {
				assert.Equal(t, c == '#', Masked(m, x, y), "mask %d at %d,%d", m, x, y)
			}
		}
	}
	assert.Panics(t, func() { Masked(8, 0, 0) })
}

func TestFormatPlacement(t *testing.T) {
	for _, v := range []Version{1, 7, 40} {
		for l := L; l <= H; l++ {
			p, err := NewPlan(v, l)
			require.NoError(t, err)
			for m := 0; m < 8; m++ {
				c := &Code{Size: p.Size, Stride: p.Stride, Bitmap: p.Pattern[m]}
				var a, b uint32
				for i := 14; i >= 0; i-- {
					x0, y0, x1, y1 := formatPos(p.Size, i)
					require.Equal(t, Format, p.Kind(x0, y0))
					require.Equal(t, Format, p.Kind(x1, y1))
					a <<= 1
					b <<= 1
					if c.Black(x0, y0) {
						a |= 1
					}
					if c.Black(x1, y1) {
						b |= 1
					}
				}
				assert.Equal(t, FormatBits(l, m), a)
				assert.Equal(t, a, b)
			}
		}
	}
}

func TestPenaltyBlank(t *testing.T) {
	c := &Code{Size: 21, Stride: 3, Bitmap: make([]byte, 21*3)}
	// RunP: 42 lines of 21 light modules, 19 each.
	// BoxP: 20x20 boxes, 3 each.
	// BalP: 0% dark, 9 full 5% steps from 50%.
	assert.Equal(t, 42*19+20*20*3+90, c.Penalty())
}

// rowCode returns a light 21x21 code with the modules at xs of row 10
// dark.
func rowCode(xs ...int) *Code {
	c := &Code{Size: 21, Stride: 3, Bitmap: make([]byte, 21*3)}
	for _, x := range xs {
		set(c.Bitmap, c.Stride, x, 10)
	}
	return c
}

func TestPenaltyFinder(t *testing.T) {
	// Light code: RunP 42*19, BoxP 400*3, BalP 90, see TestPenalty.
	// Each dark module of row 10 turns its column's run of 21 into two
	// runs of 10, 16 points instead of 19.  Each box of rows 9-10 or
	// 10-11 touching a dark module loses its 3 points.  Up to 9 dark
	// modules keep BalP at 90.
	for _, tt := range []struct {
		name    string
		dark    []int
		rowRunP int // RunP of row 10
		boxes   int // boxes lost per pair of rows
		finders int
	}{
		// 0000000 1011101 0000000: light on both sides matches
		// once as 0000-1011101 and once as 1011101-0000.
		{"middle", []int{7, 9, 10, 11, 13}, 5 + 5, 8, 2},
		// 1011101 0000000...: the quiet zone is light, so both
		// matches count.
		{"left edge", []int{0, 2, 3, 4, 6}, 12, 7, 2},
		// 1011101 1 0000...: only the quiet zone side is light.
		{"left edge, dark after", []int{0, 2, 3, 4, 6, 7}, 11, 8, 1},
		// ...0000000 1011101: the right quiet zone.
		{"right edge", []int{14, 16, 17, 18, 20}, 12, 7, 2},
		// 1011111 is no finder pattern; its run of 5 scores 3.
		{"no finder", []int{7, 9, 10, 11, 12, 13}, 5 + 5 + 3, 8, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			runP := 41*19 + tt.rowRunP - 3*len(tt.dark)
			boxP := (400 - 2*tt.boxes) * 3
			want := runP + boxP + 90 + 40*tt.finders
			assert.Equal(t, want, rowCode(tt.dark...).Penalty())
		})
	}
}

func TestChooseMask(t *testing.T) {
	e, err := NewEncoder(1, Q)
	require.NoError(t, err)
	require.NoError(t, e.Write(Segment{"HELLO WORLD", Alphanumeric}))
	cw, err := e.Codewords()
	require.NoError(t, err)
	data := e.Plan().Serialise(cw)

	c, pen := e.Plan().ChooseMask(data)
	assert.Equal(t, pen, c.Score)
	assert.Equal(t, pen, c.Penalty())
	for m := 0; m < 8; m++ {
		mp := e.Plan().Mask(data, m).Penalty()
		if m < c.Mask {
			assert.Greater(t, mp, pen, "mask %d", m)
		} else {
			assert.GreaterOrEqual(t, mp, pen, "mask %d", m)
		}
	}

	// Deterministic.
	c2, pen2 := e.Plan().ChooseMask(data)
	assert.Equal(t, c.Bitmap, c2.Bitmap)
	assert.Equal(t, c.Mask, c2.Mask)
	assert.Equal(t, pen, pen2)

	c3, err := e.Code()
	require.NoError(t, err)
	assert.Equal(t, c.Bitmap, c3.Bitmap)
}
