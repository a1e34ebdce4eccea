// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"slices"
	"strconv"
	"sync"
)

// A Kind classifies a module of a QR code.
type Kind byte

const (
	Unset    Kind = iota // not yet assigned
	Function             // finder, separator, timing, alignment or dark module
	Format               // format or version information
	Data                 // data, check or remainder bit
)

func (k Kind) String() string {
	switch k {
	case Unset:
		return "unset"
	case Function:
		return "function"
	case Format:
		return "format"
	case Data:
		return "data"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// layout is the module layout shared by all plans of a version.
type layout struct {
	kind  []Kind  // module kinds, row by row
	fixed []byte  // dark function and version information modules
	order []int32 // data module offsets in placement order
	index []int32 // placement index of each module, -1 if not data
}

var layouts [MaxVersion + 1]struct {
	once sync.Once
	l    *layout
}

func getLayout(v Version) *layout {
	l := &layouts[v]
	l.once.Do(func() { l.l = newLayout(v) })
	return l.l
}

// set sets the bit for module x, y in bitmap b.
func set(b []byte, stride, x, y int) {
	b[y*stride+x>>3] |= 0x80 >> (x & 7)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AlignmentPositions returns the row and column coordinates of the
// centres of the alignment patterns of version v, in ascending order.
func AlignmentPositions(v Version) []int {
	if v == 1 {
		return nil
	}
	n := int(v)/7 + 2
	step := 26
	if v != 32 {
		step = (int(v)*4 + n*2 + 1) / (n*2 - 2) * 2
	}
	pos := make([]int, n)
	pos[0] = 6
	for i, p := n-1, v.Size()-7; i > 0; i, p = i-1, p-step {
		pos[i] = p
	}
	return pos
}

// formatPos returns the positions of bit i, counting from the least
// significant, of the two copies of the format information.
func formatPos(siz, i int) (x0, y0, x1, y1 int) {
	switch {
	case i < 6:
		x0, y0 = 8, i
	case i < 8:
		x0, y0 = 8, i+1
	case i == 8:
		x0, y0 = 7, 8
	default:
		x0, y0 = 14-i, 8
	}
	if i < 8 {
		x1, y1 = siz-1-i, 8
	} else {
		x1, y1 = 8, siz-15+i
	}
	return
}

func newLayout(v Version) *layout {
	siz := v.Size()
	stride := (siz + 7) >> 3
	l := &layout{
		kind:  make([]Kind, siz*siz),
		fixed: make([]byte, stride*siz),
	}
	fix := func(x, y int, k Kind, dark bool) {
		l.kind[y*siz+x] = k
		if dark {
			set(l.fixed, stride, x, y)
		}
	}

	// Position boxes with their separators.
	for _, c := range [3][2]int{{0, 0}, {siz - 7, 0}, {0, siz - 7}} {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				x, y := c[0]+dx, c[1]+dy
				if 0 <= x && x < siz && 0 <= y && y < siz {
					d := max(abs(dx-3), abs(dy-3))
					fix(x, y, Function, d != 2 && d != 4)
				}
			}
		}
	}

	// Timing markers.
	for i := 8; i < siz-8; i++ {
		fix(i, 6, Function, i&1 == 0)
		fix(6, i, Function, i&1 == 0)
	}

	// Alignment boxes, except where they would hit position boxes.
	pos := AlignmentPositions(v)
	last := siz - 7
	for _, y := range pos {
		for _, x := range pos {
			if x == 6 && (y == 6 || y == last) || x == last && y == 6 {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					fix(x+dx, y+dy, Function, max(abs(dx), abs(dy)) != 1)
				}
			}
		}
	}

	// One lonely black module.
	fix(8, siz-8, Function, true)

	// Format information, filled in per level and mask.
	for i := 0; i < 15; i++ {
		x0, y0, x1, y1 := formatPos(siz, i)
		fix(x0, y0, Format, false)
		fix(x1, y1, Format, false)
	}

	// Version information: 6x3 modules above the bottom left
	// position box and 3x6 left of the top right one.
	if v >= 7 {
		vb := VersionBits(v)
		for i := 0; i < 18; i++ {
			dark := vb>>i&1 != 0
			a, b := siz-11+i%3, i/3
			fix(a, b, Format, dark)
			fix(b, a, Format, dark)
		}
	}

	// Data modules in zigzag order: two-module wide columns from the
	// right, alternately upwards and downwards, skipping the vertical
	// timing marker.
	l.index = make([]int32, siz*siz)
	for i := range l.index {
		l.index[i] = -1
	}
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		up := (right+1)&2 == 0
		for vert := 0; vert < siz; vert++ {
			y := vert
			if up {
				y = siz - 1 - vert
			}
			for x := right; x > right-2; x-- {
				if off := y*siz + x; l.kind[off] == Unset {
					l.kind[off] = Data
					l.index[off] = int32(len(l.order))
					l.order = append(l.order, int32(off))
				}
			}
		}
	}
	if len(l.order) != v.Bytes()*8+v.RemainderBits() {
		panic("qr: internal error: data module count mismatch")
	}
	return l
}

// A Plan describes how to construct a QR code
// with a specific version and level.
// Plans are shared and must not be modified.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of modules on a side
	Stride   int // number of bytes per bitmap row

	Map     []byte    // module map: 0 is data or check, 1 is other
	Pattern [8][]byte // function modules, format and mask, per mask

	l *layout
}

var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns a Plan for a QR code with the given version and level.
// A Plan is created the first time a combination of version and level
// is used.
func NewPlan(version Version, level Level) (*Plan, error) {
	if !version.IsValid() {
		return nil, ErrVersion
	}
	if !level.IsValid() {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() { p.p = makePlan(version, level) })
	return p.p, nil
}

func makePlan(v Version, lev Level) *Plan {
	l := getLayout(v)
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version:  v,
		Level:    lev,
		DataBits: v.DataBits(lev),
		Size:     siz,
		Stride:   stride,
		Map:      make([]byte, stride*siz),
		l:        l,
	}
	for off, k := range l.kind {
		if k != Data {
			set(p.Map, stride, off%siz, off/siz)
		}
	}
	for mask := range p.Pattern {
		b := slices.Clone(l.fixed)
		fb := FormatBits(lev, mask)
		for i := 0; i < 15; i++ {
			if fb>>i&1 != 0 {
				x0, y0, x1, y1 := formatPos(siz, i)
				set(b, stride, x0, y0)
				set(b, stride, x1, y1)
			}
		}
		for _, off := range l.order {
			x, y := int(off)%siz, int(off)/siz
			if Masked(mask, x, y) {
				set(b, stride, x, y)
			}
		}
		p.Pattern[mask] = b
	}
	return p
}

// Kind returns the kind of module x, y.
func (p *Plan) Kind(x, y int) Kind {
	if x < 0 || x >= p.Size || y < 0 || y >= p.Size {
		return Unset
	}
	return p.l.kind[y*p.Size+x]
}

// DataModules returns the number of data modules,
// including the remainder bits.
func (p *Plan) DataModules() int {
	return len(p.l.order)
}

// Module returns the coordinates of the i-th data module
// in placement order.
func (p *Plan) Module(i int) (x, y int) {
	off := int(p.l.order[i])
	return off % p.Size, off / p.Size
}

// Codeword returns the index of the codeword module x, y belongs to
// in the interleaved sequence, or -1 for modules other than data and
// check modules.
func (p *Plan) Codeword(x, y int) int {
	if p.Kind(x, y) != Data {
		return -1
	}
	i := int(p.l.index[y*p.Size+x]) / 8
	if i >= p.Version.Bytes() {
		return -1
	}
	return i
}

// Serialise returns a bitmap with the bits of the codeword sequence s
// placed on the data modules in zigzag scan order.  Remainder bits and
// all other modules are zero.
func (p *Plan) Serialise(s []byte) []byte {
	bitmap := make([]byte, p.Stride*p.Size)
	for i, off := range p.l.order[:min(len(p.l.order), len(s)*8)] {
		if s[i>>3]>>(7&^i)&1 != 0 {
			set(bitmap, p.Stride, int(off)%p.Size, int(off)/p.Size)
		}
	}
	return bitmap
}
