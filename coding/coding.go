// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: versions,
// levels, segment encoding, error correction, module placement and
// masking.
package coding // import "github.com/nusantara/qr/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nusantara/qr/gf256"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// The larger the version, the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool {
	return MinVersion <= v && v <= MaxVersion
}

// QR version size classes.  The class determines the lengths of the
// character count fields.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// ClassVersions returns the smallest and the largest version
// of the size class.
func ClassVersions(class int) (lo, hi Version) {
	switch class {
	case Class0:
		return 1, 9
	case Class1:
		return 10, 26
	}
	return 27, MaxVersion
}

// Size returns the number of modules on a side of a QR code of
// version v.
func (v Version) Size() int {
	return int(v)*4 + 17
}

// Bytes returns the total number of codewords in a QR code of
// version v.
func (v Version) Bytes() int {
	return vtab[v].bytes
}

// RemainderBits returns the number of zero bits following the last
// codeword in a QR code of version v.
func (v Version) RemainderBits() int {
	return vtab[v].rem
}

// Blocks returns the number of error correction blocks and the number
// of check bytes per block in a QR code of version v and level l.
func (v Version) Blocks(l Level) (nblock, check int) {
	lev := vtab[v].level[l]
	return lev.nblock, lev.check
}

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int {
	return v.DataBytes(l) * 8
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // recovers about 7% of codewords
	M              // recovers about 15% of codewords
	Q              // recovers about 25% of codewords
	H              // recovers about 30% of codewords
)

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is a QR error correction level.
func (l Level) IsValid() bool {
	return L <= l && l <= H
}

// Recovery returns the nominal percentage of codewords that can be
// restored at level l.
func (l Level) Recovery() int {
	return [...]int{7, 15, 25, 30}[l]
}

// formatBits returns the two level bits of the format information.
func (l Level) formatBits() uint32 {
	return uint32(l ^ 1)
}

// Bits is a bit buffer.  Bits are appended most significant first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, v.Bytes())}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the written bits.  The last byte is zero padded.
func (b *Bits) Bytes() []byte {
	return b.b
}

// Bit returns bit i.
func (b *Bits) Bit(i int) bool {
	return b.b[i>>3]>>(7&^i)&1 != 0
}

// Write appends the nbit low-order bits of v.
func (b *Bits) Write(v uint32, nbit int) {
	for nbit > 0 {
		if b.nbit&7 == 0 {
			b.b = append(b.b, 0)
		}
		free := 8 - b.nbit&7
		n := min(free, nbit)
		b.b[len(b.b)-1] |= byte(v>>(nbit-n)) & (1<<n - 1) << (free - n)
		b.nbit += n
		nbit -= n
	}
}

// String returns the bits as a string of zeros and ones.
func (b *Bits) String() string {
	s := make([]byte, b.nbit)
	for i := range s {
		s[i] = '0'
		if b.Bit(i) {
			s[i] = '1'
		}
	}
	return string(s)
}

// CapacityError represents data that does not fit in a QR code.
type CapacityError struct {
	Bits     int     // encoded length of the data
	Capacity int     // data capacity of the code
	Version  Version // largest version tried
	Level    Level
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qr: data too long: %d bits, version %s-%s holds %d",
		e.Bits, e.Version, e.Level, e.Capacity)
}

// Pad returns the data codewords of a QR code of version v and level
// l: the bits in b, a terminator of up to four zero bits, zero bits up
// to a byte boundary, and alternating pad bytes 0xec and 0x11.
// Pad does not modify b.
func (b *Bits) Pad(v Version, l Level) ([]byte, error) {
	nb := v.DataBits(l)
	if b.nbit > nb {
		return nil, &CapacityError{b.nbit, nb, v, l}
	}
	d := make([]byte, nb/8)
	copy(d, b.b)
	pad := byte(0xec)
	for i := (min(b.nbit+4, nb) + 7) / 8; i < len(d); i++ {
		d[i] = pad
		pad ^= 0xec ^ 0x11
	}
	return d, nil
}
