// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// A Mode is a QR segment encoding mode.
type Mode int8

// Encoding modes.
const (
	Numeric      Mode = iota // digits 0-9
	Alphanumeric             // digits, A-Z, space and $%*+-./:
	Byte                     // any data
	Kanji                    // UTF-8 text of Shift JIS double-byte characters
	ECI                      // Extended Channel Interpretation designator
)

// UTF8ECI is the ECI assignment number of UTF-8.
const UTF8ECI = 26

// modeEncoder describes a segment encoding.
type modeEncoder struct {
	name      string // name for error reporting
	indicator uint32 // 4 bit mode indicator

	// countLength lists lengths of the character count field in the
	// three QR version size classes.
	countLength [3]byte

	// encodedLength returns the encoded data length in bits of a valid
	// string of the given length in bytes and runes.
	encodedLength func(bytes, runes int) int

	// accepts reports whether the encoding mode accepts the rune.
	// Numeric and Alphanumeric text is checked bytewise.
	accepts func(rune) bool

	// encode3, encode2 and encode1 return the encoding of the bytes
	// and its length in bits.  The encoder calls a non-nil encodeN
	// repeatedly as long as N source bytes are available, in
	// descending order of N.  If all are nil, each byte is encoded as
	// 8 bits.
	encode3 func([3]byte) (uint32, int)
	encode2 func([2]byte) (uint32, int)
	encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 8, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlpha(r rune) bool {
	return alphamask>>(uint32(r)-' ')&1 != 0
}

// IsKanji reports whether the Unicode rune r belongs to the QR Kanji
// subset of Shift JIS, the double-byte codes 0x8140 to 0x9ffc and
// 0xe040 to 0xebbf.
func IsKanji(r rune) bool {
	_, ok := sjis(r)
	return ok
}

// sjis returns the Shift JIS encoding of r if r is a QR Kanji
// character.
func sjis(r rune) (uint16, bool) {
	if r < 0x80 || r == utf8.RuneError {
		return 0, false
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	b, err := japanese.ShiftJIS.NewEncoder().Bytes(buf[:n])
	if err != nil || len(b) != 2 {
		return 0, false
	}
	c := uint16(b[0])<<8 | uint16(b[1])
	return c, 0x8140 <= c && c <= 0x9ffc || 0xe040 <= c && c <= 0xebbf
}

var modes = [...]modeEncoder{
	Numeric: {
		name:        "numeric",
		indicator:   1,
		countLength: [3]byte{10, 12, 14},
		encodedLength: func(bytes, _ int) int {
			return (bytes*10 + 2) / 3
		},
		accepts: isDigit,
		encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
	},
	Alphanumeric: {
		name:        "alphanumeric",
		indicator:   2,
		countLength: [3]byte{9, 11, 13},
		encodedLength: func(bytes, _ int) int {
			return (bytes*11 + 1) / 2
		},
		accepts: isAlpha,
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 + uint32(alpha[b[1]&0x3f]), 11
		},
		encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
	},
	Byte: {
		name:        "byte",
		indicator:   4,
		countLength: [3]byte{8, 16, 16},
		encodedLength: func(bytes, _ int) int {
			return bytes * 8
		},
	},
	Kanji: {
		name:        "kanji",
		indicator:   8,
		countLength: [3]byte{8, 10, 12},
		encodedLength: func(_, runes int) int {
			return runes * 13
		},
		accepts: IsKanji,
		// Applied to the Shift JIS form.
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]&^0xc0)*0xc0 + uint32(b[1]) - 0x100, 13
		},
	},
	ECI: {
		name:      "eci",
		indicator: 7,
		encodedLength: func(bytes, _ int) int {
			return bytes * 8
		},
	},
}

func (mode Mode) String() string {
	if mode.IsValid() {
		return modes[mode].name
	}
	return strconv.Itoa(int(mode))
}

// IsValid reports whether mode is a known encoding mode.
func (mode Mode) IsValid() bool {
	return Numeric <= mode && mode <= ECI
}

// Accepts reports whether r is encodable in mode.
func (mode Mode) Accepts(r rune) bool {
	if !mode.IsValid() || mode == ECI {
		return false
	}
	f := modes[mode].accepts
	return f == nil || f(r)
}

// CountLength returns the length of the character count field of mode
// in the given QR version size class.
func (mode Mode) CountLength(class int) int {
	return int(modes[mode].countLength[class])
}

// Length returns the length in bits of a valid string of the given
// length in bytes and runes encoded in mode at the given QR version
// size class, including the header.
func (mode Mode) Length(bytes, runes, class int) int {
	m := &modes[mode]
	return 4 + int(m.countLength[class]) + m.encodedLength(bytes, runes)
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// ECISegment returns the segment designating ECI assignment number n,
// 0 to 999999.
func ECISegment(n int) Segment {
	var b []byte
	switch {
	case n < 0x80:
		b = []byte{byte(n)}
	case n < 0x4000:
		b = []byte{0x80 | byte(n>>8), byte(n)}
	default:
		b = []byte{0xc0 | byte(n>>16), byte(n >> 8), byte(n)}
	}
	return Segment{string(b), ECI}
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if e.Mode.IsValid() {
		return fmt.Sprintf("qr: non-%s string %#q", e.Mode, e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

// CountError represents a segment too long for its character count
// field.
type CountError struct {
	Segment
	Class int
}

func (e CountError) Error() string {
	return fmt.Sprintf("qr: %s segment of %d characters too long for size class %d",
		e.Mode, e.Segment.Count(), e.Class)
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	switch seg.Mode {
	case Numeric, Alphanumeric:
		f := modes[seg.Mode].accepts
		for i := 0; i < len(seg.Text); i++ {
			if !f(rune(seg.Text[i])) {
				return false
			}
		}
	case Byte:
	case Kanji:
		for _, r := range seg.Text {
			if !IsKanji(r) {
				return false
			}
		}
	case ECI:
		s := seg.Text
		if s == "" {
			return false
		}
		n := 1
		switch {
		case s[0]&0xc0 == 0x80:
			n = 2
		case s[0]&0xe0 == 0xc0:
			n = 3
		case s[0]&0x80 != 0:
			return false
		}
		return len(s) == n
	default:
		return false
	}
	return true
}

// Count returns the value of the character count field of seg.
func (seg Segment) Count() int {
	switch seg.Mode {
	case Kanji:
		return utf8.RuneCountInString(seg.Text)
	case ECI:
		return 0
	}
	return len(seg.Text)
}

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class.  The segment is not validated.
func (seg Segment) EncodedLength(class int) int {
	if !seg.Mode.IsValid() {
		return 0
	}
	return seg.Mode.Length(len(seg.Text), seg.Count(), class)
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	if !seg.IsValid() {
		return SegmentError(seg)
	}
	m := &modes[seg.Mode]
	n := seg.Count()
	if n >= 1<<m.countLength[class] && seg.Mode != ECI {
		return CountError{seg, class}
	}
	s := seg.Text
	if seg.Mode == Kanji {
		t, err := japanese.ShiftJIS.NewEncoder().String(s)
		if err != nil {
			return SegmentError(seg)
		}
		s = t
	}
	b.Write(m.indicator, 4)
	b.Write(uint32(n), int(m.countLength[class]))
	enc3, enc2, enc1 := m.encode3, m.encode2, m.encode1
	if enc3 == nil && enc2 == nil && enc1 == nil {
		for i := 0; i < len(s); i++ {
			b.Write(uint32(s[i]), 8)
		}
		return nil
	}
	if enc3 != nil {
		for ; len(s) >= 3; s = s[3:] {
			b.Write(enc3([3]byte{s[0], s[1], s[2]}))
		}
	}
	if enc2 != nil {
		for ; len(s) >= 2; s = s[2:] {
			b.Write(enc2([2]byte{s[0], s[1]}))
		}
	}
	if enc1 != nil {
		for ; len(s) >= 1; s = s[1:] {
			b.Write(enc1(s[0]))
		}
	}
	if s != "" {
		panic("qr: " + m.name + " mode internal error")
	}
	return nil
}
