// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits strings into QR code segments.

Split finds the segmentation of a string with the smallest encoded
length and the smallest QR version holding it.  SplitVersion does the
same for a fixed version.
*/
package split // import "github.com/nusantara/qr/split"

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nusantara/qr/coding"
)

// Encoding modes usable in Options.Mode.
const (
	Numeric      = coding.Numeric
	Alphanumeric = coding.Alphanumeric
	Byte         = coding.Byte
	Kanji        = coding.Kanji

	// Auto selects modes per span of text.
	Auto = coding.Mode(-1)
)

var ErrEmpty = errors.New("qr: empty text")

// Options control splitting.
type Options struct {
	// Mode is Auto or the single mode encoding the whole text.
	Mode coding.Mode

	// NoKanji disables Kanji mode in Auto splits.
	NoKanji bool

	// ECI prepends an ECI segment designating UTF-8 to texts that
	// are not pure ASCII.
	ECI bool
}

// NotEncodableError reports a character the requested mode cannot
// encode.
type NotEncodableError struct {
	Pos  int         // byte offset in the text
	Rune rune        // offending character
	Mode coding.Mode // requested mode
}

func (e *NotEncodableError) Error() string {
	return fmt.Sprintf("qr: %q at offset %d not encodable in %s mode",
		e.Rune, e.Pos, e.Mode)
}

// Mode bits in span.modes.
const (
	numBit   = 1 << Numeric
	alphaBit = 1 << Alphanumeric
	byteBit  = 1 << Byte
	kanjiBit = 1 << Kanji
)

// classify returns the mode bits of modes accepting r.
func classify(r rune, kanji bool) byte {
	switch {
	case Numeric.Accepts(r):
		return numBit | alphaBit | byteBit
	case Alphanumeric.Accepts(r):
		return alphaBit | byteBit
	case kanji && coding.IsKanji(r):
		return kanjiBit | byteBit
	}
	return byteBit
}

/*
The splitter divides the text into spans of characters encodable in
the same set of modes, then walks the spans backwards.  For each span
and each mode the span accepts it records the cheapest chain of
segments covering the rest of the text, starting with a segment in
that mode.  A span either starts a new segment, linking to one of the
next span's segments, or joins the next span's segment of the same
mode.  When the first span is reached, its cheapest segment describes
the split of the whole text.
*/
type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		mode coding.Mode // encoding mode, -1 if unused
		next *segment    // link to next segment in the chain
		len  int         // length of string in bytes
		rlen int         // length of string in Unicode code points
		bits int         // encoded size of all segments in the chain
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		len  int        // length of string in bytes
		rlen int        // length of string in Unicode code points
		seg  [4]segment // segments, one per accepted mode
	}

	// Splitter calculates optimal splits of a string.
	Splitter struct {
		s      string
		sp     []span
		mode   coding.Mode // forced mode or Auto
		common byte        // modes accepting all of s
		ascii  bool        // s is pure ASCII
		eci    bool
	}
)

const inf = 1 << 30 // excessive encoded length

// New returns a Splitter for text.  If text contains a character not
// encodable in o.Mode, New returns a *NotEncodableError.
func New(text string, o Options) (*Splitter, error) {
	if text == "" {
		return nil, ErrEmpty
	}
	s := &Splitter{s: text, mode: o.Mode, ascii: true, eci: o.ECI}
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			s.ascii = false
			break
		}
	}
	if o.Mode != Auto {
		if !o.Mode.IsValid() || o.Mode == coding.ECI {
			return nil, coding.SegmentError{Text: text, Mode: o.Mode}
		}
		if o.Mode != Byte {
			for i, r := range text {
				if !o.Mode.Accepts(r) {
					return nil, &NotEncodableError{i, r, o.Mode}
				}
			}
		}
		return s, nil
	}

	var (
		old byte
		cur *span
	)
	s.common = numBit | alphaBit | byteBit | kanjiBit
	for i, n := 0, 0; i < len(text); i += n {
		var r rune
		r, n = utf8.DecodeRuneInString(text[i:])
		m := classify(r, !o.NoKanji)
		s.common &= m
		if m != old || cur == nil {
			s.sp = append(s.sp, span{})
			cur = &s.sp[len(s.sp)-1]
			j := 0
			for mode := Numeric; mode <= Kanji; mode++ {
				if m&(1<<mode) != 0 {
					cur.seg[j].mode = mode
					j++
				}
			}
			for ; j < len(cur.seg); j++ {
				cur.seg[j].mode = -1
			}
			old = m
		}
		cur.len += n
		cur.rlen++
	}
	return s, nil
}

// header returns the length of the ECI header, if any.
func (s *Splitter) header(class int) int {
	if s.eci && !s.ascii {
		return coding.ECISegment(coding.UTF8ECI).EncodedLength(class)
	}
	return 0
}

// length returns the encoded length of a segment, or inf if its
// character count overflows the count field.
func length(mode coding.Mode, n, rn, class int) int {
	count := n
	if mode == Kanji {
		count = rn
	}
	if count >= 1<<mode.CountLength(class) {
		return inf
	}
	return mode.Length(n, rn, class)
}

// add links v to the split after p, p being nil for the last span.
func (v *span) add(p *span, class int) {
	for j := range v.seg {
		seg := &v.seg[j]
		if seg.mode < 0 {
			break
		}
		seg.bits = inf
		if p == nil {
			seg.next = nil
			seg.len, seg.rlen = v.len, v.rlen
			seg.bits = length(seg.mode, v.len, v.rlen, class)
			continue
		}
		for k := range p.seg {
			next := &p.seg[k]
			if next.mode < 0 {
				break
			}
			if next.bits >= inf {
				continue
			}
			c := segment{mode: seg.mode, next: next, len: v.len, rlen: v.rlen}
			if next.mode == seg.mode {
				// join the next segment
				c.len += next.len
				c.rlen += next.rlen
				c.next = next.next
			}
			c.bits = length(c.mode, c.len, c.rlen, class)
			if c.next != nil {
				c.bits += c.next.bits
			}
			if c.bits < seg.bits {
				*seg = c
			}
		}
	}
}

// best returns a pointer to the segment in sp.seg with the smallest
// total encoded length.
func (sp *span) best() *segment {
	seg := &sp.seg[0]
	for j := 1; j < len(sp.seg) && sp.seg[j].mode >= 0; j++ {
		if sp.seg[j].bits < seg.bits {
			seg = &sp.seg[j]
		}
	}
	return seg
}

// Split returns an optimal split for the given QR version size class
// and its encoded length in bits, including the ECI header.
func (s *Splitter) Split(class int) ([]coding.Segment, int) {
	var segs []coding.Segment
	bits := s.header(class)
	if bits != 0 {
		segs = append(segs, coding.ECISegment(coding.UTF8ECI))
	}
	if s.mode != Auto {
		seg := coding.Segment{Text: s.s, Mode: s.mode}
		return append(segs, seg), bits + length(s.mode, len(s.s),
			utf8.RuneCountInString(s.s), class)
	}
	// process spans in reverse order
	var next *span
	for i := len(s.sp) - 1; i >= 0; i-- {
		s.sp[i].add(next, class)
		next = &s.sp[i]
	}
	head := s.sp[0].best()
	// Joining spans may lose a rounding bit against encoding the
	// whole text in one mode.
	for mode := Numeric; mode <= Kanji; mode++ {
		if s.common&(1<<mode) == 0 {
			continue
		}
		n := length(mode, len(s.s), utf8.RuneCountInString(s.s), class)
		if n < head.bits {
			return append(segs, coding.Segment{Text: s.s, Mode: mode}), bits + n
		}
	}
	if head.bits >= inf {
		return segs, inf
	}
	bits += head.bits
	off := 0
	for seg := head; seg != nil; seg = seg.next {
		segs = append(segs, coding.Segment{Text: s.s[off : off+seg.len], Mode: seg.mode})
		off += seg.len
	}
	return segs, bits
}

/*
Split returns segments and the smallest QR version holding text at
the given error correction level.  If text does not fit in version 40,
Split returns a *coding.CapacityError.
*/
func Split(text string, level coding.Level, o Options) ([]coding.Segment, coding.Version, error) {
	if !level.IsValid() {
		return nil, 0, coding.ErrLevel
	}
	s, err := New(text, o)
	if err != nil {
		return nil, 0, err
	}
	var bits int
	for class := coding.Class0; class <= coding.Class2; class++ {
		var segs []coding.Segment
		segs, bits = s.Split(class)
		lo, hi := coding.ClassVersions(class)
		if hi.DataBits(level) < bits {
			continue
		}
		// Find version in the size class.
		v := lo
		for max := hi; v < max; {
			if mid := (v + max) / 2; mid.DataBits(level) < bits {
				v = mid + 1
			} else {
				max = mid
			}
		}
		return segs, v, nil
	}
	return nil, 0, &coding.CapacityError{
		Bits:     bits,
		Capacity: coding.MaxVersion.DataBits(level),
		Version:  coding.MaxVersion,
		Level:    level,
	}
}

// SplitVersion returns segments for text in a QR code of version v
// and the given error correction level.  If text does not fit,
// SplitVersion returns a *coding.CapacityError.
func SplitVersion(text string, v coding.Version, level coding.Level, o Options) ([]coding.Segment, error) {
	if !v.IsValid() {
		return nil, coding.ErrVersion
	}
	if !level.IsValid() {
		return nil, coding.ErrLevel
	}
	s, err := New(text, o)
	if err != nil {
		return nil, err
	}
	segs, bits := s.Split(v.SizeClass())
	if capacity := v.DataBits(level); bits > capacity {
		return nil, &coding.CapacityError{Bits: bits, Capacity: capacity, Version: v, Level: level}
	}
	return segs, nil
}
