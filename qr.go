// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes and renders them.

Encode and EncodeOptions turn text into an immutable Symbol.  Render
draws a Symbol into a raster image, Vector into a list of path
primitives, and Write into one of the supported output Formats.
*/
package qr // import "github.com/nusantara/qr"

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nusantara/qr/coding"
	"github.com/nusantara/qr/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// ParseLevel parses a level name: one of l, m, q, h, in either case,
// or low, medium, quartile, high.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "l", "low":
		return L, nil
	case "m", "medium":
		return M, nil
	case "q", "quartile":
		return Q, nil
	case "h", "high":
		return H, nil
	}
	return 0, &ConfigError{Field: "Level", Reason: "unknown level " + strconv.Quote(s)}
}

// A Mode selects segment encoding.
type Mode int

const (
	Auto         Mode = iota // optimal mix of modes
	Numeric                  // numeric mode only
	Alphanumeric             // alphanumeric mode only
	Byte                     // byte mode only
	Kanji                    // kanji mode only
)

func (m Mode) coding() coding.Mode {
	if m == Auto {
		return split.Auto
	}
	return coding.Mode(m - 1)
}

func (m Mode) String() string {
	if m == Auto {
		return "auto"
	}
	return m.coding().String()
}

// Options control encoding.  The zero value encodes at level L in the
// smallest version with automatic mode selection.
type Options struct {
	Level   Level
	Version coding.Version // 0 picks the smallest version that fits
	Mode    Mode
	NoKanji bool // no kanji mode in Auto
	ECI     bool // designate UTF-8 for text that is not ASCII
}

// A Symbol is an encoded QR code: a square grid of modules.
// A Symbol is not modified after Encode returns it.
type Symbol struct {
	Version  coding.Version   // QR version
	Level    Level            // error correction level
	Mask     int              // mask pattern
	Penalty  int              // penalty score of the mask
	Size     int              // number of modules on a side
	Stride   int              // number of bytes per row
	Bitmap   []byte           // 1 is black, 0 is white
	Segments []coding.Segment // encoded segments

	plan *coding.Plan
}

// Black returns true if the module at (x,y) is black.
// Modules outside the grid are white.
func (s *Symbol) Black(x, y int) bool {
	return 0 <= x && x < s.Size && 0 <= y && y < s.Size &&
		s.Bitmap[y*s.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Kind returns the kind of the module at (x,y).
func (s *Symbol) Kind(x, y int) coding.Kind {
	return s.plan.Kind(x, y)
}

// Modules returns the module grid as rows of booleans, true for black.
func (s *Symbol) Modules() [][]bool {
	m := make([][]bool, s.Size)
	for y := range m {
		m[y] = make([]bool, s.Size)
		for x := range m[y] {
			m[y][x] = s.Black(x, y)
		}
	}
	return m
}

// Encode returns an encoding of text at the given error correction
// level in the smallest version that holds it.
func Encode(text string, level Level) (*Symbol, error) {
	return EncodeOptions(text, Options{Level: level})
}

// EncodeOptions returns an encoding of text with the given options.
//
// It fails with *EncodingError if text is empty or contains characters
// the requested mode cannot encode, with *CapacityExceededError if text
// does not fit the version (version 40 when not pinned) at the level,
// and with *ConfigError on invalid options.
func EncodeOptions(text string, o Options) (*Symbol, error) {
	l := coding.Level(o.Level)
	if !l.IsValid() {
		return nil, &ConfigError{Field: "Level", Reason: "invalid level " + l.String()}
	}
	if o.Version != 0 && !o.Version.IsValid() {
		return nil, &ConfigError{Field: "Version", Reason: "must be 1 to 40, not " + o.Version.String()}
	}
	if o.Mode < Auto || o.Mode > Kanji {
		return nil, &ConfigError{Field: "Mode", Reason: "invalid mode"}
	}
	so := split.Options{Mode: o.Mode.coding(), NoKanji: o.NoKanji, ECI: o.ECI}
	var (
		segs []coding.Segment
		v    = o.Version
		err  error
	)
	if v == 0 {
		segs, v, err = split.Split(text, l, so)
	} else {
		segs, err = split.SplitVersion(text, v, l, so)
	}
	if err != nil {
		return nil, wrapError(err, o.Level)
	}

	e, err := coding.NewEncoder(v, l)
	if err != nil {
		return nil, wrapError(err, o.Level)
	}
	if err := e.Write(segs...); err != nil {
		return nil, wrapError(err, o.Level)
	}
	cw, err := e.Codewords()
	if err != nil {
		return nil, wrapError(err, o.Level)
	}
	p := e.Plan()
	c, pen := p.ChooseMask(p.Serialise(cw))
	return &Symbol{
		Version:  v,
		Level:    o.Level,
		Mask:     c.Mask,
		Penalty:  pen,
		Size:     c.Size,
		Stride:   c.Stride,
		Bitmap:   c.Bitmap,
		Segments: segs,
		plan:     p,
	}, nil
}

// wrapError converts errors of the coding and split packages.
func wrapError(err error, l Level) error {
	var (
		ne *split.NotEncodableError
		se coding.SegmentError
		ce *coding.CapacityError
		oe coding.CountError
	)
	switch {
	case errors.Is(err, split.ErrEmpty):
		return &EncodingError{Offset: -1, Err: err}
	case errors.As(err, &ne):
		return &EncodingError{Offset: ne.Pos, Err: err}
	case errors.As(err, &se):
		return &EncodingError{Offset: -1, Err: err}
	case errors.As(err, &ce):
		return &CapacityExceededError{
			Bits:     ce.Bits,
			Capacity: ce.Capacity,
			Version:  ce.Version,
			Level:    l,
		}
	case errors.As(err, &oe):
		return &CapacityExceededError{
			Bits:     oe.EncodedLength(oe.Class),
			Capacity: -1,
			Level:    l,
		}
	case errors.Is(err, coding.ErrVersion):
		return &ConfigError{Field: "Version", Reason: err.Error()}
	case errors.Is(err, coding.ErrLevel):
		return &ConfigError{Field: "Level", Reason: err.Error()}
	}
	return err
}
