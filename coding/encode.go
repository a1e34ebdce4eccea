// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := NewPlan(version, level)
	if err != nil {
		return nil, err
	}
	return &Encoder{p: p, b: NewBits(version)}, nil
}

// Plan returns the Plan used by e.
func (e *Encoder) Plan() *Plan { return e.p }

// Bits returns the bits written to e.
func (e *Encoder) Bits() *Bits { return e.b }

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) Reset() { e.b.Reset() }

// xor xors a and b into dst.  a and b may not be shorter than dst.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Codewords returns the final codeword sequence of data written to e:
// padded data split into blocks with check bytes, interleaved.
func (e *Encoder) Codewords() ([]byte, error) {
	data, err := e.b.Pad(e.p.Version, e.p.Level)
	if err != nil {
		return nil, err
	}
	return Interleave(MakeBlocks(data, e.p.Version, e.p.Level)), nil
}

// Code returns a QR code containing data written to e.
func (e *Encoder) Code() (*Code, error) {
	cw, err := e.Codewords()
	if err != nil {
		return nil, err
	}
	c, _ := e.p.ChooseMask(e.p.Serialise(cw))
	return c, nil
}

// ChooseMask applies each mask pattern to the bitmap of data and
// check modules and returns the code with the smallest penalty and
// the penalty.  Ties go to the lowest mask number.
func (p *Plan) ChooseMask(data []byte) (*Code, int) {
	c := &Code{Size: p.Size, Stride: p.Stride, Bitmap: make([]byte, len(data))}
	best := make([]byte, len(data)) // best bitmap so far
	pen := 1 << 30                  // largest penalty is < 1<<20
	mask := 0
	for m, v := range p.Pattern {
		// set bitmap to data bits xor plan bits
		xor(c.Bitmap, data, v)
		c.Mask = m
		if n := c.Penalty(); n < pen {
			best, pen, c.Bitmap = c.Bitmap, n, best
			mask = m
		}
	}
	c.Bitmap = best
	c.Mask = mask
	c.Score = pen
	return c, pen
}

// Mask returns the code with the given mask pattern applied to the
// bitmap of data and check modules.
func (p *Plan) Mask(data []byte, mask int) *Code {
	c := &Code{Size: p.Size, Stride: p.Stride, Bitmap: make([]byte, len(data)), Mask: mask}
	xor(c.Bitmap, data, p.Pattern[mask])
	return c
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}
