// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/nusantara/qr/gf256"

// A Block is an error correction block.
type Block struct {
	Data  []byte // data codewords
	Check []byte // error correction codewords
}

// MakeBlocks splits the data codewords of a QR code of version v and
// level l into error correction blocks and computes their check bytes.
// The last len(data)%nblock blocks carry one extra data codeword.
func MakeBlocks(data []byte, v Version, l Level) []Block {
	if len(data) != v.DataBytes(l) {
		panic("qr: data length does not match version and level")
	}
	nblock, check := v.Blocks(l)
	short := len(data) / nblock
	normal := nblock - len(data)%nblock // blocks of short length
	rs := gf256.NewRSEncoder(Field, check)
	cb := make([]byte, nblock*check)
	blocks := make([]Block, nblock)
	for i := range blocks {
		n := short
		if i >= normal {
			n++
		}
		b := &blocks[i]
		b.Data, data = data[:n:n], data[n:]
		b.Check, cb = cb[:check:check], cb[check:]
		rs.ECC(b.Data, b.Check)
	}
	return blocks
}

// Interleave returns the final codeword sequence: the i-th data
// codeword of each block in turn, skipping exhausted short blocks,
// then the i-th check codeword of each block in turn.
func Interleave(blocks []Block) []byte {
	var n, maxd, maxc int
	for _, b := range blocks {
		n += len(b.Data) + len(b.Check)
		maxd = max(maxd, len(b.Data))
		maxc = max(maxc, len(b.Check))
	}
	out := make([]byte, 0, n)
	for i := 0; i < maxd; i++ {
		for _, b := range blocks {
			if i < len(b.Data) {
				out = append(out, b.Data[i])
			}
		}
	}
	for i := 0; i < maxc; i++ {
		for _, b := range blocks {
			if i < len(b.Check) {
				out = append(out, b.Check[i])
			}
		}
	}
	return out
}
