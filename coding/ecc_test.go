// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeBlocks(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			data := make([]byte, v.DataBytes(l))
			for i := range data {
				data[i] = byte(i)
			}
			blocks := MakeBlocks(data, v, l)
			nblock, check := v.Blocks(l)
			require.Len(t, blocks, nblock)
			short := len(blocks[0].Data)
			n := 0
			for i, b := range blocks {
				assert.Len(t, b.Check, check)
				assert.Contains(t, []int{short, short + 1}, len(b.Data))
				if i > 0 {
					assert.GreaterOrEqual(t, len(b.Data), len(blocks[i-1].Data),
						"version %d-%s: long blocks come last", v, l)
				}
				for _, d := range b.Data {
					require.Equal(t, byte(n), d)
					n++
				}
			}
			assert.Equal(t, len(data), n)
			assert.Len(t, Interleave(blocks), v.Bytes())
		}
	}
}

func TestBlocks5Q(t *testing.T) {
	data := make([]byte, Version(5).DataBytes(Q))
	blocks := MakeBlocks(data, 5, Q)
	var lens []int
	for _, b := range blocks {
		lens = append(lens, len(b.Data))
	}
	assert.Equal(t, []int{15, 15, 16, 16}, lens)
}

func TestInterleave(t *testing.T) {
	blocks := []Block{
		{Data: []byte{1, 2}, Check: []byte{10, 11}},
		{Data: []byte{3, 4, 5}, Check: []byte{12, 13}},
		{Data: []byte{6, 7, 8}, Check: []byte{14, 15}},
	}
	assert.Equal(t, []byte{1, 3, 6, 2, 4, 7, 5, 8, 10, 12, 14, 11, 13, 15},
		Interleave(blocks))
}

func TestHelloWorldCodewords(t *testing.T) {
	e, err := NewEncoder(1, M)
	require.NoError(t, err)
	require.NoError(t, e.Write(Segment{"HELLO WORLD", Alphanumeric}))
	cw, err := e.Codewords()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17,
		196, 35, 39, 119, 235, 215, 231, 226, 93, 23,
	}, cw)
}

func TestMakeBlocksLength(t *testing.T) {
	assert.Panics(t, func() { MakeBlocks(make([]byte, 10), 1, M) })
}
