// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCapacity(t *testing.T) {
	for _, tc := range []struct {
		v    Version
		data [4]int
	}{
		{1, [4]int{19, 16, 13, 9}},
		{5, [4]int{108, 86, 62, 46}},
		{10, [4]int{274, 216, 154, 122}},
		{27, [4]int{1468, 1128, 808, 628}},
		{40, [4]int{2956, 2334, 1666, 1276}},
	} {
		for l := L; l <= H; l++ {
			assert.Equal(t, tc.data[l], tc.v.DataBytes(l), "version %d-%s", tc.v, l)
			assert.Equal(t, tc.data[l]*8, tc.v.DataBits(l), "version %d-%s", tc.v, l)
		}
	}
}

func TestVersionTable(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		// Every module of the symbol that is not a function
		// module belongs to a codeword or is a remainder bit.
		require.Greater(t, v.Bytes(), 0)
		for l := L; l <= H; l++ {
			nblock, check := v.Blocks(l)
			assert.Greater(t, v.DataBytes(l), 0)
			assert.Equal(t, v.Bytes(), v.DataBytes(l)+nblock*check)
			if l > L {
				assert.Less(t, v.DataBytes(l), v.DataBytes(l-1), "version %d-%s", v, l)
			}
		}
		if v > MinVersion {
			assert.Greater(t, v.DataBytes(L), (v - 1).DataBytes(L))
		}
	}
}

func TestRemainderBits(t *testing.T) {
	want := func(v Version) int {
		switch {
		case v == 1:
			return 0
		case v <= 6:
			return 7
		case v <= 13:
			return 0
		case v <= 20:
			return 3
		case v <= 27:
			return 4
		case v <= 34:
			return 3
		}
		return 0
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		assert.Equal(t, want(v), v.RemainderBits(), "version %d", v)
	}
}

func TestSizeClass(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		lo, hi := ClassVersions(v.SizeClass())
		assert.True(t, lo <= v && v <= hi, "version %d", v)
	}
	assert.Equal(t, Class0, Version(9).SizeClass())
	assert.Equal(t, Class1, Version(10).SizeClass())
	assert.Equal(t, Class1, Version(26).SizeClass())
	assert.Equal(t, Class2, Version(27).SizeClass())
	assert.Equal(t, 21, Version(1).Size())
	assert.Equal(t, 177, Version(40).Size())
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "LMQH", L.String()+M.String()+Q.String()+H.String())
	assert.Equal(t, "4", Level(4).String())
	assert.False(t, Level(-1).IsValid())
	assert.Equal(t, 30, H.Recovery())
}

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(0b101, 3)
	b.Write(0, 0)
	b.Write(0xffff_ffff, 32)
	b.Write(0b0110, 4)
	assert.Equal(t, 39, b.Bits())
	assert.Equal(t, "101"+"11111111111111111111111111111111"+"0110", b.String())
	assert.Equal(t, []byte{0xbf, 0xff, 0xff, 0xff, 0xec}, b.Bytes())
	b.Reset()
	assert.Zero(t, b.Bits())
	assert.Empty(t, b.Bytes())
}

func TestPad(t *testing.T) {
	var b Bits
	for _, seg := range []Segment{{"HELLO WORLD", Alphanumeric}} {
		require.NoError(t, seg.Encode(&b, Class0))
	}
	assert.Equal(t, 74, b.Bits())
	d, err := b.Pad(1, M)
	require.NoError(t, err)
	assert.Equal(t, []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64,
		236, 17, 236, 17, 236, 17}, d)
	assert.Equal(t, 74, b.Bits(), "Pad modified the buffer")

	// No room for the terminator.
	b.Reset()
	for i := 0; i < 16; i++ {
		b.Write(0xa5, 8)
	}
	d, err = b.Pad(1, M)
	require.NoError(t, err)
	assert.Len(t, d, 16)
	assert.Equal(t, byte(0xa5), d[15])

	// Terminator truncated to two bits, then the last byte is full.
	b.Reset()
	for i := 0; i < 15; i++ {
		b.Write(0xa5, 8)
	}
	b.Write(0b111111, 6)
	d, err = b.Pad(1, M)
	require.NoError(t, err)
	assert.Equal(t, byte(0xfc), d[15])

	b.Write(1, 3)
	_, err = b.Pad(1, M)
	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 129, ce.Bits)
	assert.Equal(t, 128, ce.Capacity)
}
