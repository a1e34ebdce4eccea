package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusantara/qr"
)

func TestRandr(t *testing.T) {
	c, err := qr.Encode("randr", qr.M)
	require.NoError(t, err)
	saved := g
	t.Cleanup(func() { g = saved })

	flip()
	f := randr(c)
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			assert.Equal(t, c.Black(c.Size-1-x, y), f.Black(x, y))
		}
	}

	g.cx, g.inc = 0, [2]int{1, 1}
	rotate()
	r := randr(c)
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			assert.Equal(t, c.Black(c.Size-1-y, x), r.Black(x, y))
		}
	}
	// Four rotations are the identity.
	rotate()
	rotate()
	rotate()
	assert.Equal(t, [2]int{1, 1}, g.inc)
	assert.Same(t, c, randr(c))
}

func TestColour(t *testing.T) {
	saved := g
	t.Cleanup(func() { g = saved })
	var c rgba
	require.NoError(t, c.Set("f80", nil))
	assert.Equal(t, rgba{0xff, 0x88, 0x00, 0xff}, c)
	assert.Equal(t, "ff8800", c.String())
	assert.True(t, g.colSet)
	require.NoError(t, c.Set("white", nil))
	assert.Equal(t, "white", c.String())
	assert.Error(t, c.Set("12", nil))
}

func TestASCII(t *testing.T) {
	saved := g
	t.Cleanup(func() { g = saved })
	c, err := qr.Encode("ascii", qr.L)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, ascii(&b, c, qr.RenderOptions{Margin: 1}))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, c.Size+2)
	assert.Equal(t, strings.Repeat(" ", 2*(c.Size+2)), lines[0])
	assert.Equal(t, "  ##############  ", lines[1][:18])

	g.rev = true
	b.Reset()
	require.NoError(t, ascii(&b, c, qr.RenderOptions{Margin: 1}))
	assert.True(t, strings.HasPrefix(b.String(), strings.Repeat("#", 2*(c.Size+2))))
}

func TestEPS(t *testing.T) {
	c, err := qr.Encode("eps", qr.L)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, eps(&b, c, qr.RenderOptions{Scale: 4, Margin: 4}))
	out := b.String()
	assert.True(t, strings.HasPrefix(out, "%!PS-Adobe-2.0 EPSF-2.0\n"))
	assert.Contains(t, out, "%%Title: QR Code 1-L")
	// The top row starts with the finder: 7 dark modules, no gap.
	assert.Contains(t, out, "newpath 0 0 moveto\n7 0 p ")
	assert.True(t, strings.HasSuffix(out, "%%Trailer\n"))
}

func TestExitCode(t *testing.T) {
	_, err := qr.Encode("", qr.L)
	assert.Equal(t, exitEncode, exitCode(err))
	_, err = qr.ParseLevel("x")
	assert.Equal(t, exitUsage, exitCode(err))
	assert.Equal(t, exitError, exitCode(assert.AnError))
}
