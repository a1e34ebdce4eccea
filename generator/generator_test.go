// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusantara/qr"
)

func decode(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestLoadOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	opts, err := LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	t.Setenv("QR_SIZE", "500")
	t.Setenv("QR_LEVEL", "q")
	t.Setenv("QR_LABEL", "Scan me")
	t.Setenv("QR_ROUNDED", "true")
	opts, err = LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, 500, opts.Size)
	assert.Equal(t, "q", opts.Level)
	assert.Equal(t, "Scan me", opts.Label)
	assert.True(t, opts.Rounded)

	t.Setenv("QR_SIZE", "big")
	_, err = LoadOptions()
	assert.Error(t, err)
}

func TestLoadOptionsDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("QR_MARGIN=3\nQR_FORMAT=svg\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QR_MARGIN") })
	// godotenv does not override the environment.
	t.Setenv("QR_FORMAT", "bmp")
	opts, err := LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Margin)
	assert.Equal(t, "bmp", opts.Format)
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Options){
		"Size":       func(o *Options) { o.Size = 0 },
		"Margin":     func(o *Options) { o.Margin = -1 },
		"Level":      func(o *Options) { o.Level = "x" },
		"Format":     func(o *Options) { o.Format = "gif" },
		"Foreground": func(o *Options) { o.Foreground = "12345" },
		"Background": func(o *Options) { o.Background = "zz" },
		"LabelAlign": func(o *Options) { o.Label, o.LabelAlign = "x", "top" },
		"LogoWidth":  func(o *Options) { o.LogoWidth = -5 },
	} {
		o := DefaultOptions()
		mod(&o)
		var cfg *qr.ConfigError
		require.ErrorAs(t, o.Validate(), &cfg, name)
		assert.Equal(t, name, cfg.Field)
	}
	o := DefaultOptions()
	o.Format = "webp"
	assert.ErrorIs(t, o.Validate(), qr.ErrUnsupportedFormat)
	o = DefaultOptions()
	assert.NoError(t, o.Validate())
}

func TestParseColor(t *testing.T) {
	for s, want := range map[string]color.NRGBA{
		"000":         {0, 0, 0, 0xff},
		"f00a":        {0xff, 0, 0, 0xaa},
		"#336699":     {0x33, 0x66, 0x99, 0xff},
		"11223344":    {0x11, 0x22, 0x33, 0x44},
		"White":       {0xff, 0xff, 0xff, 0xff},
		"transparent": {},
	} {
		c, err := ParseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, c, s)
	}
	for _, s := range []string{"", "12", "12345", "ggg", "#"} {
		_, err := ParseColor(s)
		assert.Error(t, err, s)
	}
}

func TestGenerate(t *testing.T) {
	g, err := New(DefaultOptions(), discard())
	require.NoError(t, err)
	b, err := g.Generate("https://example.com")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 320), img.Bounds())
	assert.Equal(t, "https://example.com", decode(t, img))

	uri, err := g.DataURI("https://example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	_, err = g.Generate("")
	var ee *qr.EncodingError
	assert.ErrorAs(t, err, &ee)
}

func TestGenerateLabel(t *testing.T) {
	o := DefaultOptions()
	o.Label = "Nusantara"
	g, err := New(o, nil)
	require.NoError(t, err)
	b, err := g.Generate("label")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 320+24), img.Bounds())
	assert.Equal(t, "label", decode(t, img))
}

func TestGenerateSVG(t *testing.T) {
	o := DefaultOptions()
	o.Format = "svg"
	o.Rounded = true
	g, err := New(o, discard())
	require.NoError(t, err)
	assert.Equal(t, qr.SVG, g.Format())
	b, err := g.Generate("svg")
	require.NoError(t, err)
	assert.Contains(t, string(b), `<svg xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, string(b), "<path ")
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	g, err := New(DefaultOptions(), discard())
	require.NoError(t, err)

	for _, name := range []string{"a.png", "b.svg", "c.bmp", "d.pbm"} {
		path := filepath.Join(dir, name)
		require.NoError(t, g.Save("save "+name, path))
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, fi.Size())
	}
	f, err := os.Open(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "save a.png", decode(t, img))

	assert.ErrorIs(t, g.Save("x", filepath.Join(dir, "e.webp")), qr.ErrUnsupportedFormat)
	assert.ErrorIs(t, g.Save("x", filepath.Join(dir, "f.gif")), qr.ErrUnsupportedFormat)

	// No temporary files are left behind.
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, ents, 4)
}

func TestLogo(t *testing.T) {
	dir := t.TempDir()
	logo := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range logo.Pix {
		logo.Pix[i] = 0xff
	}
	path := filepath.Join(dir, "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, logo))
	require.NoError(t, f.Close())

	var log bytes.Buffer
	o := DefaultOptions()
	o.Level = "L"
	o.LogoPath = path
	o.LogoWidth = 80
	g, err := New(o, slog.New(slog.NewTextHandler(&log, nil)))
	require.NoError(t, err)
	_, err = g.Generate("https://example.com/logo")
	require.NoError(t, err)
	assert.Contains(t, log.String(), "logo hides too many codewords")

	o.LogoPath = filepath.Join(dir, "missing.png")
	_, err = New(o, nil)
	var cfg *qr.ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "LogoPath", cfg.Field)
}

func TestGenerateAll(t *testing.T) {
	g, err := New(DefaultOptions(), discard())
	require.NoError(t, err)
	out, err := g.GenerateAll(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, b := range out {
		assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
	}

	_, err = g.GenerateAll(context.Background(), []string{"one", ""})
	var ee *qr.EncodingError
	assert.ErrorAs(t, err, &ee)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.GenerateAll(ctx, []string{"one"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDerive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	o := DefaultOptions()
	o.LogoPath = path
	g, err := New(o, discard())
	require.NoError(t, err)

	o.Size = 150
	o.Format = "svg"
	d, err := g.Derive(o)
	require.NoError(t, err)
	assert.Equal(t, qr.SVG, d.Format())
	assert.Equal(t, 150, d.Options().Size)
	assert.Same(t, g.s.render.Logo.Image, d.s.render.Logo.Image)

	o.Level = "z"
	_, err = g.Derive(o)
	var cfg *qr.ConfigError
	assert.ErrorAs(t, err, &cfg)
}
