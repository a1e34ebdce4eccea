// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/nusantara/qr"
)

// Options configure a Generator.  Sizes are in pixels.
type Options struct {
	Size          int    `env:"QR_SIZE" envDefault:"300"`   // code area, quiet zone included
	Margin        int    `env:"QR_MARGIN" envDefault:"10"`  // padding around the code area
	Level         string `env:"QR_LEVEL" envDefault:"H"`    // l, m, q or h
	Format        string `env:"QR_FORMAT" envDefault:"png"` // see qr.ParseFormat
	Label         string `env:"QR_LABEL"`
	LabelFontSize int    `env:"QR_LABEL_FONT_SIZE" envDefault:"16"`
	LabelAlign    string `env:"QR_LABEL_ALIGN" envDefault:"center"`
	LogoPath      string `env:"QR_LOGO_PATH"`
	LogoWidth     int    `env:"QR_LOGO_WIDTH"`
	Foreground    string `env:"QR_FOREGROUND" envDefault:"000000"`
	Background    string `env:"QR_BACKGROUND" envDefault:"ffffff"`
	Rounded       bool   `env:"QR_ROUNDED"`
	ECI           bool   `env:"QR_ECI" envDefault:"true"`
}

// DefaultOptions returns the options LoadOptions yields
// in an empty environment.
func DefaultOptions() Options {
	return Options{
		Size:          300,
		Margin:        10,
		Level:         "H",
		Format:        "png",
		LabelFontSize: qr.DefaultLabelSize,
		LabelAlign:    "center",
		Foreground:    "000000",
		Background:    "ffffff",
		ECI:           true,
	}
}

// LoadOptions reads options from the environment, after loading
// variables not already set from a .env file if there is one.
func LoadOptions() (Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Options{}, fmt.Errorf("generator: load .env: %w", err)
	}
	var o Options
	if err := env.Parse(&o); err != nil {
		return Options{}, fmt.Errorf("generator: parse environment: %w", err)
	}
	return o, nil
}

// Validate reports the first invalid option as *qr.ConfigError.
func (o *Options) Validate() error {
	_, err := o.compile()
	return err
}

// settings are options in the form the qr package takes.
type settings struct {
	level  qr.Level
	format qr.Format
	render qr.RenderOptions
}

func (o *Options) compile() (*settings, error) {
	var (
		s   settings
		err error
	)
	switch {
	case o.Size <= 0:
		return nil, &qr.ConfigError{Field: "Size", Reason: "must be positive, not " + strconv.Itoa(o.Size)}
	case o.Margin < 0:
		return nil, &qr.ConfigError{Field: "Margin", Reason: "negative margin " + strconv.Itoa(o.Margin)}
	case o.LogoWidth < 0:
		return nil, &qr.ConfigError{Field: "LogoWidth", Reason: "negative width " + strconv.Itoa(o.LogoWidth)}
	case o.LabelFontSize < 0:
		return nil, &qr.ConfigError{Field: "LabelFontSize", Reason: "negative size " + strconv.Itoa(o.LabelFontSize)}
	}
	if s.level, err = qr.ParseLevel(o.Level); err != nil {
		return nil, err
	}
	if s.format, err = qr.ParseFormat(o.Format); err != nil {
		return nil, err
	}
	if s.format == qr.WebP {
		return nil, fmt.Errorf("%w: %s", qr.ErrUnsupportedFormat, s.format)
	}
	s.render = qr.RenderOptions{
		Size:    o.Size + 2*o.Margin,
		Padding: o.Margin,
	}
	if s.render.Foreground, err = ParseColor(o.Foreground); err != nil {
		return nil, &qr.ConfigError{Field: "Foreground", Reason: err.Error()}
	}
	if s.render.Background, err = ParseColor(o.Background); err != nil {
		return nil, &qr.ConfigError{Field: "Background", Reason: err.Error()}
	}
	if o.Rounded {
		s.render.Shape = qr.Rounded
	}
	if o.Label != "" {
		align, err := qr.ParseAlignment(strings.ToLower(o.LabelAlign))
		if err != nil {
			return nil, err
		}
		s.render.Label = &qr.Label{Text: o.Label, Size: o.LabelFontSize, Align: align}
	}
	return &s, nil
}

var colorNames = map[string]color.NRGBA{
	"black":       {0x00, 0x00, 0x00, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0x00, 0x00, 0xff},
	"green":       {0x00, 0xff, 0x00, 0xff},
	"blue":        {0x00, 0x00, 0xff, 0xff},
	"navy":        {0x00, 0x00, 0x80, 0xff},
	"gray":        {0xbe, 0xbe, 0xbe, 0xff},
	"transparent": {},
}

// ParseColor parses a colour as 3, 4, 6 or 8 hex digits, RGB[A],
// optionally preceded by "#", or one of a few colour names.
func ParseColor(s string) (color.NRGBA, error) {
	if c, ok := colorNames[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return c, nil
	}
	h := strings.TrimPrefix(s, "#")
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(h) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		// Double each digit.
		var nn uint64
		for i := 0; i < 4; i++ {
			nn = nn<<8 | n>>12&0xf*0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%q: bad colour spec", s)
	}
	return color.NRGBA{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}
