// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
)

// A Format is an output format.
type Format int

const (
	PNG     Format = iota // PNG image
	SVG                   // SVG document
	BMP                   // Windows bitmap
	PBM                   // raw Portable Bit Map
	DataURI               // PNG image as a base64 data URI
	Text                  // UTF-8 half blocks
	WebP                  // recognised, not supported
)

var formatNames = [...]string{
	PNG:     "png",
	SVG:     "svg",
	BMP:     "bmp",
	PBM:     "pbm",
	DataURI: "base64",
	Text:    "utf8",
	WebP:    "webp",
}

var formatTypes = [...]string{
	PNG:     "image/png",
	SVG:     "image/svg+xml",
	BMP:     "image/bmp",
	PBM:     "image/x-portable-bitmap",
	DataURI: "text/plain; charset=utf-8",
	Text:    "text/plain; charset=utf-8",
	WebP:    "image/webp",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
	return formatNames[f]
}

// MIMEType returns the media type of output in format f.
func (f Format) MIMEType() string {
	if f < 0 || int(f) >= len(formatTypes) {
		return "application/octet-stream"
	}
	return formatTypes[f]
}

// ParseFormat parses a format name, as returned by String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "datauri", "data-uri":
		return DataURI, nil
	case "text", "txt":
		return Text, nil
	}
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(f), nil
		}
	}
	return 0, &ConfigError{Field: "Format", Reason: "unknown format " + strconv.Quote(s)}
}

// FormatForPath returns the format for a file name by its extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	case ".bmp":
		return BMP, nil
	case ".pbm":
		return PBM, nil
	case ".txt":
		return Text, nil
	case ".webp":
		return WebP, nil
	default:
		return 0, fmt.Errorf("%w: file extension %q", ErrUnsupportedFormat, ext)
	}
}

// Write renders s with options o and writes it to w in format f.
// Text output uses only the margin of o.
func Write(w io.Writer, s *Symbol, o RenderOptions, f Format) error {
	switch f {
	case SVG:
		v, err := Vector(s, o)
		if err != nil {
			return err
		}
		return v.WriteSVG(w)
	case Text:
		if o.Margin < 0 {
			return &ConfigError{Field: "Margin", Reason: "negative margin " + strconv.Itoa(o.Margin)}
		}
		return s.WriteText(w, o.Margin)
	case PNG, BMP, PBM, DataURI:
	case WebP:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	default:
		return &ConfigError{Field: "Format", Reason: "unknown format " + f.String()}
	}
	img, err := Render(s, o)
	if err != nil {
		return err
	}
	switch f {
	case BMP:
		return bmp.Encode(w, img)
	case PBM:
		return EncodePBM(w, img)
	case DataURI:
		if _, err := io.WriteString(w, "data:image/png;base64,"); err != nil {
			return err
		}
		enc := base64.NewEncoder(base64.StdEncoding, w)
		if err := png.Encode(enc, img); err != nil {
			return err
		}
		return enc.Close()
	}
	return png.Encode(w, img)
}
