// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package generator produces QR code images from strings with
// options read from the environment.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/nusantara/qr"
)

// A Generator encodes and renders QR codes with fixed options.
// It is safe for concurrent use.
type Generator struct {
	opts Options
	s    *settings
	log  *slog.Logger
}

// New returns a Generator.  If opts.LogoPath is set, the logo is read
// once here.  A nil logger means slog.Default().
func New(opts Options, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := opts.compile()
	if err != nil {
		return nil, err
	}
	if opts.LogoPath != "" {
		img, err := imaging.Open(opts.LogoPath)
		if err != nil {
			return nil, &qr.ConfigError{Field: "LogoPath", Reason: err.Error()}
		}
		s.render.Logo = &qr.Logo{Image: img, Width: opts.LogoWidth, PunchOut: true}
	}
	return &Generator{opts: opts, s: s, log: logger}, nil
}

// Derive returns a Generator with options o and the logger of g.
// The logo of g is reused if o names the same file.
func (g *Generator) Derive(o Options) (*Generator, error) {
	if o.LogoPath != g.opts.LogoPath {
		return New(o, g.log)
	}
	s, err := o.compile()
	if err != nil {
		return nil, err
	}
	if l := g.s.render.Logo; l != nil {
		s.render.Logo = &qr.Logo{Image: l.Image, Width: o.LogoWidth, PunchOut: true}
	}
	return &Generator{opts: o, s: s, log: g.log}, nil
}

// Options returns the options g was created with.
func (g *Generator) Options() Options { return g.opts }

// Format returns the default output format of g.
func (g *Generator) Format() qr.Format { return g.s.format }

// Symbol encodes data.  A logo hiding more codewords than the level
// recovers is logged as a warning.
func (g *Generator) Symbol(data string) (*qr.Symbol, error) {
	sym, err := qr.EncodeOptions(data, qr.Options{Level: g.s.level, ECI: g.opts.ECI})
	if err != nil {
		return nil, err
	}
	if g.s.render.Logo != nil {
		cov, err := qr.LogoCoverage(sym, g.s.render)
		if err != nil {
			return nil, err
		}
		if !cov.OK() {
			g.log.Warn("logo hides too many codewords",
				slog.Int("version", int(sym.Version)),
				slog.String("level", sym.Level.String()),
				slog.Int("codewords", cov.Codewords),
				slog.Int("total", cov.Total),
				slog.Float64("limit", cov.Limit))
		}
	}
	return sym, nil
}

// Generate returns data rendered in the format of g: image bytes,
// an SVG document, or a data URI.
func (g *Generator) Generate(data string) ([]byte, error) {
	return g.GenerateFormat(data, g.s.format)
}

// GenerateFormat returns data rendered in format f.
func (g *Generator) GenerateFormat(data string, f qr.Format) ([]byte, error) {
	_, b, err := g.Output(data, f)
	return b, err
}

// Output returns the symbol encoding data and its rendering in
// format f.
func (g *Generator) Output(data string, f qr.Format) (*qr.Symbol, []byte, error) {
	sym, err := g.Symbol(data)
	if err != nil {
		return nil, nil, err
	}
	var b bytes.Buffer
	if err := qr.Write(&b, sym, g.s.render, f); err != nil {
		return nil, nil, err
	}
	g.log.Debug("generated QR code",
		slog.String("format", f.String()),
		slog.Int("version", int(sym.Version)),
		slog.Int("mask", sym.Mask),
		slog.Int("bytes", b.Len()))
	return sym, b.Bytes(), nil
}

// DataURI returns data as a PNG image in a data URI.
func (g *Generator) DataURI(data string) (string, error) {
	b, err := g.GenerateFormat(data, qr.DataURI)
	return string(b), err
}

// Save writes data to the file at path in the format its extension
// names.  The file is replaced atomically.
func (g *Generator) Save(data, path string) error {
	f, err := qr.FormatForPath(path)
	if err != nil {
		return err
	}
	b, err := g.GenerateFormat(data, f)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("generator: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	g.log.Info("saved QR code", slog.String("path", path), slog.String("format", f.String()))
	return nil
}

// GenerateAll generates each of data concurrently.  The first failure
// cancels the rest and is returned.
func (g *Generator) GenerateAll(ctx context.Context, data []string) ([][]byte, error) {
	out := make([][]byte, len(data))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range data {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := g.Generate(d)
			if err != nil {
				return fmt.Errorf("generator: item %d: %w", i, err)
			}
			out[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
