// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server serves QR codes over HTTP.
//
//	GET /qr?data=...&format=png&size=300&margin=10&level=H&label=...
//	GET /healthz
//	GET /metrics
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nusantara/qr"
	"github.com/nusantara/qr/generator"
)

// RequestIDHeader carries the request ID.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID returns the ID of the request with context ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type server struct {
	cfg Config
	gen *generator.Generator
	log *slog.Logger
	m   *metrics
}

// New returns the HTTP handler of the server.  Metrics are registered
// with reg, a new registry if nil.  A nil logger means slog.Default().
func New(cfg Config, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	gen, err := generator.New(cfg.Generator, logger)
	if err != nil {
		return nil, err
	}
	s := &server{cfg: cfg, gen: gen, log: logger, m: newMetrics(reg)}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Get("/qr", s.handleQR)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r, nil
}

func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}

// status returns the HTTP status for an encoding or rendering error.
func status(err error) int {
	var (
		ee  *qr.EncodingError
		ce  *qr.CapacityExceededError
		cfg *qr.ConfigError
	)
	switch {
	case errors.As(err, &ee), errors.As(err, &cfg):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, qr.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

// options applies the query parameters of r to the default options.
func (s *server) options(r *http.Request) (generator.Options, error) {
	o := s.cfg.Generator
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		v    *int
	}{
		{"size", &o.Size},
		{"margin", &o.Margin},
	} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return o, &qr.ConfigError{Field: p.name, Reason: "not a number: " + strconv.Quote(v)}
			}
			*p.v = n
		}
	}
	if o.Size+2*o.Margin > s.cfg.MaxSize {
		return o, &qr.ConfigError{Field: "size", Reason: "image larger than " + strconv.Itoa(s.cfg.MaxSize) + " pixels"}
	}
	for _, p := range []struct {
		name string
		v    *string
	}{
		{"format", &o.Format},
		{"level", &o.Level},
		{"label", &o.Label},
		{"fg", &o.Foreground},
		{"bg", &o.Background},
	} {
		if q.Has(p.name) {
			*p.v = q.Get(p.name)
		}
	}
	if v := q.Get("rounded"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, &qr.ConfigError{Field: "rounded", Reason: "not a boolean: " + strconv.Quote(v)}
		}
		o.Rounded = b
	}
	return o, nil
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, format string, err error) {
	s.failCode(w, r, format, status(err), err)
}

func (s *server) failCode(w http.ResponseWriter, r *http.Request, format string, code int, err error) {
	s.m.requests.WithLabelValues(format, strconv.Itoa(code)).Inc()
	if code == http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "render failed",
			slog.String("request_id", RequestID(r.Context())),
			slog.Any("error", err))
	}
	http.Error(w, err.Error(), code)
}

func (s *server) handleQR(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	format := s.gen.Format().String()
	if data == "" {
		s.fail(w, r, format, &qr.EncodingError{Offset: -1, Err: errors.New("qr: missing data parameter")})
		return
	}
	o, err := s.options(r)
	if err != nil {
		s.fail(w, r, format, err)
		return
	}
	if f, err := qr.ParseFormat(o.Format); err == nil {
		format = f.String()
	}
	if len(data) > s.cfg.MaxData {
		s.failCode(w, r, format, http.StatusRequestEntityTooLarge,
			errors.New("data longer than "+strconv.Itoa(s.cfg.MaxData)+" bytes"))
		return
	}
	g, err := s.gen.Derive(o)
	if err != nil {
		s.fail(w, r, format, err)
		return
	}
	start := time.Now()
	sym, b, err := g.Output(data, g.Format())
	if err != nil {
		s.fail(w, r, format, err)
		return
	}
	s.m.duration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	s.m.version.Observe(float64(sym.Version))
	s.m.requests.WithLabelValues(format, strconv.Itoa(http.StatusOK)).Inc()
	w.Header().Set("Content-Type", g.Format().MIMEType())
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Write(b)
}
