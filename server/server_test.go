// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	var log bytes.Buffer
	h, err := New(cfg, slog.New(slog.NewJSONHandler(&log, nil)), prometheus.NewRegistry())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, &log
}

func get(t *testing.T, srv *httptest.Server, path string, q url.Values) *http.Response {
	t.Helper()
	u := srv.URL + path
	if q != nil {
		u += "?" + q.Encode()
	}
	resp, err := http.Get(u)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestQR(t *testing.T) {
	srv, log := newTestServer(t, DefaultConfig())
	resp := get(t, srv, "/qr", url.Values{"data": {"https://example.com/server"}, "size": {"200"}, "margin": {"5"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 210, 210), img.Bounds())
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/server", res.GetText())

	assert.Contains(t, log.String(), `"path":"/qr"`)
	assert.Contains(t, log.String(), `"status":200`)
}

func TestQRFormats(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	for format, typ := range map[string]string{
		"svg":    "image/svg+xml",
		"bmp":    "image/bmp",
		"pbm":    "image/x-portable-bitmap",
		"base64": "text/plain; charset=utf-8",
	} {
		resp := get(t, srv, "/qr", url.Values{"data": {"formats"}, "format": {format}})
		require.Equal(t, http.StatusOK, resp.StatusCode, format)
		assert.Equal(t, typ, resp.Header.Get("Content-Type"), format)
	}
}

func TestQRErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxData = 100
	srv, _ := newTestServer(t, cfg)
	for _, tt := range []struct {
		name string
		q    url.Values
		code int
	}{
		{"no data", url.Values{}, http.StatusBadRequest},
		{"bad size", url.Values{"data": {"x"}, "size": {"big"}}, http.StatusBadRequest},
		{"huge size", url.Values{"data": {"x"}, "size": {"5000"}}, http.StatusBadRequest},
		{"bad level", url.Values{"data": {"x"}, "level": {"z"}}, http.StatusBadRequest},
		{"bad format", url.Values{"data": {"x"}, "format": {"gif"}}, http.StatusBadRequest},
		{"bad colour", url.Values{"data": {"x"}, "fg": {"nope"}}, http.StatusBadRequest},
		{"webp", url.Values{"data": {"x"}, "format": {"webp"}}, http.StatusUnsupportedMediaType},
		{"too long", url.Values{"data": {strings.Repeat("x", 101)}}, http.StatusRequestEntityTooLarge},
	} {
		resp := get(t, srv, "/qr", tt.q)
		assert.Equal(t, tt.code, resp.StatusCode, tt.name)
	}

	// Data that fits the request limit but not a version 40 code.
	cfg.MaxData = 4000
	srv, _ = newTestServer(t, cfg)
	resp := get(t, srv, "/qr", url.Values{"data": {strings.Repeat("x", 3000)}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	srv, log := newTestServer(t, DefaultConfig())
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	assert.Contains(t, log.String(), `"request_id":"abc-123"`)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig())
	get(t, srv, "/qr", url.Values{"data": {"metrics"}})
	get(t, srv, "/qr", url.Values{"data": {"metrics"}, "level": {"z"}})
	resp := get(t, srv, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `qr_requests_total{code="200",format="png"} 1`)
	assert.Contains(t, out, `qr_requests_total{code="400",format="png"} 1`)
	assert.Contains(t, out, "qr_render_duration_seconds_bucket")
	assert.Contains(t, out, "qr_symbol_version_count 1")
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QRD_ADDR", ":9999")
	t.Setenv("QRD_READ_TIMEOUT", "2s")
	t.Setenv("QR_LEVEL", "M")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "M", cfg.Generator.Level)
	assert.Equal(t, 300, cfg.Generator.Size)
	assert.Equal(t, 4096, cfg.MaxData)

	t.Setenv("QRD_MAX_DATA", "lots")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Level = "x"
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)
}
