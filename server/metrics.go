// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RenderBuckets are latency buckets for encoding and rendering.
var RenderBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	version  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_requests_total",
				Help: "Total QR code requests",
			},
			[]string{"format", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qr_render_duration_seconds",
				Help:    "Time to encode and render a QR code in seconds",
				Buckets: RenderBuckets,
			},
			[]string{"format"},
		),
		version: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qr_symbol_version",
				Help:    "Versions of generated QR codes",
				Buckets: prometheus.LinearBuckets(1, 3, 14),
			},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.version)
	return m
}
