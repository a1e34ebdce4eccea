// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"errors"
	"fmt"

	"github.com/nusantara/qr/coding"
)

// ErrUnsupportedFormat is returned for output formats that are
// recognised but cannot be produced.
var ErrUnsupportedFormat = errors.New("qr: unsupported output format")

// EncodingError reports text that cannot be encoded: empty text or a
// character not encodable in the requested mode.
type EncodingError struct {
	Offset int   // byte offset of the offending character, or -1
	Err    error // underlying error
}

func (e *EncodingError) Error() string { return e.Err.Error() }
func (e *EncodingError) Unwrap() error { return e.Err }

// CapacityExceededError reports data too long for the QR version
// at the error correction level.
type CapacityExceededError struct {
	Bits     int            // encoded length of the data
	Capacity int            // data capacity in bits, -1 if unknown
	Version  coding.Version // version tried
	Level    Level
}

func (e *CapacityExceededError) Error() string {
	if e.Capacity < 0 {
		return fmt.Sprintf("qr: data too long: %d bits at level %s", e.Bits, e.Level)
	}
	return fmt.Sprintf("qr: data too long: %d bits, version %s-%s holds %d",
		e.Bits, e.Version, e.Level, e.Capacity)
}

// ConfigError reports invalid encoding or rendering options.
type ConfigError struct {
	Field  string // option name
	Reason string
}

func (e *ConfigError) Error() string {
	return "qr: invalid " + e.Field + ": " + e.Reason
}
