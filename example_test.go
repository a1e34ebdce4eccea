// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nusantara/qr"
)

func ExampleEncode() {
	s, err := qr.Encode("HELLO WORLD", qr.Q)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Version, s.Size, s.Segments[0].Mode)
	// Output:
	// 1 21 alphanumeric
}

func ExampleEncodeOptions() {
	_, err := qr.EncodeOptions(strings.Repeat("a", 3000), qr.Options{Level: qr.H})
	var ce *qr.CapacityExceededError
	if errors.As(err, &ce) {
		fmt.Println(ce)
	}
	// Output:
	// qr: data too long: 24020 bits, version 40-H holds 10208
}

func ExampleWrite() {
	s, err := qr.Encode("HELLO WORLD", qr.Q)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := qr.Write(os.Stdout, s, qr.RenderOptions{Margin: 1}, qr.Text); err != nil {
		fmt.Println(err)
	}
}
