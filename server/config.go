// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/nusantara/qr/generator"
)

// Config holds server configuration with environment variable support.
type Config struct {
	Addr            string        `env:"QRD_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"QRD_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"QRD_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"QRD_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Request limits
	MaxData int `env:"QRD_MAX_DATA" envDefault:"4096"` // bytes of data
	MaxSize int `env:"QRD_MAX_SIZE" envDefault:"2000"` // pixels

	// Defaults for requests
	Generator generator.Options
}

// DefaultConfig returns the configuration LoadConfig yields
// in an empty environment.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		MaxData:         4096,
		MaxSize:         2000,
		Generator:       generator.DefaultOptions(),
	}
}

// LoadConfig reads the configuration from the environment and
// a .env file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("server: load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("server: parse environment: %w", err)
	}
	return cfg, nil
}
