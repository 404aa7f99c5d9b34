/*
 * Copyright 2026 The SOLV Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rpc

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRPCPort occurs when the port in the config is invalid.
	ErrInvalidRPCPort = errors.New("invalid port number for HTTP server")
	// ErrInvalidReadTimeout occurs when the read timeout is invalid.
	ErrInvalidReadTimeout = errors.New("invalid read timeout for HTTP server")
	// ErrInvalidWriteTimeout occurs when the write timeout is invalid.
	ErrInvalidWriteTimeout = errors.New("invalid write timeout for HTTP server")
	// ErrInvalidMaxRequestBytes occurs when the request size limit is invalid.
	ErrInvalidMaxRequestBytes = errors.New("invalid max request bytes for HTTP server")
)

// Config is the configuration for creating a Server instance.
type Config struct {
	// Port is the port number for the HTTP server.
	Port int `yaml:"Port"`

	// ReadTimeout is the maximum duration for reading an entire request.
	ReadTimeout string `yaml:"ReadTimeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must cover a whole sync run started by POST /sync.
	WriteTimeout string `yaml:"WriteTimeout"`

	// MaxRequestBytes is the maximum request body size the server accepts.
	MaxRequestBytes int64 `yaml:"MaxRequestBytes"`
}

// Validate validates the port number and the timeouts.
func (c *Config) Validate() error {
	if c.Port < 1 || 65535 < c.Port {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidRPCPort)
	}

	if _, err := time.ParseDuration(c.ReadTimeout); err != nil {
		return fmt.Errorf("%s: %w", c.ReadTimeout, ErrInvalidReadTimeout)
	}

	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("%s: %w", c.WriteTimeout, ErrInvalidWriteTimeout)
	}

	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("%d: %w", c.MaxRequestBytes, ErrInvalidMaxRequestBytes)
	}

	return nil
}
