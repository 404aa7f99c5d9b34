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

package coda

import (
	"fmt"
	"time"

	"github.com/solv-team/solv/internal/validation"
)

// Config is the configuration of the Coda client.
type Config struct {
	// APIToken is the bearer token. It is usually given by CODA_API_TOKEN.
	APIToken string `yaml:"APIToken"`

	BaseURL        string `yaml:"BaseURL" validate:"required,url"`
	RequestTimeout string `yaml:"RequestTimeout"`
	PageSize       int    `yaml:"PageSize" validate:"min=1,max=500"`
}

// Validate validates the configuration. A missing token is reported as
// ErrMissingToken.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return ErrMissingToken
	}

	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("coda: %w", err)
	}

	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf(`invalid argument %q for "--coda-request-timeout" flag: %w`, c.RequestTimeout, err)
	}

	return nil
}

// NewClient creates a client from the configuration.
func (c *Config) NewClient() (*Client, error) {
	timeout, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse request timeout %s: %w", c.RequestTimeout, err)
	}

	return NewClient(c.APIToken, Options{
		BaseURL:        c.BaseURL,
		RequestTimeout: timeout,
		PageSize:       c.PageSize,
	})
}
