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

package rostersync

import (
	"fmt"
	"time"

	"github.com/solv-team/solv/internal/validation"
	"github.com/solv-team/solv/pkg/retry"
)

// Columns are the IDs of the roster columns read and written by a sync.
type Columns struct {
	// FirstName and LastName are display-only. They are re-written verbatim
	// when RewriteDisplayFields is set.
	FirstName string `yaml:"FirstName" validate:"omitempty,coda_id"`
	LastName  string `yaml:"LastName" validate:"omitempty,coda_id"`

	// TargetDocumentID holds the ID or browser link of the document that
	// contains the detail table.
	TargetDocumentID string `yaml:"TargetDocumentID" validate:"required,coda_id"`

	// TargetTableID holds the ID of the detail table.
	TargetTableID string `yaml:"TargetTableID" validate:"required,coda_id"`

	// Count receives the number of rows of the detail table.
	Count string `yaml:"Count" validate:"required,coda_id"`
}

// RetryConfig is the retry policy of every remote call of a sync.
type RetryConfig struct {
	// MaxAttempts is the number of attempts including the first one.
	MaxAttempts int `yaml:"MaxAttempts" validate:"min=1,max=10"`

	// BaseDelay is the wait after the first failure. It doubles after each
	// further failure.
	BaseDelay string `yaml:"BaseDelay"`

	// Mode is "all" to retry every failure or "transient" to retry only
	// timeouts, connection resets, rate limits and 5xx responses.
	Mode string `yaml:"Mode"`
}

// Config is the configuration of the roster sync.
type Config struct {
	// DocumentID and TableID address the roster table.
	DocumentID string `yaml:"DocumentID" validate:"required,coda_id"`
	TableID    string `yaml:"TableID" validate:"required,coda_id"`

	Columns Columns `yaml:"Columns"`

	// RewriteDisplayFields re-writes the first and last name along with the
	// count.
	RewriteDisplayFields bool `yaml:"RewriteDisplayFields"`

	// Concurrency is the number of roster rows processed at once.
	Concurrency int `yaml:"Concurrency" validate:"min=1,max=32"`

	// RunTimeout bounds a whole run.
	RunTimeout string `yaml:"RunTimeout"`

	// WaitTimeout bounds how long Sync waits for a run in progress before
	// giving up with ErrSyncInProgress.
	WaitTimeout string `yaml:"WaitTimeout"`

	Retry RetryConfig `yaml:"Retry"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("roster sync: %w", err)
	}

	if _, err := c.ParseRunTimeout(); err != nil {
		return fmt.Errorf(`invalid argument %q for "--sync-run-timeout" flag: %w`, c.RunTimeout, err)
	}

	if _, err := c.ParseWaitTimeout(); err != nil {
		return fmt.Errorf(`invalid argument %q for "--sync-wait-timeout" flag: %w`, c.WaitTimeout, err)
	}

	if _, err := c.RetryPolicy(); err != nil {
		return err
	}

	return nil
}

// ParseRunTimeout parses the run timeout.
func (c *Config) ParseRunTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.RunTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse run timeout %s: %w", c.RunTimeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("run timeout must be positive, given %s", c.RunTimeout)
	}

	return timeout, nil
}

// ParseWaitTimeout parses the wait timeout.
func (c *Config) ParseWaitTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.WaitTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse wait timeout %s: %w", c.WaitTimeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("wait timeout must be positive, given %s", c.WaitTimeout)
	}

	return timeout, nil
}

// RetryPolicy builds the retry policy of the configuration.
func (c *Config) RetryPolicy() (retry.Policy, error) {
	baseDelay, err := time.ParseDuration(c.Retry.BaseDelay)
	if err != nil {
		return retry.Policy{}, fmt.Errorf(
			`invalid argument %q for "--sync-retry-base-delay" flag: %w`,
			c.Retry.BaseDelay,
			err,
		)
	}

	shouldRetry, err := retry.ParseMode(c.Retry.Mode)
	if err != nil {
		return retry.Policy{}, fmt.Errorf(`invalid argument for "--sync-retry-mode" flag: %w`, err)
	}

	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   baseDelay,
		ShouldRetry: shouldRetry,
	}, nil
}
