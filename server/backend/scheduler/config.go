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

// Package scheduler runs a job periodically inside a background routine.
package scheduler

import (
	"fmt"
	"time"
)

// Config is the configuration for the scheduler.
type Config struct {
	// Interval is the time between the end of a run and the start of the
	// next one.
	Interval string `yaml:"Interval"`

	// RunOnStart runs the job once right after start instead of waiting for
	// the first interval.
	RunOnStart bool `yaml:"RunOnStart"`

	// Disabled turns periodic runs off. Manual runs are still possible.
	Disabled bool `yaml:"Disabled"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Disabled {
		return nil
	}

	if _, err := c.ParseInterval(); err != nil {
		return fmt.Errorf(
			`invalid argument %s for "--sync-interval" flag: %w`,
			c.Interval,
			err,
		)
	}

	return nil
}

// ParseInterval parses the interval.
func (c *Config) ParseInterval() (time.Duration, error) {
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse interval %s: %w", c.Interval, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, given %s", c.Interval)
	}

	return interval, nil
}
