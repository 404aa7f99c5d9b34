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

package scheduler

import (
	"context"
	"time"

	"github.com/solv-team/solv/server/backend/background"
	"github.com/solv-team/solv/server/logging"
)

// Job is the work run on every tick.
type Job func(ctx context.Context) error

// Scheduler runs a job every interval until its background is closed.
type Scheduler struct {
	name       string
	interval   time.Duration
	runOnStart bool
	disabled   bool
	job        Job
}

// New creates a new scheduler instance.
func New(conf *Config, name string, job Job) (*Scheduler, error) {
	s := &Scheduler{
		name:       name,
		runOnStart: conf.RunOnStart,
		disabled:   conf.Disabled,
		job:        job,
	}
	if conf.Disabled {
		return s, nil
	}

	interval, err := conf.ParseInterval()
	if err != nil {
		return nil, err
	}
	s.interval = interval

	return s, nil
}

// Start attaches the scheduler loop to the given background. It does nothing
// when the scheduler is disabled.
func (s *Scheduler) Start(bg *background.Background) {
	if s.disabled {
		logging.DefaultLogger().Infof("SCHD: %s is disabled", s.name)
		return
	}

	bg.AttachGoroutine(s.run, s.name)
}

// run is the scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	logging.From(ctx).Infof("SCHD: %s every %s", s.name, s.interval)

	if !s.runOnStart && !s.wait(ctx) {
		return
	}

	for {
		if err := s.job(ctx); err != nil {
			logging.From(ctx).Errorf("SCHD: %s: %v", s.name, err)
		}

		if !s.wait(ctx) {
			return
		}
	}
}

// wait waits for the interval. It returns false when ctx is done.
func (s *Scheduler) wait(ctx context.Context) bool {
	select {
	case <-time.After(s.interval):
		return true
	case <-ctx.Done():
		logging.From(ctx).Infof("SCHD: %s stopped", s.name)
		return false
	}
}
