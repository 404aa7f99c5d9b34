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
	"sync"
	"time"
)

// Stats are the statistics of the runs since the process started.
type Stats struct {
	TotalRuns      int        `json:"total_runs"`
	SuccessfulRuns int        `json:"successful_runs"`
	FailedRuns     int        `json:"failed_runs"`
	SkippedRuns    int        `json:"skipped_runs"`
	Running        bool       `json:"running"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	LastResult     *Result    `json:"last_result,omitempty"`
}

type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func (s *statsRecorder) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Running = true
}

func (s *statsRecorder) finish(result *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Running = false
	s.stats.TotalRuns++
	startedAt := result.StartedAt
	s.stats.LastRun = &startedAt
	s.stats.LastResult = result
	if err != nil {
		s.stats.FailedRuns++
		s.stats.LastError = err.Error()
		return
	}
	s.stats.SuccessfulRuns++
	s.stats.LastError = ""
}

func (s *statsRecorder) skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.SkippedRuns++
}

func (s *statsRecorder) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.stats
	if s.stats.LastResult != nil {
		result := *s.stats.LastResult
		result.Details = append([]Detail(nil), s.stats.LastResult.Details...)
		snapshot.LastResult = &result
	}
	return snapshot
}
