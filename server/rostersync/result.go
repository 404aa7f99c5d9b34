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
	"time"
)

const (
	// StatusSuccess is the status of a run that reached every roster row,
	// even if some of them failed.
	StatusSuccess = "success"

	// StatusError is the status of a run that could not read the roster.
	StatusError = "error"

	// ReasonMissingTarget is recorded for a roster row without a detail
	// document or table reference.
	ReasonMissingTarget = "missing target reference"
)

// Detail is the outcome of a single roster row.
type Detail struct {
	RowID      string `json:"row_id"`
	Name       string `json:"name,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	TableID    string `json:"table_id,omitempty"`
	Count      int    `json:"count"`
	Updated    bool   `json:"updated"`
	Error      string `json:"error,omitempty"`
}

// Result is the outcome of a sync run.
type Result struct {
	RunID       string        `json:"run_id"`
	Status      string        `json:"status"`
	RowsSeen    int           `json:"rows_processed"`
	RowsUpdated int           `json:"rows_updated"`
	RowsFailed  int           `json:"errors"`
	Error       string        `json:"error,omitempty"`
	Details     []Detail      `json:"details"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// Failures returns the details of the rows that were not updated, in roster
// order.
func (r *Result) Failures() []Detail {
	var failures []Detail
	for _, d := range r.Details {
		if !d.Updated {
			failures = append(failures, d)
		}
	}
	return failures
}

// tally counts the details into the result.
func (r *Result) tally() {
	r.RowsSeen = len(r.Details)
	r.RowsUpdated = 0
	r.RowsFailed = 0
	for _, d := range r.Details {
		if d.Updated {
			r.RowsUpdated++
		} else {
			r.RowsFailed++
		}
	}
}
