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

// Package rostersync keeps the count column of a roster table equal to the
// number of rows of the detail table each roster row references.
package rostersync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/solv-team/solv/pkg/coda"
	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/pkg/retry"
	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/profiling/prometheus"
)

var (
	// ErrRosterUnavailable is returned when the roster could not be read and
	// the run was aborted before processing any row.
	ErrRosterUnavailable = errors.New("roster unavailable")

	// ErrSyncInProgress is returned when another run holds the roster: at
	// once by TrySync, after the wait timeout by Sync.
	ErrSyncInProgress = solverrors.WithStatus(errors.New("sync already in progress"), solverrors.ErrCodeAborted)
)

// Store is the remote tabular store read and written by the syncer.
type Store interface {
	ListRows(ctx context.Context, docID, tableID string) ([]coda.Row, error)
	UpdateRow(ctx context.Context, docID, tableID, rowID string, cells map[string]any) (*coda.MutationStatus, error)
}

// Syncer runs roster syncs. Runs never overlap.
type Syncer struct {
	conf    *Config
	store   Store
	metrics *prometheus.Metrics

	policy      retry.Policy
	runTimeout  time.Duration
	waitTimeout time.Duration
	concurrency int

	guard *semaphore.Weighted
	stats statsRecorder
}

// New creates a new Syncer. The configuration must be valid.
func New(conf *Config, store Store, metrics *prometheus.Metrics) (*Syncer, error) {
	policy, err := conf.RetryPolicy()
	if err != nil {
		return nil, err
	}
	runTimeout, err := conf.ParseRunTimeout()
	if err != nil {
		return nil, err
	}
	waitTimeout, err := conf.ParseWaitTimeout()
	if err != nil {
		return nil, err
	}

	concurrency := conf.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	policy.OnRetry = func(op string, _ int, _ time.Duration, _ error) {
		metrics.AddRetryAttempt(op)
	}

	return &Syncer{
		conf:        conf,
		store:       store,
		metrics:     metrics,
		policy:      policy,
		runTimeout:  runTimeout,
		waitTimeout: waitTimeout,
		concurrency: concurrency,
		guard:       semaphore.NewWeighted(1),
	}, nil
}

// Sync runs a sync, waiting up to the wait timeout for a run in progress to
// finish first, after which it returns ErrSyncInProgress. Row failures are
// reported in the result. The error is non-nil only when the run could not
// start or the roster could not be read; in the latter case the result is
// returned too.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.waitTimeout)
	defer cancel()

	if err := s.guard.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("wait for running sync: %w", err)
		}
		s.stats.skip()
		s.metrics.AddSyncRun(prometheus.RunSkipped)
		logging.From(ctx).Infof("SYNC: previous run still in progress after %s, giving up", s.waitTimeout)
		return nil, ErrSyncInProgress
	}
	defer s.guard.Release(1)

	return s.run(ctx)
}

// TrySync runs a sync unless one is in progress, in which case it returns
// ErrSyncInProgress without touching the store.
func (s *Syncer) TrySync(ctx context.Context) (*Result, error) {
	if !s.guard.TryAcquire(1) {
		s.stats.skip()
		s.metrics.AddSyncRun(prometheus.RunSkipped)
		logging.From(ctx).Info("SYNC: previous run still in progress, skipping")
		return nil, ErrSyncInProgress
	}
	defer s.guard.Release(1)

	return s.run(ctx)
}

// Stats returns the statistics of the runs so far.
func (s *Syncer) Stats() Stats {
	return s.stats.snapshot()
}

func (s *Syncer) run(ctx context.Context) (*Result, error) {
	runID := xid.New().String()
	ctx = logging.With(ctx, logging.New(runID, logging.NewField("task", "sync")))
	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	s.stats.begin()
	result := &Result{
		RunID:     runID,
		Status:    StatusSuccess,
		Details:   []Detail{},
		StartedAt: time.Now(),
	}

	err := s.reconcile(ctx, result)
	result.Duration = time.Since(result.StartedAt)
	s.stats.finish(result, err)
	s.metrics.ObserveSyncRunSeconds(result.Duration.Seconds())

	if err != nil {
		s.metrics.AddSyncRun(prometheus.RunFailed)
		logging.From(ctx).Errorf("SYNC: aborted after %s: %v", result.Duration, err)
		return result, err
	}

	s.metrics.AddSyncRun(prometheus.RunSucceeded)
	s.metrics.AddSyncRows(prometheus.RowUpdated, result.RowsUpdated)
	s.metrics.AddSyncRows(prometheus.RowFailed, result.RowsFailed)
	logging.From(ctx).Infof(
		"SYNC: rows %d, updated %d, failed %d, %s",
		result.RowsSeen,
		result.RowsUpdated,
		result.RowsFailed,
		result.Duration,
	)
	return result, nil
}

// reconcile reads the roster and processes every row into result.
func (s *Syncer) reconcile(ctx context.Context, result *Result) error {
	rows, err := retry.Do(ctx, s.policy, "list roster", func() ([]coda.Row, error) {
		return s.store.ListRows(ctx, s.conf.DocumentID, s.conf.TableID)
	})
	if err != nil {
		result.Status = StatusError
		result.RowsFailed = 1
		result.Error = err.Error()
		return fmt.Errorf("%w: %w", ErrRosterUnavailable, err)
	}

	details := make([]Detail, len(rows))
	group := errgroup.Group{}
	group.SetLimit(s.concurrency)
	for i, row := range rows {
		i, row := i, row
		group.Go(func() error {
			details[i] = s.syncRow(ctx, row)
			return nil
		})
	}
	_ = group.Wait()

	result.Details = details
	result.tally()
	return nil
}

// syncRow counts the detail table of a roster row and writes the count back.
func (s *Syncer) syncRow(ctx context.Context, row coda.Row) Detail {
	cols := s.conf.Columns
	detail := Detail{
		RowID:      row.ID,
		Name:       displayName(row, cols),
		DocumentID: coda.ParseDocID(row.String(cols.TargetDocumentID)),
		TableID:    row.String(cols.TargetTableID),
	}

	if detail.DocumentID == "" || detail.TableID == "" {
		logging.From(ctx).Warnf("SYNC: row %s: %s", row.ID, ReasonMissingTarget)
		detail.Error = ReasonMissingTarget
		return detail
	}

	detailRows, err := retry.Do(ctx, s.policy, "list detail rows", func() ([]coda.Row, error) {
		return s.store.ListRows(ctx, detail.DocumentID, detail.TableID)
	})
	if err != nil {
		logging.From(ctx).Warnf("SYNC: row %s: fetch %s/%s: %v", row.ID, detail.DocumentID, detail.TableID, err)
		detail.Error = err.Error()
		return detail
	}
	detail.Count = len(detailRows)

	cells := map[string]any{cols.Count: detail.Count}
	if s.conf.RewriteDisplayFields {
		for _, col := range []string{cols.FirstName, cols.LastName} {
			if value, ok := row.Values[col]; ok && col != "" {
				cells[col] = value
			}
		}
	}

	if _, err := retry.Do(ctx, s.policy, "update roster row", func() (*coda.MutationStatus, error) {
		return s.store.UpdateRow(ctx, s.conf.DocumentID, s.conf.TableID, row.ID, cells)
	}); err != nil {
		logging.From(ctx).Warnf("SYNC: row %s: update count %d: %v", row.ID, detail.Count, err)
		detail.Error = err.Error()
		return detail
	}

	detail.Updated = true
	logging.From(ctx).Debugf("SYNC: row %s: count %d", row.ID, detail.Count)
	return detail
}

func displayName(row coda.Row, cols Columns) string {
	var parts []string
	for _, col := range []string{cols.FirstName, cols.LastName} {
		if col == "" {
			continue
		}
		if v := row.String(col); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
