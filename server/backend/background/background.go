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

// Package background manages the long-running goroutines of the server, such
// as the sync scheduler, so that shutdown can wait for them to exit.
package background

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/profiling/prometheus"
)

type routineID struct {
	n atomic.Int32
}

func (c *routineID) next() string {
	return "b" + strconv.Itoa(int(c.n.Add(1)))
}

// Background is the background service. It is responsible for managing
// background routines.
type Background struct {
	// ctx is passed to every routine and canceled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	// closing is closed by Close.
	closing chan struct{}

	// wgMu blocks concurrent WaitGroup mutation while closing.
	wgMu sync.RWMutex

	// wg is used to wait for the routines to exit when closing.
	wg sync.WaitGroup

	routineID routineID

	// metrics is used to collect metrics with prometheus.
	metrics *prometheus.Metrics
}

// New creates a new background service.
func New(metrics *prometheus.Metrics) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{
		ctx:     ctx,
		cancel:  cancel,
		closing: make(chan struct{}),
		metrics: metrics,
	}
}

// AttachGoroutine creates a goroutine on a given function and tracks it using
// the background's WaitGroup. The context given to f is canceled by Close.
// It returns false if the service is already closed.
func (b *Background) AttachGoroutine(
	f func(ctx context.Context),
	taskType string,
) bool {
	b.wgMu.RLock() // this blocks with ongoing close(b.closing)
	defer b.wgMu.RUnlock()
	select {
	case <-b.closing:
		logging.DefaultLogger().Warnf("background has closed; skipping %s", taskType)
		return false
	default:
	}

	// now safe to add since WaitGroup wait has not started yet
	b.wg.Add(1)
	routineLogger := logging.New(b.routineID.next(), logging.NewField("task", taskType))
	b.metrics.AddBackgroundGoroutines(taskType)
	go func() {
		defer func() {
			b.wg.Done()
			b.metrics.RemoveBackgroundGoroutines(taskType)
		}()
		f(logging.With(b.ctx, routineLogger))
	}()
	return true
}

// Close closes the background service. This will cancel the context of the
// routines and wait for all of them to exit.
func (b *Background) Close() {
	b.wgMu.Lock()
	select {
	case <-b.closing:
		b.wgMu.Unlock()
		return
	default:
	}
	close(b.closing)
	b.wgMu.Unlock()

	b.cancel()
	b.wg.Wait()
}
