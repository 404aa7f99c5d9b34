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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/solv-team/solv/internal/version"
)

const (
	namespace     = "solv"
	statusLabel   = "status"
	outcomeLabel  = "outcome"
	opLabel       = "operation"
	providerLabel = "provider"
	taskTypeLabel = "task_type"
	cacheLabel    = "cache"
	resultLabel   = "result"
)

// Sync run statuses.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunSkipped   = "skipped"
)

// Row outcomes.
const (
	RowUpdated = "updated"
	RowFailed  = "failed"
)

// Metrics manages the metric information that solv is trying to measure.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion        *prometheus.GaugeVec
	serverHandledCounter *prometheus.CounterVec

	syncRunsTotal      *prometheus.CounterVec
	syncRowsTotal      *prometheus.CounterVec
	syncRunSeconds     prometheus.Histogram
	retryAttemptsTotal *prometheus.CounterVec

	speechRequestsTotal   *prometheus.CounterVec
	speechAudioBytesTotal *prometheus.CounterVec

	cacheRequestsTotal *prometheus.CounterVec

	backgroundGoroutinesTotal *prometheus.GaugeVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		serverHandledCounter: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "server_handled_total",
			Help:      "Total number of HTTP requests completed on the server, regardless of success or failure.",
		}, []string{"method", "route", "code"}),
		syncRunsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "The total number of roster sync runs by status.",
		}, []string{statusLabel}),
		syncRowsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rows_total",
			Help:      "The total number of roster rows processed by outcome.",
		}, []string{outcomeLabel}),
		syncRunSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "run_seconds",
			Help:      "The duration of roster sync runs.",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		retryAttemptsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "retry_attempts_total",
			Help:      "The total number of retried remote calls by operation.",
		}, []string{opLabel}),
		speechRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "speech",
			Name:      "requests_total",
			Help:      "The total number of speech synthesis requests by provider and status.",
		}, []string{providerLabel, statusLabel}),
		speechAudioBytesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "speech",
			Name:      "audio_bytes_total",
			Help:      "The total bytes of synthesized audio by provider.",
		}, []string{providerLabel}),
		cacheRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "The total number of cache lookups by cache and result.",
		}, []string{cacheLabel, resultLabel}),
		backgroundGoroutinesTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "goroutines_total",
			Help:      "The total number of goroutines attached by a particular background task.",
		}, []string{taskTypeLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// AddServerHandledCounter adds the number of HTTP requests completed on the
// server.
func (m *Metrics) AddServerHandledCounter(method, route string, code int) {
	if m == nil {
		return
	}
	m.serverHandledCounter.With(prometheus.Labels{
		"method": method,
		"route":  route,
		"code":   strconv.Itoa(code),
	}).Inc()
}

// AddSyncRun adds a sync run with the given status.
func (m *Metrics) AddSyncRun(status string) {
	if m == nil {
		return
	}
	m.syncRunsTotal.With(prometheus.Labels{
		statusLabel: status,
	}).Inc()
}

// AddSyncRows adds the number of roster rows with the given outcome.
func (m *Metrics) AddSyncRows(outcome string, count int) {
	if m == nil {
		return
	}
	m.syncRowsTotal.With(prometheus.Labels{
		outcomeLabel: outcome,
	}).Add(float64(count))
}

// ObserveSyncRunSeconds adds an observation for the duration of a sync run.
func (m *Metrics) ObserveSyncRunSeconds(seconds float64) {
	if m == nil {
		return
	}
	m.syncRunSeconds.Observe(seconds)
}

// AddRetryAttempt adds a retried call of the given operation.
func (m *Metrics) AddRetryAttempt(operation string) {
	if m == nil {
		return
	}
	m.retryAttemptsTotal.With(prometheus.Labels{
		opLabel: operation,
	}).Inc()
}

// AddSpeechRequest adds a speech request to the given provider.
func (m *Metrics) AddSpeechRequest(provider, status string) {
	if m == nil {
		return
	}
	m.speechRequestsTotal.With(prometheus.Labels{
		providerLabel: provider,
		statusLabel:   status,
	}).Inc()
}

// AddSpeechAudioBytes adds the size of audio synthesized by the provider.
func (m *Metrics) AddSpeechAudioBytes(provider string, bytes int) {
	if m == nil {
		return
	}
	m.speechAudioBytesTotal.With(prometheus.Labels{
		providerLabel: provider,
	}).Add(float64(bytes))
}

// AddCacheRequest adds a lookup on the named cache.
func (m *Metrics) AddCacheRequest(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequestsTotal.With(prometheus.Labels{
		cacheLabel:  cache,
		resultLabel: result,
	}).Inc()
}

// AddBackgroundGoroutines adds the number of goroutines attached by a particular background task.
func (m *Metrics) AddBackgroundGoroutines(taskType string) {
	if m == nil {
		return
	}
	m.backgroundGoroutinesTotal.With(prometheus.Labels{
		taskTypeLabel: taskType,
	}).Inc()
}

// RemoveBackgroundGoroutines removes the number of goroutines attached by a particular background task.
func (m *Metrics) RemoveBackgroundGoroutines(taskType string) {
	if m == nil {
		return
	}
	m.backgroundGoroutinesTotal.With(prometheus.Labels{
		taskTypeLabel: taskType,
	}).Dec()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
