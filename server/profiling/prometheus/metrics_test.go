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

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solv-team/solv/internal/version"
)

func TestMetrics(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)

	t.Run("server version test", func(t *testing.T) {
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.serverVersion.WithLabelValues(version.Version)))
	})

	t.Run("sync counters test", func(t *testing.T) {
		metrics.AddSyncRun(RunSucceeded)
		metrics.AddSyncRun(RunSucceeded)
		metrics.AddSyncRun(RunSkipped)
		metrics.AddSyncRows(RowUpdated, 4)
		metrics.AddSyncRows(RowFailed, 1)
		metrics.AddRetryAttempt("list rows")

		assert.Equal(t, float64(2), testutil.ToFloat64(metrics.syncRunsTotal.WithLabelValues(RunSucceeded)))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.syncRunsTotal.WithLabelValues(RunSkipped)))
		assert.Equal(t, float64(4), testutil.ToFloat64(metrics.syncRowsTotal.WithLabelValues(RowUpdated)))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.syncRowsTotal.WithLabelValues(RowFailed)))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.retryAttemptsTotal.WithLabelValues("list rows")))
	})

	t.Run("background goroutines test", func(t *testing.T) {
		metrics.AddBackgroundGoroutines("scheduler")
		metrics.AddBackgroundGoroutines("scheduler")
		metrics.RemoveBackgroundGoroutines("scheduler")
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.backgroundGoroutinesTotal.WithLabelValues("scheduler")))
	})

	t.Run("http and speech test", func(t *testing.T) {
		metrics.AddServerHandledCounter("POST", "/sync", 200)
		metrics.AddSpeechRequest("google", "ok")
		metrics.AddSpeechAudioBytes("google", 512)
		metrics.AddCacheRequest("voices", true)
		metrics.AddCacheRequest("voices", false)

		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.serverHandledCounter.WithLabelValues("POST", "/sync", "200")))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.speechRequestsTotal.WithLabelValues("google", "ok")))
		assert.Equal(t, float64(512), testutil.ToFloat64(metrics.speechAudioBytesTotal.WithLabelValues("google")))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheRequestsTotal.WithLabelValues("voices", "hit")))
	})

	t.Run("nil metrics test", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.AddServerHandledCounter("GET", "/healthz", 200)
			m.AddSyncRun(RunFailed)
			m.AddSyncRows(RowUpdated, 2)
			m.ObserveSyncRunSeconds(1.5)
			m.AddRetryAttempt("update row")
			m.AddSpeechRequest("elevenlabs", "ok")
			m.AddSpeechAudioBytes("elevenlabs", 64)
			m.AddCacheRequest("voices", false)
			m.AddBackgroundGoroutines("scheduler")
			m.RemoveBackgroundGoroutines("scheduler")
		})
		assert.Nil(t, m.Registry())
	})
}
