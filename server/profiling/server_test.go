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

package profiling_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solv-team/solv/server/profiling"
	"github.com/solv-team/solv/server/profiling/prometheus"
)

func TestServer(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)
	metrics.AddSyncRun(prometheus.RunSucceeded)

	t.Run("metrics endpoint test", func(t *testing.T) {
		srv := httptest.NewServer(profiling.NewServer(&profiling.Config{Port: 8081}, metrics).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `solv_sync_runs_total{status="succeeded"} 1`)
		assert.Contains(t, string(body), "solv_server_version")
	})

	t.Run("pprof disabled test", func(t *testing.T) {
		srv := httptest.NewServer(profiling.NewServer(&profiling.Config{Port: 8081}, metrics).Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/debug/pprof/")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
