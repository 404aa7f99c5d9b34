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

package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solv-team/solv/pkg/coda"
	"github.com/solv-team/solv/server"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/rostersync"
	"github.com/solv-team/solv/server/speech"
)

type cellUpdate struct {
	Row struct {
		Cells []struct {
			Column string `json:"column"`
			Value  any    `json:"value"`
		} `json:"cells"`
	} `json:"row"`
}

func newTestConfig(baseURL string) *server.Config {
	conf := server.NewConfig()
	conf.Coda.APIToken = "token"
	conf.Coda.BaseURL = baseURL
	conf.Sync.DocumentID = "roster"
	conf.Sync.TableID = "grid-r"
	conf.Sync.Columns = rostersync.Columns{
		FirstName:        "c-fn",
		LastName:         "c-ln",
		TargetDocumentID: "c-doc",
		TargetTableID:    "c-tbl",
		Count:            "c-cnt",
	}
	conf.Sync.RewriteDisplayFields = true
	conf.Sync.Retry.MaxAttempts = 1
	return conf
}

func TestNew(t *testing.T) {
	t.Run("missing coda token test", func(t *testing.T) {
		_, err := server.New(server.NewConfig())
		assert.ErrorIs(t, err, coda.ErrMissingToken)
	})

	t.Run("create server test", func(t *testing.T) {
		conf := newTestConfig(coda.DefaultBaseURL)
		s, err := server.New(conf)
		require.NoError(t, err)
		assert.Equal(t, conf.RPCAddr(), s.RPCAddr())
		assert.Equal(t, 0, s.Stats().TotalRuns)
	})
}

func TestNewSyncer(t *testing.T) {
	var mu sync.Mutex
	var updates []cellUpdate

	codaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/docs/roster/tables/grid-r/rows":
			fmt.Fprint(w, `{"items":[{"id":"i-1","index":0,"values":`+
				`{"c-fn":"Ada","c-ln":"Lovelace","c-doc":"https://coda.io/d/Notes_dDoc2","c-tbl":"grid-d"}}]}`)
		case r.Method == http.MethodGet && r.URL.Path == "/docs/Doc2/tables/grid-d/rows":
			fmt.Fprint(w, `{"items":[{"id":"a","values":{}},{"id":"b","values":{}}]}`)
		case r.Method == http.MethodPut && r.URL.Path == "/docs/roster/tables/grid-r/rows/i-1":
			var update cellUpdate
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			mu.Lock()
			updates = append(updates, update)
			mu.Unlock()
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"requestId":"req-1","id":"i-1"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer codaServer.Close()

	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	syncer, err := server.NewSyncer(newTestConfig(codaServer.URL), metrics)
	require.NoError(t, err)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rostersync.StatusSuccess, result.Status)
	assert.Equal(t, 1, result.RowsUpdated)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "Doc2", result.Details[0].DocumentID)
	assert.Equal(t, 2, result.Details[0].Count)

	require.Len(t, updates, 1)
	cells := map[string]any{}
	for _, c := range updates[0].Row.Cells {
		cells[c.Column] = c.Value
	}
	assert.Equal(t, float64(2), cells["c-cnt"])
	assert.Equal(t, "Ada", cells["c-fn"])
	assert.Equal(t, "Lovelace", cells["c-ln"])
}

func TestNewSpeechService(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	t.Run("no provider configured test", func(t *testing.T) {
		service, err := server.NewSpeechService(context.Background(), server.NewConfig(), metrics)
		require.NoError(t, err)
		for _, info := range service.Providers() {
			assert.False(t, info.Configured, info.Name)
		}
	})

	t.Run("elevenlabs configured test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Speech.ElevenLabsAPIKey = "key"

		service, err := server.NewSpeechService(context.Background(), conf, metrics)
		require.NoError(t, err)
		assert.Contains(t, service.Providers(), speech.ProviderInfo{Name: speech.ProviderElevenLabs, Configured: true})
		assert.Contains(t, service.Providers(), speech.ProviderInfo{Name: speech.ProviderGoogle, Configured: false})
	})
}
