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
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solv-team/solv/pkg/coda"
	"github.com/solv-team/solv/server"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("fail read config file test", func(t *testing.T) {
		conf := server.NewConfig()
		assert.Equal(t, conf.RPCAddr(), "localhost:"+strconv.Itoa(server.DefaultRPCPort))
		_, err := server.NewConfigFromFile("nowhere.yml")
		assert.Error(t, err)
		assert.Equal(t, conf.RPC.Port, server.DefaultRPCPort)
		assert.Equal(t, conf.Sync.DocumentID, server.DefaultSyncDocumentID)
		assert.Equal(t, conf.Sync.Columns.Count, server.DefaultColumnCount)
	})

	t.Run("read config file test", func(t *testing.T) {
		filePath := "config.sample.yml"
		conf, err := server.NewConfigFromFile(filePath)
		assert.NoError(t, err)

		assert.Equal(t, conf.RPC.Port, server.DefaultRPCPort)
		assert.Equal(t, conf.Profiling.Port, server.DefaultProfilingPort)

		interval, err := conf.Scheduler.ParseInterval()
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultSyncInterval, interval)
		assert.True(t, conf.Scheduler.RunOnStart)

		assert.Equal(t, server.DefaultSyncDocumentID, conf.Sync.DocumentID)
		assert.Equal(t, server.DefaultSyncTableID, conf.Sync.TableID)
		assert.Equal(t, server.DefaultColumnTargetDocument, conf.Sync.Columns.TargetDocumentID)
		assert.Equal(t, server.DefaultColumnTargetTable, conf.Sync.Columns.TargetTableID)
		assert.Equal(t, server.DefaultSyncRetryMaxAttempts, conf.Sync.Retry.MaxAttempts)

		runTimeout, err := conf.Sync.ParseRunTimeout()
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultSyncRunTimeout, runTimeout)

		waitTimeout, err := conf.Sync.ParseWaitTimeout()
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultSyncWaitTimeout, waitTimeout)

		writeTimeout, err := time.ParseDuration(conf.RPC.WriteTimeout)
		assert.NoError(t, err)
		assert.Less(t, waitTimeout+runTimeout, writeTimeout, "a manual sync answers before the write deadline")

		requestTimeout, err := time.ParseDuration(conf.Coda.RequestTimeout)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultCodaRequestTimeout, requestTimeout)
		assert.Equal(t, server.DefaultCodaPageSize, conf.Coda.PageSize)
		assert.Empty(t, conf.Coda.APIToken)

		ttl, err := time.ParseDuration(conf.Speech.VoiceCacheTTL)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultVoiceCacheTTL, ttl)
	})

	t.Run("fill missing sections test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.yml")
		require.NoError(t, os.WriteFile(path, []byte("RPC:\n  Port: 9090\n"), 0o600))

		conf, err := server.NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, conf.RPC.Port)
		assert.Equal(t, server.DefaultRPCReadTimeout.String(), conf.RPC.ReadTimeout)
		assert.Equal(t, server.DefaultSyncDocumentID, conf.Sync.DocumentID)
		assert.Equal(t, server.DefaultCodaBaseURL, conf.Coda.BaseURL)
		assert.Equal(t, server.DefaultElevenLabsBaseURL, conf.Speech.ElevenLabsBaseURL)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing coda token test", func(t *testing.T) {
		conf := server.NewConfig()
		assert.ErrorIs(t, conf.Validate(), coda.ErrMissingToken)
	})

	t.Run("valid default config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Coda.APIToken = "token"
		assert.NoError(t, conf.Validate())
	})

	t.Run("invalid sync config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Coda.APIToken = "token"
		conf.Sync.Retry.Mode = "sometimes"
		assert.Error(t, conf.Validate())
	})

	t.Run("missing google credentials file test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Coda.APIToken = "token"
		conf.Speech.GoogleCredentialsFile = filepath.Join(t.TempDir(), "missing.json")
		assert.Error(t, conf.Validate())
	})
}
