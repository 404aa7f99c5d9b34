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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solv-team/solv/pkg/coda"
	"github.com/solv-team/solv/pkg/retry"
	"github.com/solv-team/solv/server/backend/scheduler"
	"github.com/solv-team/solv/server/profiling"
	"github.com/solv-team/solv/server/rostersync"
	"github.com/solv-team/solv/server/rpc"
	"github.com/solv-team/solv/server/speech"
	"github.com/solv-team/solv/server/speech/elevenlabs"
)

// Below are the values of the default values of SOLV config.
const (
	DefaultRPCPort            = 8080
	DefaultRPCReadTimeout     = 10 * time.Second
	DefaultRPCWriteTimeout    = 5 * time.Minute
	DefaultRPCMaxRequestBytes = 1 << 20

	DefaultProfilingPort = 8081

	DefaultSyncInterval   = time.Minute
	DefaultSyncRunOnStart = true

	DefaultSyncDocumentID       = "9omNdUhI4j"
	DefaultSyncTableID          = "grid-PZqFjHZRk_"
	DefaultColumnFirstName      = "c-B5jqLzoe_x"
	DefaultColumnLastName       = "c-_WlEd-pWCg"
	DefaultColumnTargetDocument = "c-jJ9R5VVvz0"
	DefaultColumnTargetTable    = "c-oN98cuRpc1"
	DefaultColumnCount          = "c-JfGAyru56_"
	DefaultSyncConcurrency      = 1
	DefaultSyncRunTimeout       = 4 * time.Minute
	DefaultSyncWaitTimeout      = 30 * time.Second
	DefaultSyncRetryMaxAttempts = retry.DefaultMaxAttempts
	DefaultSyncRetryBaseDelay   = retry.DefaultBaseDelay
	DefaultSyncRetryMode        = retry.ModeAll
	DefaultSyncRewriteDisplay   = false

	DefaultCodaBaseURL        = coda.DefaultBaseURL
	DefaultCodaRequestTimeout = coda.DefaultRequestTimeout
	DefaultCodaPageSize       = coda.DefaultPageSize

	DefaultElevenLabsBaseURL    = elevenlabs.DefaultBaseURL
	DefaultSpeechRequestTimeout = elevenlabs.DefaultRequestTimeout
	DefaultVoiceCacheTTL        = elevenlabs.DefaultVoiceCacheTTL
)

// Config is the configuration for creating a SOLV instance.
type Config struct {
	RPC       *rpc.Config        `yaml:"RPC"`
	Profiling *profiling.Config  `yaml:"Profiling"`
	Scheduler *scheduler.Config  `yaml:"Scheduler"`
	Sync      *rostersync.Config `yaml:"Sync"`
	Coda      *coda.Config       `yaml:"Coda"`
	Speech    *speech.Config     `yaml:"Speech"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultRPCPort, DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// RPCAddr returns the RPC address.
func (c *Config) RPCAddr() string {
	return fmt.Sprintf("localhost:%d", c.RPC.Port)
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.RPC.Validate(); err != nil {
		return err
	}

	if err := c.Profiling.Validate(); err != nil {
		return err
	}

	if err := c.Scheduler.Validate(); err != nil {
		return err
	}

	if err := c.Sync.Validate(); err != nil {
		return err
	}

	if err := c.Coda.Validate(); err != nil {
		return err
	}

	if err := c.Speech.Validate(); err != nil {
		return err
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	defaults := NewConfig()

	if c.RPC == nil {
		c.RPC = defaults.RPC
	}
	if c.RPC.Port == 0 {
		c.RPC.Port = DefaultRPCPort
	}
	if c.RPC.ReadTimeout == "" {
		c.RPC.ReadTimeout = DefaultRPCReadTimeout.String()
	}
	if c.RPC.WriteTimeout == "" {
		c.RPC.WriteTimeout = DefaultRPCWriteTimeout.String()
	}
	if c.RPC.MaxRequestBytes == 0 {
		c.RPC.MaxRequestBytes = DefaultRPCMaxRequestBytes
	}

	if c.Profiling == nil {
		c.Profiling = defaults.Profiling
	}
	if c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Scheduler == nil {
		c.Scheduler = defaults.Scheduler
	}
	if c.Scheduler.Interval == "" {
		c.Scheduler.Interval = DefaultSyncInterval.String()
	}

	if c.Sync == nil {
		c.Sync = defaults.Sync
	}
	if c.Sync.DocumentID == "" {
		c.Sync.DocumentID = DefaultSyncDocumentID
	}
	if c.Sync.TableID == "" {
		c.Sync.TableID = DefaultSyncTableID
	}
	if c.Sync.Columns.FirstName == "" {
		c.Sync.Columns.FirstName = DefaultColumnFirstName
	}
	if c.Sync.Columns.LastName == "" {
		c.Sync.Columns.LastName = DefaultColumnLastName
	}
	if c.Sync.Columns.TargetDocumentID == "" {
		c.Sync.Columns.TargetDocumentID = DefaultColumnTargetDocument
	}
	if c.Sync.Columns.TargetTableID == "" {
		c.Sync.Columns.TargetTableID = DefaultColumnTargetTable
	}
	if c.Sync.Columns.Count == "" {
		c.Sync.Columns.Count = DefaultColumnCount
	}
	if c.Sync.Concurrency == 0 {
		c.Sync.Concurrency = DefaultSyncConcurrency
	}
	if c.Sync.RunTimeout == "" {
		c.Sync.RunTimeout = DefaultSyncRunTimeout.String()
	}
	if c.Sync.WaitTimeout == "" {
		c.Sync.WaitTimeout = DefaultSyncWaitTimeout.String()
	}
	if c.Sync.Retry.MaxAttempts == 0 {
		c.Sync.Retry.MaxAttempts = DefaultSyncRetryMaxAttempts
	}
	if c.Sync.Retry.BaseDelay == "" {
		c.Sync.Retry.BaseDelay = DefaultSyncRetryBaseDelay.String()
	}
	if c.Sync.Retry.Mode == "" {
		c.Sync.Retry.Mode = DefaultSyncRetryMode
	}

	if c.Coda == nil {
		c.Coda = defaults.Coda
	}
	if c.Coda.BaseURL == "" {
		c.Coda.BaseURL = DefaultCodaBaseURL
	}
	if c.Coda.RequestTimeout == "" {
		c.Coda.RequestTimeout = DefaultCodaRequestTimeout.String()
	}
	if c.Coda.PageSize == 0 {
		c.Coda.PageSize = DefaultCodaPageSize
	}

	if c.Speech == nil {
		c.Speech = defaults.Speech
	}
	if c.Speech.ElevenLabsBaseURL == "" {
		c.Speech.ElevenLabsBaseURL = DefaultElevenLabsBaseURL
	}
	if c.Speech.RequestTimeout == "" {
		c.Speech.RequestTimeout = DefaultSpeechRequestTimeout.String()
	}
	if c.Speech.VoiceCacheTTL == "" {
		c.Speech.VoiceCacheTTL = DefaultVoiceCacheTTL.String()
	}
}

func newConfig(port int, profilingPort int) *Config {
	return &Config{
		RPC: &rpc.Config{
			Port:            port,
			ReadTimeout:     DefaultRPCReadTimeout.String(),
			WriteTimeout:    DefaultRPCWriteTimeout.String(),
			MaxRequestBytes: DefaultRPCMaxRequestBytes,
		},
		Profiling: &profiling.Config{
			Port: profilingPort,
		},
		Scheduler: &scheduler.Config{
			Interval:   DefaultSyncInterval.String(),
			RunOnStart: DefaultSyncRunOnStart,
		},
		Sync: &rostersync.Config{
			DocumentID: DefaultSyncDocumentID,
			TableID:    DefaultSyncTableID,
			Columns: rostersync.Columns{
				FirstName:        DefaultColumnFirstName,
				LastName:         DefaultColumnLastName,
				TargetDocumentID: DefaultColumnTargetDocument,
				TargetTableID:    DefaultColumnTargetTable,
				Count:            DefaultColumnCount,
			},
			RewriteDisplayFields: DefaultSyncRewriteDisplay,
			Concurrency:          DefaultSyncConcurrency,
			RunTimeout:           DefaultSyncRunTimeout.String(),
			WaitTimeout:          DefaultSyncWaitTimeout.String(),
			Retry: rostersync.RetryConfig{
				MaxAttempts: DefaultSyncRetryMaxAttempts,
				BaseDelay:   DefaultSyncRetryBaseDelay.String(),
				Mode:        DefaultSyncRetryMode,
			},
		},
		Coda: &coda.Config{
			BaseURL:        DefaultCodaBaseURL,
			RequestTimeout: DefaultCodaRequestTimeout.String(),
			PageSize:       DefaultCodaPageSize,
		},
		Speech: &speech.Config{
			ElevenLabsBaseURL: DefaultElevenLabsBaseURL,
			RequestTimeout:    DefaultSpeechRequestTimeout.String(),
			VoiceCacheTTL:     DefaultVoiceCacheTTL.String(),
		},
	}
}
