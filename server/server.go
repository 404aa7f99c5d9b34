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

// Package server provides the SOLV server which is the main entry point of
// the system. The server wires the roster sync, the speech service, the
// scheduler and the HTTP servers together.
package server

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/solv-team/solv/server/backend/background"
	"github.com/solv-team/solv/server/backend/scheduler"
	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/profiling"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/rostersync"
	"github.com/solv-team/solv/server/rpc"
	"github.com/solv-team/solv/server/speech"
	"github.com/solv-team/solv/server/speech/elevenlabs"
	"github.com/solv-team/solv/server/speech/google"
)

const rosterSyncTask = "roster_sync"

// Solv is a server of SOLV.
// It keeps the detail counts of the roster table up to date and serves the
// HTTP API for manual syncs and text-to-speech.
type Solv struct {
	lock gosync.Mutex

	conf            *Config
	metrics         *prometheus.Metrics
	background      *background.Background
	syncer          *rostersync.Syncer
	scheduler       *scheduler.Scheduler
	rpcServer       *rpc.Server
	profilingServer *profiling.Server

	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of Solv.
func New(conf *Config) (*Solv, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	syncer, err := NewSyncer(conf, metrics)
	if err != nil {
		return nil, err
	}

	speechService, err := NewSpeechService(context.Background(), conf, metrics)
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(conf.Scheduler, rosterSyncTask, func(ctx context.Context) error {
		_, err := syncer.TrySync(ctx)
		if errors.Is(err, rostersync.ErrSyncInProgress) {
			logging.From(ctx).Infof("SCHD: %s skipped, a run is in progress", rosterSyncTask)
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	rpcServer, err := rpc.NewServer(conf.RPC, syncer, speechService, metrics)
	if err != nil {
		return nil, err
	}

	var profilingServer *profiling.Server
	if !conf.Profiling.Disabled {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	return &Solv{
		conf:            conf,
		metrics:         metrics,
		background:      background.New(metrics),
		syncer:          syncer,
		scheduler:       sched,
		rpcServer:       rpcServer,
		profilingServer: profilingServer,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// NewSyncer creates the roster syncer backed by the Coda API.
func NewSyncer(conf *Config, metrics *prometheus.Metrics) (*rostersync.Syncer, error) {
	client, err := conf.Coda.NewClient()
	if err != nil {
		return nil, err
	}

	return rostersync.New(conf.Sync, client, metrics)
}

// NewSpeechService creates the speech service with every provider whose
// credentials are configured.
func NewSpeechService(
	ctx context.Context,
	conf *Config,
	metrics *prometheus.Metrics,
) (*speech.Service, error) {
	var providers []speech.Provider

	if conf.Speech.ElevenLabsAPIKey != "" {
		requestTimeout, err := time.ParseDuration(conf.Speech.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse speech request timeout %s: %w", conf.Speech.RequestTimeout, err)
		}
		ttl, err := time.ParseDuration(conf.Speech.VoiceCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("parse voice cache ttl %s: %w", conf.Speech.VoiceCacheTTL, err)
		}

		provider, err := elevenlabs.New(conf.Speech.ElevenLabsAPIKey, elevenlabs.Options{
			BaseURL:        conf.Speech.ElevenLabsBaseURL,
			RequestTimeout: requestTimeout,
			VoiceCacheTTL:  ttl,
			Metrics:        metrics,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	if conf.Speech.GoogleCredentialsFile != "" {
		provider, err := google.New(ctx, conf.Speech.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	for _, p := range providers {
		logging.DefaultLogger().Infof("speech provider %s configured", p.Name())
	}

	return speech.NewService(metrics, providers...), nil
}

// Start starts the server by opening the HTTP ports and the scheduler.
func (s *Solv) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.profilingServer != nil {
		if err := s.profilingServer.Start(); err != nil {
			return err
		}
	}

	if err := s.rpcServer.Start(); err != nil {
		return err
	}

	s.scheduler.Start(s.background)
	return nil
}

// Shutdown shuts down this SOLV server.
func (s *Solv) Shutdown(graceful bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.shutdown {
		return nil
	}

	s.rpcServer.Shutdown(graceful)
	if s.profilingServer != nil {
		s.profilingServer.Shutdown(graceful)
	}

	s.background.Close()

	close(s.shutdownCh)
	s.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (s *Solv) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// RPCAddr returns the address of the RPC.
func (s *Solv) RPCAddr() string {
	return s.conf.RPCAddr()
}

// Stats returns the statistics of the roster sync.
func (s *Solv) Stats() rostersync.Stats {
	return s.syncer.Stats()
}
