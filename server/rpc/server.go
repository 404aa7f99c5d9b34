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

// Package rpc provides the HTTP API of solv: health, roster sync and
// speech synthesis.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/rpc/httphealth"
)

// Server is the HTTP server that processes the requests of the API.
type Server struct {
	conf       *Config
	httpServer *http.Server
	serveMux   *http.ServeMux

	syncer          Syncer
	speech          SpeechService
	metrics         *prometheus.Metrics
	maxRequestBytes int64
}

// NewServer creates a new instance of Server. speech may be nil when no
// provider is configured.
func NewServer(
	conf *Config,
	syncer Syncer,
	speechService SpeechService,
	metrics *prometheus.Metrics,
) (*Server, error) {
	readTimeout, err := time.ParseDuration(conf.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse read timeout %s: %w", conf.ReadTimeout, err)
	}
	writeTimeout, err := time.ParseDuration(conf.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse write timeout %s: %w", conf.WriteTimeout, err)
	}

	s := &Server{
		conf:            conf,
		serveMux:        http.NewServeMux(),
		syncer:          syncer,
		speech:          speechService,
		metrics:         metrics,
		maxRequestBytes: conf.MaxRequestBytes,
	}

	healthPath, healthHandler := httphealth.NewHandler()
	s.serveMux.Handle("GET "+healthPath, s.withLogging(healthPath, healthHandler))
	s.serveMux.Handle("POST /sync", s.handle("/sync", s.handleSync))
	s.serveMux.Handle("GET /sync/stats", s.handle("/sync/stats", s.handleSyncStats))
	s.serveMux.Handle("POST /tts", s.handle("/tts", s.handleSpeak))
	s.serveMux.Handle("GET /tts/languages", s.handle("/tts/languages", s.handleLanguages))
	s.serveMux.Handle("GET /tts/providers", s.handle("/tts/providers", s.handleProviders))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           withRecovery(s.serveMux),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s, nil
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts this server by opening the HTTP port.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		logging.DefaultLogger().Error(err)
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		logging.DefaultLogger().Infof("serving HTTP on %d", s.conf.Port)

		if err := s.httpServer.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			logging.DefaultLogger().Error(err)
		}
	}()

	return nil
}

// Shutdown shuts down this server.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			logging.DefaultLogger().Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		logging.DefaultLogger().Errorf("HTTP server Close: %v", err)
	}
}
