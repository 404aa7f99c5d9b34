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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solv-team/solv/server"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	syncInterval    time.Duration
	rpcReadTimeout  time.Duration
	rpcWriteTimeout time.Duration
	voiceCacheTTL   time.Duration
	speechTimeout   time.Duration
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [options]",
		Short: "Start SOLV server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.Scheduler.Interval = syncInterval.String()
			conf.RPC.ReadTimeout = rpcReadTimeout.String()
			conf.RPC.WriteTimeout = rpcWriteTimeout.String()
			conf.Speech.VoiceCacheTTL = voiceCacheTTL.String()
			conf.Speech.RequestTimeout = speechTimeout.String()

			loaded, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := server.New(loaded)
			if err != nil {
				return err
			}

			if err := s.Start(); err != nil {
				return err
			}

			if code := handleSignal(s); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

func handleSignal(s *server.Solv) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case got := <-sigCh:
		sig = got
	case <-s.ShutdownCh():
		// solv is already shutdown
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	gracefulCh := make(chan struct{})
	go func() {
		if err := s.Shutdown(graceful); err != nil {
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-time.After(gracefulTimeout):
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	cmd.Flags().IntVar(
		&conf.RPC.Port,
		"rpc-port",
		server.DefaultRPCPort,
		"RPC port",
	)
	cmd.Flags().DurationVar(
		&rpcReadTimeout,
		"rpc-read-timeout",
		server.DefaultRPCReadTimeout,
		"Maximum duration for reading an entire request",
	)
	cmd.Flags().DurationVar(
		&rpcWriteTimeout,
		"rpc-write-timeout",
		server.DefaultRPCWriteTimeout,
		"Maximum duration for writing a response. It must cover a whole sync run.",
	)
	cmd.Flags().Int64Var(
		&conf.RPC.MaxRequestBytes,
		"rpc-max-request-bytes",
		server.DefaultRPCMaxRequestBytes,
		"Maximum request size in bytes the server will accept",
	)
	cmd.Flags().IntVar(
		&conf.Profiling.Port,
		"profiling-port",
		server.DefaultProfilingPort,
		"Profiling port",
	)
	cmd.Flags().BoolVar(
		&conf.Profiling.EnablePprof,
		"enable-pprof",
		false,
		"Enable runtime profiling data via HTTP server.",
	)
	cmd.Flags().BoolVar(
		&conf.Profiling.Disabled,
		"disable-profiling",
		false,
		"Do not start the profiling server",
	)
	cmd.Flags().DurationVar(
		&syncInterval,
		"sync-interval",
		server.DefaultSyncInterval,
		"Interval between the end of a sync run and the start of the next one",
	)
	cmd.Flags().BoolVar(
		&conf.Scheduler.RunOnStart,
		"sync-on-start",
		server.DefaultSyncRunOnStart,
		"Run a sync right after the server starts",
	)
	cmd.Flags().BoolVar(
		&conf.Scheduler.Disabled,
		"disable-scheduler",
		false,
		"Turn periodic syncs off. POST /sync still works.",
	)
	cmd.Flags().StringVar(
		&conf.Speech.ElevenLabsBaseURL,
		"elevenlabs-base-url",
		server.DefaultElevenLabsBaseURL,
		"Base URL of the ElevenLabs API",
	)
	cmd.Flags().DurationVar(
		&speechTimeout,
		"speech-request-timeout",
		server.DefaultSpeechRequestTimeout,
		"Timeout of a single speech provider request",
	)
	cmd.Flags().DurationVar(
		&voiceCacheTTL,
		"speech-voice-cache-ttl",
		server.DefaultVoiceCacheTTL,
		"How long the ElevenLabs voice list is reused",
	)

	rootCmd.AddCommand(cmd)
}
