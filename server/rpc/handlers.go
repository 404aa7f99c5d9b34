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

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/rostersync"
	"github.com/solv-team/solv/server/speech"
)

// Syncer runs roster syncs.
type Syncer interface {
	Sync(ctx context.Context) (*rostersync.Result, error)
	Stats() rostersync.Stats
}

// SpeechService synthesizes speech.
type SpeechService interface {
	Synthesize(ctx context.Context, req speech.Request) (*speech.Response, error)
	Providers() []speech.ProviderInfo
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handlerFunc is a handler that may fail. The error is written as an
// ErrorResponse with the status of its code.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(route string, fn handlerFunc) http.Handler {
	return s.withLogging(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		if rec, ok := w.(*statusRecorder); ok {
			rec.err = err
		}
		writeError(r.Context(), w, err)
	}))
}

// handleSync runs a sync and returns its result. The run is detached from
// the request so that a disconnecting client does not abort it half way.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) error {
	ctx := context.WithoutCancel(r.Context())
	result, err := s.syncer.Sync(ctx)
	if err != nil && !errors.Is(err, rostersync.ErrRosterUnavailable) {
		return err
	}

	status := http.StatusOK
	if err != nil {
		if rec, ok := w.(*statusRecorder); ok {
			rec.err = err
		}
		status = http.StatusInternalServerError
	}
	writeJSON(r.Context(), w, status, result)
	return nil
}

func (s *Server) handleSyncStats(w http.ResponseWriter, r *http.Request) error {
	writeJSON(r.Context(), w, http.StatusOK, s.syncer.Stats())
	return nil
}

// handleSpeak synthesizes the JSON request and writes the audio.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) error {
	if s.speech == nil {
		return solverrors.FailedPrecond("speech service is not configured")
	}

	var req speech.Request
	body := http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return solverrors.WithStatus(err, solverrors.ErrCodeInvalidArgument)
	}

	resp, err := s.speech.Synthesize(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Audio)))
	w.Header().Set("X-Voice-ID", resp.VoiceID)
	w.Header().Set("X-Provider", resp.Provider)
	w.Header().Set("X-Language-Code", resp.LanguageCode)
	w.Header().Set("X-Gender", resp.Gender)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Audio); err != nil {
		logging.From(r.Context()).Warnf("write audio: %v", err)
	}
	return nil
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) error {
	writeJSON(r.Context(), w, http.StatusOK, speech.SupportedLanguages)
	return nil
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) error {
	var providers []speech.ProviderInfo
	if s.speech != nil {
		providers = s.speech.Providers()
	}
	writeJSON(r.Context(), w, http.StatusOK, providers)
	return nil
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := solverrors.StatusOf(err)
	if code == 0 {
		code = solverrors.ErrCodeInternal
	}

	writeJSON(ctx, w, code.HTTPStatus(), ErrorResponse{
		Status:  "error",
		Code:    code.String(),
		Message: err.Error(),
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Warnf("write response: %v", err)
	}
}
