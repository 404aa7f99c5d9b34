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

// Package speech converts text to audio through external synthesis
// providers. Providers are injected into the Service at construction.
package speech

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/solv-team/solv/internal/validation"
	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/profiling/prometheus"
)

// Names of the supported providers.
const (
	ProviderElevenLabs = "elevenlabs"
	ProviderGoogle     = "google"
)

// Voice genders.
const (
	GenderFemale = "female"
	GenderMale   = "male"
)

const (
	// DefaultModel is the ElevenLabs model used when none is requested.
	DefaultModel = "eleven_multilingual_v2"

	// FormatMP3 is the format of every synthesized audio.
	FormatMP3 = "mp3"
)

// Language is a language offered to clients.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// SupportedLanguages are the languages accepted by Synthesize.
var SupportedLanguages = []Language{
	{Name: "English (US)", Code: "en-US"},
	{Name: "French", Code: "fr-FR"},
	{Name: "Spanish", Code: "es-ES"},
	{Name: "German", Code: "de-DE"},
	{Name: "Italian", Code: "it-IT"},
	{Name: "Portuguese", Code: "pt-BR"},
	{Name: "Japanese", Code: "ja-JP"},
	{Name: "Korean", Code: "ko-KR"},
	{Name: "Chinese", Code: "zh-CN"},
}

// IsSupportedLanguage reports whether code is one of SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, lang := range SupportedLanguages {
		if lang.Code == code {
			return true
		}
	}
	return false
}

// Request is a request to synthesize text.
type Request struct {
	Text         string `json:"text" validate:"required,max=5000"`
	LanguageCode string `json:"language_code" validate:"required,language_tag"`
	Gender       string `json:"gender" validate:"oneof=male female"`
	Provider     string `json:"provider" validate:"oneof=elevenlabs google"`
	VoiceID      string `json:"voice_id,omitempty"`
	Model        string `json:"model,omitempty"`
}

// applyDefaults fills the optional fields.
func (r *Request) applyDefaults() {
	if r.Gender == "" {
		r.Gender = GenderFemale
	}
	if r.Provider == "" {
		r.Provider = ProviderElevenLabs
	}
	if r.Model == "" {
		r.Model = DefaultModel
	}
}

// Validate fills the defaults of the request and validates it.
func (r *Request) Validate() error {
	r.applyDefaults()

	if err := validation.ValidateStruct(r); err != nil {
		return solverrors.WithStatus(err, solverrors.ErrCodeInvalidArgument)
	}
	if !IsSupportedLanguage(r.LanguageCode) {
		return solverrors.InvalidArgument(fmt.Sprintf("unsupported language %q", r.LanguageCode))
	}

	return nil
}

// Response is synthesized audio.
type Response struct {
	Audio        []byte `json:"-"`
	Format       string `json:"format"`
	VoiceID      string `json:"voice_id"`
	Provider     string `json:"provider"`
	LanguageCode string `json:"language_code"`
	Gender       string `json:"gender"`
}

// Provider synthesizes speech with an external service.
type Provider interface {
	// Name returns the name the provider is requested by.
	Name() string

	// Synthesize converts the validated request to audio.
	Synthesize(ctx context.Context, req *Request) (*Response, error)
}

// ProviderInfo describes the availability of a provider.
type ProviderInfo struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// notConfiguredMessages are returned when a known provider was not injected.
var notConfiguredMessages = map[string]string{
	ProviderElevenLabs: "elevenlabs api key not configured",
	ProviderGoogle:     "google cloud credentials not configured",
}

// Service dispatches requests to the injected providers.
type Service struct {
	providers map[string]Provider
	metrics   *prometheus.Metrics
}

// NewService creates a new Service with the given providers. A provider
// whose credentials are missing is simply not passed.
func NewService(metrics *prometheus.Metrics, providers ...Provider) *Service {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}

	return &Service{
		providers: byName,
		metrics:   metrics,
	}
}

// Providers returns the known providers and whether each is configured.
func (s *Service) Providers() []ProviderInfo {
	names := make([]string, 0, len(notConfiguredMessages))
	for name := range notConfiguredMessages {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]ProviderInfo, 0, len(names))
	for _, name := range names {
		_, ok := s.providers[name]
		infos = append(infos, ProviderInfo{Name: name, Configured: ok})
	}
	return infos
}

// Synthesize validates the request and converts it to audio with the
// requested provider.
func (s *Service) Synthesize(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	provider, ok := s.providers[req.Provider]
	if !ok {
		return nil, solverrors.FailedPrecond(notConfiguredMessages[req.Provider])
	}

	start := time.Now()
	resp, err := provider.Synthesize(ctx, &req)
	if err != nil {
		status := "error"
		if code := solverrors.StatusOf(err); code != 0 {
			status = code.String()
		}
		s.metrics.AddSpeechRequest(req.Provider, status)
		logging.From(ctx).Errorf("TTS: %s %s: %v", req.Provider, req.LanguageCode, err)
		return nil, err
	}

	s.metrics.AddSpeechRequest(req.Provider, "ok")
	s.metrics.AddSpeechAudioBytes(req.Provider, len(resp.Audio))
	logging.From(ctx).Infof(
		"TTS: %s %s %s voice %s, %d bytes, %s",
		req.Provider,
		req.LanguageCode,
		req.Gender,
		resp.VoiceID,
		len(resp.Audio),
		time.Since(start),
	)
	return resp, nil
}
