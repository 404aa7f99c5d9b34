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

// Package elevenlabs provides the ElevenLabs speech provider.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solv-team/solv/pkg/cache"
	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/logging"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/speech"
)

const (
	// DefaultBaseURL is the endpoint of the ElevenLabs API.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultRequestTimeout bounds a single HTTP exchange. Synthesis of long
	// texts takes a while.
	DefaultRequestTimeout = 90 * time.Second

	// DefaultVoiceCacheTTL is how long the voice list is reused.
	DefaultVoiceCacheTTL = 10 * time.Minute

	voicesCacheName = "elevenlabs_voices"
	voicesCacheKey  = "voices"

	// unknownLanguage groups voices without a language label.
	unknownLanguage = "unknown"

	maxErrorBody = 4 << 10
)

var (
	// ErrMissingAPIKey is returned when the provider is created without a key.
	ErrMissingAPIKey = solverrors.FailedPrecond("elevenlabs api key not configured")
)

// Voice is a voice of the account.
type Voice struct {
	VoiceID string            `json:"voice_id"`
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// Options are the options of the provider.
type Options struct {
	BaseURL        string
	RequestTimeout time.Duration
	VoiceCacheTTL  time.Duration
	HTTPClient     *http.Client
	Metrics        *prometheus.Metrics
}

// Provider synthesizes speech with the ElevenLabs REST API.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *prometheus.Metrics

	// voices caches the voice list grouped by language label.
	voices *cache.ExpireCache[string, map[string][]Voice]
}

// New creates a new ElevenLabs provider.
func New(apiKey string, opts Options) (*Provider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	ttl := opts.VoiceCacheTTL
	if ttl <= 0 {
		ttl = DefaultVoiceCacheTTL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	voices, err := cache.NewExpireCache[string, map[string][]Voice](1, ttl, voicesCacheName)
	if err != nil {
		return nil, err
	}

	return &Provider{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		metrics:    opts.Metrics,
		voices:     voices,
	}, nil
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return speech.ProviderElevenLabs
}

// Voices returns the voices of the account grouped by their language label.
func (p *Provider) Voices(ctx context.Context) (map[string][]Voice, error) {
	hit := true
	grouped, err := p.voices.GetOrLoad(voicesCacheKey, func() (map[string][]Voice, error) {
		hit = false
		return p.fetchVoices(ctx)
	})
	p.metrics.AddCacheRequest(voicesCacheName, hit)

	return grouped, err
}

func (p *Provider) fetchVoices(ctx context.Context) (map[string][]Voice, error) {
	var resp voicesResponse
	if err := p.do(ctx, http.MethodGet, "/v1/voices", nil, "application/json", func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&resp)
	}); err != nil {
		return nil, err
	}

	grouped := make(map[string][]Voice)
	for _, voice := range resp.Voices {
		lang := voice.Labels["language"]
		if lang == "" {
			lang = unknownLanguage
		}
		grouped[lang] = append(grouped[lang], voice)
	}

	return grouped, nil
}

// FindVoice returns the first voice of the given gender labeled with the
// language code, or with its primary language subtag.
func (p *Provider) FindVoice(ctx context.Context, languageCode, gender string) (string, error) {
	grouped, err := p.Voices(ctx)
	if err != nil {
		return "", err
	}

	candidates := []string{languageCode}
	if primary, _, ok := strings.Cut(languageCode, "-"); ok {
		candidates = append(candidates, primary)
	}
	for _, lang := range candidates {
		for _, voice := range grouped[lang] {
			if voice.Labels["gender"] == gender {
				return voice.VoiceID, nil
			}
		}
	}

	logging.From(ctx).Warnf("TTS: no elevenlabs voice for %s %s", languageCode, gender)
	return "", solverrors.NotFound(fmt.Sprintf("no suitable voice found for %s %s", languageCode, gender))
}

// Synthesize converts the request to mp3 audio.
func (p *Provider) Synthesize(ctx context.Context, req *speech.Request) (*speech.Response, error) {
	voiceID := req.VoiceID
	if voiceID == "" {
		found, err := p.FindVoice(ctx, req.LanguageCode, req.Gender)
		if err != nil {
			return nil, err
		}
		voiceID = found
	}

	var audio []byte
	path := "/v1/text-to-speech/" + url.PathEscape(voiceID)
	body := synthesisRequest{Text: req.Text, ModelID: req.Model}
	if err := p.do(ctx, http.MethodPost, path, body, "audio/mpeg", func(r io.Reader) error {
		var err error
		audio, err = io.ReadAll(r)
		return err
	}); err != nil {
		return nil, err
	}

	return &speech.Response{
		Audio:        audio,
		Format:       speech.FormatMP3,
		VoiceID:      voiceID,
		Provider:     speech.ProviderElevenLabs,
		LanguageCode: req.LanguageCode,
		Gender:       req.Gender,
	}, nil
}

func (p *Provider) do(
	ctx context.Context,
	method, path string,
	body any,
	accept string,
	read func(io.Reader) error,
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal elevenlabs request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create elevenlabs request: %w", err)
	}
	req.Header.Set("xi-api-key", p.apiKey)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return solverrors.WithStatus(
			fmt.Errorf("elevenlabs %s %s: %w", method, path, err),
			solverrors.ErrCodeUnavailable,
		)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.From(ctx).Error(err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return solverrors.WithStatus(
			fmt.Errorf("elevenlabs %s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg))),
			solverrors.FromHTTPStatus(resp.StatusCode),
		)
	}

	if err := read(resp.Body); err != nil {
		return fmt.Errorf("read elevenlabs response: %w", err)
	}
	return nil
}
