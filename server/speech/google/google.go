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

// Package google provides the Google Cloud Text-to-Speech provider.
package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"

	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/speech"
)

const (
	audioEncodingMP3 = "MP3"
	ssmlFemale       = "FEMALE"
	ssmlMale         = "MALE"
)

var (
	// ErrMissingCredentials is returned when the provider is created without a
	// credentials file.
	ErrMissingCredentials = solverrors.FailedPrecond("google cloud credentials not configured")
)

// Provider synthesizes speech with the Google Cloud Text-to-Speech API.
type Provider struct {
	service *texttospeech.Service
}

// New creates a provider authenticated with the given service account file.
func New(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Provider, error) {
	if credentialsFile == "" {
		return nil, ErrMissingCredentials
	}

	return NewWithOptions(ctx, append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)...)
}

// NewWithOptions creates a provider with explicit client options, such as an
// endpoint for tests.
func NewWithOptions(ctx context.Context, opts ...option.ClientOption) (*Provider, error) {
	service, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create google text-to-speech client: %w", err)
	}

	return &Provider{service: service}, nil
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return speech.ProviderGoogle
}

// Synthesize converts the request to mp3 audio with a voice of the requested
// language and gender.
func (p *Provider) Synthesize(ctx context.Context, req *speech.Request) (*speech.Response, error) {
	gender := ssmlFemale
	if req.Gender == speech.GenderMale {
		gender = ssmlMale
	}

	resp, err := p.service.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: req.Text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: req.LanguageCode,
			SsmlGender:   gender,
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: audioEncodingMP3},
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, solverrors.WithStatus(
			fmt.Errorf("decode google audio content: %w", err),
			solverrors.ErrCodeInternal,
		)
	}

	return &speech.Response{
		Audio:        audio,
		Format:       speech.FormatMP3,
		VoiceID:      req.LanguageCode + "-" + strings.ToLower(gender),
		Provider:     speech.ProviderGoogle,
		LanguageCode: req.LanguageCode,
		Gender:       req.Gender,
	}, nil
}

// classify attaches a status to an error of the API.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return solverrors.WithStatus(
			fmt.Errorf("google text-to-speech: %w", err),
			solverrors.FromHTTPStatus(apiErr.Code),
		)
	}

	return solverrors.WithStatus(
		fmt.Errorf("google text-to-speech: %w", err),
		solverrors.ErrCodeUnavailable,
	)
}
