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

package speech_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/speech"
)

type fakeProvider struct {
	name string
	err  error
	got  *speech.Request
}

func (f *fakeProvider) Name() string {
	return f.name
}

func (f *fakeProvider) Synthesize(_ context.Context, req *speech.Request) (*speech.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &speech.Response{
		Audio:        []byte("audio"),
		Format:       speech.FormatMP3,
		VoiceID:      "v1",
		Provider:     f.name,
		LanguageCode: req.LanguageCode,
		Gender:       req.Gender,
	}, nil
}

func newService(t *testing.T, providers ...speech.Provider) *speech.Service {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)
	return speech.NewService(metrics, providers...)
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults test", func(t *testing.T) {
		provider := &fakeProvider{name: speech.ProviderElevenLabs}
		svc := newService(t, provider)

		resp, err := svc.Synthesize(ctx, speech.Request{Text: "Hello", LanguageCode: "en-US"})
		require.NoError(t, err)
		assert.Equal(t, []byte("audio"), resp.Audio)
		assert.Equal(t, speech.GenderFemale, provider.got.Gender)
		assert.Equal(t, speech.ProviderElevenLabs, provider.got.Provider)
		assert.Equal(t, speech.DefaultModel, provider.got.Model)
	})

	t.Run("provider not configured test", func(t *testing.T) {
		svc := newService(t, &fakeProvider{name: speech.ProviderElevenLabs})

		_, err := svc.Synthesize(ctx, speech.Request{Text: "Hola", LanguageCode: "es-ES", Provider: speech.ProviderGoogle})
		assert.True(t, solverrors.IsStatus(err, solverrors.ErrCodeFailedPrecondition))
		assert.EqualError(t, err, "google cloud credentials not configured")
	})

	t.Run("invalid request test", func(t *testing.T) {
		svc := newService(t, &fakeProvider{name: speech.ProviderElevenLabs})

		for _, req := range []speech.Request{
			{LanguageCode: "en-US"},
			{Text: "hi", LanguageCode: "english"},
			{Text: "hi", LanguageCode: "nl-NL"},
			{Text: "hi", LanguageCode: "en-US", Gender: "robot"},
			{Text: "hi", LanguageCode: "en-US", Provider: "azure"},
		} {
			_, err := svc.Synthesize(ctx, req)
			assert.True(t, solverrors.IsStatus(err, solverrors.ErrCodeInvalidArgument), "request %#v", req)
		}
	})

	t.Run("provider error test", func(t *testing.T) {
		cause := solverrors.Unavailable("upstream down")
		svc := newService(t, &fakeProvider{name: speech.ProviderElevenLabs, err: cause})

		_, err := svc.Synthesize(ctx, speech.Request{Text: "hi", LanguageCode: "en-US"})
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("without metrics test", func(t *testing.T) {
		svc := speech.NewService(nil, &fakeProvider{name: speech.ProviderElevenLabs})

		resp, err := svc.Synthesize(ctx, speech.Request{Text: "Hello", LanguageCode: "en-US"})
		require.NoError(t, err)
		assert.Equal(t, []byte("audio"), resp.Audio)

		failing := speech.NewService(nil, &fakeProvider{name: speech.ProviderElevenLabs, err: solverrors.Unavailable("down")})
		_, err = failing.Synthesize(ctx, speech.Request{Text: "Hello", LanguageCode: "en-US"})
		assert.True(t, solverrors.IsStatus(err, solverrors.ErrCodeUnavailable))
	})

	t.Run("providers test", func(t *testing.T) {
		svc := newService(t, &fakeProvider{name: speech.ProviderGoogle})
		assert.Equal(t, []speech.ProviderInfo{
			{Name: speech.ProviderElevenLabs, Configured: false},
			{Name: speech.ProviderGoogle, Configured: true},
		}, svc.Providers())
	})

	t.Run("supported languages test", func(t *testing.T) {
		assert.Len(t, speech.SupportedLanguages, 9)
		assert.True(t, speech.IsSupportedLanguage("ko-KR"))
		assert.False(t, speech.IsSupportedLanguage("ko"))
	})
}
