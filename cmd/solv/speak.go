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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/solv-team/solv/server"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/speech"
)

var (
	speakRequest speech.Request
	speakOutPath string
)

func newSpeakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speak [options] TEXT",
		Short: "Synthesize text into an mp3 file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				speakRequest.Text = args[0]
			}
			if speakRequest.Text == "" {
				return errors.New("text is required")
			}

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			if err := loaded.Speech.Validate(); err != nil {
				return err
			}

			metrics, err := prometheus.NewMetrics()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), defaultCommandTimeout)
			defer cancel()

			service, err := server.NewSpeechService(ctx, loaded, metrics)
			if err != nil {
				return err
			}

			resp, err := service.Synthesize(ctx, speakRequest)
			if err != nil {
				return err
			}

			if err := os.WriteFile(filepath.Clean(speakOutPath), resp.Audio, 0o600); err != nil {
				return fmt.Errorf("write audio file: %w", err)
			}

			cmd.Printf("%s: %d bytes, %s voice %s (%s, %s)\n",
				speakOutPath,
				len(resp.Audio),
				resp.Provider,
				resp.VoiceID,
				resp.LanguageCode,
				resp.Gender,
			)
			return nil
		},
	}
}

func init() {
	cmd := newSpeakCmd()
	cmd.Flags().StringVarP(
		&speakRequest.Text,
		"text",
		"t",
		"",
		"Text to synthesize",
	)
	cmd.Flags().StringVar(
		&speakRequest.LanguageCode,
		"language",
		"en-US",
		"BCP-47 language code, e.g. en-US",
	)
	cmd.Flags().StringVar(
		&speakRequest.Gender,
		"gender",
		speech.GenderFemale,
		"Voice gender: female, male",
	)
	cmd.Flags().StringVar(
		&speakRequest.Provider,
		"provider",
		speech.ProviderElevenLabs,
		"Speech provider: elevenlabs, google",
	)
	cmd.Flags().StringVar(
		&speakRequest.VoiceID,
		"voice",
		"",
		"Voice ID. A voice matching the language and gender is chosen when empty.",
	)
	cmd.Flags().StringVar(
		&speakRequest.Model,
		"model",
		speech.DefaultModel,
		"ElevenLabs model ID",
	)
	cmd.Flags().StringVarP(
		&speakOutPath,
		"out",
		"o",
		"speech.mp3",
		"Path of the mp3 file to write",
	)
	cmd.Flags().StringVar(
		&conf.Speech.ElevenLabsBaseURL,
		"elevenlabs-base-url",
		server.DefaultElevenLabsBaseURL,
		"Base URL of the ElevenLabs API",
	)

	rootCmd.AddCommand(cmd)
}
