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

package speech

import (
	"fmt"
	"os"
	"time"
)

// Config is the configuration of the speech providers. A provider without
// credentials is left out of the Service.
type Config struct {
	// ElevenLabsAPIKey is usually given by ELEVENLABS_API_KEY.
	ElevenLabsAPIKey  string `yaml:"ElevenLabsAPIKey"`
	ElevenLabsBaseURL string `yaml:"ElevenLabsBaseURL"`

	// GoogleCredentialsFile is usually given by
	// GOOGLE_APPLICATION_CREDENTIALS.
	GoogleCredentialsFile string `yaml:"GoogleCredentialsFile"`

	// RequestTimeout bounds a single call to a provider.
	RequestTimeout string `yaml:"RequestTimeout"`

	// VoiceCacheTTL is how long the ElevenLabs voice list is reused.
	VoiceCacheTTL string `yaml:"VoiceCacheTTL"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf(`invalid argument %q for "--speech-request-timeout" flag: %w`, c.RequestTimeout, err)
	}

	if _, err := time.ParseDuration(c.VoiceCacheTTL); err != nil {
		return fmt.Errorf(`invalid argument %q for "--speech-voice-cache-ttl" flag: %w`, c.VoiceCacheTTL, err)
	}

	if c.GoogleCredentialsFile != "" {
		if _, err := os.Stat(c.GoogleCredentialsFile); err != nil {
			return fmt.Errorf("google credentials file: %w", err)
		}
	}

	return nil
}
