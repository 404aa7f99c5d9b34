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

// Package main is the entry point of the SOLV CLI.
package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solv-team/solv/server"
	"github.com/solv-team/solv/server/logging"
)

// Below are the environment variables holding the secrets.
const (
	envCodaAPIToken       = "CODA_API_TOKEN"
	envElevenLabsAPIKey   = "ELEVENLABS_API_KEY"
	envGoogleCredentials  = "GOOGLE_APPLICATION_CREDENTIALS"
	keyCodaAPIToken       = "coda.apiToken"
	keyElevenLabsAPIKey   = "speech.elevenLabsAPIKey"
	keyGoogleCredentials  = "speech.googleCredentialsFile"
	defaultEnvFile        = ".env"
	defaultLogLevel       = "info"
	defaultLogEncoding    = "console"
	defaultCommandTimeout = 10 * time.Minute
)

var (
	flagConfPath    string
	flagEnvFile     string
	flagLogLevel    string
	flagLogEncoding string

	syncRunTimeout     time.Duration
	syncWaitTimeout    time.Duration
	syncRetryBaseDelay time.Duration
	codaRequestTimeout time.Duration

	conf = server.NewConfig()
)

var rootCmd = &cobra.Command{
	Use:          "solv",
	Short:        "Keeps the detail counts of a Coda roster up to date and speaks text",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The .env file is optional.
		_ = godotenv.Load(flagEnvFile)

		if err := logging.SetLogLevel(flagLogLevel); err != nil {
			return err
		}
		return logging.SetEncoding(flagLogEncoding)
	},
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}

// loadConfig applies the duration flags, the config file and the secrets of
// the environment to the config.
func loadConfig() (*server.Config, error) {
	conf.Sync.RunTimeout = syncRunTimeout.String()
	conf.Sync.WaitTimeout = syncWaitTimeout.String()
	conf.Sync.Retry.BaseDelay = syncRetryBaseDelay.String()
	conf.Coda.RequestTimeout = codaRequestTimeout.String()

	// If config file is given, command-line arguments will be overwritten.
	if flagConfPath != "" {
		parsed, err := server.NewConfigFromFile(flagConfPath)
		if err != nil {
			return nil, err
		}
		conf = parsed
	}

	if token := viper.GetString(keyCodaAPIToken); token != "" {
		conf.Coda.APIToken = token
	}
	if key := viper.GetString(keyElevenLabsAPIKey); key != "" {
		conf.Speech.ElevenLabsAPIKey = key
	}
	if path := viper.GetString(keyGoogleCredentials); path != "" {
		conf.Speech.GoogleCredentialsFile = path
	}

	return conf, nil
}

func init() {
	cobra.CheckErr(viper.BindEnv(keyCodaAPIToken, envCodaAPIToken))
	cobra.CheckErr(viper.BindEnv(keyElevenLabsAPIKey, envElevenLabsAPIKey))
	cobra.CheckErr(viper.BindEnv(keyGoogleCredentials, envGoogleCredentials))

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(
		&flagConfPath,
		"config",
		"c",
		"",
		"Config path",
	)
	flags.StringVar(
		&flagEnvFile,
		"env-file",
		defaultEnvFile,
		"Path of the .env file loaded before reading the environment",
	)
	flags.StringVarP(
		&flagLogLevel,
		"log-level",
		"l",
		defaultLogLevel,
		"Log level: debug, info, warn, error, panic, fatal",
	)
	flags.StringVar(
		&flagLogEncoding,
		"log-encoding",
		defaultLogEncoding,
		"Log encoding: console, json",
	)
	flags.StringVar(
		&conf.Sync.DocumentID,
		"sync-document-id",
		server.DefaultSyncDocumentID,
		"ID of the document holding the roster table",
	)
	flags.StringVar(
		&conf.Sync.TableID,
		"sync-table-id",
		server.DefaultSyncTableID,
		"ID of the roster table",
	)
	flags.StringVar(
		&conf.Sync.Columns.FirstName,
		"sync-column-first-name",
		server.DefaultColumnFirstName,
		"Column of the first name",
	)
	flags.StringVar(
		&conf.Sync.Columns.LastName,
		"sync-column-last-name",
		server.DefaultColumnLastName,
		"Column of the last name",
	)
	flags.StringVar(
		&conf.Sync.Columns.TargetDocumentID,
		"sync-column-target-document",
		server.DefaultColumnTargetDocument,
		"Column holding the detail document ID or link",
	)
	flags.StringVar(
		&conf.Sync.Columns.TargetTableID,
		"sync-column-target-table",
		server.DefaultColumnTargetTable,
		"Column holding the detail table ID",
	)
	flags.StringVar(
		&conf.Sync.Columns.Count,
		"sync-column-count",
		server.DefaultColumnCount,
		"Column receiving the number of detail rows",
	)
	flags.BoolVar(
		&conf.Sync.RewriteDisplayFields,
		"sync-rewrite-display-fields",
		server.DefaultSyncRewriteDisplay,
		"Write the first and last name back along with the count",
	)
	flags.IntVar(
		&conf.Sync.Concurrency,
		"sync-concurrency",
		server.DefaultSyncConcurrency,
		"Number of roster rows processed at once",
	)
	flags.DurationVar(
		&syncRunTimeout,
		"sync-run-timeout",
		server.DefaultSyncRunTimeout,
		"Deadline of a whole sync run",
	)
	flags.DurationVar(
		&syncWaitTimeout,
		"sync-wait-timeout",
		server.DefaultSyncWaitTimeout,
		"Wait of a manual sync for a run in progress before giving up",
	)
	flags.IntVar(
		&conf.Sync.Retry.MaxAttempts,
		"sync-retry-max-attempts",
		server.DefaultSyncRetryMaxAttempts,
		"Attempts of each remote call, including the first one",
	)
	flags.DurationVar(
		&syncRetryBaseDelay,
		"sync-retry-base-delay",
		server.DefaultSyncRetryBaseDelay,
		"Wait after the first failure of a remote call. It doubles each time.",
	)
	flags.StringVar(
		&conf.Sync.Retry.Mode,
		"sync-retry-mode",
		server.DefaultSyncRetryMode,
		"Which failures are retried: all, transient",
	)
	flags.StringVar(
		&conf.Coda.BaseURL,
		"coda-base-url",
		server.DefaultCodaBaseURL,
		"Base URL of the Coda API",
	)
	flags.DurationVar(
		&codaRequestTimeout,
		"coda-request-timeout",
		server.DefaultCodaRequestTimeout,
		"Timeout of a single Coda API request",
	)
	flags.IntVar(
		&conf.Coda.PageSize,
		"coda-page-size",
		server.DefaultCodaPageSize,
		"Number of rows requested per page",
	)
}
