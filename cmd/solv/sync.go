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
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/solv-team/solv/server"
	"github.com/solv-team/solv/server/profiling/prometheus"
	"github.com/solv-team/solv/server/rostersync"
)

var (
	syncOutput string
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [options]",
		Short: "Run a single roster sync and print its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if syncOutput != "" && syncOutput != "json" {
				return errors.New(`--output must be 'json'`)
			}

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			if err := loaded.Sync.Validate(); err != nil {
				return err
			}
			if err := loaded.Coda.Validate(); err != nil {
				return err
			}

			metrics, err := prometheus.NewMetrics()
			if err != nil {
				return err
			}
			syncer, err := server.NewSyncer(loaded, metrics)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := syncer.Sync(ctx)
			if result != nil {
				if printErr := printResult(cmd, result); printErr != nil {
					return printErr
				}
			}

			return err
		},
	}
}

func printResult(cmd *cobra.Command, result *rostersync.Result) error {
	if syncOutput == "json" {
		marshalled, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.New("failed to marshal JSON")
		}
		fmt.Println(string(marshalled))
		return nil
	}

	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(table.Row{
		"ROW",
		"NAME",
		"DOCUMENT",
		"TABLE",
		"COUNT",
		"UPDATED",
		"ERROR",
	})
	for _, d := range result.Details {
		tw.AppendRow(table.Row{
			d.RowID,
			d.Name,
			d.DocumentID,
			d.TableID,
			d.Count,
			d.Updated,
			d.Error,
		})
	}
	cmd.Printf("%s\n\n", tw.Render())

	cmd.Printf("Run: %s\n", result.RunID)
	cmd.Printf("Status: %s\n", result.Status)
	cmd.Printf("Rows: %d processed, %d updated, %d failed\n",
		result.RowsSeen, result.RowsUpdated, result.RowsFailed)
	cmd.Printf("Duration: %s\n", result.Duration.Round(time.Millisecond))
	if result.Error != "" {
		cmd.Printf("Error: %s\n", result.Error)
	}

	return nil
}

func init() {
	cmd := newSyncCmd()
	cmd.Flags().StringVarP(
		&syncOutput,
		"output",
		"o",
		syncOutput,
		"Print the result as 'json' instead of a table.",
	)

	rootCmd.AddCommand(cmd)
}
