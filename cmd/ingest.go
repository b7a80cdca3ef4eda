// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"time"

	"github.com/fashion-vault/fsdata/extract"
	"github.com/fashion-vault/fsdata/healthcheck"
	"github.com/fashion-vault/fsdata/warehouse"
	"github.com/hako/durafmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [YYYYMMDD]",
	Short: "Load one business date of the sales extract into the warehouse",
	Long: `The ingest sub-command downloads the full sales extract, filters it to the
requested business date and loads it into the star schema inside a single
transaction. With no argument it loads yesterday's date, matching the daily
scheduler cadence. Re-running the same date is safe: dimensions are
insert-if-absent and facts are overwritten in place.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		runDate := time.Now().UTC().AddDate(0, 0, -1).Format("20060102")
		if len(args) == 1 {
			runDate = args[0]
		}

		// validate before any I/O
		businessDate, err := extract.ParseRunDate(runDate)
		if err != nil {
			log.Fatal().Err(err).Str("RunDate", runDate).Msg("invalid run date")
		}

		source, err := newSource()
		if err != nil {
			log.Fatal().Err(err).Msg("could not build extract source")
		}

		stream, err := source.Open(ctx)
		if err != nil {
			reportFailure()
			log.Fatal().Err(err).Msg("could not open sales extract")
		}

		records, err := extract.Read(stream)
		closeErr := stream.Close()
		if err != nil {
			reportFailure()
			log.Fatal().Err(err).Msg("could not read sales extract")
		}
		if closeErr != nil {
			log.Warn().Err(closeErr).Msg("closing extract stream failed")
		}

		filtered := extract.FilterByDate(records, businessDate)
		if len(filtered) == 0 {
			log.Info().Str("BusinessDate", businessDate.Format("2006-01-02")).Msg("no rows for business date, nothing to ingest")
			reportSuccess()
			return
		}

		log.Info().Str("BusinessDate", businessDate.Format("2006-01-02")).Int("NumRows", len(filtered)).Msg("rows to ingest")

		pool, err := pgxpool.New(ctx, viper.GetString("db.url"))
		if err != nil {
			reportFailure()
			log.Fatal().Err(err).Msg("could not connect to warehouse database")
		}
		defer pool.Close()

		cfg := warehouse.DefaultConfig(viper.GetString("warehouse.schema"))

		startTime := time.Now()
		summary, err := warehouse.Ingest(ctx, pool, cfg, businessDate, filtered)
		runTime := time.Since(startTime)

		if err != nil {
			reportFailure()
			event := log.Fatal().Err(err)
			if summary != nil {
				event = event.Object("Summary", summary)
			}
			event.Msg("ingestion failed, transaction rolled back")
		}

		log.Info().Object("Summary", summary).Str("RunTime", durafmt.Parse(runTime).String()).Msg("ingestion committed")
		reportSuccess()
	},
}

func newSource() (extract.Source, error) {
	switch viper.GetString("extract.source") {
	case "file":
		return &extract.FileSource{Path: viper.GetString("extract.file")}, nil
	case "http":
		return &extract.HTTPSource{URL: viper.GetString("extract.url")}, nil
	default:
		return extract.NewObjectStoreSource()
	}
}

func reportSuccess() {
	if err := healthcheck.Ping(); err != nil {
		log.Warn().Err(err).Msg("healthcheck ping failed")
	}
}

func reportFailure() {
	if err := healthcheck.PingFailure(); err != nil {
		log.Warn().Err(err).Msg("healthcheck failure ping failed")
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("source", "minio", "extract source type (minio, file, http)")
	if err := viper.BindPFlag("extract.source", ingestCmd.Flags().Lookup("source")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for source failed")
	}
	ingestCmd.Flags().String("file", "", "path of a local extract file (source=file)")
	if err := viper.BindPFlag("extract.file", ingestCmd.Flags().Lookup("file")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for file failed")
	}
	ingestCmd.Flags().String("url", "", "URL of the extract (source=http)")
	if err := viper.BindPFlag("extract.url", ingestCmd.Flags().Lookup("url")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for url failed")
	}
}
