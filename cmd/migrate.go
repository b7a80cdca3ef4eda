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
	"github.com/fashion-vault/fsdata/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rollback bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the star schema tables",
	Long: `The migrate sub-command provisions the warehouse tables the loader writes
to. Provisioned tables are a precondition of every ingest run; the loader
itself never issues DDL.`,
	Run: func(cmd *cobra.Command, args []string) {
		dbURL := viper.GetString("db.url")

		if rollback {
			if err := db.Rollback(dbURL); err != nil {
				log.Fatal().Err(err).Msg("error rolling back database migration")
			}
			log.Info().Msg("database migration rolled back")
			return
		}

		if err := db.Migrate(dbURL); err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}
		log.Info().Msg("database tables created")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&rollback, "rollback", false, "reverse the most recent migration")
}
