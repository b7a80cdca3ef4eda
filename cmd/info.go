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
	"fmt"

	"github.com/fashion-vault/fsdata/warehouse"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display row counts and the last loaded date for the warehouse",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		pool, err := pgxpool.New(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse database")
		}
		defer pool.Close()

		cfg := warehouse.DefaultConfig(viper.GetString("warehouse.schema"))

		overview, err := warehouse.Overview(ctx, pool, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build warehouse overview")
		}

		fmt.Print(overview)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
