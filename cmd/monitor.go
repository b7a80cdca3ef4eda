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
	"fmt"

	"github.com/fashion-vault/fsdata/healthcheck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Create a healthchecks.io check for the daily ingest",
	Long: `Creates a healthchecks.io check that pages when the daily ingest stops
reporting. Save the printed check id under healthchecks.checkid in the config
file; the ingest command pings it after every run.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkID, err := healthcheck.Create("fashion sales ingest", "fashion-sales-ingest",
			[]string{"fsdata", "ingest"})
		if err != nil {
			log.Fatal().Err(err).Msg("creating healthcheck failed")
		}

		fmt.Printf("created check %s\n", checkID)
		fmt.Println("add to your config file:")
		fmt.Printf("\n[healthchecks]\ncheckid = %q\n", checkID)
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
