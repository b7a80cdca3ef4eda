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
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fsdata",
	Short: "fsdata loads the fashion store sales extract into the analytics warehouse",
	Long: `fsdata is a command line utility that ingests the daily fashion store
sales extract from object storage into a PostgreSQL star schema. A run loads a
single business date: the full extract is filtered to that date, dimension
values are resolved to surrogate ids (inserting values seen for the first
time), customer and product attributes are overwritten in place, and the sale
and line-item facts are written. Everything happens inside one transaction, so
a run is safely repeatable.

fsdata is designed to be driven by a scheduler (cron, Airflow, etc.) that runs
it once per day; the scheduler owns retry policy, fsdata makes exactly one
attempt per invocation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fsdata.toml)")
	rootCmd.PersistentFlags().String("dbUrl", "", "database connection string")
	if err := viper.BindPFlag("db.url", rootCmd.PersistentFlags().Lookup("dbUrl")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dbUrl failed")
	}
	rootCmd.PersistentFlags().String("schema", "public", "warehouse schema name")
	if err := viper.BindPFlag("warehouse.schema", rootCmd.PersistentFlags().Lookup("schema")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for schema failed")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fsdata" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".fsdata")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
