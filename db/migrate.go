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
package db

import (
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*
var migrationFS embed.FS

// Migrate creates or upgrades the star schema tables. The loader itself
// never issues DDL; provisioned tables are a precondition of every load.
func Migrate(databaseURL string) error {
	migration, err := newMigration(databaseURL)
	if err != nil {
		return err
	}

	return migration.Up()
}

// Rollback reverses the most recent migration.
func Rollback(databaseURL string) error {
	migration, err := newMigration(databaseURL)
	if err != nil {
		return err
	}

	return migration.Steps(-1)
}

func newMigration(databaseURL string) (*migrate.Migrate, error) {
	migrationDir, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}

	// golang-migrate selects the driver from the URL scheme
	databaseURL = strings.Replace(databaseURL, "postgres://", "pgx5://", 1)

	return migrate.NewWithSourceInstance("iofs", migrationDir, databaseURL)
}
