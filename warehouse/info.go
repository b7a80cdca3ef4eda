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
package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TableCount is one row of the warehouse overview.
type TableCount struct {
	Table string
	Rows  int64
}

// Counts returns current row counts for every warehouse table, dimension
// tables first.
func Counts(ctx context.Context, pool *pgxpool.Pool, cfg Config) ([]TableCount, error) {
	tables := []string{
		cfg.Channel.Table, cfg.CampaignTable, cfg.Category.Table,
		cfg.Brand.Table, cfg.Color.Table, cfg.Size.Table, cfg.Country.Table,
		cfg.CustomerTable, cfg.ProductTable, cfg.SaleTable, cfg.SaleItemTable,
	}

	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var count int64
		sql := fmt.Sprintf("SELECT count(*) FROM %s", cfg.Qualified(table))
		if err := pgxscan.Get(ctx, pool, &count, sql); err != nil {
			return nil, err
		}
		counts = append(counts, TableCount{Table: table, Rows: count})
	}

	return counts, nil
}

// LastLoadedDate returns the most recent business date present in the sale
// fact table.
func LastLoadedDate(ctx context.Context, pool *pgxpool.Pool, cfg Config) (time.Time, error) {
	var lastLoaded time.Time
	sql := fmt.Sprintf("SELECT coalesce(max(sale_date), '0001-01-01'::date) FROM %s", cfg.Qualified(cfg.SaleTable))
	if err := pgxscan.Get(ctx, pool, &lastLoaded, sql); err != nil {
		return time.Time{}, err
	}
	return lastLoaded, nil
}

// Overview returns a printable description of the warehouse contents.
func Overview(ctx context.Context, pool *pgxpool.Pool, cfg Config) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString("# Fashion store sales warehouse\n\n")

	counts, err := Counts(ctx, pool, cfg)
	if err != nil {
		return "", err
	}

	for _, count := range counts {
		builder.WriteString(p.Sprintf("  * %s: %d rows\n", count.Table, count.Rows))
	}

	lastLoaded, err := LastLoadedDate(ctx, pool, cfg)
	if err != nil {
		return "", err
	}

	if lastLoaded.Equal(time.Time{}) || lastLoaded.Year() <= 1 {
		builder.WriteString("\nLast Loaded: Never\n")
	} else {
		builder.WriteString(fmt.Sprintf("\nLast Loaded: %s\n", lastLoaded.Format("2006-01-02")))
	}

	return builder.String(), nil
}
