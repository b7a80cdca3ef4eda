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
	"time"

	"github.com/fashion-vault/fsdata/extract"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Status tracks the run through its states. A run either commits in full or
// rolls back in full; NO_DATA is the short-circuit for an empty filtered set.
type Status string

const (
	StatusFiltered           Status = "FILTERED"
	StatusDimensionsResolved Status = "DIMENSIONS_RESOLVED"
	StatusFactsBuilt         Status = "FACTS_BUILT"
	StatusCommitted          Status = "COMMITTED"
	StatusRolledBack         Status = "ROLLED_BACK"
	StatusNoData             Status = "NO_DATA"
)

// Summary is the completion signal for one load run.
type Summary struct {
	RunID        uuid.UUID
	BusinessDate time.Time
	Status       Status
	RowsRead     int
	Customers    int
	Products     int
	Sales        int
	SaleItems    int
}

func (summary *Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", summary.RunID.String())
	e.Str("BusinessDate", summary.BusinessDate.Format("2006-01-02"))
	e.Str("Status", string(summary.Status))
	e.Int("RowsRead", summary.RowsRead)
	e.Int("Customers", summary.Customers)
	e.Int("Products", summary.Products)
	e.Int("Sales", summary.Sales)
	e.Int("SaleItems", summary.SaleItems)
}

// Ingest loads one business date's filtered records inside a single
// transaction: commit at the end, or roll back wholly on the first error.
// Exactly one attempt is made; retry policy belongs to the orchestrator.
// Concurrent invocations for the same business date are not safe against
// each other; schedule at most one loader per date.
func Ingest(ctx context.Context, pool *pgxpool.Pool, cfg Config, businessDate time.Time, records []*extract.SaleRecord) (*Summary, error) {
	if len(records) == 0 {
		// explicit no-op success: the transaction is never opened
		return &Summary{
			RunID:        uuid.New(),
			BusinessDate: businessDate,
			Status:       StatusNoData,
		}, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := Load(ctx, tx, cfg, businessDate, records)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Error().Err(rbErr).Msg("rollback failed")
		}
		summary.Status = StatusRolledBack
		return summary, err
	}

	if err := tx.Commit(ctx); err != nil {
		summary.Status = StatusRolledBack
		return summary, err
	}

	summary.Status = StatusCommitted
	return summary, nil
}

// Load runs the full dimensional load against db, which is expected to be a
// transaction. Transaction boundaries are the caller's concern.
func Load(ctx context.Context, db Querier, cfg Config, businessDate time.Time, records []*extract.SaleRecord) (*Summary, error) {
	summary := &Summary{
		RunID:        uuid.New(),
		BusinessDate: businessDate,
		Status:       StatusFiltered,
		RowsRead:     len(records),
	}

	if len(records) == 0 {
		summary.Status = StatusNoData
		return summary, nil
	}

	logger := log.With().Str("RunID", summary.RunID.String()).Logger()

	// simple dimensions; independent of each other, but channels must come
	// before campaigns
	channelMap, err := ResolveSimple(ctx, db, cfg, cfg.Channel, collect(records, func(r *extract.SaleRecord) string { return r.Channel }))
	if err != nil {
		return summary, err
	}

	categoryMap, err := ResolveSimple(ctx, db, cfg, cfg.Category, collect(records, func(r *extract.SaleRecord) string { return r.Category }))
	if err != nil {
		return summary, err
	}

	brandMap, err := ResolveSimple(ctx, db, cfg, cfg.Brand, collect(records, func(r *extract.SaleRecord) string { return r.Brand }))
	if err != nil {
		return summary, err
	}

	colorMap, err := ResolveSimple(ctx, db, cfg, cfg.Color, collect(records, func(r *extract.SaleRecord) string { return r.Color }))
	if err != nil {
		return summary, err
	}

	sizeMap, err := ResolveSimple(ctx, db, cfg, cfg.Size, collect(records, func(r *extract.SaleRecord) string { return r.Size }))
	if err != nil {
		return summary, err
	}

	countryMap, err := ResolveSimple(ctx, db, cfg, cfg.Country, collect(records, func(r *extract.SaleRecord) string { return r.Country }))
	if err != nil {
		return summary, err
	}

	pairs := make([]CampaignKey, 0, len(records))
	for _, record := range records {
		pairs = append(pairs, CampaignKey{Channel: record.Channel, Campaign: record.Campaign})
	}

	campaignMap, err := ResolveCampaign(ctx, db, cfg, pairs, channelMap)
	if err != nil {
		return summary, err
	}

	summary.Status = StatusDimensionsResolved
	logger.Debug().Str("Status", string(summary.Status)).Msg("dimensions resolved")

	customerRows := BuildCustomerRows(records, countryMap)

	productRows, err := BuildProductRows(records, categoryMap, brandMap, colorMap, sizeMap)
	if err != nil {
		return summary, err
	}

	saleRows, err := BuildSaleRows(records, campaignMap)
	if err != nil {
		return summary, err
	}

	itemRows, err := BuildSaleItemRows(records)
	if err != nil {
		return summary, err
	}

	summary.Status = StatusFactsBuilt
	summary.Customers = len(customerRows)
	summary.Products = len(productRows)
	summary.Sales = len(saleRows)
	summary.SaleItems = len(itemRows)
	logger.Debug().Str("Status", string(summary.Status)).Msg("fact tuples built")

	if err := UpsertCustomers(ctx, db, cfg, customerRows); err != nil {
		return summary, err
	}

	if err := UpsertProducts(ctx, db, cfg, productRows); err != nil {
		return summary, err
	}

	if err := UpsertSales(ctx, db, cfg, saleRows); err != nil {
		return summary, err
	}

	if err := UpsertSaleItems(ctx, db, cfg, itemRows); err != nil {
		return summary, err
	}

	return summary, nil
}

func collect(records []*extract.SaleRecord, field func(*extract.SaleRecord) string) []string {
	values := make([]string, 0, len(records))
	for _, record := range records {
		values = append(values, field(record))
	}
	return values
}
