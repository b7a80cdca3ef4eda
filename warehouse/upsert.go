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

	"github.com/rs/zerolog/log"
)

// upsertOverwrite writes rows keyed by the first column: insert if absent,
// otherwise overwrite every non-key column with the new values (type-1, the
// latest load wins). Empty input is a no-op. Rows are written in pages of
// cfg.PageSize; chunking is a throughput concern only.
func upsertOverwrite(ctx context.Context, db Querier, cfg Config, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tbl := cfg.Qualified(table)
	keyColumn := columns[0]

	assignments := make([]string, 0, len(columns)-1)
	for _, column := range columns[1:] {
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	for _, page := range chunk(rows, cfg.PageSize) {
		sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s
ON CONFLICT (%s) DO UPDATE SET %s`,
			tbl, strings.Join(columns, ", "), valuesPlaceholders(len(page), len(columns)),
			keyColumn, strings.Join(assignments, ", "))

		args := make([]any, 0, len(page)*len(columns))
		for _, row := range page {
			args = append(args, row...)
		}

		if _, err := db.Exec(ctx, sql, args...); err != nil {
			log.Error().Err(err).Str("Table", tbl).Msg("upsert failed")
			return err
		}
	}

	return nil
}

// UpsertCustomers writes customer dimension rows keyed by customer_id.
func UpsertCustomers(ctx context.Context, db Querier, cfg Config, rows []CustomerRow) error {
	columns := []string{"customer_id", "first_name", "last_name", "email", "gender", "age_range", "signup_date", "country_id"}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, []any{
			row.CustomerID, row.FirstName, row.LastName, row.Email,
			row.Gender, row.AgeRange, row.SignupDate, row.CountryID,
		})
	}

	return upsertOverwrite(ctx, db, cfg, cfg.CustomerTable, columns, values)
}

// UpsertProducts writes product dimension rows keyed by product_id.
func UpsertProducts(ctx context.Context, db Querier, cfg Config, rows []ProductRow) error {
	columns := []string{"product_id", "product_name", "category_id", "brand_id", "color_id", "size_id", "cost_price", "original_price"}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, []any{
			row.ProductID, row.ProductName, row.CategoryID, row.BrandID,
			row.ColorID, row.SizeID, row.CostPrice.String(), row.OriginalPrice.String(),
		})
	}

	return upsertOverwrite(ctx, db, cfg, cfg.ProductTable, columns, values)
}

// UpsertSales writes sale header rows keyed by sale_id.
func UpsertSales(ctx context.Context, db Querier, cfg Config, rows []SaleRow) error {
	columns := []string{"sale_id", "sale_date", "total_amount", "customer_id", "campaign_id"}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, []any{
			row.SaleID, row.SaleDate, row.TotalAmount.String(), row.CustomerID, row.CampaignID,
		})
	}

	return upsertOverwrite(ctx, db, cfg, cfg.SaleTable, columns, values)
}

// UpsertSaleItems writes line-item rows keyed by item_id.
func UpsertSaleItems(ctx context.Context, db Querier, cfg Config, rows []SaleItemRow) error {
	columns := []string{"item_id", "sale_id", "product_id", "quantity", "discount_percent"}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, []any{
			row.ItemID, row.SaleID, row.ProductID, row.Quantity, row.Discount.String(),
		})
	}

	return upsertOverwrite(ctx, db, cfg, cfg.SaleItemTable, columns, values)
}

// valuesPlaceholders renders ($1, $2), ($3, $4), ... for numRows rows of
// numCols columns.
func valuesPlaceholders(numRows, numCols int) string {
	builder := strings.Builder{}
	n := 1
	for row := 0; row < numRows; row++ {
		if row > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("(")
		for col := 0; col < numCols; col++ {
			if col > 0 {
				builder.WriteString(", ")
			}
			fmt.Fprintf(&builder, "$%d", n)
			n++
		}
		builder.WriteString(")")
	}
	return builder.String()
}

// tuplePlaceholders renders the same shape for use inside an IN (...) clause.
func tuplePlaceholders(numRows, numCols int) string {
	return valuesPlaceholders(numRows, numCols)
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	if len(items) == 0 {
		return nil
	}

	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	return pages
}
