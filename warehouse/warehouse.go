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

// Package warehouse implements the dimensional loader for the fashion store
// star schema: natural-key dimension resolution, type-1 overwrite upserts and
// the fact writes, all inside a single transaction per business date.
package warehouse

import "fmt"

// DimensionTable describes a simple dimension backed by a surrogate id column
// and a unique natural-key column.
type DimensionTable struct {
	Table       string
	IDColumn    string
	ValueColumn string
}

// Config carries the schema name and table descriptors for one warehouse.
// It is passed explicitly into every loader call; there is no process-wide
// table registry.
type Config struct {
	Schema string

	// PageSize bounds the number of rows per bulk insert statement.
	PageSize int

	Channel  DimensionTable
	Category DimensionTable
	Brand    DimensionTable
	Color    DimensionTable
	Size     DimensionTable
	Country  DimensionTable

	CampaignTable string
	CustomerTable string
	ProductTable  string
	SaleTable     string
	SaleItemTable string
}

// DefaultConfig returns descriptors for the standard fashion store schema.
func DefaultConfig(schema string) Config {
	return Config{
		Schema:   schema,
		PageSize: 1000,

		Channel:  DimensionTable{Table: "dim_channel", IDColumn: "channel_id", ValueColumn: "channel_name"},
		Category: DimensionTable{Table: "dim_category", IDColumn: "category_id", ValueColumn: "category_name"},
		Brand:    DimensionTable{Table: "dim_brand", IDColumn: "brand_id", ValueColumn: "brand_name"},
		Color:    DimensionTable{Table: "dim_color", IDColumn: "color_id", ValueColumn: "color_name"},
		Size:     DimensionTable{Table: "dim_size", IDColumn: "size_id", ValueColumn: "size_label"},
		Country:  DimensionTable{Table: "dim_country", IDColumn: "country_id", ValueColumn: "country_name"},

		CampaignTable: "dim_campaign",
		CustomerTable: "dim_customer",
		ProductTable:  "dim_product",
		SaleTable:     "fact_sale",
		SaleItemTable: "fact_sale_item",
	}
}

// Qualified returns the schema-qualified name for a table.
func (cfg Config) Qualified(table string) string {
	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	return fmt.Sprintf("%s.%s", schema, table)
}
