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

// Package extract reads the fashion store sales CSV and restricts it to a
// single business date. The column set is fixed and validated once, at
// ingestion entry; everything downstream works with typed SaleRecord fields
// instead of positional or name-based lookups.
package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fashion-vault/fsdata/normalize"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidRunDate = errors.New("invalid run date, expected YYYYMMDD")
	ErrMissingColumn  = errors.New("extract is missing required column")
)

// SaleRecord is one denormalized row of the sales extract. All fields are
// kept as raw text; cleaning happens in the normalize package when the
// warehouse tuples are built.
type SaleRecord struct {
	SaleDate        string `csv:"sale_date"`
	Channel         string `csv:"channel"`
	Campaign        string `csv:"channel_campaigns"`
	Category        string `csv:"category"`
	Brand           string `csv:"brand"`
	Color           string `csv:"color"`
	Size            string `csv:"size"`
	Country         string `csv:"country"`
	CustomerID      string `csv:"customer_id"`
	FirstName       string `csv:"first_name"`
	LastName        string `csv:"last_name"`
	Email           string `csv:"email"`
	Gender          string `csv:"gender"`
	AgeRange        string `csv:"age_range"`
	SignupDate      string `csv:"signup_date"`
	ProductID       string `csv:"product_id"`
	ProductName     string `csv:"product_name"`
	CostPrice       string `csv:"cost_price"`
	OriginalPrice   string `csv:"original_price"`
	SaleID          string `csv:"sale_id"`
	TotalAmount     string `csv:"total_amount"`
	ItemID          string `csv:"item_id"`
	Quantity        string `csv:"quantity"`
	DiscountPercent string `csv:"discount_percent"`

	// BusinessDate is the parsed SaleDate, set by FilterByDate.
	BusinessDate time.Time `csv:"-"`
}

var requiredColumns = []string{
	"sale_date", "channel", "channel_campaigns", "category", "brand", "color",
	"size", "country", "customer_id", "first_name", "last_name", "email",
	"gender", "age_range", "signup_date", "product_id", "product_name",
	"cost_price", "original_price", "sale_id", "total_amount", "item_id",
	"quantity", "discount_percent",
}

// ParseRunDate validates the invocation date parameter. It runs before any
// I/O so a bad argument never touches the object store or the database.
func ParseRunDate(value string) (time.Time, error) {
	runDate, err := time.Parse("20060102", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRunDate, value)
	}
	return runDate, nil
}

// Read decodes the full sales extract from r. The header row is checked
// against the required column set before any row is decoded.
func Read(r io.Reader) ([]*SaleRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read extract header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var records []*SaleRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("cannot unmarshal sales extract: %w", err)
	}

	return records, nil
}

// FilterByDate returns the subset of records whose sale date parses to the
// given business date. Rows with unparseable dates are excluded, not fatal;
// the extract re-ships its full history on every run and only the target
// day is loaded.
func FilterByDate(records []*SaleRecord, businessDate time.Time) []*SaleRecord {
	matched := make([]*SaleRecord, 0, len(records))
	skipped := 0

	for _, record := range records {
		saleDate, ok := normalize.ParseDate(record.SaleDate)
		if !ok {
			skipped++
			continue
		}
		if !saleDate.Equal(businessDate) {
			continue
		}

		record.BusinessDate = saleDate
		matched = append(matched, record)
	}

	if skipped > 0 {
		log.Warn().Int("NumRows", skipped).Msg("excluded rows with unparseable sale_date")
	}

	return matched
}
