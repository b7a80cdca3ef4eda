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
	"fmt"
	"time"

	"github.com/fashion-vault/fsdata/extract"
	"github.com/fashion-vault/fsdata/normalize"
	"github.com/shopspring/decimal"
)

// CustomerRow is a fully-formed dim_customer tuple with foreign ids resolved.
type CustomerRow struct {
	CustomerID int64
	FirstName  *string
	LastName   *string
	Email      *string
	Gender     *string
	AgeRange   *string
	SignupDate *time.Time
	CountryID  *int64
}

// ProductRow is a fully-formed dim_product tuple.
type ProductRow struct {
	ProductID     int64
	ProductName   *string
	CategoryID    *int64
	BrandID       *int64
	ColorID       *int64
	SizeID        *int64
	CostPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
}

// SaleRow is a fact_sale tuple.
type SaleRow struct {
	SaleID      int64
	SaleDate    time.Time
	TotalAmount decimal.Decimal
	CustomerID  int64
	CampaignID  int64
}

// SaleItemRow is a fact_sale_item tuple.
type SaleItemRow struct {
	ItemID    int64
	SaleID    int64
	ProductID int64
	Quantity  int64
	Discount  decimal.Decimal
}

// lookupID resolves an optional dimension reference: blank values and values
// absent from the mapping both yield NULL.
func lookupID(mapping map[string]int64, value string) *int64 {
	id, ok := mapping[value]
	if !ok {
		return nil
	}
	return &id
}

// BuildCustomerRows builds one customer tuple per distinct customer_id,
// keep-first. Rows without a customer id are incompletely populated source
// rows and are skipped.
func BuildCustomerRows(records []*extract.SaleRecord, countryMap map[string]int64) []CustomerRow {
	rows := make([]CustomerRow, 0, len(records))
	seen := make(map[int64]bool, len(records))

	for _, record := range records {
		customerID, ok := normalize.NullInt64(record.CustomerID)
		if !ok || seen[customerID] {
			continue
		}
		seen[customerID] = true

		row := CustomerRow{
			CustomerID: customerID,
			FirstName:  normalize.NullString(record.FirstName),
			LastName:   normalize.NullString(record.LastName),
			Email:      normalize.NullString(record.Email),
			Gender:     normalize.NullString(record.Gender),
			AgeRange:   normalize.NullString(record.AgeRange),
			CountryID:  lookupID(countryMap, record.Country),
		}

		if signup, ok := normalize.ParseDate(record.SignupDate); ok {
			row.SignupDate = &signup
		}

		rows = append(rows, row)
	}

	return rows
}

// BuildProductRows builds one product tuple per distinct product_id,
// keep-first. Malformed price fields abort the load.
func BuildProductRows(records []*extract.SaleRecord, categoryMap, brandMap, colorMap, sizeMap map[string]int64) ([]ProductRow, error) {
	rows := make([]ProductRow, 0, len(records))
	seen := make(map[int64]bool, len(records))

	for _, record := range records {
		productID, ok := normalize.NullInt64(record.ProductID)
		if !ok || seen[productID] {
			continue
		}
		seen[productID] = true

		costPrice, err := normalize.ToDecimal(record.CostPrice)
		if err != nil {
			return nil, fmt.Errorf("product %d cost_price: %w", productID, err)
		}

		originalPrice, err := normalize.ToDecimal(record.OriginalPrice)
		if err != nil {
			return nil, fmt.Errorf("product %d original_price: %w", productID, err)
		}

		rows = append(rows, ProductRow{
			ProductID:     productID,
			ProductName:   normalize.NullString(record.ProductName),
			CategoryID:    lookupID(categoryMap, record.Category),
			BrandID:       lookupID(brandMap, record.Brand),
			ColorID:       lookupID(colorMap, record.Color),
			SizeID:        lookupID(sizeMap, record.Size),
			CostPrice:     costPrice,
			OriginalPrice: originalPrice,
		})
	}

	return rows, nil
}

// BuildSaleRows builds one sale tuple per distinct sale_id, keep-first. Rows
// missing the sale or customer id are skipped. A sale whose campaign pair has
// no resolved id is a fatal consistency failure, not a skip: the extract
// references a campaign that is blank or unresolvable in its own row.
func BuildSaleRows(records []*extract.SaleRecord, campaignMap map[CampaignKey]int64) ([]SaleRow, error) {
	rows := make([]SaleRow, 0, len(records))
	seen := make(map[int64]bool, len(records))

	for _, record := range records {
		saleID, ok := normalize.NullInt64(record.SaleID)
		if !ok || seen[saleID] {
			continue
		}
		seen[saleID] = true

		customerID, ok := normalize.NullInt64(record.CustomerID)
		if !ok {
			continue
		}

		campaignID, ok := campaignMap[CampaignKey{Channel: record.Channel, Campaign: record.Campaign}]
		if !ok {
			return nil, fmt.Errorf("%w: sale=%d channel=%q campaign=%q",
				ErrUnmappedCampaign, saleID, record.Channel, record.Campaign)
		}

		totalAmount, err := normalize.ToDecimal(record.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("sale %d total_amount: %w", saleID, err)
		}

		rows = append(rows, SaleRow{
			SaleID:      saleID,
			SaleDate:    record.BusinessDate,
			TotalAmount: totalAmount,
			CustomerID:  customerID,
			CampaignID:  campaignID,
		})
	}

	return rows, nil
}

// BuildSaleItemRows builds one line-item tuple per distinct item_id,
// keep-first. Rows missing the item, sale or product id are skipped.
func BuildSaleItemRows(records []*extract.SaleRecord) ([]SaleItemRow, error) {
	rows := make([]SaleItemRow, 0, len(records))
	seen := make(map[int64]bool, len(records))

	for _, record := range records {
		itemID, ok := normalize.NullInt64(record.ItemID)
		if !ok || seen[itemID] {
			continue
		}
		seen[itemID] = true

		saleID, ok := normalize.NullInt64(record.SaleID)
		if !ok {
			continue
		}

		productID, ok := normalize.NullInt64(record.ProductID)
		if !ok {
			continue
		}

		quantity, err := normalize.ToInt(record.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %d quantity: %w", itemID, err)
		}

		rows = append(rows, SaleItemRow{
			ItemID:    itemID,
			SaleID:    saleID,
			ProductID: productID,
			Quantity:  quantity,
			Discount:  normalize.PercentToDecimal(record.DiscountPercent),
		})
	}

	return rows, nil
}
