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

	"github.com/fashion-vault/fsdata/extract"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	var (
		ctx context.Context
		db  *fakeDB
		cfg Config
	)

	// two line items of the same sale, one shared customer and campaign
	twoRows := func() []*extract.SaleRecord {
		second := saleRecord()
		second.ProductID = "502"
		second.ProductName = "Walker"
		second.Color = "Blue"
		second.ItemID = "70002"
		second.Quantity = "1"
		second.DiscountPercent = "0.00%"

		return []*extract.SaleRecord{saleRecord(), second}
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = newFakeDB()
		cfg = DefaultConfig("public")
	})

	It("loads a full business date end to end", func() {
		summary, err := Load(ctx, db, cfg, businessDate, twoRows())
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.Status).To(Equal(StatusFactsBuilt))
		Expect(summary.BusinessDate).To(Equal(businessDate))
		Expect(summary.RowsRead).To(Equal(2))
		Expect(summary.Customers).To(Equal(1))
		Expect(summary.Products).To(Equal(2))
		Expect(summary.Sales).To(Equal(1))
		Expect(summary.SaleItems).To(Equal(2))

		Expect(db.dims["public.dim_channel"]).To(HaveLen(1))
		Expect(db.dims["public.dim_color"]).To(HaveLen(2))
		Expect(db.campaigns["public.dim_campaign"]).To(HaveLen(1))
		Expect(db.facts["public.dim_customer"]).To(HaveLen(1))
		Expect(db.facts["public.dim_product"]).To(HaveLen(2))
		Expect(db.facts["public.fact_sale"]).To(HaveLen(1))
		Expect(db.facts["public.fact_sale_item"]).To(HaveLen(2))
	})

	It("changes nothing when the same date is loaded twice", func() {
		_, err := Load(ctx, db, cfg, businessDate, twoRows())
		Expect(err).NotTo(HaveOccurred())
		before := db.snapshot()

		summary, err := Load(ctx, db, cfg, businessDate, twoRows())
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.Status).To(Equal(StatusFactsBuilt))
		Expect(db.snapshot()).To(Equal(before))
	})

	It("overwrites attributes in place when the source corrects them", func() {
		_, err := Load(ctx, db, cfg, businessDate, twoRows())
		Expect(err).NotTo(HaveOccurred())

		corrected := twoRows()
		corrected[0].Email = "ada.lovelace@example.com"

		_, err = Load(ctx, db, cfg, businessDate, corrected)
		Expect(err).NotTo(HaveOccurred())

		customers := db.facts["public.dim_customer"]
		Expect(customers).To(HaveLen(1))
		Expect(*customers[101][3].(*string)).To(Equal("ada.lovelace@example.com"))
	})

	It("short-circuits an empty filtered set", func() {
		summary, err := Load(ctx, db, cfg, businessDate, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.Status).To(Equal(StatusNoData))
		Expect(db.execs).To(BeZero())
	})

	It("fails the whole run on an unmappable campaign", func() {
		records := twoRows()
		records[0].Campaign = ""
		records[1].Campaign = ""

		summary, err := Load(ctx, db, cfg, businessDate, records)
		Expect(err).To(MatchError(ErrUnmappedCampaign))

		Expect(summary).NotTo(BeNil())
		Expect(summary.Status).To(Equal(StatusDimensionsResolved))
	})
})
