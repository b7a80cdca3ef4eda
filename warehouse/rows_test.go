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
	"time"

	"github.com/fashion-vault/fsdata/extract"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var businessDate = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

// saleRecord returns a fully-populated source row; tests blank out the
// fields they care about.
func saleRecord() *extract.SaleRecord {
	return &extract.SaleRecord{
		SaleDate:        "2025-06-16",
		Channel:         "Online",
		Campaign:        "Spring Sale",
		Category:        "Shoes",
		Brand:           "Acme",
		Color:           "Red",
		Size:            "M",
		Country:         "France",
		CustomerID:      "101",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Gender:          "F",
		AgeRange:        "25-34",
		SignupDate:      "2024-01-15",
		ProductID:       "501",
		ProductName:     "Runner",
		CostPrice:       "25.00",
		OriginalPrice:   "59.99",
		SaleID:          "9001",
		TotalAmount:     "119.98",
		ItemID:          "70001",
		Quantity:        "2",
		DiscountPercent: "10.00%",
		BusinessDate:    businessDate,
	}
}

var _ = Describe("BuildCustomerRows", func() {
	It("keeps the first row per customer id", func() {
		second := saleRecord()
		second.FirstName = "Someone"
		second.ItemID = "70002"

		rows := BuildCustomerRows([]*extract.SaleRecord{saleRecord(), second},
			map[string]int64{"France": 7})

		Expect(rows).To(HaveLen(1))
		Expect(rows[0].CustomerID).To(Equal(int64(101)))
		Expect(*rows[0].FirstName).To(Equal("Ada"))
		Expect(*rows[0].CountryID).To(Equal(int64(7)))
		Expect(rows[0].SignupDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))).To(BeTrue())
	})

	It("skips rows without a customer id", func() {
		record := saleRecord()
		record.CustomerID = ""

		Expect(BuildCustomerRows([]*extract.SaleRecord{record}, nil)).To(BeEmpty())
	})

	It("nulls optional attributes instead of writing empty strings", func() {
		record := saleRecord()
		record.Email = ""
		record.SignupDate = "never"
		record.Country = "Atlantis"

		rows := BuildCustomerRows([]*extract.SaleRecord{record}, map[string]int64{"France": 7})

		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Email).To(BeNil())
		Expect(rows[0].SignupDate).To(BeNil())
		Expect(rows[0].CountryID).To(BeNil())
	})
})

var _ = Describe("BuildProductRows", func() {
	It("keeps the first row per product id and resolves attribute ids", func() {
		second := saleRecord()
		second.ProductName = "Renamed"

		rows, err := BuildProductRows([]*extract.SaleRecord{saleRecord(), second},
			map[string]int64{"Shoes": 1}, map[string]int64{"Acme": 2},
			map[string]int64{"Red": 3}, map[string]int64{"M": 4})
		Expect(err).NotTo(HaveOccurred())

		Expect(rows).To(HaveLen(1))
		Expect(*rows[0].ProductName).To(Equal("Runner"))
		Expect(*rows[0].CategoryID).To(Equal(int64(1)))
		Expect(*rows[0].SizeID).To(Equal(int64(4)))
		Expect(rows[0].CostPrice.String()).To(Equal("25"))
		Expect(rows[0].OriginalPrice.String()).To(Equal("59.99"))
	})

	It("fails on a malformed price", func() {
		record := saleRecord()
		record.CostPrice = "cheap"

		_, err := BuildProductRows([]*extract.SaleRecord{record}, nil, nil, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BuildSaleRows", func() {
	campaignMap := map[CampaignKey]int64{
		{Channel: "Online", Campaign: "Spring Sale"}: 11,
	}

	It("builds one sale per sale id with the campaign resolved", func() {
		rows, err := BuildSaleRows([]*extract.SaleRecord{saleRecord(), saleRecord()}, campaignMap)
		Expect(err).NotTo(HaveOccurred())

		Expect(rows).To(HaveLen(1))
		Expect(rows[0].SaleID).To(Equal(int64(9001)))
		Expect(rows[0].SaleDate).To(Equal(businessDate))
		Expect(rows[0].CampaignID).To(Equal(int64(11)))
		Expect(rows[0].TotalAmount.String()).To(Equal("119.98"))
	})

	It("skips sales without a customer id", func() {
		record := saleRecord()
		record.CustomerID = ""

		rows, err := BuildSaleRows([]*extract.SaleRecord{record}, campaignMap)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("fails when the campaign pair never resolved", func() {
		record := saleRecord()
		record.Campaign = "Mystery Push"

		_, err := BuildSaleRows([]*extract.SaleRecord{record}, campaignMap)
		Expect(err).To(MatchError(ErrUnmappedCampaign))
		Expect(err.Error()).To(ContainSubstring("Mystery Push"))
	})
})

var _ = Describe("BuildSaleItemRows", func() {
	It("builds one item per item id with the discount as a fraction", func() {
		rows, err := BuildSaleItemRows([]*extract.SaleRecord{saleRecord(), saleRecord()})
		Expect(err).NotTo(HaveOccurred())

		Expect(rows).To(HaveLen(1))
		Expect(rows[0].ItemID).To(Equal(int64(70001)))
		Expect(rows[0].Quantity).To(Equal(int64(2)))
		Expect(rows[0].Discount.String()).To(Equal("0.1"))
	})

	It("skips items missing a sale or product reference", func() {
		noSale := saleRecord()
		noSale.SaleID = ""

		noProduct := saleRecord()
		noProduct.ItemID = "70002"
		noProduct.ProductID = ""

		rows, err := BuildSaleItemRows([]*extract.SaleRecord{noSale, noProduct})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("fails on a malformed quantity", func() {
		record := saleRecord()
		record.Quantity = "two"

		_, err := BuildSaleItemRows([]*extract.SaleRecord{record})
		Expect(err).To(HaveOccurred())
	})
})
