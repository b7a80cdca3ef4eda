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
package extract_test

import (
	"strings"
	"time"

	"github.com/fashion-vault/fsdata/extract"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const extractHeader = "sale_date,channel,channel_campaigns,category,brand,color,size,country," +
	"customer_id,first_name,last_name,email,gender,age_range,signup_date," +
	"product_id,product_name,cost_price,original_price,sale_id,total_amount," +
	"item_id,quantity,discount_percent"

const rowJune16 = "2025-06-16,Online,Spring Sale,Shoes,Acme,Red,M,France," +
	"101,Ada,Lovelace,ada@example.com,F,25-34,2024-01-15," +
	"501,Runner,25.00,59.99,9001,119.98,70001,2,10.00%"

const rowJune17 = "2025-06-17,Retail,Summer Push,Shoes,Acme,Blue,L,Spain," +
	"102,Grace,Hopper,grace@example.com,F,35-44,2023-11-02," +
	"502,Walker,19.00,44.99,9002,44.99,70002,1,0.00%"

const rowBadDate = "garbage,Online,Spring Sale,Shoes,Acme,Red,M,France," +
	"103,Alan,Turing,alan@example.com,M,45-54,2022-05-20," +
	"503,Sprinter,30.00,79.99,9003,79.99,70003,1,5.00%"

func extractCSV(rows ...string) string {
	return strings.Join(append([]string{extractHeader}, rows...), "\n")
}

var _ = Describe("ParseRunDate", func() {
	It("parses YYYYMMDD", func() {
		runDate, err := extract.ParseRunDate("20250616")
		Expect(err).NotTo(HaveOccurred())
		Expect(runDate).To(Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects anything else before I/O happens", func() {
		_, err := extract.ParseRunDate("2025-06-16")
		Expect(err).To(MatchError(extract.ErrInvalidRunDate))

		_, err = extract.ParseRunDate("tomorrow")
		Expect(err).To(MatchError(extract.ErrInvalidRunDate))
	})
})

var _ = Describe("Read", func() {
	It("decodes the extract into typed records", func() {
		records, err := extract.Read(strings.NewReader(extractCSV(rowJune16, rowJune17)))
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))

		Expect(records[0].Channel).To(Equal("Online"))
		Expect(records[0].Campaign).To(Equal("Spring Sale"))
		Expect(records[0].CustomerID).To(Equal("101"))
		Expect(records[0].DiscountPercent).To(Equal("10.00%"))
		Expect(records[1].SaleDate).To(Equal("2025-06-17"))
	})

	It("fails when a required column is absent", func() {
		missingDate := strings.Replace(extractCSV(rowJune16), "sale_date", "when", 1)

		_, err := extract.Read(strings.NewReader(missingDate))
		Expect(err).To(MatchError(extract.ErrMissingColumn))
		Expect(err.Error()).To(ContainSubstring("sale_date"))
	})
})

var _ = Describe("FilterByDate", func() {
	It("keeps only rows matching the business date", func() {
		records, err := extract.Read(strings.NewReader(extractCSV(rowJune16, rowJune17)))
		Expect(err).NotTo(HaveOccurred())

		businessDate := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
		filtered := extract.FilterByDate(records, businessDate)

		Expect(filtered).To(HaveLen(1))
		Expect(filtered[0].SaleID).To(Equal("9001"))
		Expect(filtered[0].BusinessDate).To(Equal(businessDate))
	})

	It("excludes rows with unparseable dates instead of failing", func() {
		records, err := extract.Read(strings.NewReader(extractCSV(rowJune16, rowBadDate)))
		Expect(err).NotTo(HaveOccurred())

		businessDate := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
		Expect(extract.FilterByDate(records, businessDate)).To(HaveLen(1))
	})

	It("returns an empty set when nothing matches", func() {
		records, err := extract.Read(strings.NewReader(extractCSV(rowJune16)))
		Expect(err).NotTo(HaveOccurred())

		businessDate := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		Expect(extract.FilterByDate(records, businessDate)).To(BeEmpty())
	})
})
