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

// Package normalize holds the scalar field transforms applied to raw extract
// values before they are loaded into the warehouse. Every function is total:
// blank input maps to the field's typed null (or a documented default) and
// only malformed money amounts produce an error.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// ToDecimal parses a money amount into an exact decimal. Blank input defaults
// to zero; anything else that fails to parse is a fatal data-quality error.
func ToDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}

	return d, nil
}

// PercentToDecimal converts strings like "12.50%" (or a bare number, with
// either '.' or ',' as the decimal separator) to a fraction, e.g. 0.125.
// Blank or malformed input yields zero and the result is clamped to [0, 1];
// a bad discount never aborts a load.
func PercentToDecimal(value string) decimal.Decimal {
	s := strings.TrimSpace(value)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	d = d.Div(decimal.NewFromInt(100))
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}

	return d
}

// ToInt parses a required integer field such as quantity.
func ToInt(value string) (int64, error) {
	value = strings.TrimSpace(value)
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return n, nil
}

// NullInt64 parses an optional identifier column. Blank or non-numeric text
// is treated as absent rather than an error; the caller decides whether a
// missing key skips the row.
func NullInt64(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NullString maps blank text to nil so the database sees a proper NULL
// instead of an empty string.
func NullString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// ParseDate parses a date with best-effort format detection, truncated to
// midnight UTC. Unparseable values report ok=false; optional date fields
// become NULL and filter rows simply fail to match.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
