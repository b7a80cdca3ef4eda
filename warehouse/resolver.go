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
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// CampaignKey is the textual join key the extract uses for campaigns. The
// campaign table's uniqueness constraint is on (channel_id, campaign_name),
// so resolution hops from text to id and back.
type CampaignKey struct {
	Channel  string
	Campaign string
}

// ResolveSimple maps the distinct non-blank values of one attribute column to
// surrogate ids, inserting values seen for the first time. Ids already
// assigned are never overwritten; the readback covers the whole requested set
// so values populated by earlier runs resolve too.
func ResolveSimple(ctx context.Context, db Querier, cfg Config, dim DimensionTable, values []string) (map[string]int64, error) {
	distinct := make(map[string]bool, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		distinct[value] = true
	}

	if len(distinct) == 0 {
		return map[string]int64{}, nil
	}

	cleaned := make([]string, 0, len(distinct))
	for value := range distinct {
		cleaned = append(cleaned, value)
	}
	sort.Strings(cleaned)

	tbl := cfg.Qualified(dim.Table)

	for _, page := range chunk(cleaned, cfg.PageSize) {
		sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO NOTHING`,
			tbl, dim.ValueColumn, valuesPlaceholders(len(page), 1), dim.ValueColumn)

		args := make([]any, 0, len(page))
		for _, value := range page {
			args = append(args, value)
		}

		if _, err := db.Exec(ctx, sql, args...); err != nil {
			log.Error().Err(err).Str("Table", tbl).Msg("inserting dimension values failed")
			return nil, err
		}
	}

	sql := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1)`,
		dim.IDColumn, dim.ValueColumn, tbl, dim.ValueColumn)

	rows, err := db.Query(ctx, sql, cleaned)
	if err != nil {
		log.Error().Err(err).Str("Table", tbl).Msg("reading dimension ids failed")
		return nil, err
	}
	defer rows.Close()

	mapping := make(map[string]int64, len(cleaned))
	for rows.Next() {
		var (
			id    int64
			value string
		)
		if err := rows.Scan(&id, &value); err != nil {
			return nil, err
		}
		mapping[value] = id
	}

	return mapping, rows.Err()
}

// ResolveCampaign maps textual (channel, campaign) pairs to campaign ids,
// inserting pairs seen for the first time. Pairs with a blank side, or whose
// channel has no resolved id, are dropped from the candidate set; a sale that
// still needs such a pair fails later when the facts are built.
func ResolveCampaign(ctx context.Context, db Querier, cfg Config, pairs []CampaignKey, channelMap map[string]int64) (map[CampaignKey]int64, error) {
	type campaignRow struct {
		channelID int64
		name      string
	}

	seen := make(map[campaignRow]bool, len(pairs))
	dropped := 0
	for _, pair := range pairs {
		if strings.TrimSpace(pair.Channel) == "" || strings.TrimSpace(pair.Campaign) == "" {
			continue
		}
		channelID, ok := channelMap[pair.Channel]
		if !ok {
			dropped++
			continue
		}
		seen[campaignRow{channelID: channelID, name: pair.Campaign}] = true
	}

	if dropped > 0 {
		log.Warn().Int("NumPairs", dropped).Msg("dropped campaign pairs with unresolved channel")
	}

	if len(seen) == 0 {
		return map[CampaignKey]int64{}, nil
	}

	cleaned := make([]campaignRow, 0, len(seen))
	for row := range seen {
		cleaned = append(cleaned, row)
	}
	sort.Slice(cleaned, func(i, j int) bool {
		if cleaned[i].channelID != cleaned[j].channelID {
			return cleaned[i].channelID < cleaned[j].channelID
		}
		return cleaned[i].name < cleaned[j].name
	})

	tbl := cfg.Qualified(cfg.CampaignTable)

	for _, page := range chunk(cleaned, cfg.PageSize) {
		sql := fmt.Sprintf(`INSERT INTO %s (channel_id, campaign_name) VALUES %s
ON CONFLICT (channel_id, campaign_name) DO NOTHING`, tbl, valuesPlaceholders(len(page), 2))

		args := make([]any, 0, len(page)*2)
		for _, row := range page {
			args = append(args, row.channelID, row.name)
		}

		if _, err := db.Exec(ctx, sql, args...); err != nil {
			log.Error().Err(err).Str("Table", tbl).Msg("inserting campaigns failed")
			return nil, err
		}
	}

	// the readback key is textual, so invert the channel map first
	channelName := make(map[int64]string, len(channelMap))
	for name, id := range channelMap {
		channelName[id] = name
	}

	mapping := make(map[CampaignKey]int64, len(cleaned))

	for _, page := range chunk(cleaned, cfg.PageSize) {
		sql := fmt.Sprintf(`SELECT campaign_id, channel_id, campaign_name FROM %s
WHERE (channel_id, campaign_name) IN (%s)`, tbl, tuplePlaceholders(len(page), 2))

		args := make([]any, 0, len(page)*2)
		for _, row := range page {
			args = append(args, row.channelID, row.name)
		}

		rows, err := db.Query(ctx, sql, args...)
		if err != nil {
			log.Error().Err(err).Str("Table", tbl).Msg("reading campaign ids failed")
			return nil, err
		}

		for rows.Next() {
			var (
				campaignID int64
				channelID  int64
				name       string
			)
			if err := rows.Scan(&campaignID, &channelID, &name); err != nil {
				rows.Close()
				return nil, err
			}

			if channel, ok := channelName[channelID]; ok {
				mapping[CampaignKey{Channel: channel, Campaign: name}] = campaignID
			}
		}

		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}

	return mapping, nil
}
