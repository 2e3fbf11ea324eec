// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package profile

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"
)

// GroupRecords partitions records into identifier groups.
//
// # Description
//
// Groups appear in first-observation order of their identifier, and
// records keep arrival order inside each group. With timestamp
// ordering the group is stably re-sorted by ascending parsed
// timestamp, so equal timestamps still resolve reference selection to
// the last arrival.
//
// # Inputs
//
//   - records: the full record set. Must be non-empty and rectangular
//     over cfg.Fields.
//   - cfg: pipeline configuration; only ordering knobs are consulted.
//
// # Outputs
//
//   - []Group: identifier groups, each non-empty by construction.
//   - error: ErrNoRecords, ErrMissingField, or ErrBadTimestamp.
func GroupRecords(records []Record, cfg Config) ([]Group, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	if err := checkSchema(records, cfg.Fields); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups []Group
	for _, rec := range records {
		i, ok := index[rec.ID]
		if !ok {
			i = len(groups)
			index[rec.ID] = i
			groups = append(groups, Group{ID: rec.ID})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	if cfg.Ordering == OrderingTimestamp {
		for gi := range groups {
			if err := sortByTimestamp(&groups[gi]); err != nil {
				return nil, err
			}
		}
	}

	return groups, nil
}

// checkSchema fails fast when any record lacks a configured field.
// Missing fields are an ingest defect, not a recoverable condition.
func checkSchema(records []Record, fields []string) error {
	for ri, rec := range records {
		for _, f := range fields {
			if _, ok := rec.Fields[f]; !ok {
				return fmt.Errorf("record %d (id %s) field %q: %w", ri, rec.ID, f, ErrMissingField)
			}
		}
	}
	return nil
}

// sortByTimestamp stably orders a group by ascending parsed timestamp.
func sortByTimestamp(g *Group) error {
	ts := make([]time.Time, len(g.Records))
	for i, rec := range g.Records {
		t, err := dateparse.ParseAny(rec.Timestamp, dateparse.PreferMonthFirst(false))
		if err != nil {
			return fmt.Errorf("id %s timestamp %q: %w", g.ID, rec.Timestamp, ErrBadTimestamp)
		}
		ts[i] = t
	}

	order := make([]int, len(g.Records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ts[order[a]].Before(ts[order[b]])
	})

	sorted := make([]Record, len(g.Records))
	for i, idx := range order {
		sorted[i] = g.Records[idx]
	}
	g.Records = sorted
	return nil
}
