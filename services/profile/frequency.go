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

// valueCount is one distinct observed value with its occurrence count,
// in first-observation order.
type valueCount struct {
	Value string
	Count int
}

// FrequencyTable counts occurrences of every distinct
// (identifier, field, value) triple.
//
// The table is built in one pass over the whole record set BEFORE any
// per-group parallel work starts, so workers only ever read it.
type FrequencyTable struct {
	// counts[id][field] holds the group's distinct values in
	// first-observation order.
	counts map[string]map[string][]valueCount
}

// BuildFrequencies aggregates value counts for every group and field.
//
// Records are assumed schema-checked by the grouper; the table keeps
// first-observation order per (identifier, field) so every downstream
// enumeration is deterministic.
func BuildFrequencies(groups []Group, fields []string) *FrequencyTable {
	ft := &FrequencyTable{counts: make(map[string]map[string][]valueCount, len(groups))}

	for _, g := range groups {
		byField := make(map[string][]valueCount, len(fields))
		for _, f := range fields {
			pos := make(map[string]int)
			var vals []valueCount
			for _, rec := range g.Records {
				v := rec.Fields[f]
				if i, ok := pos[v]; ok {
					vals[i].Count++
					continue
				}
				pos[v] = len(vals)
				vals = append(vals, valueCount{Value: v, Count: 1})
			}
			byField[f] = vals
		}
		ft.counts[g.ID] = byField
	}

	return ft
}

// Values returns the distinct values observed for (id, field) with
// their counts, in first-observation order. The returned slice is
// shared; callers must not mutate it.
func (ft *FrequencyTable) Values(id, field string) []valueCount {
	return ft.counts[id][field]
}

// Variants returns the distinct values for (id, field) that differ
// from ref, in first-observation order.
func (ft *FrequencyTable) Variants(id, field, ref string) []valueCount {
	var out []valueCount
	for _, vc := range ft.counts[id][field] {
		if vc.Value != ref {
			out = append(out, vc)
		}
	}
	return out
}

// Count returns the occurrence count of value for (id, field), zero
// when never observed.
func (ft *FrequencyTable) Count(id, field, value string) int {
	for _, vc := range ft.counts[id][field] {
		if vc.Value == value {
			return vc.Count
		}
	}
	return 0
}
