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

// CombineGroup builds every plausible full record for one identifier.
//
// # Description
//
// Each configured field contributes a value list: its explosion list
// when non-empty, otherwise the single-element list holding the
// group's reference value. The output is the Cartesian product of
// those lists in configured field order, one synthetic record per
// tuple. Row count equals the product of the per-field list sizes,
// each at least 1. No deduplication is performed; repeated values
// across fields are expected.
//
// # Inputs
//
//   - g: one identifier group.
//   - explosions: the group's classified explosions (fallbacks
//     included), as produced by ClassifyGroup.
//   - fields: configured field list fixing the product order.
//
// # Outputs
//
//   - []Combination: synthetic records in product order.
func CombineGroup(g *Group, explosions []Explosion, fields []string) []Combination {
	valuesByField := make(map[string][]string, len(fields))
	for _, e := range explosions {
		valuesByField[e.Field] = append(valuesByField[e.Field], e.Value)
	}

	lists := make([][]string, len(fields))
	total := 1
	for i, field := range fields {
		vals := valuesByField[field]
		if len(vals) == 0 {
			vals = []string{g.Reference(field)}
		}
		lists[i] = vals
		total *= len(vals)
	}

	combos := make([]Combination, 0, total)
	idx := make([]int, len(fields))
	for {
		values := make(map[string]string, len(fields))
		for i, field := range fields {
			values[field] = lists[i][idx[i]]
		}
		combos = append(combos, Combination{ID: g.ID, Values: values})

		// Odometer increment, last field fastest.
		pos := len(fields) - 1
		for ; pos >= 0; pos-- {
			idx[pos]++
			if idx[pos] < len(lists[pos]) {
				break
			}
			idx[pos] = 0
		}
		if pos < 0 {
			return combos
		}
	}
}
