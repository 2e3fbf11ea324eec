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

// BuildMetadata assembles the descriptive variant-metrics report.
//
// # Description
//
// Metadata is keyed by reference VALUE, not identifier: identifiers
// sharing a reference value pool their variants, and a variant's
// frequency is its total occurrence count across that pool.
// Occurrences equal to the reference itself are excluded. Metrics per
// variant follow the field's comparator class.
//
// The report is export-only; nothing downstream consumes it.
//
// # Inputs
//
//   - groups: identifier groups in group order.
//   - freqs: the global frequency table.
//   - policy: the comparator policy covering every field in fields.
//   - fields: configured field list.
//
// # Outputs
//
//   - Metadata: field -> reference value -> variants.
//   - error: ErrUnknownField when a field has no policy entry.
func BuildMetadata(groups []Group, freqs *FrequencyTable, policy Policy, fields []string) (Metadata, error) {
	meta := make(Metadata, len(fields))

	for _, field := range fields {
		fc, err := policy.ClassFor(field)
		if err != nil {
			return nil, err
		}

		byRef := make(map[string]ReferenceMetadata)
		for _, g := range groups {
			ref := g.Reference(field)
			rm, ok := byRef[ref]
			if !ok {
				rm = ReferenceMetadata{Variants: make(map[string]VariantMetrics)}
				byRef[ref] = rm
			}

			for _, vc := range freqs.Variants(g.ID, field, ref) {
				vm, seen := rm.Variants[vc.Value]
				if !seen {
					vm = fc.Metrics(ref, vc.Value)
				}
				vm.Frequency += vc.Count
				rm.Variants[vc.Value] = vm
			}
		}
		meta[field] = byRef
	}

	return meta, nil
}
