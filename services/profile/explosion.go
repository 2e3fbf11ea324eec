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

// ClassifyGroup runs the explosion classifier for one identifier group.
//
// # Description
//
// For every configured field, the group's distinct non-reference
// variants are tested against the field's explosion predicate in
// first-observation order. A variant equal to the reference is never
// an explosion; equality short-circuits before any metric work.
//
// Fallback rule: when a key field collects zero explosions (including
// the zero-variant case), a synthetic entry carrying the reference
// value itself is inserted. This guarantees every identifier a
// non-empty variant set for every key field, which the combination
// generator relies on. Non-key fields get no fallback; their empty
// lists are valid.
//
// # Inputs
//
//   - g: one identifier group.
//   - freqs: the global frequency table (read-only).
//   - policy: comparator policy covering every field.
//   - cfg: configuration (field order, key fields).
//
// # Outputs
//
//   - []Explosion: explosions in field order, variants in
//     first-observation order, fallbacks marked.
//   - error: ErrUnknownField for an unconfigured field name.
func ClassifyGroup(g *Group, freqs *FrequencyTable, policy Policy, cfg Config) ([]Explosion, error) {
	keyed := make(map[string]bool, len(cfg.KeyFields))
	for _, f := range cfg.KeyFields {
		keyed[f] = true
	}

	var out []Explosion
	for _, field := range cfg.Fields {
		fc, err := policy.ClassFor(field)
		if err != nil {
			return nil, err
		}

		ref := g.Reference(field)
		explodedAny := false
		for _, vc := range freqs.Values(g.ID, field) {
			if vc.Value == ref {
				continue
			}
			if !fc.Exploded(ref, vc.Value) {
				continue
			}
			out = append(out, Explosion{Field: field, Value: vc.Value})
			explodedAny = true
		}

		if keyed[field] && !explodedAny {
			out = append(out, Explosion{Field: field, Value: ref, Fallback: true})
		}
	}

	return out, nil
}
