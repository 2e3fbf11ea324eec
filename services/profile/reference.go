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

// Reference returns the group's reference value for field.
//
// # Description
//
// The reference is the field value of the LAST record in the ordered
// group: row order by default, ascending timestamp when the pipeline
// runs in timestamp mode. The most recently recorded value is assumed
// most likely correct. Ties (equal timestamps) keep the last value
// encountered in the ordered sequence, so selection is stable rather
// than arbitrary. Singleton values are never excluded from
// consideration.
func (g *Group) Reference(field string) string {
	return g.Records[len(g.Records)-1].Fields[field]
}

// References returns the reference value for every listed field.
// Exactly one reference exists per (identifier, field).
func (g *Group) References(fields []string) map[string]string {
	refs := make(map[string]string, len(fields))
	for _, f := range fields {
		refs[f] = g.Reference(f)
	}
	return refs
}
