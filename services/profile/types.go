// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package profile detects semantic drift inside identifier groups.
//
// # Description
//
// Records sharing one identifier frequently disagree on descriptive
// fields (name, dob, address, postcode, telephone, email) through
// typos, transcription error or genuine identity drift. This package
// picks a canonical reference value per (identifier, field), measures
// how every other observed value diverges from it with field-specific
// metrics, classifies each divergence as noise or a semantically
// significant "explosion", and reconstructs every plausible full
// record an identifier could represent as the Cartesian product of
// per-field explosion-qualified value sets.
//
// The package never selects a single "truth": it surfaces the space
// of plausible values for downstream adjudication.
//
// # Thread Safety
//
// All pipeline stages are pure functions over immutable inputs;
// identifier groups are processed on independent workers with one
// write-once result slot each.
package profile

// Record is one observation of an identifier.
//
// Field values are expected lower-cased by the ingest layer; the core
// performs no casing of its own. Records are immutable once built.
type Record struct {
	// ID is the opaque identifier the record observes.
	ID string `json:"id"`

	// Timestamp orders the record inside its group when the pipeline
	// runs in timestamp ordering mode. Free-form; parsed lazily.
	Timestamp string `json:"timestamp,omitempty"`

	// Fields maps configured field names to normalized string values.
	Fields map[string]string `json:"fields"`
}

// Group is every record observed for one identifier, in selection order.
type Group struct {
	// ID is the shared identifier.
	ID string

	// Records holds the group's records, ordered per the configured
	// ordering mode. Never empty.
	Records []Record
}

// VariantMetrics carries the per-variant measurements reported in the
// metadata artifact. Which members are set depends on the field class.
type VariantMetrics struct {
	// Frequency is the total occurrence count of the variant across
	// all identifiers sharing the reference value.
	Frequency int `json:"frequency"`

	// EditDistance is the Levenshtein distance to the reference
	// (name and postcode fields).
	EditDistance *int `json:"edit_distance,omitempty"`

	// Similarity is the Jaro-Winkler similarity to the reference
	// (name fields).
	Similarity *float64 `json:"similarity,omitempty"`

	// LowSimilarity is true when Similarity is below the configured
	// threshold (name fields).
	LowSimilarity *bool `json:"low_similarity,omitempty"`

	// MismatchFirst4 is true when any of the first four position-wise
	// compared characters differs (name fields).
	MismatchFirst4 *bool `json:"mismatch_first4,omitempty"`

	// Exploded is the semantic date comparison verdict (dob field).
	Exploded *bool `json:"exploded,omitempty"`
}

// ReferenceMetadata groups variant metrics under one reference value.
type ReferenceMetadata struct {
	Variants map[string]VariantMetrics `json:"variants"`
}

// Metadata is the descriptive report: field name to reference value to
// variant metrics. It is keyed by reference VALUE, not by identifier;
// a reference value shared by several identifiers pools their
// variants. The report is export-only and feeds no classification.
type Metadata map[string]map[string]ReferenceMetadata

// Explosion marks one (field, value) pair classified as a significant
// divergence for an identifier, or the fallback-inserted reference
// when a key field produced no genuine explosion.
type Explosion struct {
	// Field is the configured field name.
	Field string `json:"field"`

	// Value is the exploding variant, or the reference value when
	// Fallback is set.
	Value string `json:"value"`

	// Fallback is true for synthetic reference insertions.
	Fallback bool `json:"fallback,omitempty"`
}

// Explosions is the per-identifier explosion report, ordered by the
// configured field list and, within a field, by first observation.
type Explosions map[string][]Explosion

// Combination is one synthetic full record: an independent pick of one
// explosion-qualified value per field for one identifier.
type Combination struct {
	// ID is the identifier the combination belongs to.
	ID string `json:"id"`

	// Values maps every configured field to the picked value.
	Values map[string]string `json:"values"`
}

// Result is the output of one pipeline run.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Metadata is the field/reference/variant metrics report.
	Metadata Metadata `json:"metadata"`

	// Explosions is the explosions-by-identifier report, fallback
	// insertions included.
	Explosions Explosions `json:"explosions"`

	// Combinations is the synthetic record table, grouped by
	// identifier in group order.
	Combinations []Combination `json:"combinations"`

	// Identifiers counts the processed identifier groups.
	Identifiers int `json:"identifiers"`

	// Records counts the ingested records.
	Records int `json:"records"`
}
