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

	"github.com/araddon/dateparse"

	"github.com/AleutianAI/recorddrift/services/profile/strdist"
)

// FieldClass is one comparison and classification rule.
//
// # Description
//
// A class decides which metrics a variant gets against its reference
// and whether the divergence is an explosion. Implementations are
// pure and total over well-formed strings; callers guarantee
// variant != ref (equal values short-circuit before any class runs).
type FieldClass interface {
	// Class names the rule for logs and metrics labels.
	Class() string

	// Exploded reports whether variant is a semantically significant
	// divergence from ref.
	Exploded(ref, variant string) bool

	// Metrics fills the per-variant measurements for the metadata
	// report. Frequency is set by the caller.
	Metrics(ref, variant string) VariantMetrics
}

// NameClass compares person-name fields with edit distance and
// prefix-weighted Jaro-Winkler similarity. A variant explodes when its
// similarity falls below Threshold.
type NameClass struct {
	// Threshold is the explosion cutoff, 0.88 by default.
	Threshold float64
}

func (c NameClass) Class() string { return "name" }

func (c NameClass) Exploded(ref, variant string) bool {
	return strdist.JaroWinkler(ref, variant) < c.Threshold
}

func (c NameClass) Metrics(ref, variant string) VariantMetrics {
	ed := strdist.Levenshtein(ref, variant)
	sim := strdist.JaroWinkler(ref, variant)
	low := sim < c.Threshold
	mismatch := strdist.MismatchInPrefix(ref, variant, 4)
	return VariantMetrics{
		EditDistance:   &ed,
		Similarity:     &sim,
		LowSimilarity:  &low,
		MismatchFirst4: &mismatch,
	}
}

// DateClass compares date fields semantically: two values that parse
// to the same calendar date are noise regardless of formatting. The
// parser prefers day-first readings ("15-06-1985" is June 15th).
// Unparsable input always explodes: flagging is fail-open, a value we
// cannot read is never silently dropped.
type DateClass struct{}

func (DateClass) Class() string { return "date" }

func (DateClass) Exploded(ref, variant string) bool {
	return dateExploded(ref, variant)
}

func (DateClass) Metrics(ref, variant string) VariantMetrics {
	exploded := dateExploded(ref, variant)
	return VariantMetrics{Exploded: &exploded}
}

// PostcodeClass explodes on any character-level difference at all.
type PostcodeClass struct{}

func (PostcodeClass) Class() string { return "postcode" }

func (PostcodeClass) Exploded(ref, variant string) bool {
	return strdist.Levenshtein(ref, variant) > 0
}

func (PostcodeClass) Metrics(ref, variant string) VariantMetrics {
	ed := strdist.Levenshtein(ref, variant)
	return VariantMetrics{EditDistance: &ed}
}

// OtherClass covers sex, address, telephone, email and any field
// without a dedicated rule: frequency only, and every differing
// variant is an explosion.
type OtherClass struct{}

func (OtherClass) Class() string { return "other" }

func (OtherClass) Exploded(ref, variant string) bool { return true }

func (OtherClass) Metrics(ref, variant string) VariantMetrics {
	return VariantMetrics{}
}

// Policy is the static table mapping field name to comparison rule.
type Policy map[string]FieldClass

// NewPolicy assembles the policy table from configuration.
//
// Fields named in NameFields, DateFields or PostcodeFields get their
// dedicated class; every other configured field gets OtherClass. The
// table is built once per run and read-only afterwards.
func NewPolicy(cfg Config) Policy {
	p := make(Policy, len(cfg.Fields))
	for _, f := range cfg.Fields {
		p[f] = OtherClass{}
	}
	for _, f := range cfg.NameFields {
		p[f] = NameClass{Threshold: cfg.SimilarityThreshold}
	}
	for _, f := range cfg.DateFields {
		p[f] = DateClass{}
	}
	for _, f := range cfg.PostcodeFields {
		p[f] = PostcodeClass{}
	}
	return p
}

// ClassFor resolves the rule for a field name. An unknown name is a
// configuration defect and surfaces immediately as ErrUnknownField.
func (p Policy) ClassFor(field string) (FieldClass, error) {
	fc, ok := p[field]
	if !ok {
		return nil, fmt.Errorf("field %q: %w", field, ErrUnknownField)
	}
	return fc, nil
}

// dateExploded reports whether ref and variant denote different
// calendar dates. Parse failure on either side is an explosion.
func dateExploded(ref, variant string) bool {
	rt, err := dateparse.ParseAny(ref, dateparse.PreferMonthFirst(false))
	if err != nil {
		return true
	}
	vt, err := dateparse.ParseAny(variant, dateparse.PreferMonthFirst(false))
	if err != nil {
		return true
	}
	ry, rm, rd := rt.Date()
	vy, vm, vd := vt.Date()
	return ry != vy || rm != vm || rd != vd
}
