// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package strdist provides the string comparison primitives used by the
// record profiler.
//
// # Description
//
// Levenshtein edit distance is delegated to github.com/agnivade/levenshtein.
// Jaro-Winkler similarity is implemented here because the profiler depends
// on one precise variant: greedy left-to-right matching inside the standard
// match window, transposition count equal to half the mismatched aligned
// matched-character pairs, and a Winkler prefix boost capped at 4 leading
// characters with scaling factor 0.1.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package strdist

import (
	"github.com/agnivade/levenshtein"
)

const (
	// winklerPrefixCap is the maximum shared leading run credited by the
	// Winkler boost.
	winklerPrefixCap = 4

	// winklerScale is the Winkler prefix scaling factor.
	winklerScale = 0.1
)

// Levenshtein returns the single-character insert/delete/substitute edit
// distance between a and b, each operation costing 1.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b in [0, 1].
//
// # Description
//
// Equal strings score exactly 1.0. Otherwise the standard Jaro score is
// computed with match distance max(len(a), len(b))/2 - 1, then boosted by
// the shared prefix (capped at 4) scaled by 0.1.
//
// # Inputs
//
//   - a, b: strings to compare. Empty strings are allowed.
//
// # Outputs
//
//   - float64: similarity score, 1.0 for equal strings, 0.0 when no
//     characters match.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	len1, len2 := len(a), len(b)
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	matchDist := max(len1, len2)/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatched := make([]bool, len1)
	bMatched := make([]bool, len2)
	matches := 0

	for i := 0; i < len1; i++ {
		lo := max(0, i-matchDist)
		hi := min(len2, i+matchDist+1)
		for j := lo; j < hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Transpositions: half the mismatched aligned matched-character pairs.
	transpositions := 0.0
	k := 0
	for i := 0; i < len1; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	jaro := (m/float64(len1) + m/float64(len2) + (m-transpositions)/m) / 3.0

	prefix := 0
	for i := 0; i < min(len1, len2) && i < winklerPrefixCap; i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}

	return jaro + float64(prefix)*winklerScale*(1.0-jaro)
}

// MismatchPositions returns the indexes at which a and b hold different
// characters, compared position-wise up to the shorter length.
func MismatchPositions(a, b string) []int {
	n := min(len(a), len(b))
	var positions []int
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			positions = append(positions, i)
		}
	}
	return positions
}

// MismatchInPrefix reports whether any of the first n position-wise
// compared characters differ.
func MismatchInPrefix(a, b string, n int) bool {
	for _, p := range MismatchPositions(a, b) {
		if p < n {
			return true
		}
	}
	return false
}
