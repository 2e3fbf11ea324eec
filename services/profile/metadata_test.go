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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mrec builds a record with an arbitrary field map.
func mrec(id string, fields map[string]string) Record {
	return Record{ID: id, Fields: fields}
}

func TestBuildMetadataPoolsByReferenceValue(t *testing.T) {
	// Two identifiers converge on the same reference spelling, so
	// their variants pool under one entry.
	groups := []Group{
		{ID: "1", Records: []Record{
			rec("1", "", "jon"),
			rec("1", "", "john"),
		}},
		{ID: "2", Records: []Record{
			rec("2", "", "jon"),
			rec("2", "", "jon"),
			rec("2", "", "john"),
		}},
	}
	fields := []string{"first_name"}
	freqs := BuildFrequencies(groups, fields)
	policy := NewPolicy(DefaultConfig())

	meta, err := BuildMetadata(groups, freqs, policy, fields)
	require.NoError(t, err)

	byRef := meta["first_name"]
	require.Len(t, byRef, 1)
	refMeta, ok := byRef["john"]
	require.True(t, ok)

	vm, ok := refMeta.Variants["jon"]
	require.True(t, ok)
	assert.Equal(t, 3, vm.Frequency)
	require.NotNil(t, vm.EditDistance)
	assert.Equal(t, 1, *vm.EditDistance)
	require.NotNil(t, vm.Similarity)
	assert.InDelta(t, 0.9333333333333333, *vm.Similarity, 1e-9)
	require.NotNil(t, vm.LowSimilarity)
	assert.False(t, *vm.LowSimilarity)
	require.NotNil(t, vm.MismatchFirst4)
	assert.True(t, *vm.MismatchFirst4)
}

func TestBuildMetadataSeparatesDistinctReferences(t *testing.T) {
	groups := []Group{
		{ID: "1", Records: []Record{
			rec("1", "", "anna"),
			rec("1", "", "anne"),
		}},
		{ID: "2", Records: []Record{
			rec("2", "", "maria"),
			rec("2", "", "marie"),
		}},
	}
	fields := []string{"first_name"}
	freqs := BuildFrequencies(groups, fields)

	meta, err := BuildMetadata(groups, freqs, NewPolicy(DefaultConfig()), fields)
	require.NoError(t, err)

	byRef := meta["first_name"]
	require.Len(t, byRef, 2)
	assert.Contains(t, byRef, "anne")
	assert.Contains(t, byRef, "marie")
	assert.Contains(t, byRef["anne"].Variants, "anna")
	assert.Contains(t, byRef["marie"].Variants, "maria")

	// The reference value itself never appears among its variants.
	assert.NotContains(t, byRef["anne"].Variants, "anne")
}

func TestBuildMetadataOtherFieldFrequencyOnly(t *testing.T) {
	groups := []Group{
		{ID: "1", Records: []Record{
			mrec("1", map[string]string{"sex": "m"}),
			mrec("1", map[string]string{"sex": "m"}),
			mrec("1", map[string]string{"sex": "f"}),
		}},
	}
	fields := []string{"sex"}
	freqs := BuildFrequencies(groups, fields)

	meta, err := BuildMetadata(groups, freqs, NewPolicy(DefaultConfig()), fields)
	require.NoError(t, err)

	vm, ok := meta["sex"]["f"].Variants["m"]
	require.True(t, ok)
	assert.Equal(t, 2, vm.Frequency)
	assert.Nil(t, vm.EditDistance)
	assert.Nil(t, vm.Similarity)
}

func TestBuildMetadataUnknownField(t *testing.T) {
	groups := []Group{{ID: "1", Records: []Record{rec("1", "", "john")}}}
	freqs := BuildFrequencies(groups, []string{"first_name"})

	_, err := BuildMetadata(groups, freqs, Policy{}, []string{"first_name"})
	assert.ErrorIs(t, err, ErrUnknownField)
}
