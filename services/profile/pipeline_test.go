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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDataset is a small two-person record set exercising every
// comparator class: divergent first names, a near-miss last name,
// equivalent date renderings, a stable postcode, and free-text drift
// in the catch-all fields.
func fakeDataset() []Record {
	mk := func(id, fn, ln, sex, dob, addr, pc, tel, email string) Record {
		return Record{ID: id, Fields: map[string]string{
			"first_name": fn, "last_name": ln, "sex": sex, "dob": dob,
			"address": addr, "postcode": pc, "telephone": tel, "email": email,
		}}
	}
	return []Record{
		mk("1", "john", "smith", "m", "1985-06-15", "12 oak lane", "sw1a1aa", "0201112222", "john@example.com"),
		mk("1", "jon", "smith", "m", "15-06-1985", "12 oak lane", "sw1a1aa", "0201112222", "john@example.com"),
		mk("1", "jahn", "smyth", "m", "1985/06/15", "12 oak ln", "sw1a1aa", "0201112222", "john@example.com"),
		mk("2", "anna", "jones", "f", "1990-01-01", "3 elm road", "ec1a1bb", "0203334444", "anna@example.com"),
		mk("2", "anna", "jones", "f", "1990-01-01", "3 elm road", "ec1a1bb", "0203334444", "anna@example.com"),
	}
}

func newTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, nil)
	require.NoError(t, err)
	return p
}

func TestPipelineRun(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	result, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Identifiers)
	assert.Equal(t, 5, result.Records)
	require.Contains(t, result.Explosions, "1")
	require.Contains(t, result.Explosions, "2")

	// Person 1: both earlier first-name spellings diverge from the
	// "jahn" reference, so no fallback there. "smith" is too close to
	// "smyth" to explode, so last_name falls back. The three dob
	// renderings are one calendar date, the address drift explodes as
	// a catch-all field, and the stable postcode falls back.
	byField := make(map[string][]Explosion)
	for _, e := range result.Explosions["1"] {
		byField[e.Field] = append(byField[e.Field], e)
	}

	require.Len(t, byField["first_name"], 2)
	assert.Equal(t, "john", byField["first_name"][0].Value)
	assert.Equal(t, "jon", byField["first_name"][1].Value)
	assert.False(t, byField["first_name"][0].Fallback)

	require.Len(t, byField["last_name"], 1)
	assert.True(t, byField["last_name"][0].Fallback)
	assert.Equal(t, "smyth", byField["last_name"][0].Value)

	assert.Empty(t, byField["dob"])
	assert.Empty(t, byField["sex"])

	require.Len(t, byField["address"], 1)
	assert.Equal(t, "12 oak lane", byField["address"][0].Value)
	assert.False(t, byField["address"][0].Fallback)

	require.Len(t, byField["postcode"], 1)
	assert.True(t, byField["postcode"][0].Fallback)
	assert.Equal(t, "sw1a1aa", byField["postcode"][0].Value)

	// Person 2 never varies: exactly the three key-field fallbacks.
	require.Len(t, result.Explosions["2"], 3)
	for _, e := range result.Explosions["2"] {
		assert.True(t, e.Fallback)
	}
}

func TestPipelineKeyFieldListsNeverEmpty(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPipeline(t, cfg)

	result, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)

	for id, explosions := range result.Explosions {
		seen := make(map[string]bool)
		for _, e := range explosions {
			seen[e.Field] = true
		}
		for _, k := range cfg.KeyFields {
			assert.True(t, seen[k], "id %s key field %s has no entry", id, k)
		}
	}
}

func TestPipelineCombinationCountIsProductOfListSizes(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPipeline(t, cfg)

	result, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)

	perID := make(map[string]int)
	for _, c := range result.Combinations {
		perID[c.ID]++
	}

	for id, explosions := range result.Explosions {
		sizes := make(map[string]int)
		for _, e := range explosions {
			sizes[e.Field]++
		}
		want := 1
		for _, f := range cfg.Fields {
			if n := sizes[f]; n > 0 {
				want *= n
			}
		}
		assert.Equal(t, want, perID[id], "id %s", id)
	}

	// Person 1: 2 first names x 1 last name x 1 address x 1 postcode,
	// reference fillers elsewhere. Person 2: all singletons.
	assert.Equal(t, 2, perID["1"])
	assert.Equal(t, 1, perID["2"])
}

func TestPipelineCombinationsFillNonExplodedFieldsWithReference(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPipeline(t, cfg)

	result, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)

	for _, c := range result.Combinations {
		require.Len(t, c.Values, len(cfg.Fields))
		if c.ID == "1" {
			assert.Equal(t, "1985/06/15", c.Values["dob"])
			assert.Equal(t, "m", c.Values["sex"])
			assert.Equal(t, "12 oak lane", c.Values["address"])
		}
	}
}

func TestPipelineMetadataExcludesReference(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	result, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)

	fn := result.Metadata["first_name"]
	require.Contains(t, fn, "jahn")
	assert.Contains(t, fn["jahn"].Variants, "john")
	assert.Contains(t, fn["jahn"].Variants, "jon")
	assert.NotContains(t, fn["jahn"].Variants, "jahn")

	// Stable person 2 contributes an empty variant pool.
	require.Contains(t, fn, "anna")
	assert.Empty(t, fn["anna"].Variants)
}

func TestPipelineDeterministicAcrossRuns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4
	p := newTestPipeline(t, cfg)

	first, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)
	second, err := p.Run(context.Background(), fakeDataset())
	require.NoError(t, err)

	assert.Equal(t, first.Explosions, second.Explosions)
	require.Equal(t, len(first.Combinations), len(second.Combinations))
	for i := range first.Combinations {
		assert.Equal(t, first.Combinations[i], second.Combinations[i])
	}
}

func TestPipelineTimestampOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ordering = OrderingTimestamp

	records := []Record{
		{ID: "1", Timestamp: "2024-05-03", Fields: fakeDataset()[2].Fields},
		{ID: "1", Timestamp: "2024-05-01", Fields: fakeDataset()[0].Fields},
		{ID: "1", Timestamp: "2024-05-02", Fields: fakeDataset()[1].Fields},
	}

	p := newTestPipeline(t, cfg)
	result, err := p.Run(context.Background(), records)
	require.NoError(t, err)

	// The latest timestamp carries "jahn", same reference as row
	// order would give after sorting.
	fn := result.Metadata["first_name"]
	assert.Contains(t, fn, "jahn")
}

func TestPipelineRunErrors(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	_, err := p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = p.Run(context.Background(), []Record{
		{ID: "1", Fields: map[string]string{"first_name": "john"}},
	})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestPipelineHonorsCancellation(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, fakeDataset())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPipelineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fields = nil
	_, err := NewPipeline(cfg, nil)
	assert.Error(t, err)
}
