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

func TestNewPolicyDispatch(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	cases := map[string]string{
		"first_name": "name",
		"last_name":  "name",
		"dob":        "date",
		"postcode":   "postcode",
		"sex":        "other",
		"address":    "other",
		"telephone":  "other",
		"email":      "other",
	}
	for field, want := range cases {
		fc, err := p.ClassFor(field)
		require.NoError(t, err, field)
		assert.Equal(t, want, fc.Class(), field)
	}

	_, err := p.ClassFor("shoe_size")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestNameClass(t *testing.T) {
	c := NameClass{Threshold: 0.88}

	// Close spellings stay under the radar, distant ones explode.
	assert.False(t, c.Exploded("martha", "marhta"))
	assert.True(t, c.Exploded("jahn", "john"))
	assert.True(t, c.Exploded("jahn", "jon"))
	assert.True(t, c.Exploded("anna", "zoe"))

	m := c.Metrics("jahn", "john")
	require.NotNil(t, m.EditDistance)
	require.NotNil(t, m.Similarity)
	require.NotNil(t, m.LowSimilarity)
	require.NotNil(t, m.MismatchFirst4)
	assert.Equal(t, 1, *m.EditDistance)
	assert.InDelta(t, 0.85, *m.Similarity, 1e-9)
	assert.True(t, *m.LowSimilarity)
	assert.True(t, *m.MismatchFirst4)
	assert.Nil(t, m.Exploded)
}

func TestNameClassThresholdBoundary(t *testing.T) {
	// Exactly at the threshold is not an explosion; the cutoff is
	// strictly below.
	c := NameClass{Threshold: 0.85}
	assert.False(t, c.Exploded("jahn", "john"))

	c.Threshold = 0.8500001
	assert.True(t, c.Exploded("jahn", "john"))
}

func TestDateClass(t *testing.T) {
	c := DateClass{}

	// Same calendar date in different renderings is formatting noise.
	assert.False(t, c.Exploded("1985-06-15", "1985/06/15"))
	assert.False(t, c.Exploded("1985-06-15", "15-06-1985"))

	// A genuinely different day explodes.
	assert.True(t, c.Exploded("1985-06-15", "1985-06-16"))
	assert.True(t, c.Exploded("1985-06-15", "1986-06-15"))

	// Unreadable input on either side explodes rather than being
	// silently dropped.
	assert.True(t, c.Exploded("1985-06-15", "not a date"))
	assert.True(t, c.Exploded("not a date", "1985-06-15"))

	m := c.Metrics("1985-06-15", "1985/06/15")
	require.NotNil(t, m.Exploded)
	assert.False(t, *m.Exploded)
	assert.Nil(t, m.EditDistance)
}

func TestDateClassDayFirst(t *testing.T) {
	// 03-04 style ambiguity resolves day-first: 3rd of April.
	assert.False(t, DateClass{}.Exploded("03-04-2024", "2024-04-03"))
	assert.True(t, DateClass{}.Exploded("03-04-2024", "2024-03-04"))
}

func TestPostcodeClass(t *testing.T) {
	c := PostcodeClass{}

	assert.True(t, c.Exploded("sw1a1aa", "sw1a2aa"))
	assert.True(t, c.Exploded("sw1a1aa", "sw1a 1aa"))

	m := c.Metrics("sw1a1aa", "sw1a2aa")
	require.NotNil(t, m.EditDistance)
	assert.Equal(t, 1, *m.EditDistance)
	assert.Nil(t, m.Similarity)
}

func TestOtherClass(t *testing.T) {
	c := OtherClass{}

	// Any difference at all is an explosion, no measurement taken.
	assert.True(t, c.Exploded("m", "f"))
	assert.True(t, c.Exploded("12 oak lane", "12 oak ln"))

	m := c.Metrics("m", "f")
	assert.Nil(t, m.EditDistance)
	assert.Nil(t, m.Similarity)
	assert.Nil(t, m.Exploded)
}
