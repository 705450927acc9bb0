package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterUpdate(t *testing.T, existing Configuration, incoming map[string]any) Configuration {
	t.Helper()

	merged, accepted := mergeConfiguration(existing, incoming, true, false)
	require.True(t, accepted)

	return merged
}

func validIncoming() map[string]any {
	return map[string]any{
		"categories": []any{"Animal", "Ville"},
		"scores":     map[string]any{},
	}
}

func TestMergeConfigurationRejectsNonArrayCategories(t *testing.T) {
	existing := defaultConfiguration()
	existing.Categories = []string{"Animal"}

	for _, categories := range []any{"Animal", 42, nil, map[string]any{}} {
		incoming := validIncoming()
		incoming["categories"] = categories

		merged, accepted := mergeConfiguration(existing, incoming, true, false)

		assert.False(t, accepted)
		assert.Equal(t, existing, merged, "a rejected update must leave the configuration unchanged")
	}
}

func TestMergeConfigurationRejectsNonMaster(t *testing.T) {
	existing := defaultConfiguration()

	_, accepted := mergeConfiguration(existing, validIncoming(), false, false)

	assert.False(t, accepted)
}

func TestMergeConfigurationCategoriesByEveryone(t *testing.T) {
	existing := defaultConfiguration()
	existing.Categories = []string{"Animal"}
	existing.Turns = 7

	incoming := validIncoming()
	incoming["turns"] = 2 // non-masters may only touch categories

	merged, accepted := mergeConfiguration(existing, incoming, false, true)

	require.True(t, accepted)
	assert.Equal(t, []string{"Animal", "Ville"}, merged.Categories)
	assert.Equal(t, 7, merged.Turns)
}

func TestMergeConfigurationCleansCategories(t *testing.T) {
	incoming := validIncoming()
	incoming["categories"] = []any{"Animal", "Animal", "  Ville  ", 12}

	merged := masterUpdate(t, defaultConfiguration(), incoming)

	assert.Equal(t, []string{"Animal", "Ville", "12"}, merged.Categories)
}

func TestMergeConfigurationCoercion(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value any
		check func(t *testing.T, merged Configuration)
	}{
		{"turns parse failure defaults", "turns", "abc", func(t *testing.T, m Configuration) { assert.Equal(t, defaultTurns, m.Turns) }},
		{"turns zero defaults", "turns", float64(0), func(t *testing.T, m Configuration) { assert.Equal(t, defaultTurns, m.Turns) }},
		{"turns negative flipped", "turns", float64(-3), func(t *testing.T, m Configuration) { assert.Equal(t, 3, m.Turns) }},
		{"turns numeric string", "turns", "6", func(t *testing.T, m Configuration) { assert.Equal(t, 6, m.Turns) }},
		{"time floored to minimum", "time", float64(5), func(t *testing.T, m Configuration) { assert.Equal(t, minimumTime, m.Time) }},
		{"time parse failure defaults", "time", []any{}, func(t *testing.T, m Configuration) { assert.Equal(t, defaultTime, m.Time) }},
		{"alphabet empty defaults", "alphabet", "", func(t *testing.T, m Configuration) { assert.Equal(t, defaultAlphabet, m.Alphabet) }},
		{"alphabet kept", "alphabet", "ABC", func(t *testing.T, m Configuration) { assert.Equal(t, "ABC", m.Alphabet) }},
		{"stop on first truthy", "stopOnFirstCompletion", true, func(t *testing.T, m Configuration) { assert.True(t, m.StopOnFirstCompletion) }},
		{"stop on first missing is false", "stopOnFirstCompletion", nil, func(t *testing.T, m Configuration) { assert.False(t, m.StopOnFirstCompletion) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			incoming := validIncoming()
			if tc.value != nil {
				incoming[tc.field] = tc.value
			}

			tc.check(t, masterUpdate(t, defaultConfiguration(), incoming))
		})
	}
}

func TestMergeConfigurationScores(t *testing.T) {
	incoming := validIncoming()
	incoming["scores"] = map[string]any{
		"valid":     float64(20),
		"duplicate": "oops", // parse failure -> default
		"invalid":   float64(-1),
		"refused":   float64(0), // zero is a meaningful score
	}

	merged := masterUpdate(t, defaultConfiguration(), incoming)

	assert.Equal(t, 20, merged.Scores.Valid)
	assert.Equal(t, 5, merged.Scores.Duplicate)
	assert.Equal(t, -1, merged.Scores.Invalid)
	assert.Equal(t, 0, merged.Scores.Refused)
	assert.Equal(t, 0, merged.Scores.Empty)
}

func TestMergeConfigurationRejectsMissingScores(t *testing.T) {
	incoming := validIncoming()
	delete(incoming, "scores")

	_, accepted := mergeConfiguration(defaultConfiguration(), incoming, true, false)

	assert.False(t, accepted)
}
