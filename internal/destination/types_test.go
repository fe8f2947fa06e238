package destination_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekinfo/internal/destination"
)

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]destination.Difficulty{
		"EASY":         destination.DifficultyEasy,
		"moderate":     destination.DifficultyModerate,
		" Challenging": destination.DifficultyChallenging,
		"DIFFICULT ":   destination.DifficultyDifficult,
	} {
		got, err := destination.ParseDifficulty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := destination.ParseDifficulty("extreme")
	assert.Error(t, err)
}

func TestDestination_JSONOmitsEmptySeason(t *testing.T) {
	b, err := json.Marshal(destination.Destination{ID: 3, Name: "Poon Hill", Difficulty: destination.DifficultyEasy})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "best_season")
	assert.Equal(t, "EASY", m["difficulty"])
}

func TestParseOrdering(t *testing.T) {
	field, desc, err := destination.ParseOrdering("-price")
	require.NoError(t, err)
	assert.Equal(t, "price", field)
	assert.True(t, desc)

	field, desc, err = destination.ParseOrdering(" altitude ")
	require.NoError(t, err)
	assert.Equal(t, "altitude", field)
	assert.False(t, desc)

	for _, bad := range []string{"name", "price; DROP TABLE destinations", "--price", ""} {
		_, _, err := destination.ParseOrdering(bad)
		assert.Error(t, err, bad)
	}
}
