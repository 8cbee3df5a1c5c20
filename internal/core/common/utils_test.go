package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testComponent struct {
	Name     string `json:"name"`
	Material string `json:"material"`
}

func TestParseJSONArrayStripsMarkdownFence(t *testing.T) {
	response := "Sure, here are the components:\n```json\n" +
		`[{"name": "Tabletop", "material": "oak"}, {"name": "Legs"}]` +
		"\n```\nLet me know if you need anything else."

	components, err := ParseJSONArray[testComponent](response)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "Tabletop", components[0].Name)
	assert.Equal(t, "oak", components[0].Material)
}

func TestParseJSONArrayNoArray(t *testing.T) {
	_, err := ParseJSONArray[testComponent]("I cannot answer that.")
	require.Error(t, err)
}

func TestParseJSONArrayMalformed(t *testing.T) {
	_, err := ParseJSONArray[testComponent](`[{"name": "Tabletop"`)
	require.Error(t, err)
}

func TestParseJSONObject(t *testing.T) {
	got, err := ParseJSON[testComponent](`Result: {"name": "Frame", "material": "steel"} done`)
	require.NoError(t, err)
	assert.Equal(t, "Frame", got.Name)
}
