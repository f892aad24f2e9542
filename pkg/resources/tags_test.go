package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single", "go", []string{"go"}},
		{"simple list", "a,b,c", []string{"a", "b", "c"}},
		{"messy whitespace", "a, , b,  c ", []string{"a", "b", "c"}},
		{"trailing comma", "x,y,", []string{"x", "y"}},
		{"duplicates kept", "a,b,a", []string{"a", "b", "a"}},
		{"order preserved", "z, a, m", []string{"z", "a", "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTags(tt.raw))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"empty", "", ""},
		{"canonical already", "a, b", "a, b"},
		{"messy", "x, y , ,z", "x, y, z"},
		{"no spaces", "a,b", "a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTags(tt.raw))
		})
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	inputs := []string{"", "a", "a, , b,  c ", "x,y,z", " lone , "}

	for _, raw := range inputs {
		normalized := NormalizeTags(raw)
		assert.Equal(t, normalized, NormalizeTags(normalized))
		assert.Equal(t, ParseTags(raw), ParseTags(normalized))
	}
}
