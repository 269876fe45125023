// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercases", "Attention Is All You Need", "attention is all you need"},
		{"strips punctuation", "Attention is all you need.", "attention is all you need"},
		{"hyphen is removed not split", "Self-Attention", "selfattention"},
		{"collapses whitespace", "  Deep \t Residual\n\nLearning  ", "deep residual learning"},
		{"keeps digits", "GPT-4 Technical Report", "gpt4 technical report"},
		{"folds diacritics", "Résumé Naïve Café", "resume naive cafe"},
		{"only punctuation", "?!...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTitle(tt.input); got != tt.want {
				t.Errorf("normalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"10.1/ABC", "10.1/abc"},
		{"  10.1145/3292500.3330701 ", "10.1145/3292500.3330701"},
		{"https://doi.org/10.1/abc", "10.1/abc"},
		{"http://dx.doi.org/10.1/abc", "10.1/abc"},
		{"HTTPS://WWW.DOI.ORG/10.1/ABC", "10.1/abc"},
		{"doi.org/10.1/abc", "10.1/abc"},
		{"doi:10.1/abc", "10.1/abc"},
		{"DOI: 10.1/abc", "10.1/abc"},
		{"https://doi.org/", ""},
		{"urn:doi:10.1002/abc", "10.1002/abc"},
		{"https://onlinelibrary.wiley.com/doi/10.1002/ABC", "10.1002/abc"},
		{"https://link.springer.com/10.1002/abc", "10.1002/abc"},
		{"https://hdl.handle.net/10.1002/abc", "10.1002/abc"},
		{"https://dl.acm.org/doi/abs/10.1145/3292500.3330701", "10.1145/3292500.3330701"},
		{"https://example.org/paper/42", "https://example.org/paper/42"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeDOI(tt.input); got != tt.want {
				t.Errorf("normalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShingleSet(t *testing.T) {
	assert.Empty(t, shingleSet("", 3))
	assert.Equal(t, map[string]struct{}{"ab": {}}, shingleSet("ab", 3))
	assert.Equal(t, map[string]struct{}{"abc": {}}, shingleSet("abc", 3))

	got := shingleSet("ab cd", 3)
	assert.Equal(t, map[string]struct{}{"ab ": {}, "b c": {}, " cd": {}}, got)

	// Repeated n-grams count once.
	assert.Len(t, shingleSet("aaaa", 3), 1)

	// Runes, not bytes.
	assert.Len(t, shingleSet("日本語の", 3), 2)
}

func TestNormalizeRecord(t *testing.T) {
	r := types.Record{
		ID:      "p1",
		Title:   "The Theory of the Theory",
		Year:    2017,
		Venue:   "NeurIPS",
		DOI:     "https://doi.org/10.1/ABC",
		Authors: []string{"Ashish Vaswani", "  ", "ashish  vaswani", "Noam Shazeer"},
	}
	n := Normalize(r, 3)

	assert.Equal(t, "p1", n.ID)
	assert.Equal(t, "The Theory of the Theory", n.Title)
	assert.Equal(t, "the theory of the theory", n.NormTitle)
	assert.Equal(t, map[string]struct{}{"the": {}, "theory": {}, "of": {}}, n.Tokens)
	assert.Equal(t, "10.1/abc", n.DOI)
	assert.Equal(t, 2017, n.Year)
	assert.Equal(t, "neurips", n.Venue)
	assert.Equal(t, map[string]struct{}{"ashish vaswani": {}, "noam shazeer": {}}, n.Authors)
	assert.Empty(t, n.Degraded)
	assert.ElementsMatch(t, []BlockKey{
		{DimensionDOI, "10.1/abc"},
		{DimensionYear, "2017"},
		{DimensionToken, "theory"},
	}, n.Keys)
}

func TestNormalizeMissingFields(t *testing.T) {
	n := Normalize(types.Record{ID: "empty"}, 0)

	assert.Equal(t, "", n.NormTitle)
	assert.Empty(t, n.Tokens)
	assert.Empty(t, n.Shingles)
	assert.Equal(t, "", n.DOI)
	assert.Equal(t, 0, n.Year)
	assert.Empty(t, n.Keys)
	assert.Empty(t, n.Degraded)
}

func TestNormalizeMalformedFieldsDegradeToEmpty(t *testing.T) {
	bad := string([]byte{0xff, 0xfe, 'a'})
	n := Normalize(types.Record{
		ID:      "bad",
		Title:   bad,
		DOI:     bad,
		Venue:   bad,
		Authors: []string{bad, "Kaiming He"},
		Year:    2015,
	}, 3)

	assert.Equal(t, "", n.Title)
	assert.Equal(t, "", n.NormTitle)
	assert.Empty(t, n.Shingles)
	assert.Equal(t, "", n.DOI)
	assert.Equal(t, "", n.Venue)
	assert.Equal(t, map[string]struct{}{"kaiming he": {}}, n.Authors)
	assert.Equal(t, []string{"title", "doi", "venue", "authors"}, n.Degraded)
	require.Len(t, n.Keys, 1)
	assert.Equal(t, BlockKey{DimensionYear, "2015"}, n.Keys[0])
}

func TestNormalizeNegativeYearIsAbsent(t *testing.T) {
	n := Normalize(types.Record{ID: "x", Year: -5}, 3)
	assert.Equal(t, 0, n.Year)
	assert.Empty(t, n.Keys)
}
