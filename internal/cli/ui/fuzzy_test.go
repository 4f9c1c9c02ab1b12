package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"User", "", 4},
		{"", "User", 4},
		{"User", "User", 0},
		{"Usr", "User", 1},
		{"kitten", "sitting", 3},
		{"Invoice", "Invoices", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.s1, tt.s2),
			"distance(%q, %q)", tt.s1, tt.s2)
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"User", "Invoice", "Payment", "Project"}

	assert.Equal(t, []string{"User"}, FindSimilar("Usr", candidates, nil))
	assert.Empty(t, FindSimilar("Zzzzzzzz", candidates, nil))
}

func TestFindSimilar_CaseInsensitiveByDefault(t *testing.T) {
	matches := FindSimilar("user", []string{"User"}, nil)
	assert.Equal(t, []string{"User"}, matches)

	// USER vs User needs three case edits once folding is off.
	matches = FindSimilar("USER", []string{"User"}, &FuzzyMatchOptions{
		MaxDistance:   1,
		CaseSensitive: true,
	})
	assert.Empty(t, matches)
}

func TestFindSimilar_ClosestFirst(t *testing.T) {
	matches := FindSimilar("Invoce", []string{"Index", "Invoice", "Invoices"}, nil)
	assert.Equal(t, "Invoice", matches[0])
}

func TestFindSimilar_CapsSuggestionCount(t *testing.T) {
	candidates := []string{"aaa1", "aaa2", "aaa3", "aaa4", "aaa5"}
	matches := FindSimilar("aaa", candidates, nil)
	assert.Len(t, matches, DefaultMaxSuggestions)
}
