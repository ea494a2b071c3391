package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearchTerm(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		minLength int
		want      string
	}{
		{"empty", "", 2, ""},
		{"whitespace only", "   ", 2, ""},
		{"below minimum", "a", 2, ""},
		{"exactly minimum", "ab", 2, "ab"},
		{"trimmed", "  karim ", 2, "karim"},
		{"trim drops below minimum", " a ", 2, ""},
		{"zero minimum falls back to default", "a", 0, ""},
		{"custom minimum", "abc", 4, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeSearchTerm(tc.raw, tc.minLength))
		})
	}
}
