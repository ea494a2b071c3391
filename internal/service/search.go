package service

import "strings"

// NormalizeSearchTerm trims the raw term and applies the minimum-length
// policy: an empty result means the caller should list without searching.
// A single character never triggers a search so that partial keystrokes do
// not produce noisy scans.
func NormalizeSearchTerm(raw string, minLength int) string {
	if minLength <= 0 {
		minLength = 2
	}
	term := strings.TrimSpace(raw)
	if len(term) < minLength {
		return ""
	}
	return term
}
