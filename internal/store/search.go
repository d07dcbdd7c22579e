package store

import (
	"strings"

	"golang.org/x/text/cases"
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// matcher does case-insensitive substring matching using Unicode case folding.
type matcher struct {
	fold  cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.query = m.fold.String(query)
	return m
}

func (m *matcher) match(s string) bool {
	return s != "" && strings.Contains(m.fold.String(s), m.query)
}

func (m *matcher) any(fields ...string) bool {
	for _, f := range fields {
		if m.match(f) {
			return true
		}
	}
	return false
}
