package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// gridSearch narrows the task grid to rows whose name contains query, keeping
// the parents of matching subtasks visible.
type gridSearch struct {
	typing    bool
	query     string
	matches   map[string]bool
	ancestors map[string]bool
}

func (s gridSearch) active() bool { return s.query != "" }

func (s *gridSearch) reset() {
	s.query = ""
	s.matches = nil
	s.ancestors = nil
}

// edit applies a key typed into the search bar and reports whether the query
// text changed.
func (s *gridSearch) edit(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace:
		if s.query == "" {
			return false
		}
		_, n := utf8.DecodeLastRuneInString(s.query)
		s.query = s.query[:len(s.query)-n]
		return true
	case tea.KeyRunes:
		s.query += string(msg.Runes)
		return true
	}
	return false
}

// match recomputes matches over the fully expanded rows in items and returns
// the IDs of rows that must be expanded to reveal them.
func (s *gridSearch) match(items []TreeItem) []string {
	if s.query == "" {
		s.matches, s.ancestors = nil, nil
		return nil
	}

	parent := make(map[string]string, len(items))
	for _, it := range items {
		parent[it.ID] = it.ParentID
	}

	q := strings.ToLower(s.query)
	s.matches = make(map[string]bool)
	s.ancestors = make(map[string]bool)
	var expand []string
	for _, it := range items {
		if it.IsSectionHeader || !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		s.matches[it.ID] = true
		for p := it.ParentID; p != "" && !s.ancestors[p]; p = parent[p] {
			s.ancestors[p] = true
			expand = append(expand, p)
		}
	}
	return expand
}

// apply drops rows that neither match nor lead to a match.
func (s gridSearch) apply(items []TreeItem) []TreeItem {
	if !s.active() || s.matches == nil {
		return items
	}
	return FilterVisibleItems(items, s.matches, s.ancestors)
}
