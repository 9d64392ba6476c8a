package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestGridSearch_MatchRevealsParents(t *testing.T) {
	items := []TreeItem{
		{ID: "__board_Web", Name: "Web", IsSectionHeader: true},
		{ID: "launch", Name: "Launch", HasChildren: true},
		{ID: "launch/copy", ParentID: "launch", Name: "Write copy", Depth: 1},
		{ID: "billing", Name: "Billing"},
	}

	var s gridSearch
	s.query = "COPY"
	expand := s.match(items)

	assert.Equal(t, []string{"launch"}, expand)
	assert.True(t, s.matches["launch/copy"])
	assert.False(t, s.matches["launch"])
	assert.Equal(t, []string{"launch", "launch/copy"}, itemIDs(s.apply(items)))
}

func TestGridSearch_Edit(t *testing.T) {
	var s gridSearch
	assert.False(t, s.edit(tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.True(t, s.edit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("né")}))
	assert.True(t, s.edit(tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.Equal(t, "n", s.query)

	s.reset()
	assert.False(t, s.active())
	assert.Nil(t, s.match(nil))
}
