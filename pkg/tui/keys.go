package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Enter        key.Binding
	Tab          key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	Search       key.Binding
	FilterUser   key.Binding
	FilterBoard  key.Binding
	FilterStatus key.Binding
	DueFrom      key.Binding
	DueTo        key.Binding
	ClearFilters key.Binding
	Reassign     key.Binding
	ToggleExpand key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// bind builds a binding whose help label is the first key unless label is set.
func bind(label, desc string, keys ...string) key.Binding {
	if label == "" {
		label = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           bind("↑/k", "Move up", "up", "k"),
		Down:         bind("↓/j", "Move down", "down", "j"),
		Left:         bind("←/h", "Collapse / go to parent", "left", "h"),
		Right:        bind("→/l", "Expand", "right", "l"),
		Enter:        bind("", "Toggle expand; select board (Boards view)", "enter"),
		Tab:          bind("", "Switch pane (grid / details)", "tab"),
		NextTab:      bind("", "Next view", "]"),
		PrevTab:      bind("", "Previous view", "["),
		Search:       bind("", "Search tasks", "/"),
		FilterUser:   bind("", "Cycle assignee filter", "u"),
		FilterBoard:  bind("", "Cycle board filter", "b"),
		FilterStatus: bind("", "Cycle status filter", "s"),
		DueFrom:      bind("", "Set due-from date", "f"),
		DueTo:        bind("", "Set due-to date", "t"),
		ClearFilters: bind("", "Clear all filters", "x"),
		Reassign:     bind("", "Reassign selected subtask", "r"),
		ToggleExpand: bind("", "Toggle expand/collapse all", "C"),
		Reload:       bind("", "Reload from filesystem", "R"),
		Help:         bind("", "Toggle help", "?"),
		Quit:         bind("q", "Quit", "q", "ctrl+c"),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  [ ] view  / search  u/b/s filter  f/t due  x clear  r reassign  ? help"
}

// FullHelp returns key and description pairs in KeyMap field order.
func (k KeyMap) FullHelp() [][]string {
	all := []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.Enter, k.Tab, k.NextTab, k.PrevTab,
		k.Search, k.FilterUser, k.FilterBoard, k.FilterStatus, k.DueFrom, k.DueTo,
		k.ClearFilters, k.Reassign, k.ToggleExpand, k.Reload, k.Help, k.Quit,
	}
	out := make([][]string, 0, len(all))
	for _, b := range all {
		h := b.Help()
		out = append(out, []string{h.Key, h.Desc})
	}
	return out
}
