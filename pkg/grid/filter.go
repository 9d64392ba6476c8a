// Package grid filters the task collection for the task grid.
package grid

import (
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/store"
)

// Criteria narrows the grid. A zero field is not applied.
type Criteria struct {
	UserID string       `json:"userId,omitempty"`
	Board  string       `json:"board,omitempty"`
	Status store.Status `json:"status,omitempty"`
	From   string       `json:"from,omitempty"` // inclusive due-date bound
	To     string       `json:"to,omitempty"`   // inclusive due-date bound
}

// Active reports whether any criterion is set.
func (c Criteria) Active() bool {
	return c != Criteria{}
}

// WithSelectedBoard returns c with its board replaced by an externally
// selected board, when one is set.
func (c Criteria) WithSelectedBoard(board string) Criteria {
	if board != "" {
		c.Board = board
	}
	return c
}

func (c Criteria) hasRange() bool {
	return c.From != "" || c.To != ""
}

func (c Criteria) statusMatch(s store.Status) bool {
	return c.Status == "" || c.Status == s
}

func (c Criteria) dateMatch(due string) bool {
	return !c.hasRange() || dates.InRange(due, c.From, c.To)
}

// Filter returns the tasks matching c, each carrying only its matching
// subtasks. A task survives when it matches on its own or keeps at least one
// subtask; with a user filter it must keep at least one subtask. The input is
// not modified.
func Filter(tasks []store.Task, c Criteria) []store.Task {
	out := make([]store.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Board != "" && t.Board != c.Board {
			continue
		}

		var subs []store.Subtask
		for _, s := range t.Subtasks {
			if c.UserID != "" && s.AssigneeID != c.UserID {
				continue
			}
			if !c.statusMatch(s.Status) || !c.dateMatch(s.DueDate) {
				continue
			}
			subs = append(subs, s)
		}

		self := c.statusMatch(t.Status) && c.dateMatch(t.DueDate)
		if c.UserID != "" && len(subs) == 0 {
			continue
		}
		if !self && len(subs) == 0 {
			continue
		}

		t.Subtasks = subs
		out = append(out, t)
	}
	return out
}

// EmptyMessage is what the grid shows when Filter returns nothing.
func EmptyMessage(c Criteria) string {
	if c.Active() {
		return "No tasks match the current filters."
	}
	return "No tasks yet"
}
