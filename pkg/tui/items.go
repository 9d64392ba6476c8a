package tui

import (
	"github.com/stefanpenner/pulse/pkg/boards"
	"github.com/stefanpenner/pulse/pkg/store"
)

// TreeItem is one row of the task grid: a board header, a task or a subtask.
type TreeItem struct {
	ID              string // "<task>" or "<task>/<subtask>"; headers use "__board_<name>"
	ParentID        string // parent row's ID for search ancestor tracking
	Name            string
	Task            *store.Task
	Subtask         *store.Subtask // nil on task rows
	Depth           int
	HasChildren     bool
	IsExpanded      bool
	IsSectionHeader bool
}

// IsSubtask reports whether the row is a subtask.
func (t TreeItem) IsSubtask() bool {
	return t.Subtask != nil
}

// Status returns the row's own status.
func (t TreeItem) Status() store.Status {
	if t.Subtask != nil {
		return t.Subtask.Status
	}
	if t.Task != nil {
		return t.Task.Status
	}
	return ""
}

// DueDate returns the row's own due date.
func (t TreeItem) DueDate() string {
	if t.Subtask != nil {
		return t.Subtask.DueDate
	}
	if t.Task != nil {
		return t.Task.DueDate
	}
	return ""
}

func taskName(t *store.Task) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

func subtaskName(s *store.Subtask) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func subtaskItemID(taskID, subID string) string {
	return taskID + "/" + subID
}

// FlattenVisibleItems lists tasks in collection order, each followed by its
// subtasks when expanded.
func FlattenVisibleItems(tasks []store.Task, expandedState map[string]bool) []TreeItem {
	var result []TreeItem
	flattenTasks(tasks, 0, "", expandedState, &result)
	return result
}

// FlattenWithBoardGroups groups tasks under one section header per board,
// boards sorted by name.
func FlattenWithBoardGroups(tasks []store.Task, expandedState map[string]bool) []TreeItem {
	var result []TreeItem
	for _, board := range boards.Names(tasks) {
		var group []store.Task
		for _, t := range tasks {
			if t.Board == board {
				group = append(group, t)
			}
		}
		headerID := "__board_" + board
		result = append(result, TreeItem{
			ID:              headerID,
			Name:            boardLabel(board),
			IsSectionHeader: true,
		})
		flattenTasks(group, 1, headerID, expandedState, &result)
	}
	return result
}

func flattenTasks(tasks []store.Task, depth int, parentID string, expandedState map[string]bool, result *[]TreeItem) {
	for i := range tasks {
		t := &tasks[i]
		item := TreeItem{
			ID:          t.ID,
			ParentID:    parentID,
			Name:        taskName(t),
			Task:        t,
			Depth:       depth,
			HasChildren: len(t.Subtasks) > 0,
			IsExpanded:  expandedState[t.ID],
		}
		*result = append(*result, item)

		if !item.HasChildren || !item.IsExpanded {
			continue
		}
		for j := range t.Subtasks {
			s := &t.Subtasks[j]
			*result = append(*result, TreeItem{
				ID:       subtaskItemID(t.ID, s.ID),
				ParentID: t.ID,
				Name:     subtaskName(s),
				Task:     t,
				Subtask:  s,
				Depth:    depth + 1,
			})
		}
	}
}

// FilterVisibleItems keeps only items whose ID is in matchIDs or ancestorIDs.
func FilterVisibleItems(items []TreeItem, matchIDs, ancestorIDs map[string]bool) []TreeItem {
	var result []TreeItem
	for _, item := range items {
		if matchIDs[item.ID] || ancestorIDs[item.ID] {
			result = append(result, item)
		}
	}
	return result
}
