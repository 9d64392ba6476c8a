package state

import "github.com/stefanpenner/pulse/pkg/store"

// Reassign returns a new collection in which the subtask with subtaskID is
// assigned to userID. The input collection and its subtask slices are left
// untouched, so earlier snapshots stay valid. userID is not checked against
// the user list. An unknown subtaskID yields an unchanged copy.
func Reassign(tasks []store.Task, subtaskID, userID string) []store.Task {
	out := make([]store.Task, len(tasks))
	copy(out, tasks)
	for i, t := range out {
		for j, s := range t.Subtasks {
			if s.ID != subtaskID {
				continue
			}
			c := t.Clone()
			c.Subtasks[j].AssigneeID = userID
			out[i] = c
			return out
		}
	}
	return out
}

// findSubtask locates a subtask across all tasks.
func findSubtask(tasks []store.Task, subtaskID string) (store.Subtask, bool) {
	for _, t := range tasks {
		for _, s := range t.Subtasks {
			if s.ID == subtaskID {
				return s, true
			}
		}
	}
	return store.Subtask{}, false
}
