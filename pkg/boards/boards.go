// Package boards aggregates tasks per board.
//
// Two membership rules coexist. Resource views (UserIDs, OverloadedCounts)
// place a subtask on its own board. Health rows (Rows) place a subtask on its
// parent task's board. Both are intended.
package boards

import (
	"sort"

	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

// Names returns the distinct task boards, sorted ascending.
func Names(tasks []store.Task) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range tasks {
		if !seen[t.Board] {
			seen[t.Board] = true
			names = append(names, t.Board)
		}
	}
	sort.Strings(names)
	return names
}

// UserIDs maps each board to the sorted ids of users holding at least one
// subtask whose own board is that board.
func UserIDs(tasks []store.Task) map[string][]string {
	sets := make(map[string]map[string]bool)
	for _, t := range tasks {
		for _, s := range t.Subtasks {
			if sets[s.Board] == nil {
				sets[s.Board] = make(map[string]bool)
			}
			sets[s.Board][s.AssigneeID] = true
		}
	}

	out := make(map[string][]string, len(sets))
	for board, ids := range sets {
		list := make([]string, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		sort.Strings(list)
		out[board] = list
	}
	return out
}

// OverloadedCount is the number of overloaded users active on a board.
type OverloadedCount struct {
	Board string `json:"boardName"`
	Count int    `json:"overloadedCount"`
}

// OverloadedCounts counts, per board from UserIDs, the users whose overall
// workload is Overloaded. Overload is judged across all of a user's subtasks,
// not only the ones on that board. Boards are sorted ascending.
func OverloadedCounts(tasks []store.Task, allocs []workload.Allocation) []OverloadedCount {
	overloaded := make(map[string]bool)
	for _, a := range allocs {
		if a.Status == workload.Overloaded {
			overloaded[a.User.ID] = true
		}
	}

	byBoard := UserIDs(tasks)
	names := make([]string, 0, len(byBoard))
	for board := range byBoard {
		names = append(names, board)
	}
	sort.Strings(names)

	out := make([]OverloadedCount, 0, len(names))
	for _, board := range names {
		n := 0
		for _, id := range byBoard[board] {
			if overloaded[id] {
				n++
			}
		}
		out = append(out, OverloadedCount{Board: board, Count: n})
	}
	return out
}
