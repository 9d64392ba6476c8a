package boards

import (
	"math"

	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/kpi"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

// HealthFor classifies a board's healthy percentage:
// >=70 Healthy, 40..69 Needs Attention, <40 At Risk.
func HealthFor(healthPercent int) store.Status {
	switch {
	case healthPercent >= 70:
		return store.StatusHealthy
	case healthPercent >= 40:
		return store.StatusNeedsAttention
	default:
		return store.StatusAtRisk
	}
}

// Row is the health summary of one board.
type Row struct {
	Board                    string       `json:"boardName"`
	Health                   store.Status `json:"healthStatus"`
	HealthPercent            int          `json:"healthPercent"`
	Total                    int          `json:"totalTasks"`
	Overdue                  int          `json:"overdueCount"`
	Healthy                  int          `json:"healthyCount"`
	NeedsAttention           int          `json:"needsAttentionCount"`
	AtRisk                   int          `json:"atRiskCount"`
	AvgCompletionDays        float64      `json:"avgCompletionDays"`
	OverloadedResourcesCount int          `json:"overloadedResourcesCount"`
}

// Rows returns one Row per task board, sorted by board name. A board's items
// are its tasks plus all of their subtasks, whatever board the subtasks name.
func Rows(tasks []store.Task, allocs []workload.Allocation, today string) []Row {
	overloaded := make(map[string]int)
	for _, oc := range OverloadedCounts(tasks, allocs) {
		overloaded[oc.Board] = oc.Count
	}

	names := Names(tasks)
	rows := make([]Row, 0, len(names))
	for _, board := range names {
		var boardTasks []store.Task
		for _, t := range tasks {
			if t.Board == board {
				boardTasks = append(boardTasks, t)
			}
		}

		counts := kpi.Compute(boardTasks, today)
		pct := workload.Percent(float64(counts.Healthy), float64(counts.Total))
		rows = append(rows, Row{
			Board:                    board,
			Health:                   HealthFor(pct),
			HealthPercent:            pct,
			Total:                    counts.Total,
			Overdue:                  counts.Overdue,
			Healthy:                  counts.Healthy,
			NeedsAttention:           counts.NeedsAttention,
			AtRisk:                   counts.AtRisk,
			AvgCompletionDays:        avgCompletionDays(boardTasks),
			OverloadedResourcesCount: overloaded[board],
		})
	}
	return rows
}

// avgCompletionDays is the mean start-to-due span of every task and subtask,
// rounded half up to one decimal. 0 when there are no items.
func avgCompletionDays(tasks []store.Task) float64 {
	total, n := 0, 0
	for _, t := range tasks {
		total += dates.DaysBetween(t.StartDate, t.DueDate)
		n++
		for _, s := range t.Subtasks {
			total += dates.DaysBetween(s.StartDate, s.DueDate)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Floor(float64(total)/float64(n)*10+0.5) / 10
}

// WorkspaceSummary counts boards per health status and boards with overdue
// items, each with its share of all boards.
type WorkspaceSummary struct {
	TotalBoards           int `json:"totalBoards"`
	HealthyBoards         int `json:"healthyBoards"`
	NeedsAttentionBoards  int `json:"needsAttentionBoards"`
	AtRiskBoards          int `json:"atRiskBoards"`
	OverdueBoards         int `json:"overdueBoards"`
	HealthyPercent        int `json:"healthyPercent"`
	NeedsAttentionPercent int `json:"needsAttentionPercent"`
	AtRiskPercent         int `json:"atRiskPercent"`
	OverduePercent        int `json:"overduePercent"`
}

// Summarize builds the workspace summary from board rows.
func Summarize(rows []Row) WorkspaceSummary {
	s := WorkspaceSummary{TotalBoards: len(rows)}
	for _, r := range rows {
		switch r.Health {
		case store.StatusHealthy:
			s.HealthyBoards++
		case store.StatusNeedsAttention:
			s.NeedsAttentionBoards++
		case store.StatusAtRisk:
			s.AtRiskBoards++
		}
		if r.Overdue > 0 {
			s.OverdueBoards++
		}
	}
	total := float64(s.TotalBoards)
	s.HealthyPercent = workload.Percent(float64(s.HealthyBoards), total)
	s.NeedsAttentionPercent = workload.Percent(float64(s.NeedsAttentionBoards), total)
	s.AtRiskPercent = workload.Percent(float64(s.AtRiskBoards), total)
	s.OverduePercent = workload.Percent(float64(s.OverdueBoards), total)
	return s
}
