package boards

import (
	"testing"

	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthForBoundaries(t *testing.T) {
	tests := []struct {
		pct  int
		want store.Status
	}{
		{100, store.StatusHealthy},
		{70, store.StatusHealthy},
		{69, store.StatusNeedsAttention},
		{40, store.StatusNeedsAttention},
		{39, store.StatusAtRisk},
		{0, store.StatusAtRisk},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HealthFor(tt.pct), "pct=%d", tt.pct)
	}
}

func TestRowsScenario(t *testing.T) {
	tasks := []store.Task{
		{ID: "t1", Board: "Web", Status: store.StatusHealthy, StartDate: "2024-01-01", DueDate: "2024-01-11",
			Subtasks: []store.Subtask{
				{ID: "s1", Board: "Web", Status: store.StatusHealthy, StartDate: "2024-01-01", DueDate: "2024-01-21"},
			}},
		{ID: "t2", Board: "Web", Status: store.StatusAtRisk, StartDate: "2024-01-01", DueDate: "2024-01-11",
			Subtasks: []store.Subtask{
				{ID: "s2", Board: "Web", Status: store.StatusNeedsAttention, StartDate: "2024-01-01", DueDate: "2024-01-21"},
			}},
	}

	rows := Rows(tasks, nil, today)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "Web", r.Board)
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 2, r.Healthy)
	assert.Equal(t, 1, r.NeedsAttention)
	assert.Equal(t, 1, r.AtRisk)
	assert.Equal(t, 50, r.HealthPercent)
	assert.Equal(t, store.StatusNeedsAttention, r.Health)
	assert.Equal(t, 4, r.Overdue)
	assert.Equal(t, 15.0, r.AvgCompletionDays)
	assert.Equal(t, 0, r.OverloadedResourcesCount)
}

func TestRowsUseParentBoardForSubtasks(t *testing.T) {
	tasks := []store.Task{
		{ID: "t1", Board: "Web", Status: store.StatusHealthy, DueDate: "2024-12-01", Subtasks: []store.Subtask{
			{ID: "s1", Board: "Api", AssigneeID: "u1", Status: store.StatusAtRisk, DueDate: "2024-12-01"},
		}},
		{ID: "t2", Board: "Api", Status: store.StatusHealthy, DueDate: "2024-12-01"},
	}
	allocs := []workload.Allocation{{User: store.User{ID: "u1"}, Status: workload.Overloaded}}

	rows := Rows(tasks, allocs, today)
	require.Len(t, rows, 2)

	api, web := rows[0], rows[1]
	assert.Equal(t, "Api", api.Board)
	assert.Equal(t, 1, api.Total)
	assert.Equal(t, 100, api.HealthPercent)
	assert.Equal(t, 1, api.OverloadedResourcesCount, "resources follow the subtask's own board")

	assert.Equal(t, "Web", web.Board)
	assert.Equal(t, 2, web.Total, "health counts follow the parent's board")
	assert.Equal(t, 1, web.AtRisk)
	assert.Equal(t, 0, web.OverloadedResourcesCount)
}

func TestAvgCompletionDays(t *testing.T) {
	tasks := []store.Task{
		{StartDate: "2024-01-01", DueDate: "2024-01-04"},
		{StartDate: "2024-01-01", DueDate: "2024-01-04"},
		{StartDate: "2024-01-01", DueDate: "2024-01-05"},
	}
	assert.Equal(t, 3.3, avgCompletionDays(tasks))
	assert.Equal(t, 0.0, avgCompletionDays(nil))
}

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Board: "a", Health: store.StatusHealthy},
		{Board: "b", Health: store.StatusHealthy, Overdue: 2},
		{Board: "c", Health: store.StatusAtRisk, Overdue: 1},
	}
	s := Summarize(rows)
	assert.Equal(t, WorkspaceSummary{
		TotalBoards:           3,
		HealthyBoards:         2,
		NeedsAttentionBoards:  0,
		AtRiskBoards:          1,
		OverdueBoards:         2,
		HealthyPercent:        67,
		NeedsAttentionPercent: 0,
		AtRiskPercent:         33,
		OverduePercent:        67,
	}, s)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, WorkspaceSummary{}, Summarize(nil))
	assert.Empty(t, Rows(nil, nil, today))
}
