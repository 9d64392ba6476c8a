package boards

import (
	"testing"

	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2024-03-09"

func TestNames(t *testing.T) {
	tasks := []store.Task{{Board: "Web"}, {Board: "Api"}, {Board: "Web"}, {Board: "Mobile"}}
	assert.Equal(t, []string{"Api", "Mobile", "Web"}, Names(tasks))
	assert.Empty(t, Names(nil))
}

func TestUserIDsUsesSubtaskBoard(t *testing.T) {
	tasks := []store.Task{
		{ID: "t1", Board: "Web", Subtasks: []store.Subtask{
			{ID: "s1", Board: "Web", AssigneeID: "u2"},
			{ID: "s2", Board: "Api", AssigneeID: "u1"},
			{ID: "s3", Board: "Web", AssigneeID: "u2"},
		}},
		{ID: "t2", Board: "Api", Subtasks: []store.Subtask{
			{ID: "s4", Board: "Api", AssigneeID: "u3"},
		}},
		{ID: "t3", Board: "Docs"},
	}

	got := UserIDs(tasks)
	assert.Equal(t, map[string][]string{
		"Web": {"u2"},
		"Api": {"u1", "u3"},
	}, got)
	_, ok := got["Docs"]
	assert.False(t, ok, "a board without subtasks has no users")
}

func TestOverloadedCounts(t *testing.T) {
	tasks := []store.Task{
		{ID: "t1", Board: "Web", Subtasks: []store.Subtask{
			{ID: "s1", Board: "Web", AssigneeID: "u1"},
			{ID: "s2", Board: "Web", AssigneeID: "u2"},
		}},
		{ID: "t2", Board: "Api", Subtasks: []store.Subtask{
			{ID: "s3", Board: "Api", AssigneeID: "u1"},
			{ID: "s4", Board: "Api", AssigneeID: "ghost"},
		}},
	}
	allocs := []workload.Allocation{
		{User: store.User{ID: "u1"}, Status: workload.Overloaded},
		{User: store.User{ID: "u2"}, Status: workload.NearCapacity},
	}

	assert.Equal(t, []OverloadedCount{
		{Board: "Api", Count: 1},
		{Board: "Web", Count: 1},
	}, OverloadedCounts(tasks, allocs))
}

func TestOverloadIsGlobalPerUser(t *testing.T) {
	users := []store.User{{ID: "u1", AvailableHours: 10}}
	tasks := []store.Task{
		{ID: "t1", Board: "Web", Subtasks: []store.Subtask{{ID: "s1", Board: "Web", AssigneeID: "u1", EstimatedHours: 2}}},
		{ID: "t2", Board: "Api", Subtasks: []store.Subtask{{ID: "s2", Board: "Api", AssigneeID: "u1", EstimatedHours: 20}}},
	}
	allocs := workload.ComputeAllocations(tasks, users, today)

	got := OverloadedCounts(tasks, allocs)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Count, "light load on Web still counts the globally overloaded user")
}
