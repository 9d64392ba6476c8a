package workload

import (
	"testing"

	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2024-03-09"

func TestCapacityPercent(t *testing.T) {
	tests := []struct {
		name                 string
		allocated, available float64
		want                 int
	}{
		{"zero allocated", 0, 40, 0},
		{"zero available", 30, 0, 0},
		{"negative available", 30, -5, 0},
		{"exact", 20, 40, 50},
		{"rounds half up", 45, 40, 113},
		{"rounds down", 10, 30, 33},
		{"rounds up", 20, 30, 67},
		{"over capacity", 80, 40, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapacityPercent(tt.allocated, tt.available))
		})
	}
}

func TestStatusForBoundaries(t *testing.T) {
	tests := []struct {
		pct  int
		want Status
	}{
		{0, Underloaded},
		{59, Underloaded},
		{60, Balanced},
		{84, Balanced},
		{85, NearCapacity},
		{100, NearCapacity},
		{101, Overloaded},
		{250, Overloaded},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.pct), "pct=%d", tt.pct)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 113, Round(112.5))
	assert.Equal(t, 112, Round(112.49))
	assert.Equal(t, -2, Round(-2.5))
	assert.Equal(t, 0, Round(0))
}

func sub(id, user string, hours float64, due string) store.Subtask {
	return store.Subtask{ID: id, AssigneeID: user, EstimatedHours: hours, DueDate: due, Status: store.StatusHealthy}
}

func TestComputeAllocations(t *testing.T) {
	users := []store.User{
		{ID: "u1", Name: "Alice", AvailableHours: 40},
		{ID: "u2", Name: "Bob", AvailableHours: 40},
		{ID: "u3", Name: "Carol", AvailableHours: 0},
	}
	tasks := []store.Task{
		{ID: "t1", Subtasks: []store.Subtask{
			sub("s1", "u1", 10, "2024-03-01"),
			sub("s2", "u1", 15, "2024-03-09"),
			sub("s3", "ghost", 99, "2024-01-01"),
		}},
		{ID: "t2", Subtasks: []store.Subtask{
			sub("s4", "u1", 20, "2024-04-01"),
			sub("s5", "u3", 5, "2024-03-08"),
		}},
	}

	allocs := ComputeAllocations(tasks, users, today)
	require.Len(t, allocs, 3)

	alice := allocs[0]
	assert.Equal(t, "u1", alice.User.ID)
	assert.Equal(t, 3, alice.AssignedSubtasks)
	assert.Equal(t, 1, alice.OverdueSubtasks, "due today is not overdue")
	assert.Equal(t, 45.0, alice.AllocatedHours)
	assert.Equal(t, 113, alice.CapacityPercent)
	assert.Equal(t, Overloaded, alice.Status)

	bob := allocs[1]
	assert.Equal(t, 0, bob.AssignedSubtasks)
	assert.Equal(t, 0.0, bob.AllocatedHours)
	assert.Equal(t, 0, bob.CapacityPercent)
	assert.Equal(t, Underloaded, bob.Status)

	carol := allocs[2]
	assert.Equal(t, 1, carol.OverdueSubtasks)
	assert.Equal(t, 0, carol.CapacityPercent, "no capacity never divides by zero")

	var total float64
	for _, a := range allocs {
		total += a.AllocatedHours
	}
	assert.Equal(t, 50.0, total, "orphan assignments are not counted")
}

func TestComputeAllocationsEmpty(t *testing.T) {
	assert.Empty(t, ComputeAllocations(nil, nil, today))

	allocs := ComputeAllocations(nil, []store.User{{ID: "u1", AvailableHours: 40}}, today)
	require.Len(t, allocs, 1)
	assert.Equal(t, Underloaded, allocs[0].Status)
}

func TestComputeAllocationsIsIdempotent(t *testing.T) {
	users := []store.User{{ID: "u1", AvailableHours: 40}}
	tasks := []store.Task{{ID: "t1", Subtasks: []store.Subtask{sub("s1", "u1", 30, "2024-01-01")}}}

	assert.Equal(t, ComputeAllocations(tasks, users, today), ComputeAllocations(tasks, users, today))
}

func TestSubtasksFor(t *testing.T) {
	a := sub("s1", "u1", 1, "")
	a.Board = "Web"
	b := sub("s2", "u1", 1, "")
	b.Board = "Ops"
	c := sub("s3", "u2", 1, "")
	c.Board = "Web"
	tasks := []store.Task{{ID: "t1", Board: "Web", Subtasks: []store.Subtask{a, b, c}}}

	got := SubtasksFor(tasks, "u1", "Web")
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
	assert.Empty(t, SubtasksFor(tasks, "u1", "Mobile"))
}

func TestFind(t *testing.T) {
	allocs := []Allocation{{User: store.User{ID: "u1"}}, {User: store.User{ID: "u2"}}}

	a, ok := Find(allocs, "u2")
	assert.True(t, ok)
	assert.Equal(t, "u2", a.User.ID)

	_, ok = Find(allocs, "u9")
	assert.False(t, ok)
}
