// Package workload classifies how much of each user's capacity is taken by
// their assigned subtasks.
package workload

import (
	"math"

	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/store"
)

// Status classifies a capacity percentage.
type Status string

const (
	Underloaded  Status = "Underloaded"
	Balanced     Status = "Balanced"
	NearCapacity Status = "Near Capacity"
	Overloaded   Status = "Overloaded"
)

// Round rounds half up, so Round(112.5) == 113 and Round(-2.5) == -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percent returns round(part/whole*100), or 0 when whole <= 0.
func Percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return Round(part / whole * 100)
}

// CapacityPercent returns allocated hours as a rounded percentage of the
// available hours. It is 0 when available <= 0 and unbounded above.
func CapacityPercent(allocated, available float64) int {
	return Percent(allocated, available)
}

// StatusFor classifies a capacity percentage:
// >100 Overloaded, 85..100 NearCapacity, 60..84 Balanced, <60 Underloaded.
func StatusFor(capacityPercent int) Status {
	switch {
	case capacityPercent > 100:
		return Overloaded
	case capacityPercent >= 85:
		return NearCapacity
	case capacityPercent >= 60:
		return Balanced
	default:
		return Underloaded
	}
}

// Allocation is the derived workload summary for one user.
type Allocation struct {
	User             store.User `json:"user"`
	AssignedSubtasks int        `json:"totalAssignedSubtasks"`
	OverdueSubtasks  int        `json:"overdueSubtasks"`
	AllocatedHours   float64    `json:"totalAllocatedHours"`
	CapacityPercent  int        `json:"capacityPercent"`
	Status           Status     `json:"workloadStatus"`
}

// ComputeAllocations returns one Allocation per user, in the order of users.
// Subtasks assigned to an id outside users count toward nobody.
func ComputeAllocations(tasks []store.Task, users []store.User, today string) []Allocation {
	byUser := make(map[string][]store.Subtask, len(users))
	for _, t := range tasks {
		for _, s := range t.Subtasks {
			byUser[s.AssigneeID] = append(byUser[s.AssigneeID], s)
		}
	}

	allocs := make([]Allocation, 0, len(users))
	for _, u := range users {
		subs := byUser[u.ID]
		overdue := 0
		for _, s := range subs {
			if dates.IsOverdue(s.DueDate, today) {
				overdue++
			}
		}
		hours := AllocatedHours(subs)
		pct := CapacityPercent(hours, u.AvailableHours)
		allocs = append(allocs, Allocation{
			User:             u,
			AssignedSubtasks: len(subs),
			OverdueSubtasks:  overdue,
			AllocatedHours:   hours,
			CapacityPercent:  pct,
			Status:           StatusFor(pct),
		})
	}
	return allocs
}

// AllocatedHours sums estimated hours.
func AllocatedHours(subtasks []store.Subtask) float64 {
	var sum float64
	for _, s := range subtasks {
		sum += s.EstimatedHours
	}
	return sum
}

// SubtasksFor returns the subtasks assigned to userID whose own board is board.
func SubtasksFor(tasks []store.Task, userID, board string) []store.Subtask {
	var out []store.Subtask
	for _, t := range tasks {
		for _, s := range t.Subtasks {
			if s.AssigneeID == userID && s.Board == board {
				out = append(out, s)
			}
		}
	}
	return out
}

// Find returns the allocation for userID.
func Find(allocs []Allocation, userID string) (Allocation, bool) {
	for _, a := range allocs {
		if a.User.ID == userID {
			return a, true
		}
	}
	return Allocation{}, false
}
