package workload

import "github.com/stefanpenner/pulse/pkg/store"

// Projection previews a user's workload if a subtask were moved to them.
type Projection struct {
	Allocation
	IsCurrent        bool    `json:"isCurrent"`
	ProjectedHours   float64 `json:"projectedHours"`
	ProjectedPercent int     `json:"projectedPercent"`
	ProjectedStatus  Status  `json:"projectedStatus"`
}

// Project returns one Projection per allocation. The current assignee keeps
// their figures; everyone else gains the subtask's estimated hours.
func Project(allocs []Allocation, sub store.Subtask) []Projection {
	out := make([]Projection, 0, len(allocs))
	for _, a := range allocs {
		p := Projection{Allocation: a, IsCurrent: a.User.ID == sub.AssigneeID}
		p.ProjectedHours = a.AllocatedHours
		if !p.IsCurrent {
			p.ProjectedHours += sub.EstimatedHours
		}
		p.ProjectedPercent = CapacityPercent(p.ProjectedHours, a.User.AvailableHours)
		p.ProjectedStatus = StatusFor(p.ProjectedPercent)
		out = append(out, p)
	}
	return out
}

// TargetOverloaded reports whether userID is already overloaded, which is
// when a reassignment onto them should be confirmed first.
func TargetOverloaded(allocs []Allocation, userID string) bool {
	a, ok := Find(allocs, userID)
	return ok && a.Status == Overloaded
}
