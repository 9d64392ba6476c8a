// Package kpi counts health and overdue items across a task collection.
// Tasks and their subtasks form one population: each is counted on its own.
package kpi

import (
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/store"
)

// Summary holds the flat KPI counts. Healthy+NeedsAttention+AtRisk == Total.
type Summary struct {
	Total          int `json:"totalTasks"`
	Healthy        int `json:"healthyCount"`
	NeedsAttention int `json:"needsAttentionCount"`
	AtRisk         int `json:"atRiskCount"`
	Overdue        int `json:"overdueCount"`
}

// Compute counts every task and subtask. An overdue subtask does not make its
// parent overdue, nor the other way round.
func Compute(tasks []store.Task, today string) Summary {
	var s Summary
	add := func(status store.Status, due string) {
		s.Total++
		switch status {
		case store.StatusHealthy:
			s.Healthy++
		case store.StatusNeedsAttention:
			s.NeedsAttention++
		case store.StatusAtRisk:
			s.AtRisk++
		}
		if dates.IsOverdue(due, today) {
			s.Overdue++
		}
	}
	for _, t := range tasks {
		add(t.Status, t.DueDate)
		for _, sub := range t.Subtasks {
			add(sub.Status, sub.DueDate)
		}
	}
	return s
}

// Count returns the number of items with the given status.
func (s Summary) Count(status store.Status) int {
	switch status {
	case store.StatusHealthy:
		return s.Healthy
	case store.StatusNeedsAttention:
		return s.NeedsAttention
	case store.StatusAtRisk:
		return s.AtRisk
	}
	return 0
}

// Slice is one segment of the health distribution.
type Slice struct {
	Status store.Status `json:"name"`
	Count  int          `json:"value"`
}

// HealthDistribution returns non-zero status counts in display order
// (Healthy, Needs Attention, At Risk).
func HealthDistribution(tasks []store.Task) []Slice {
	s := Compute(tasks, "")
	var out []Slice
	for _, status := range store.Statuses {
		if n := s.Count(status); n > 0 {
			out = append(out, Slice{Status: status, Count: n})
		}
	}
	return out
}
