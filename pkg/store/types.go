package store

import "fmt"

// Status represents the health of a task or subtask.
type Status string

const (
	StatusHealthy        Status = "Healthy"
	StatusNeedsAttention Status = "Needs Attention"
	StatusAtRisk         Status = "At Risk"
)

// Statuses lists every status in display order (healthiest first).
var Statuses = []Status{StatusHealthy, StatusNeedsAttention, StatusAtRisk}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts the display form ("Needs Attention") as well as the
// kebab form ("needs-attention") used on the command line.
func ParseStatus(s string) (Status, error) {
	for _, v := range Statuses {
		if s == string(v) || s == kebab(string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (use healthy, needs-attention or at-risk)", s)
}

// Priority is display-only; no aggregation reads it.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is a top-level work item loaded from tasks/<id>/task.md.
type Task struct {
	// Frontmatter fields
	Name           string   `yaml:"name" json:"name"`
	Board          string   `yaml:"board" json:"boardName"`
	StartDate      string   `yaml:"start" json:"startDate"`
	DueDate        string   `yaml:"due" json:"dueDate"`
	Status         Status   `yaml:"status" json:"status"`
	Priority       Priority `yaml:"priority,omitempty" json:"priority,omitempty"`
	EstimatedHours float64  `yaml:"estimated_hours" json:"estimatedHours"`
	LoggedHours    float64  `yaml:"logged_hours" json:"loggedHours"`
	SubtasksOrder  []string `yaml:"subtasks_order,omitempty" json:"-"`

	// Parsed from markdown body
	Notes string `yaml:"-" json:"notes,omitempty"`

	// Filesystem metadata
	ID       string    `yaml:"-" json:"id"` // directory name
	Subtasks []Subtask `yaml:"-" json:"subtasks"`
}

// Subtask is a unit of work owned by a Task and assigned to one user.
type Subtask struct {
	Name           string   `yaml:"name" json:"name"`
	Board          string   `yaml:"board,omitempty" json:"boardName"`
	AssigneeID     string   `yaml:"assignee" json:"assignedUserId"`
	StartDate      string   `yaml:"start" json:"startDate"`
	DueDate        string   `yaml:"due" json:"dueDate"`
	Status         Status   `yaml:"status" json:"status"`
	Priority       Priority `yaml:"priority,omitempty" json:"priority,omitempty"`
	EstimatedHours float64  `yaml:"estimated_hours" json:"estimatedHours"`
	LoggedHours    float64  `yaml:"logged_hours" json:"loggedHours"`

	Notes string `yaml:"-" json:"notes,omitempty"`

	ID       string `yaml:"-" json:"id"`
	ParentID string `yaml:"-" json:"parentTaskId"` // parent task directory name; lookup only
}

// User is a member of the fixed reference set loaded from users.yaml.
type User struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	AvailableHours float64 `yaml:"available_hours" json:"availableHours"`
}

// Clone returns a copy of t whose subtask slice is not shared with t.
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}

// CountItems returns the number of tasks plus all of their subtasks.
func CountItems(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		n += 1 + len(t.Subtasks)
	}
	return n
}

func kebab(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c == ' ':
			b[i] = '-'
		case c >= 'A' && c <= 'Z':
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
