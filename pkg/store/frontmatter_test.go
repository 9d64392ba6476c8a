package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTask(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, task *Task)
	}{
		{
			name: "full frontmatter with notes",
			input: `---
name: "Checkout redesign"
board: Web
start: 2024-03-01
due: 2024-04-15
status: Needs Attention
priority: Critical
estimated_hours: 60
logged_hours: 22.5
subtasks_order: [s2, s1]
---

# Notes

Blocked on payments.
`,
			check: func(t *testing.T, task *Task) {
				assert.Equal(t, "Checkout redesign", task.Name)
				assert.Equal(t, "Web", task.Board)
				assert.Equal(t, "2024-03-01", task.StartDate)
				assert.Equal(t, "2024-04-15", task.DueDate)
				assert.Equal(t, StatusNeedsAttention, task.Status)
				assert.Equal(t, PriorityCritical, task.Priority)
				assert.Equal(t, 22.5, task.LoggedHours)
				assert.Equal(t, []string{"s2", "s1"}, task.SubtasksOrder)
				assert.Contains(t, task.Notes, "Blocked on payments.")
			},
		},
		{
			name:    "no frontmatter has no status",
			input:   "Just some notes.",
			wantErr: true,
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\nname: broken\n",
			wantErr: true,
		},
		{
			name:    "unknown status",
			input:   "---\nname: x\nstatus: Done\n---\n",
			wantErr: true,
		},
		{
			name:    "unknown priority",
			input:   "---\nname: x\nstatus: Healthy\npriority: Urgent\n---\n",
			wantErr: true,
		},
		{
			name:    "unpadded due date",
			input:   "---\nname: x\nstatus: Healthy\ndue: 2024-3-1\n---\n",
			wantErr: true,
		},
		{
			name:    "start date with time",
			input:   "---\nname: x\nstatus: Healthy\nstart: 2024-03-01T09:00\n---\n",
			wantErr: true,
		},
		{
			name:  "dates are optional",
			input: "---\nname: x\nstatus: Healthy\n---\n",
			check: func(t *testing.T, task *Task) {
				assert.Empty(t, task.StartDate)
				assert.Empty(t, task.DueDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ParseTask(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, task)
		})
	}
}

func TestParseSubtask(t *testing.T) {
	sub, err := ParseSubtask(`---
name: API
assignee: u3
board: Platform
start: 2024-01-02
due: 2024-01-09
status: At Risk
estimated_hours: 12
---
`)
	require.NoError(t, err)
	assert.Equal(t, "u3", sub.AssigneeID)
	assert.Equal(t, "Platform", sub.Board)
	assert.Equal(t, StatusAtRisk, sub.Status)
	assert.Equal(t, 12.0, sub.EstimatedHours)
	assert.Empty(t, sub.Notes)

	_, err = ParseSubtask("---\nname: API\nstatus: Healthy\ndue: 09/01/2024\n---\n")
	assert.ErrorContains(t, err, "invalid due date")
}

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"Needs Attention", "needs-attention"} {
		s, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, StatusNeedsAttention, s)
	}
	s, err := ParseStatus("at-risk")
	require.NoError(t, err)
	assert.Equal(t, StatusAtRisk, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestTaskClone(t *testing.T) {
	orig := Task{ID: "t1", Subtasks: []Subtask{{ID: "s1", AssigneeID: "u1"}}}
	c := orig.Clone()
	c.Subtasks[0].AssigneeID = "u2"
	assert.Equal(t, "u1", orig.Subtasks[0].AssigneeID)
}

func TestCountItems(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Subtasks: []Subtask{{ID: "s1"}, {ID: "s2"}}},
		{ID: "t2"},
	}
	assert.Equal(t, 4, CountItems(tasks))
	assert.Equal(t, 0, CountItems(nil))
}
