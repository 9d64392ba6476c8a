package store

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeTask(t *testing.T, s *Store, id, content string) {
	t.Helper()
	writeFile(t, filepath.Join(s.TasksDir(), id, "task.md"), content)
}

func writeSubtask(t *testing.T, s *Store, taskID, id, content string) {
	t.Helper()
	writeFile(t, filepath.Join(s.TasksDir(), taskID, id, "task.md"), content)
}

const launchTask = `---
name: Launch
board: Web
start: 2024-01-01
due: 2024-02-01
status: Healthy
priority: High
estimated_hours: 40
logged_hours: 12
---
Ship the site.
`

func TestLoadEmptyWorkspace(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Users)
}

func TestNewStoreRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, path, "x")

	_, err := NewStore(path, nil)
	assert.Error(t, err)
}

func TestLoadTask(t *testing.T) {
	s := setupTestStore(t)
	writeTask(t, s, "t1", launchTask)
	writeSubtask(t, s, "t1", "s1", `---
name: Design
assignee: u1
start: 2024-01-01
due: 2024-01-10
status: Needs Attention
estimated_hours: 8
---
`)
	writeSubtask(t, s, "t1", "s2", `---
name: Docs
board: Content
assignee: u2
start: 2024-01-05
due: 2024-01-20
status: At Risk
estimated_hours: 4
---
`)

	task, err := s.LoadTask("t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "Launch", task.Name)
	assert.Equal(t, StatusHealthy, task.Status)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, 40.0, task.EstimatedHours)
	assert.Contains(t, task.Notes, "Ship the site.")

	require.Len(t, task.Subtasks, 2)
	design := task.Subtasks[0]
	assert.Equal(t, "s1", design.ID)
	assert.Equal(t, "t1", design.ParentID)
	assert.Equal(t, "Web", design.Board, "board defaults to the parent's")
	assert.Equal(t, "u1", design.AssigneeID)
	assert.Equal(t, StatusNeedsAttention, design.Status)

	docs := task.Subtasks[1]
	assert.Equal(t, "Content", docs.Board, "a subtask may declare its own board")
}

func TestSubtasksOrder(t *testing.T) {
	s := setupTestStore(t)
	writeTask(t, s, "t1", `---
name: Ordered
board: Web
status: Healthy
subtasks_order: [ccc, aaa]
---
`)
	for _, id := range []string{"aaa", "bbb", "ccc"} {
		writeSubtask(t, s, "t1", id, "---\nname: "+id+"\nstatus: Healthy\n---\n")
	}

	task, err := s.LoadTask("t1")
	require.NoError(t, err)
	require.Len(t, task.Subtasks, 3)
	assert.Equal(t, "ccc", task.Subtasks[0].ID)
	assert.Equal(t, "aaa", task.Subtasks[1].ID)
	assert.Equal(t, "bbb", task.Subtasks[2].ID)
}

func TestLoadTasksOrderAndSkipsBroken(t *testing.T) {
	var logs bytes.Buffer
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	for _, id := range []string{"alpha", "beta", "gamma"} {
		writeTask(t, s, id, "---\nname: "+id+"\nboard: Ops\nstatus: Healthy\n---\n")
	}
	writeTask(t, s, "broken", "---\nname: broken\nstatus: Done\n---\n")
	writeFile(t, filepath.Join(s.TasksDir(), "tasks.md"), "---\norder: [gamma, missing, alpha]\n---\n")

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "gamma", tasks[0].ID)
	assert.Equal(t, "alpha", tasks[1].ID)
	assert.Equal(t, "beta", tasks[2].ID)

	assert.Contains(t, logs.String(), "skipping task")
	assert.Contains(t, logs.String(), "task=broken")
}

func TestBrokenSubtaskKeepsParent(t *testing.T) {
	s := setupTestStore(t)
	writeTask(t, s, "t1", launchTask)
	writeSubtask(t, s, "t1", "good", "---\nname: good\nstatus: At Risk\n---\n")
	writeSubtask(t, s, "t1", "bad", "---\nname: bad\nstatus: [\n---\n")
	require.NoError(t, os.MkdirAll(filepath.Join(s.TasksDir(), "t1", "empty"), 0755))

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Subtasks, 1)
	assert.Equal(t, "good", tasks[0].Subtasks[0].ID)
}

func TestDuplicateSubtaskIDKeepsFirst(t *testing.T) {
	var logs bytes.Buffer
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	writeTask(t, s, "a", "---\nname: A\nboard: Web\nstatus: Healthy\n---\n")
	writeTask(t, s, "b", "---\nname: B\nboard: Web\nstatus: Healthy\n---\n")
	writeSubtask(t, s, "a", "design", "---\nname: first\nstatus: Healthy\n---\n")
	writeSubtask(t, s, "b", "design", "---\nname: second\nstatus: Healthy\n---\n")
	writeSubtask(t, s, "b", "build", "---\nname: build\nstatus: Healthy\n---\n")

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Len(t, tasks[0].Subtasks, 1)
	assert.Equal(t, "first", tasks[0].Subtasks[0].Name)
	require.Len(t, tasks[1].Subtasks, 1)
	assert.Equal(t, "build", tasks[1].Subtasks[0].ID)
	assert.Contains(t, logs.String(), "skipping duplicate subtask id")
}

func TestMalformedDatesAreSkipped(t *testing.T) {
	var logs bytes.Buffer
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	writeTask(t, s, "late", "---\nname: Late\nboard: Web\nstatus: Healthy\ndue: 2024-3-1\n---\n")
	writeTask(t, s, "ok", "---\nname: OK\nboard: Web\nstatus: Healthy\nstart: 2024-03-01\ndue: 2024-03-20\n---\n")
	writeSubtask(t, s, "ok", "stamped", "---\nname: Stamped\nstatus: Healthy\nstart: 2024-03-01T09:00\n---\n")
	writeSubtask(t, s, "ok", "plain", "---\nname: Plain\nstatus: Healthy\ndue: 2024-03-10\n---\n")

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "ok", tasks[0].ID)
	require.Len(t, tasks[0].Subtasks, 1)
	assert.Equal(t, "plain", tasks[0].Subtasks[0].ID)

	assert.Contains(t, logs.String(), "task=late")
	assert.Contains(t, logs.String(), "invalid due date")
	assert.Contains(t, logs.String(), "subtask=stamped")
	assert.Contains(t, logs.String(), "invalid start date")
}

func TestLoadUsers(t *testing.T) {
	s := setupTestStore(t)
	writeFile(t, s.UsersPath(), `
- id: u1
  name: Alice Chen
  available_hours: 40
- id: u2
  name: Bob Martinez
  available_hours: 32.5
`)

	users, err := s.LoadUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, User{ID: "u1", Name: "Alice Chen", AvailableHours: 40}, users[0])
	assert.Equal(t, 32.5, users[1].AvailableHours)
}

func TestLoadUsersInvalid(t *testing.T) {
	s := setupTestStore(t)
	writeFile(t, s.UsersPath(), "- name: nobody\n")

	_, err := s.Load()
	assert.Error(t, err)
}
