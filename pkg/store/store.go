package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stefanpenner/pulse/pkg/logging"
)

const (
	taskFileName  = "task.md"
	indexFileName = "tasks.md"
	usersFileName = "users.yaml"
)

// Store reads the task collection and user list from a data directory.
// It never writes: reassignments are session state and live in pkg/state.
type Store struct {
	Root string // e.g., ~/.local/share/pulse
	log  *slog.Logger
}

// NewStore creates a Store rooted at the given directory. A missing directory
// is not an error; it loads as an empty workspace. A nil logger discards.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	info, err := os.Stat(root)
	if err == nil && !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", root)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking data directory: %w", err)
	}
	return &Store{Root: root, log: logging.OrDiscard(logger)}, nil
}

// TasksDir returns the path to the tasks directory.
func (s *Store) TasksDir() string {
	return filepath.Join(s.Root, "tasks")
}

// UsersPath returns the path to users.yaml.
func (s *Store) UsersPath() string {
	return filepath.Join(s.Root, usersFileName)
}

// Snapshot is everything loaded from the data directory at one point in time.
type Snapshot struct {
	Tasks []Task
	Users []User
}

// Load reads users and tasks.
func (s *Store) Load() (*Snapshot, error) {
	users, err := s.LoadUsers()
	if err != nil {
		return nil, err
	}
	tasks, err := s.LoadTasks()
	if err != nil {
		return nil, err
	}
	s.log.Info("workspace loaded", "root", s.Root, "tasks", len(tasks), "items", CountItems(tasks), "users", len(users))
	return &Snapshot{Tasks: tasks, Users: users}, nil
}

// LoadUsers reads and parses users.yaml. A missing file means no users.
func (s *Store) LoadUsers() ([]User, error) {
	data, err := os.ReadFile(s.UsersPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading users.yaml: %w", err)
	}
	users, err := ParseUsers(string(data))
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	return users, nil
}

// LoadTask reads a single task and its subtasks from tasks/<id>/.
func (s *Store) LoadTask(id string) (*Task, error) {
	dir := filepath.Join(s.TasksDir(), id)
	data, err := os.ReadFile(filepath.Join(dir, taskFileName))
	if err != nil {
		return nil, fmt.Errorf("reading task %s: %w", id, err)
	}

	task, err := ParseTask(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing task %s: %w", id, err)
	}
	task.ID = id

	subtasks, err := s.loadSubtasks(task)
	if err != nil {
		return nil, err
	}
	task.Subtasks = subtasks
	return task, nil
}

// loadSubtasks reads child directories of a task, honouring subtasks_order.
func (s *Store) loadSubtasks(task *Task) ([]Subtask, error) {
	dir := filepath.Join(s.TasksDir(), task.ID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading task directory %s: %w", task.ID, err)
	}

	subMap := make(map[string]Subtask)
	var defaultOrder []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subPath := filepath.Join(dir, entry.Name(), taskFileName)
		data, err := os.ReadFile(subPath)
		if err != nil {
			s.log.Warn("skipping subtask", "task", task.ID, "subtask", entry.Name(), "err", err)
			continue
		}
		sub, err := ParseSubtask(string(data))
		if err != nil {
			s.log.Warn("skipping subtask", "task", task.ID, "subtask", entry.Name(), "err", err)
			continue
		}
		sub.ID = entry.Name()
		sub.ParentID = task.ID
		if sub.Board == "" {
			sub.Board = task.Board
		}
		subMap[entry.Name()] = *sub
		defaultOrder = append(defaultOrder, entry.Name())
	}

	return ordered(task.SubtasksOrder, defaultOrder, subMap), nil
}

// LoadTasks loads every task under tasks/. Ordering follows the `order` list
// in tasks/tasks.md, then directory order for anything not listed.
func (s *Store) LoadTasks() ([]Task, error) {
	entries, err := os.ReadDir(s.TasksDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	taskMap := make(map[string]Task)
	var defaultOrder []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		task, err := s.LoadTask(entry.Name())
		if err != nil {
			s.log.Warn("skipping task", "task", entry.Name(), "err", err)
			continue
		}
		taskMap[entry.Name()] = *task
		defaultOrder = append(defaultOrder, entry.Name())
	}

	var topOrder []string
	if data, err := os.ReadFile(filepath.Join(s.TasksDir(), indexFileName)); err == nil {
		topOrder, err = parseTaskIndex(string(data))
		if err != nil {
			s.log.Warn("ignoring task index", "err", err)
		}
	}

	return s.dropDuplicateSubtasks(ordered(topOrder, defaultOrder, taskMap)), nil
}

// dropDuplicateSubtasks keeps the first subtask with a given id, in task
// order, so a subtask id names exactly one subtask in the collection.
func (s *Store) dropDuplicateSubtasks(tasks []Task) []Task {
	seen := make(map[string]string)
	for i, t := range tasks {
		kept := t.Subtasks[:0:0]
		for _, sub := range t.Subtasks {
			if owner, dup := seen[sub.ID]; dup {
				s.log.Warn("skipping duplicate subtask id", "task", t.ID, "subtask", sub.ID, "first", owner)
				continue
			}
			seen[sub.ID] = t.ID
			kept = append(kept, sub)
		}
		tasks[i].Subtasks = kept
	}
	return tasks
}

// ordered lists items named in order first, then any remaining items in
// defaultOrder. Names in order that have no item are ignored.
func ordered[T any](order, defaultOrder []string, items map[string]T) []T {
	result := make([]T, 0, len(items))
	seen := make(map[string]bool)
	for _, name := range order {
		if item, ok := items[name]; ok && !seen[name] {
			result = append(result, item)
			seen[name] = true
		}
	}
	for _, name := range defaultOrder {
		if !seen[name] {
			result = append(result, items[name])
		}
	}
	return result
}
