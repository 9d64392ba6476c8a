package store

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/pulse/pkg/dates"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// splitFrontmatter separates YAML frontmatter from the markdown body.
// Content without a leading delimiter is all body.
func splitFrontmatter(content string) (front, body string, err error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return "", content, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", "", fmt.Errorf("unclosed frontmatter delimiter")
	}

	front = rest[:idx]
	body = rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")
	return front, body, nil
}

// ParseTask parses a task.md file into a Task. The markdown body becomes the
// task's notes.
func ParseTask(content string) (*Task, error) {
	front, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := yaml.Unmarshal([]byte(front), &task); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	if !task.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", task.Status)
	}
	if task.Priority != "" && !task.Priority.Valid() {
		return nil, fmt.Errorf("invalid priority %q", task.Priority)
	}
	if err := checkDates(task.StartDate, task.DueDate); err != nil {
		return nil, err
	}

	task.Notes = body
	return &task, nil
}

// ParseSubtask parses a subtask's task.md file.
func ParseSubtask(content string) (*Subtask, error) {
	front, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var sub Subtask
	if err := yaml.Unmarshal([]byte(front), &sub); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	if !sub.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", sub.Status)
	}
	if sub.Priority != "" && !sub.Priority.Valid() {
		return nil, fmt.Errorf("invalid priority %q", sub.Priority)
	}
	if err := checkDates(sub.StartDate, sub.DueDate); err != nil {
		return nil, err
	}

	sub.Notes = body
	return &sub, nil
}

// checkDates rejects a non-empty start or due that is not YYYY-MM-DD.
// Overdue and range checks compare dates as strings, which only orders
// correctly in that form.
func checkDates(start, due string) error {
	if start != "" && !dates.Valid(start) {
		return fmt.Errorf("invalid start date %q (use %s)", start, dates.Layout)
	}
	if due != "" && !dates.Valid(due) {
		return fmt.Errorf("invalid due date %q (use %s)", due, dates.Layout)
	}
	return nil
}

// taskIndex is the optional frontmatter of tasks/tasks.md.
type taskIndex struct {
	Order []string `yaml:"order"`
}

// parseTaskIndex reads the top-level task ordering.
func parseTaskIndex(content string) ([]string, error) {
	front, _, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	var idx taskIndex
	if err := yaml.Unmarshal([]byte(front), &idx); err != nil {
		return nil, fmt.Errorf("parsing task index: %w", err)
	}
	return idx.Order, nil
}

// ParseUsers parses users.yaml, a YAML list of users.
func ParseUsers(content string) ([]User, error) {
	var users []User
	if err := yaml.Unmarshal([]byte(content), &users); err != nil {
		return nil, fmt.Errorf("parsing users YAML: %w", err)
	}
	for i, u := range users {
		if u.ID == "" {
			return nil, fmt.Errorf("user %d has no id", i+1)
		}
	}
	return users, nil
}
