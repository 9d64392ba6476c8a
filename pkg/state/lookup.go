package state

import "github.com/stefanpenner/pulse/pkg/store"

// User looks up a user by id.
func (s *State) User(id string) (store.User, bool) {
	for _, u := range s.Users() {
		if u.ID == id {
			return u, true
		}
	}
	return store.User{}, false
}

// Task looks up a task by id.
func (s *State) Task(id string) (store.Task, bool) {
	for _, t := range s.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return store.Task{}, false
}

// Subtask looks up a subtask by id across all tasks.
func (s *State) Subtask(id string) (store.Subtask, bool) {
	return findSubtask(s.Tasks(), id)
}

// UserName returns the user's name, or id itself when it does not resolve.
func (s *State) UserName(id string) string {
	if u, ok := s.User(id); ok {
		return u.Name
	}
	return id
}

// AssigneeName labels a current assignee, or UnknownUser.
func (s *State) AssigneeName(id string) string {
	if u, ok := s.User(id); ok {
		return u.Name
	}
	return UnknownUser
}

// TaskName returns the task's name, or id itself when it does not resolve.
func (s *State) TaskName(id string) string {
	if t, ok := s.Task(id); ok {
		return t.Name
	}
	return id
}
