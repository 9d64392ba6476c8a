// Package state owns the session's task collection and user list.
//
// State has one mutator, Reassign, which swaps in a fresh collection. Every
// read accessor computes its view from the collection current at the call,
// against the reference date current at the call.
package state

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/stefanpenner/pulse/pkg/boards"
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/grid"
	"github.com/stefanpenner/pulse/pkg/kpi"
	"github.com/stefanpenner/pulse/pkg/logging"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

// UnknownUser labels a current assignee that does not resolve to a user.
const UnknownUser = "Unknown"

// Option configures a State.
type Option func(*State)

// WithClock sets the clock the reference date is read from.
func WithClock(clock func() time.Time) Option {
	return func(s *State) { s.clock = clock }
}

// WithToday pins the reference date. An empty date leaves the clock in charge.
func WithToday(date string) Option {
	return func(s *State) { s.pinned = date }
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) { s.log = logging.OrDiscard(l) }
}

// WithSelectedBoard sets the initially selected board.
func WithSelectedBoard(board string) Option {
	return func(s *State) { s.selectedBoard = board }
}

// State is safe for concurrent use; the dashboard reads it from its update
// loop while the file watcher replaces it.
type State struct {
	mu            sync.RWMutex
	tasks         []store.Task
	users         []store.User
	selectedBoard string
	version       uint64

	clock  func() time.Time
	pinned string
	log    *slog.Logger

	cacheMu sync.Mutex
	cache   *views
}

// views memoizes the derived collections for one (version, today) pair.
type views struct {
	version uint64
	today   string
	allocs  []workload.Allocation
	rows    []boards.Row
}

// New creates a State over an initial snapshot. A nil snapshot is empty.
func New(snap *store.Snapshot, opts ...Option) *State {
	s := &State{clock: time.Now, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if snap != nil {
		s.tasks = snap.Tasks
		s.users = snap.Users
	}
	return s
}

// Replace swaps in a freshly loaded snapshot. Reassignments made in this
// session are discarded along with the old collection.
func (s *State) Replace(snap *store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = snap.Tasks
	s.users = snap.Users
	s.version++
	s.log.Info("state replaced", "tasks", len(snap.Tasks), "users", len(snap.Users))
}

// Reassign moves a subtask to userID. It reports false, changing nothing,
// when the subtask is unknown or already assigned to userID.
func (s *State) Reassign(subtaskID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := findSubtask(s.tasks, subtaskID)
	if !ok {
		s.log.Warn("reassign: unknown subtask", "subtask", subtaskID)
		return false
	}
	if sub.AssigneeID == userID {
		return false
	}

	s.tasks = Reassign(s.tasks, subtaskID, userID)
	s.version++
	s.log.Info("subtask reassigned", "subtask", subtaskID, "from", sub.AssigneeID, "to", userID)
	return true
}

// Tasks returns the current collection. It is shared: callers must not
// modify it.
func (s *State) Tasks() []store.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks
}

// Users returns the user list. It is shared: callers must not modify it.
func (s *State) Users() []store.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

// Today returns the reference date for views computed now.
func (s *State) Today() string {
	if s.pinned != "" {
		return s.pinned
	}
	return dates.Today(s.clock())
}

// SelectBoard sets the externally selected board; "" clears it.
func (s *State) SelectBoard(board string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBoard = board
}

// SelectedBoard returns the selected board, or "".
func (s *State) SelectedBoard() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedBoard
}

func (s *State) snapshot() (tasks []store.Task, users []store.User, version uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks, s.users, s.version
}

// derived returns the memoized views, recomputing them when the collection
// or the reference date has moved on.
func (s *State) derived() *views {
	tasks, users, version := s.snapshot()
	today := s.Today()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if c := s.cache; c != nil && c.version == version && c.today == today {
		return c
	}
	allocs := workload.ComputeAllocations(tasks, users, today)
	s.cache = &views{
		version: version,
		today:   today,
		allocs:  allocs,
		rows:    boards.Rows(tasks, allocs, today),
	}
	return s.cache
}

// Allocations returns one allocation per user, in user order.
func (s *State) Allocations() []workload.Allocation {
	return s.derived().allocs
}

// ResourceGroup is one board's section of the resources panel.
type ResourceGroup struct {
	Board string
	Users []workload.Allocation
}

// ResourceGroups lists each task board with the allocations of the users
// holding a subtask whose own board it is. A selected board narrows the list
// to that board, or to nothing when no task carries it.
func (s *State) ResourceGroups() []ResourceGroup {
	tasks := s.Tasks()
	allocs := s.Allocations()

	names := boards.Names(tasks)
	if sel := s.SelectedBoard(); sel != "" {
		names = slices.DeleteFunc(names, func(b string) bool { return b != sel })
	}

	byBoard := boards.UserIDs(tasks)
	groups := make([]ResourceGroup, 0, len(names))
	for _, board := range names {
		g := ResourceGroup{Board: board}
		for _, id := range byBoard[board] {
			if a, ok := workload.Find(allocs, id); ok {
				g.Users = append(g.Users, a)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// KPIs returns the workspace KPI summary.
func (s *State) KPIs() kpi.Summary {
	return kpi.Compute(s.Tasks(), s.Today())
}

// HealthDistribution returns the non-empty status counts.
func (s *State) HealthDistribution() []kpi.Slice {
	return kpi.HealthDistribution(s.Tasks())
}

// BoardRows returns one health row per board.
func (s *State) BoardRows() []boards.Row {
	return s.derived().rows
}

// BoardSummary summarizes BoardRows.
func (s *State) BoardSummary() boards.WorkspaceSummary {
	return boards.Summarize(s.BoardRows())
}

// Boards returns the board names.
func (s *State) Boards() []string {
	return boards.Names(s.Tasks())
}

// Filter applies c to the collection, with the selected board overriding
// c.Board.
func (s *State) Filter(c grid.Criteria) []store.Task {
	return grid.Filter(s.Tasks(), c.WithSelectedBoard(s.SelectedBoard()))
}

// Project previews reassigning subtaskID to each user.
func (s *State) Project(subtaskID string) ([]workload.Projection, bool) {
	sub, ok := s.Subtask(subtaskID)
	if !ok {
		return nil, false
	}
	return workload.Project(s.Allocations(), sub), true
}

// NeedsConfirmation reports whether assigning to userID should be confirmed
// because the user is already overloaded.
func (s *State) NeedsConfirmation(userID string) bool {
	return workload.TargetOverloaded(s.Allocations(), userID)
}
