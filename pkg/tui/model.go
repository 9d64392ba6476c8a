package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/grid"
	"github.com/stefanpenner/pulse/pkg/logging"
	"github.com/stefanpenner/pulse/pkg/state"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// Tab identifies one of the dashboard views.
type Tab int

const (
	TabTasks Tab = iota
	TabResources
	TabBoards
	TabKPIs
)

var tabNames = []string{"Tasks", "Resources", "Boards", "KPIs"}

func (t Tab) String() string {
	return tabNames[t]
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	store         *store.Store // nil disables reloading
	state         *state.State
	log           *slog.Logger
	keys          KeyMap
	width         int
	height        int
	tab           Tab
	visibleItems  []TreeItem
	expandedState map[string]bool
	cursor        int // task grid row
	listCursor    int // row on the Resources and Boards views
	focusedPane   int // 0 = grid, 1 = details
	notesScroll   int

	criteria grid.Criteria

	showHelpModal bool

	// Date filter input
	isDateInput bool
	dateField   string // "from" or "to"
	textInput   textinput.Model

	// Reassign modal
	showReassign   bool
	reassignSub    store.Subtask
	projections    []workload.Projection
	reassignCursor int

	// Overload confirmation
	showConfirm   bool
	confirmTarget workload.Projection

	search gridSearch

	statusMsg     string
	statusTimeout time.Time

	glamourRenderer *glamour.TermRenderer
	glamourWidth    int

	allExpanded bool
}

// NewModel creates the dashboard over st. s is used to reload data from disk
// and may be nil. criteria seeds the grid filters.
func NewModel(s *store.Store, st *state.State, criteria grid.Criteria, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = dates.Layout
	ti.CharLimit = len(dates.Layout)

	m := Model{
		store:         s,
		state:         st,
		log:           logging.OrDiscard(logger),
		keys:          DefaultKeyMap(),
		expandedState: make(map[string]bool),
		textInput:     ti,
		criteria:      criteria,
	}
	m.rebuildVisible()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rightWidth := msg.Width - (msg.Width / 3) - 1 - 2
		if rightWidth < 20 {
			rightWidth = 20
		}
		m.getGlamourRenderer(rightWidth)
		m.rebuildVisible()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.log.Debug("data files changed")
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.isDateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isDateInput {
		return m.handleDateInput(msg)
	}

	if m.search.typing {
		return m.handleSearchInput(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.showConfirm {
		switch msg.String() {
		case "y", "Y":
			m.applyReassign(m.confirmTarget)
			m.showConfirm = false
			m.showReassign = false
		case "n", "N", "esc":
			m.showConfirm = false
			m.setStatus("Reassignment cancelled")
		}
		return m, nil
	}

	if m.showReassign {
		return m.handleReassignModal(msg)
	}

	// Esc or Enter drops a kept search
	if m.search.active() && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		m.search.reset()
		m.rebuildVisible()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.listCursor = 0

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab - 1 + Tab(len(tabNames))) % Tab(len(tabNames))
		m.listCursor = 0

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Up):
		m.moveUp()

	case key.Matches(msg, m.keys.Down):
		m.moveDown()

	default:
		switch m.tab {
		case TabTasks:
			return m.handleTasksKey(msg)
		case TabBoards:
			if key.Matches(msg, m.keys.Enter) {
				m.toggleSelectedBoard()
			}
		}
	}

	return m, nil
}

func (m *Model) moveUp() {
	if m.tab != TabTasks {
		if m.listCursor > 0 {
			m.listCursor--
		}
		return
	}
	if m.focusedPane == 1 {
		if m.notesScroll > 0 {
			m.notesScroll--
		}
		return
	}
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < len(m.visibleItems) && m.visibleItems[m.cursor].IsSectionHeader {
			if m.cursor > 0 {
				m.cursor--
			} else {
				m.cursor++
			}
		}
	}
	m.notesScroll = 0
}

func (m *Model) moveDown() {
	if m.tab != TabTasks {
		if m.listCursor < m.listLen()-1 {
			m.listCursor++
		}
		return
	}
	if m.focusedPane == 1 {
		m.notesScroll++
		return
	}
	if m.cursor < len(m.visibleItems)-1 {
		m.cursor++
		if m.visibleItems[m.cursor].IsSectionHeader {
			if m.cursor < len(m.visibleItems)-1 {
				m.cursor++
			} else {
				m.cursor--
			}
		}
	}
	m.notesScroll = 0
}

// listLen is the number of selectable rows on the Resources and Boards views.
func (m Model) listLen() int {
	switch m.tab {
	case TabResources:
		return len(resourceRows(m.state.ResourceGroups()))
	case TabBoards:
		return len(m.state.BoardRows())
	}
	return 0
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Right):
		if item, ok := m.selectedItem(); ok && item.HasChildren {
			m.expandedState[item.ID] = true
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Left):
		if item, ok := m.selectedItem(); ok {
			if item.IsExpanded {
				m.expandedState[item.ID] = false
				m.rebuildVisible()
			} else if item.IsSubtask() {
				m.moveCursorTo(item.ParentID)
			}
		}

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok && item.HasChildren {
			m.expandedState[item.ID] = !m.expandedState[item.ID]
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.Search):
		m.search.reset()
		m.search.typing = true

	case key.Matches(msg, m.keys.FilterUser):
		var ids []string
		for _, u := range m.state.Users() {
			ids = append(ids, u.ID)
		}
		m.criteria.UserID = cycle(ids, m.criteria.UserID)
		m.filtersChanged()

	case key.Matches(msg, m.keys.FilterBoard):
		m.criteria.Board = cycle(m.state.Boards(), m.criteria.Board)
		m.filtersChanged()

	case key.Matches(msg, m.keys.FilterStatus):
		var statuses []string
		for _, s := range store.Statuses {
			statuses = append(statuses, string(s))
		}
		m.criteria.Status = store.Status(cycle(statuses, string(m.criteria.Status)))
		m.filtersChanged()

	case key.Matches(msg, m.keys.DueFrom):
		return m, m.startDateInput("from", m.criteria.From)

	case key.Matches(msg, m.keys.DueTo):
		return m, m.startDateInput("to", m.criteria.To)

	case key.Matches(msg, m.keys.ClearFilters):
		m.criteria = grid.Criteria{}
		m.filtersChanged()
		m.setStatus("Filters cleared")

	case key.Matches(msg, m.keys.Reassign):
		m.openReassign()

	case key.Matches(msg, m.keys.ToggleExpand):
		if m.allExpanded {
			m.expandedState = make(map[string]bool)
			m.allExpanded = false
		} else {
			m.expandAll()
			m.allExpanded = true
		}
		m.rebuildVisible()
	}

	return m, nil
}

// cycle returns the value after cur in "" + values, wrapping to "".
func cycle(values []string, cur string) string {
	if cur == "" {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
	for i, v := range values {
		if v == cur {
			if i+1 < len(values) {
				return values[i+1]
			}
			return ""
		}
	}
	return ""
}

func (m *Model) filtersChanged() {
	m.cursor = 0
	m.rebuildVisible()
	m.log.Debug("grid filters changed", "criteria", m.criteria)
}

func (m *Model) startDateInput(field, current string) tea.Cmd {
	m.isDateInput = true
	m.dateField = field
	m.textInput.Reset()
	m.textInput.SetValue(current)
	m.textInput.Focus()
	return textinput.Blink
}

func (m Model) handleDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isDateInput = false
		m.textInput.Blur()
		return m, nil
	case tea.KeyEnter:
		v := strings.TrimSpace(m.textInput.Value())
		if v != "" && !dates.Valid(v) {
			m.setStatus("Invalid date: " + v + " (use " + dates.Layout + ")")
			return m, nil
		}
		if m.dateField == "from" {
			m.criteria.From = v
		} else {
			m.criteria.To = v
		}
		m.isDateInput = false
		m.textInput.Blur()
		m.filtersChanged()
		return m, nil
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) toggleSelectedBoard() {
	rows := m.state.BoardRows()
	if m.listCursor >= len(rows) {
		return
	}
	board := rows[m.listCursor].Board
	if m.state.SelectedBoard() == board {
		m.state.SelectBoard("")
		m.setStatus("Board selection cleared")
	} else {
		m.state.SelectBoard(board)
		m.setStatus("Selected board: " + board)
	}
	m.cursor = 0
	m.rebuildVisible()
}

func (m *Model) openReassign() {
	item, ok := m.selectedItem()
	if !ok || !item.IsSubtask() {
		m.setStatus("Select a subtask to reassign")
		return
	}
	proj, ok := m.state.Project(item.Subtask.ID)
	if !ok {
		return
	}
	m.showReassign = true
	m.reassignSub = *item.Subtask
	m.projections = proj
	m.reassignCursor = 0
	for i, p := range proj {
		if p.IsCurrent {
			m.reassignCursor = i
		}
	}
}

func (m Model) handleReassignModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || key.Matches(msg, m.keys.Quit):
		m.showReassign = false

	case key.Matches(msg, m.keys.Up):
		if m.reassignCursor > 0 {
			m.reassignCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.reassignCursor < len(m.projections)-1 {
			m.reassignCursor++
		}

	case key.Matches(msg, m.keys.Enter):
		if m.reassignCursor >= len(m.projections) {
			break
		}
		target := m.projections[m.reassignCursor]
		if target.IsCurrent {
			m.showReassign = false
			m.setStatus("Already assigned to " + target.User.Name)
			break
		}
		if m.state.NeedsConfirmation(target.User.ID) {
			m.confirmTarget = target
			m.showConfirm = true
			break
		}
		m.applyReassign(target)
		m.showReassign = false
	}
	return m, nil
}

func (m *Model) applyReassign(target workload.Projection) {
	if m.state.Reassign(m.reassignSub.ID, target.User.ID) {
		m.setStatus(subtaskName(&m.reassignSub) + " → " + target.User.Name)
	}
	m.rebuildVisible()
}

// handleSearchInput handles keys typed into the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.typing = false
		m.search.reset()
	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		m.search.typing = false
		return m, nil
	default:
		if !m.search.edit(msg) {
			return m, nil
		}
		m.runSearch()
	}
	m.rebuildVisible()
	return m, nil
}

// runSearch matches the query against every task and subtask in the filtered
// grid and expands the tasks holding a matching subtask.
func (m *Model) runSearch() {
	tasks := m.state.Filter(m.criteria)
	all := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		all[t.ID] = true
	}
	for _, id := range m.search.match(m.flatten(tasks, all)) {
		m.expandedState[id] = true
	}
}

// selectedItem returns the grid row under the cursor, if it is a task or
// subtask.
func (m Model) selectedItem() (TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return TreeItem{}, false
	}
	item := m.visibleItems[m.cursor]
	if item.IsSectionHeader {
		return TreeItem{}, false
	}
	return item, true
}

func (m *Model) moveCursorTo(id string) {
	if id == "" {
		return
	}
	for i, item := range m.visibleItems {
		if item.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) reload() {
	if m.store == nil {
		return
	}
	snap, err := m.store.Load()
	if err != nil {
		m.log.Error("reload failed", "err", err)
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.state.Replace(snap)
	if m.search.active() {
		m.runSearch()
	}
	m.rebuildVisible()
}

// flatten groups by board unless a single board is in view.
func (m Model) flatten(tasks []store.Task, expanded map[string]bool) []TreeItem {
	if m.criteria.WithSelectedBoard(m.state.SelectedBoard()).Board != "" {
		return FlattenVisibleItems(tasks, expanded)
	}
	return FlattenWithBoardGroups(tasks, expanded)
}

func (m *Model) rebuildVisible() {
	var curID string
	if item, ok := m.selectedItem(); ok {
		curID = item.ID
	}

	m.visibleItems = m.search.apply(m.flatten(m.state.Filter(m.criteria), m.expandedState))

	m.moveCursorTo(curID)
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	// Skip section headers
	if m.cursor < len(m.visibleItems) && m.visibleItems[m.cursor].IsSectionHeader {
		for i := m.cursor; i < len(m.visibleItems); i++ {
			if !m.visibleItems[i].IsSectionHeader {
				m.cursor = i
				return
			}
		}
	}
}

func (m *Model) expandAll() {
	for _, t := range m.state.Tasks() {
		if len(t.Subtasks) > 0 {
			m.expandedState[t.ID] = true
		}
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}
