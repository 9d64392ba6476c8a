package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stefanpenner/pulse/pkg/dates"
	"github.com/stefanpenner/pulse/pkg/grid"
	"github.com/stefanpenner/pulse/pkg/state"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

const minWidth = 60
const minHeight = 12

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showConfirm {
		return placeOverlay(m.renderConfirmModal(), w, h)
	}
	if m.showReassign {
		return placeOverlay(m.renderReassignModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	var bars []string
	if m.tab == TabTasks {
		if bar := m.renderFilterBar(); bar != "" {
			bars = append(bars, bar)
		}
		if m.search.typing || m.search.active() {
			bars = append(bars, m.renderSearchBar(w))
		}
	}
	for _, bar := range bars {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	contentHeight := h - headerLines - footerLines - len(bars)

	var content string
	switch m.tab {
	case TabTasks:
		content = m.renderTasksTab(w, contentHeight)
	case TabResources:
		content = m.renderResourcesTab(w)
	case TabBoards:
		content = m.renderBoardsTab(w)
	case TabKPIs:
		content = m.renderKPIsTab(w)
	}
	for _, line := range fitLines(content, contentHeight, w) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Pulse")

	k := m.state.KPIs()
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d items  %d overdue  today %s", k.Total, k.Overdue, m.state.Today()))
	if board := m.state.SelectedBoard(); board != "" {
		stats = FilterValueStyle.Render(board) + "  " + stats
	}

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return strings.Join(tabs, "")
}

// renderFilterBar shows the active grid criteria, or the date prompt while
// one is being typed.
func (m Model) renderFilterBar() string {
	if m.isDateInput {
		return InputPromptStyle.Render(" due "+m.dateField+": ") + m.textInput.View()
	}
	c := m.criteria
	if !c.Active() && m.state.SelectedBoard() == "" {
		return ""
	}
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, FilterLabelStyle.Render(label+" ")+FilterValueStyle.Render(value))
		}
	}
	add("user", m.state.UserName(c.UserID))
	if sel := m.state.SelectedBoard(); sel != "" {
		add("board", sel+" (selected)")
	} else {
		add("board", c.Board)
	}
	add("status", string(c.Status))
	add("from", c.From)
	add("to", c.To)
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.search.query)
	cursor := ""
	if m.search.typing {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.search.active() {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.search.matches)))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderTasksTab(w, h int) string {
	leftWidth := w / 3
	if leftWidth < 24 {
		leftWidth = 24
	}
	rightWidth := w - leftWidth - 1
	if rightWidth < 20 {
		rightWidth = 20
	}

	left := m.renderTreePanel(leftWidth, h)
	right := m.renderDetailPanel(rightWidth, h)

	sep := DimStyle.Render("│")
	if m.focusedPane == 1 {
		sep = HeaderStyle.Render("│")
	}

	lines := fitLines(left, h, leftWidth)
	for i, r := range fitLines(right, h, rightWidth) {
		lines[i] += sep + r
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTreePanel(width, height int) string {
	var lines []string

	if len(m.visibleItems) == 0 {
		lines = append(lines, FooterStyle.Render(grid.EmptyMessage(m.criteria.WithSelectedBoard(m.state.SelectedBoard()))))
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.visibleItems)
	if len(m.visibleItems) > height {
		startIdx = m.cursor - height/2
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + height
		if endIdx > len(m.visibleItems) {
			endIdx = len(m.visibleItems)
			startIdx = endIdx - height
		}
	}

	today := m.state.Today()
	for i := startIdx; i < endIdx; i++ {
		item := m.visibleItems[i]
		if item.IsSectionHeader {
			lines = append(lines, renderSectionHeader(item.Name, width))
			continue
		}
		lines = append(lines, m.renderTreeItem(item, i == m.cursor, width, today))
	}

	return strings.Join(lines, "\n")
}

func renderSectionHeader(name string, width int) string {
	label := BoardHeaderStyle.Render("── " + name + " ")
	remaining := width - lipgloss.Width(label)
	if remaining > 0 {
		label += lipgloss.NewStyle().Foreground(ColorGrayDim).Render(strings.Repeat("─", remaining))
	}
	return label
}

func (m Model) renderTreeItem(item TreeItem, isSelected bool, width int, today string) string {
	indent := strings.Repeat(DepthIndent, item.Depth)

	expandIcon := "  "
	if item.HasChildren {
		if item.IsExpanded {
			expandIcon = IconExpanded + " "
		} else {
			expandIcon = IconCollapsed + " "
		}
	}

	suffix := ""
	if item.IsSubtask() {
		suffix = " @" + m.state.UserName(item.Subtask.AssigneeID)
	}
	if dates.IsOverdue(item.DueDate(), today) {
		suffix += " !"
	}

	prefix := indent + expandIcon + healthIcon(item.Status()) + " "
	room := width - lipgloss.Width(prefix) - runewidth.StringWidth(suffix)
	name := truncate(item.Name, room)

	isSearchMatch := m.search.matches[item.ID]
	if isSearchMatch && m.search.active() {
		if isSelected {
			name = highlightMatch(name, m.search.query, SearchCharSelectedStyle, SelectedStyle)
		} else {
			name = highlightMatch(name, m.search.query, SearchCharStyle, SearchRowStyle)
		}
	}

	styledSuffix := DimStyle.Render(suffix)
	if strings.HasSuffix(suffix, "!") {
		styledSuffix = DimStyle.Render(strings.TrimSuffix(suffix, "!")) + OverdueStyle.Render("!")
	}
	line := prefix + name + styledSuffix

	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	if isSearchMatch && !isSelected {
		line = SearchRowStyle.Render(line)
	} else if isSelected {
		line = SelectedStyle.Render(line)
	}

	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	item, ok := m.selectedItem()
	if !ok {
		return FooterStyle.Render(" Select a task to view details")
	}

	md := m.detailMarkdown(item)

	var rendered string
	if m.glamourRenderer != nil {
		var err error
		rendered, err = m.glamourRenderer.Render(md)
		if err != nil {
			rendered = md
		}
	} else {
		rendered = md
	}

	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")

	scroll := m.notesScroll
	if scroll > len(lines)-1 {
		scroll = len(lines) - 1
	}
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// detailMarkdown builds the markdown shown for a task or subtask.
func (m Model) detailMarkdown(item TreeItem) string {
	var md strings.Builder
	md.WriteString("# " + item.Name + "\n\n")

	var (
		board, start, due, notes string
		status                   store.Status
		priority                 store.Priority
		estimated, logged        float64
	)
	if s := item.Subtask; s != nil {
		board, start, due, notes = s.Board, s.StartDate, s.DueDate, s.Notes
		status, priority, estimated, logged = s.Status, s.Priority, s.EstimatedHours, s.LoggedHours
		md.WriteString("**Task:** " + m.state.TaskName(s.ParentID) + " | **Assignee:** " + m.state.UserName(s.AssigneeID) + "\n\n")
	} else {
		t := item.Task
		board, start, due, notes = t.Board, t.StartDate, t.DueDate, t.Notes
		status, priority, estimated, logged = t.Status, t.Priority, t.EstimatedHours, t.LoggedHours
	}

	meta := []string{"**Board:** " + board, "**Status:** " + string(status)}
	if priority != "" {
		meta = append(meta, "**Priority:** "+string(priority))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	schedule := fmt.Sprintf("**Start:** %s | **Due:** %s", start, due)
	if dates.IsOverdue(due, m.state.Today()) {
		schedule += " | **Overdue**"
	}
	md.WriteString(schedule + "\n\n")
	md.WriteString(fmt.Sprintf("**Hours:** %g logged / %g estimated\n\n", logged, estimated))

	if item.Task != nil && item.Subtask == nil && len(item.Task.Subtasks) > 0 {
		md.WriteString(fmt.Sprintf("%d subtasks in view\n\n", len(item.Task.Subtasks)))
	}

	if notes != "" {
		md.WriteString(notes)
		if !strings.HasSuffix(notes, "\n") {
			md.WriteString("\n")
		}
	}
	return md.String()
}

// resourceRow is one selectable user row on the Resources view. A user active
// on several boards has a row under each.
type resourceRow struct {
	board string
	alloc workload.Allocation
}

func resourceRows(groups []state.ResourceGroup) []resourceRow {
	var rows []resourceRow
	for _, g := range groups {
		for _, a := range g.Users {
			rows = append(rows, resourceRow{board: g.Board, alloc: a})
		}
	}
	return rows
}

func boardLabel(board string) string {
	if board == "" {
		return "(no board)"
	}
	return board
}

// renderResourcesTab lists users under each board they hold subtasks on,
// each followed by those subtasks.
func (m Model) renderResourcesTab(width int) string {
	groups := m.state.ResourceGroups()
	if len(groups) == 0 {
		return FooterStyle.Render(" No resources to show")
	}

	const nameW = 20
	header := fmt.Sprintf(" %s %8s %8s %14s %6s  %s", pad("User", nameW), "Subtasks", "Overdue", "Hours", "Cap", "Workload")
	lines := []string{TableHeaderStyle.Render(header)}

	tasks := m.state.Tasks()
	today := m.state.Today()
	row := 0
	for _, g := range groups {
		noun := "users"
		if len(g.Users) == 1 {
			noun = "user"
		}
		lines = append(lines, BoardHeaderStyle.Render(" "+boardLabel(g.Board))+DimStyle.Render(fmt.Sprintf(" (%d %s)", len(g.Users), noun)))

		for _, a := range g.Users {
			hours := fmt.Sprintf("%g/%g", a.AllocatedHours, a.User.AvailableHours)
			text := fmt.Sprintf("  %s %7d %8d %14s %5d%%  ", pad(a.User.Name, nameW-1), a.AssignedSubtasks, a.OverdueSubtasks, hours, a.CapacityPercent)
			if row == m.listCursor {
				lines = append(lines, SelectedStyle.Render(padLine(text+string(a.Status), width)))
			} else {
				lines = append(lines, text+workloadText(a.Status))
			}
			row++

			for _, sub := range workload.SubtasksFor(tasks, a.User.ID, g.Board) {
				due := sub.DueDate
				if dates.IsOverdue(due, today) {
					due = OverdueStyle.Render(due)
				}
				lines = append(lines, fmt.Sprintf("     %s %s %s %gh  due %s",
					healthIcon(sub.Status), pad(subtaskName(&sub), nameW), DimStyle.Render(pad(m.state.TaskName(sub.ParentID), 16)), sub.EstimatedHours, due))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBoardsTab(width int) string {
	rows := m.state.BoardRows()
	sum := m.state.BoardSummary()

	var lines []string
	lines = append(lines, fmt.Sprintf(" %d boards  %s %d (%d%%)  %s %d (%d%%)  %s %d (%d%%)  %s %d (%d%%)",
		sum.TotalBoards,
		healthText(store.StatusHealthy), sum.HealthyBoards, sum.HealthyPercent,
		healthText(store.StatusNeedsAttention), sum.NeedsAttentionBoards, sum.NeedsAttentionPercent,
		healthText(store.StatusAtRisk), sum.AtRiskBoards, sum.AtRiskPercent,
		OverdueStyle.Render("overdue"), sum.OverdueBoards, sum.OverduePercent))
	lines = append(lines, "")

	if len(rows) == 0 {
		lines = append(lines, FooterStyle.Render(" No boards yet"))
		return strings.Join(lines, "\n")
	}

	nameW := 18
	header := fmt.Sprintf("   %s %-16s %6s %6s %8s %8s %10s", pad("Board", nameW), "Health", "Items", "Health", "Overdue", "AvgDays", "Overloaded")
	lines = append(lines, TableHeaderStyle.Render(header))

	selected := m.state.SelectedBoard()
	for i, r := range rows {
		mark := "  "
		if r.Board == selected {
			mark = IconCurrent + " "
		}
		tail := fmt.Sprintf(" %6d %5d%% %8d %8.1f %10d", r.Total, r.HealthPercent, r.Overdue, r.AvgCompletionDays, r.OverloadedResourcesCount)
		plain := " " + mark + pad(r.Board, nameW) + " " + pad(string(r.Health), 16) + tail
		if i == m.listCursor {
			lines = append(lines, SelectedStyle.Render(padLine(plain, width)))
			continue
		}
		lines = append(lines, " "+mark+pad(r.Board, nameW)+" "+healthText(r.Health)+strings.Repeat(" ", 16-runewidth.StringWidth(string(r.Health)))+tail)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderKPIsTab(width int) string {
	k := m.state.KPIs()

	var lines []string
	lines = append(lines, fmt.Sprintf(" Total %d   %s %d   %s %d   %s %d   %s %d",
		k.Total,
		healthText(store.StatusHealthy), k.Healthy,
		healthText(store.StatusNeedsAttention), k.NeedsAttention,
		healthText(store.StatusAtRisk), k.AtRisk,
		OverdueStyle.Render("Overdue"), k.Overdue))
	lines = append(lines, "")

	lines = append(lines, TableHeaderStyle.Render(" Health distribution"))
	barMax := width - 30
	if barMax < 10 {
		barMax = 10
	}
	for _, s := range m.state.HealthDistribution() {
		n := workload.Round(float64(s.Count) / float64(k.Total) * float64(barMax))
		bar := lipgloss.NewStyle().Foreground(healthColor(s.Status)).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf(" %s %4d %s", pad(string(s.Status), 16), s.Count, bar))
	}
	lines = append(lines, "")

	lines = append(lines, TableHeaderStyle.Render(" Users & task counts"))
	for _, a := range m.state.Allocations() {
		lines = append(lines, fmt.Sprintf(" %s %4d", pad(a.User.Name, 20), a.AssignedSubtasks))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	switch {
	case m.isDateInput:
		help = "enter apply (empty clears)  esc cancel"
	case m.search.typing:
		help = "type to search  enter/↓ keep filter  esc clear"
	case m.search.active():
		help = "esc/enter clear search  ↑↓ nav"
	case m.tab == TabBoards:
		help = "↑↓ nav  enter select/clear board  [ ] view  ? help"
	case m.tab != TabTasks:
		help = "↑↓ nav  [ ] view  R reload  ? help"
	case m.focusedPane == 1:
		help = "↑↓ scroll details  tab grid  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	keyCol := lipgloss.NewStyle().Foreground(ColorBlue).Width(10)

	rows := []string{ModalTitleStyle.Render("Keys"), ""}
	for _, kv := range m.keys.FullHelp() {
		rows = append(rows, keyCol.Render(kv[0])+ModalValueStyle.Render(kv[1]))
	}
	rows = append(rows, "", FooterStyle.Render("esc or ? closes"))
	return ModalStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderReassignModal() string {
	var b strings.Builder

	sub := m.reassignSub
	b.WriteString(ModalTitleStyle.Render("Reassign " + subtaskName(&sub)))
	b.WriteString("\n\n")
	b.WriteString(ModalLabelStyle.Render("Task") + ModalValueStyle.Render(m.state.TaskName(sub.ParentID)) + "\n")
	b.WriteString(ModalLabelStyle.Render("Assigned to") + ModalValueStyle.Render(m.state.AssigneeName(sub.AssigneeID)) + "\n")
	b.WriteString(ModalLabelStyle.Render("Estimate") + ModalValueStyle.Render(fmt.Sprintf("%gh", sub.EstimatedHours)) + "\n\n")

	for i, p := range m.projections {
		mark := "  "
		if p.IsCurrent {
			mark = IconCurrent + " "
		}
		row := fmt.Sprintf("%s%s %5d%% → %5d%%  ", mark, pad(p.User.Name, 18), p.CapacityPercent, p.ProjectedPercent)
		if i == m.reassignCursor {
			b.WriteString(SelectedStyle.Render(row+string(p.ProjectedStatus)) + "\n")
			continue
		}
		b.WriteString(row + workloadText(p.ProjectedStatus) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("↑↓ choose  enter assign  esc cancel"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	var b strings.Builder
	p := m.confirmTarget

	b.WriteString(ModalTitleStyle.Render("User Overloaded"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s is already at %d%% capacity.\n", p.User.Name, p.CapacityPercent))
	b.WriteString(fmt.Sprintf("Assigning %s takes them to %d%%.\n\n", subtaskName(&m.reassignSub), p.ProjectedPercent))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Assign anyway  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " Cancel")

	return ModalStyle.Render(b.String())
}

// highlightMatch renders the first case-insensitive occurrence of query in
// name with hit and the remainder with base.
func highlightMatch(name, query string, hit, base lipgloss.Style) string {
	i := strings.Index(strings.ToLower(name), strings.ToLower(query))
	// lowercasing can change byte lengths; bail out rather than split a rune
	if i < 0 || i+len(query) > len(name) {
		return base.Render(name)
	}
	j := i + len(query)
	var out strings.Builder
	for _, part := range []struct {
		text  string
		style lipgloss.Style
	}{{name[:i], base}, {name[i:j], hit}, {name[j:], base}} {
		if part.text != "" {
			out.WriteString(part.style.Render(part.text))
		}
	}
	return out.String()
}

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

// fitLines splits block into exactly n lines, each padded to width.
func fitLines(block string, n, width int) []string {
	src := strings.Split(block, "\n")
	out := make([]string, max(n, 0))
	for i := range out {
		if i < len(src) {
			out[i] = padLine(src[i], width)
		} else {
			out[i] = strings.Repeat(" ", width)
		}
	}
	return out
}

// placeOverlay centres modal in a width by height screen.
func placeOverlay(modal string, width, height int) string {
	rows := strings.Split(modal, "\n")
	top := max(0, (height-len(rows))/2)
	indent := strings.Repeat(" ", max(0, (width-lipgloss.Width(rows[0]))/2))

	var out strings.Builder
	out.WriteString(strings.Repeat("\n", top))
	for _, r := range rows {
		out.WriteString(indent + r + "\n")
	}
	return out.String()
}
