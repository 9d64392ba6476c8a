package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorOrange      = lipgloss.Color("#D19A66")
)

var bold = lipgloss.NewStyle().Bold(true)

// Chrome
var (
	HeaderStyle      = bold.Foreground(ColorPurple)
	HeaderCountStyle = lipgloss.NewStyle().Foreground(ColorGray)
	FooterStyle      = lipgloss.NewStyle().Foreground(ColorGray)
	ActiveTabStyle   = bold.Foreground(ColorWhite).Background(ColorPurple).Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)
	FilterLabelStyle = lipgloss.NewStyle().Foreground(ColorGray)
	FilterValueStyle = bold.Foreground(ColorOrange)
	InputPromptStyle = bold.Foreground(ColorPurple)
)

// Grid and tables
var (
	SelectedStyle    = bold.Foreground(ColorWhite).Background(ColorSelectionBg)
	TableHeaderStyle = bold.Foreground(ColorOffWhite)
	BoardHeaderStyle = bold.Foreground(ColorCyan)
	OverdueStyle     = lipgloss.NewStyle().Foreground(ColorRed)
	DimStyle         = lipgloss.NewStyle().Foreground(ColorGray)

	DepthIndent = "  "
)

// Modals
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)
	ModalTitleStyle = bold.Foreground(ColorPurple)
	ModalLabelStyle = lipgloss.NewStyle().Foreground(ColorGray).Width(14)
	ModalValueStyle = lipgloss.NewStyle().Foreground(ColorWhite)
)

// Search highlighting
var (
	ColorSearchRowBg  = lipgloss.Color("#1E1A2E")
	ColorSearchCharBg = lipgloss.Color("#2E2545")

	SearchBarStyle          = lipgloss.NewStyle().Foreground(ColorWhite)
	SearchCountStyle        = lipgloss.NewStyle().Foreground(ColorGray)
	SearchRowStyle          = lipgloss.NewStyle().Background(ColorSearchRowBg)
	SearchCharStyle         = bold.Foreground(ColorPurple).Background(ColorSearchCharBg)
	SearchCharSelectedStyle = bold.Foreground(ColorPurple).Background(ColorSelectionBg)
)

// Status icons
const (
	IconHealthy        = "●"
	IconNeedsAttention = "◐"
	IconAtRisk         = "▲"
	IconExpanded       = "▼"
	IconCollapsed      = "▶"
	IconCurrent        = "•"
)

func healthColor(s store.Status) lipgloss.Color {
	switch s {
	case store.StatusHealthy:
		return ColorGreen
	case store.StatusNeedsAttention:
		return ColorYellow
	case store.StatusAtRisk:
		return ColorRed
	}
	return ColorGray
}

var healthIcons = map[store.Status]string{
	store.StatusHealthy:        IconHealthy,
	store.StatusNeedsAttention: IconNeedsAttention,
}

func healthIcon(s store.Status) string {
	icon, ok := healthIcons[s]
	if !ok {
		icon = IconAtRisk
	}
	return lipgloss.NewStyle().Foreground(healthColor(s)).Render(icon)
}

func healthText(s store.Status) string {
	return lipgloss.NewStyle().Foreground(healthColor(s)).Render(string(s))
}

func workloadColor(s workload.Status) lipgloss.Color {
	switch s {
	case workload.Overloaded:
		return ColorRed
	case workload.NearCapacity:
		return ColorOrange
	case workload.Balanced:
		return ColorGreen
	}
	return ColorBlue
}

func workloadText(s workload.Status) string {
	return lipgloss.NewStyle().Foreground(workloadColor(s)).Render(string(s))
}
