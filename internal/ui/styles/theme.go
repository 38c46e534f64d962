package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/models"
)

// Theme is the color palette the views draw from
type Theme struct {
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// priority and status badges
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color

	DueToday   lipgloss.Color
	DueOverdue lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),

	DueToday:   lipgloss.Color("#e0af68"),
	DueOverdue: lipgloss.Color("#f7768e"),
}

// Current holds the active theme
var Current = TokyoNight

// PriorityColor maps a task priority to its badge color
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return Current.Error
	case models.PriorityMedium:
		return Current.Warning
	case models.PriorityLow:
		return Current.Success
	}
	return Current.ForegroundDim
}

// StatusColor maps a task status to its label color
func StatusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusCompleted:
		return Current.Success
	case models.StatusInProgress:
		return Current.Accent
	case models.StatusTodo:
		return Current.Foreground
	}
	return Current.ForegroundDim
}

// MaxWidth caps the content width on wide terminals
const MaxWidth = 80

// ContentWidth returns min(terminalWidth, MaxWidth)
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally once the terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds the pre-computed styles shared by the dashboard and task views
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// search box and filter buttons
	FilterBar    lipgloss.Style
	FilterButton lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Tag lipgloss.Style

	// task rows
	TaskTitle    lipgloss.Style
	TaskPriority lipgloss.Style
	TaskMeta     lipgloss.Style

	Stats     lipgloss.Style
	StatValue lipgloss.Style

	ErrorBanner lipgloss.Style
	FieldError  lipgloss.Style
	Label       lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		FilterBar: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		FilterButton: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Tag: lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1),

		TaskTitle: lipgloss.NewStyle().
			Bold(true),

		TaskPriority: lipgloss.NewStyle().
			Bold(true),

		TaskMeta: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Stats: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		StatValue: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		ErrorBanner: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 1).
			Bold(true),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error),

		Label: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
	}
}

// HelpLine renders one row of a shortcut popup: key column, then description
func (s *Styles) HelpLine(key, desc string) string {
	return s.HelpKey.Width(7).Render(key) + s.HelpDesc.Render(desc)
}

// PriorityBadge renders the colored priority marker shown on task rows
func (s *Styles) PriorityBadge(p models.Priority) string {
	return s.TaskPriority.Foreground(PriorityColor(p)).Render("●")
}
