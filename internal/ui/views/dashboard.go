package views

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/taskview"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

type projectItem struct {
	id    string // project id, or taskview.FilterAll
	name  string
	color string
	stats taskview.Stats
}

func (i projectItem) Title() string { return i.name }
func (i projectItem) Description() string {
	return fmt.Sprintf("%d tasks • %d todo • %d in progress • %d completed",
		i.stats.Total, i.stats.Todo, i.stats.InProgress, i.stats.Completed)
}
func (i projectItem) FilterValue() string { return i.name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	dot := "  "
	if p.color != "" {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color(p.color)).Render("●") + " "
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(dot+p.Title()), descStyle.Render(p.Description()))
}

// SelectedProject asks the app to open the task list filtered to a project.
// ProjectID is taskview.FilterAll for every project.
type SelectedProject struct {
	ProjectID string
}

// RetryMsg asks the app to fetch everything again
type RetryMsg struct{}

// DashboardView lists projects with their task counts
type DashboardView struct {
	tv       *taskview.TaskView
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	showHelpPopup bool
}

func NewDashboardView(tv *taskview.TaskView) *DashboardView {
	s := styles.NewStyles()
	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	v := &DashboardView{
		tv:       tv,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
	v.Refresh()
	return v
}

func (v *DashboardView) Init() tea.Cmd { return nil }

// Refresh rebuilds the project list from the task view's collections
func (v *DashboardView) Refresh() {
	tasks := v.tv.Tasks()
	items := make([]list.Item, 0, len(v.tv.Projects())+1)
	items = append(items, projectItem{
		id:    taskview.FilterAll,
		name:  "All projects",
		stats: taskview.CountStats(tasks, func(models.Task) bool { return true }),
	})
	for _, p := range v.tv.Projects() {
		items = append(items, projectItem{
			id:    strconv.FormatInt(p.ID, 10),
			name:  p.Name,
			color: p.Color,
			stats: taskview.CountStats(tasks, func(t models.Task) bool { return t.ProjectID == p.ID }),
		})
	}
	v.list.SetItems(items)
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-8)
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Retry):
			return v, func() tea.Msg { return RetryMsg{} }
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg { return SelectedProject{ProjectID: item.id} }
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *DashboardView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	var content string
	switch {
	case v.tv.Loading() && len(v.tv.Projects()) == 0:
		content = v.styles.TitleMuted.Render("Loading...")
	default:
		content = v.list.View()
	}

	if err := v.tv.Err(); err != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, renderErrorBanner(v.styles, err), "", content)
	}
	content += "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s filter • %s reload • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *DashboardView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpLine("↵", "open project tasks"),
		s.HelpLine("/", "filter projects"),
		s.HelpLine("r", "reload from server"),
		s.HelpLine("q", "quit"),
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
