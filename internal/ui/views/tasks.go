package views

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/api"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/taskview"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the list screen has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusSearchInput
)

// formField is the focused control of the edit form
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldProject
	fieldAssignee
	fieldPriority
	fieldStatus
	fieldDueDate
	fieldHours
	fieldSave
	formFieldCount
)

// BackToDashboard signals to go back to the project dashboard
type BackToDashboard struct{}

// TaskListView renders a taskview.TaskView and turns key presses into
// operations on it. It never talks to the API itself: intents emitted by the
// TaskView are picked up by the App.
type TaskListView struct {
	tv     *taskview.TaskView
	styles *styles.Styles
	keys   keys.KeyMap
	dates  dateFormat
	now    func() time.Time

	width  int
	height int

	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model

	// Edit form
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editHours    textinput.Model
	editProject  int // index into tv.Projects(), -1 for none
	editAssignee int // index into tv.Users(), -1 for none
	editPriority models.Priority
	editStatus   models.Status
	editFocus    formField
	formErr      *taskview.ValidationError

	// Read-only detail view
	viewingTask bool
	viewingID   int64

	showHelpPopup bool
}

// NewTaskListView creates the task screen over tv
func NewTaskListView(tv *taskview.TaskView) *TaskListView {
	s := styles.NewStyles()
	dates := detectDateFormat()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description (markdown)"
	editDesc.CharLimit = 2000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = dates.Hint
	editDue.CharLimit = 32

	editHours := textinput.New()
	editHours.Placeholder = "e.g. 4.5"
	editHours.CharLimit = 8

	return &TaskListView{
		tv:           tv,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		dates:        dates,
		now:          tv.Now,
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editDue:      editDue,
		editHours:    editHours,
		editProject:  -1,
		editAssignee: -1,
	}
}

func (v *TaskListView) Init() tea.Cmd { return nil }

// Refresh re-clamps the cursor after the collection changed underneath
func (v *TaskListView) Refresh() {
	n := len(v.tv.Visible())
	if v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	if v.viewingTask {
		if _, ok := v.tv.Task(v.viewingID); !ok {
			v.viewingTask = false
		}
	}
	v.ensureVisible()
}

func (v *TaskListView) selectedTask() (models.Task, bool) {
	visible := v.tv.Visible()
	if v.cursor < 0 || v.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[v.cursor], true
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if _, ok := v.tv.PendingDelete(); ok {
			return v.updateConfirmDelete(msg)
		}
		if v.tv.FormVisible() {
			return v.updateEditing(msg)
		}
		if v.viewingTask {
			return v.updateViewingTask(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't process hotkeys while typing a search
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.tv.SetSearchQuery(v.searchInput.Value())
			v.cursor, v.scrollY = 0, 0
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToDashboard{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tv.Visible())-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Enter):
		if t, ok := v.selectedTask(); ok {
			v.viewingTask = true
			v.viewingID = t.ID
		}

	case key.Matches(msg, v.keys.New):
		return v, v.startNewTask()

	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.selectedTask(); ok {
			return v, v.startEditTask(t.ID)
		}

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selectedTask(); ok {
			_ = v.tv.RequestDelete(t.ID)
		}

	case key.Matches(msg, v.keys.CycleStatus):
		if t, ok := v.selectedTask(); ok {
			_, _ = v.tv.ChangeStatus(t.ID, t.Status.Next())
		}

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.StatusFilter):
		options := []string{taskview.FilterAll}
		for _, s := range models.AllStatuses {
			options = append(options, string(s))
		}
		v.tv.SetStatusFilter(nextOption(options, v.tv.StatusFilter()))
		v.resetCursor()

	case key.Matches(msg, v.keys.PriorityFilter):
		options := []string{taskview.FilterAll}
		for _, p := range models.AllPriorities {
			options = append(options, string(p))
		}
		v.tv.SetPriorityFilter(nextOption(options, v.tv.PriorityFilter()))
		v.resetCursor()

	case key.Matches(msg, v.keys.ProjectFilter):
		options := []string{taskview.FilterAll}
		for _, p := range v.tv.Projects() {
			options = append(options, strconv.FormatInt(p.ID, 10))
		}
		v.tv.SetProjectFilter(nextOption(options, v.tv.ProjectFilter()))
		v.resetCursor()

	case key.Matches(msg, v.keys.ClearFilters):
		v.tv.ClearFilters()
		v.searchInput.SetValue("")
		v.resetCursor()

	case key.Matches(msg, v.keys.SortTitle):
		v.tv.SortBy(taskview.SortTitle)
	case key.Matches(msg, v.keys.SortPriority):
		v.tv.SortBy(taskview.SortPriority)
	case key.Matches(msg, v.keys.SortDueDate):
		v.tv.SortBy(taskview.SortDueDate)

	case key.Matches(msg, v.keys.Retry):
		return v, func() tea.Msg { return RetryMsg{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}

	return v, nil
}

// nextOption returns the option after current, wrapping around
func nextOption(options []string, current string) string {
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}

func (v *TaskListView) resetCursor() {
	v.cursor, v.scrollY = 0, 0
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		_ = v.tv.ConfirmDelete()
	case key.Matches(msg, v.keys.Cancel):
		v.tv.CancelDelete()
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
	case key.Matches(msg, v.keys.Edit):
		return v, v.startEditTask(v.viewingID)
	case key.Matches(msg, v.keys.Delete):
		_ = v.tv.RequestDelete(v.viewingID)
	case key.Matches(msg, v.keys.CycleStatus):
		if t, ok := v.tv.Task(v.viewingID); ok {
			_, _ = v.tv.ChangeStatus(t.ID, t.Status.Next())
		}
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tv.Escape()
		v.formErr = nil
		return v, nil

	case key.Matches(msg, v.keys.Save):
		v.submit()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocus = (v.editFocus + 1) % formFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.editFocus = (v.editFocus + formFieldCount - 1) % formFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Right):
		step := 1
		if key.Matches(msg, v.keys.Left) {
			step = -1
		}
		if v.cycleSelect(step) {
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocus {
		case fieldSave:
			v.submit()
			return v, nil
		case fieldDescription:
			// newlines in the description
		default:
			v.editFocus++
			v.updateEditFocus()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocus {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDescription:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldDueDate:
		v.editDue, cmd = v.editDue.Update(msg)
	case fieldHours:
		v.editHours, cmd = v.editHours.Update(msg)
	}
	return v, cmd
}

// cycleSelect moves the focused option field by step. It reports whether
// the focused field is an option field.
func (v *TaskListView) cycleSelect(step int) bool {
	wrap := func(i, n int) int { return ((i+step)%n + n) % n }
	switch v.editFocus {
	case fieldProject:
		if n := len(v.tv.Projects()); n > 0 {
			v.editProject = wrap(v.editProject, n)
		}
	case fieldAssignee:
		if n := len(v.tv.Users()); n > 0 {
			v.editAssignee = wrap(v.editAssignee, n)
		}
	case fieldPriority:
		i := slices.Index(models.AllPriorities, v.editPriority)
		v.editPriority = models.AllPriorities[wrap(max(i, 0), len(models.AllPriorities))]
	case fieldStatus:
		i := slices.Index(models.AllStatuses, v.editStatus)
		v.editStatus = models.AllStatuses[wrap(max(i, 0), len(models.AllStatuses))]
	default:
		return false
	}
	return true
}

func (v *TaskListView) startNewTask() tea.Cmd {
	if _, err := v.tv.OpenCreate(); err != nil {
		return nil
	}
	d := taskview.NewDraft()
	if pf := v.tv.ProjectFilter(); pf != taskview.FilterAll {
		d.ProjectID = pf
	}
	v.loadDraft(d)
	return textinput.Blink
}

func (v *TaskListView) startEditTask(id int64) tea.Cmd {
	d, err := v.tv.OpenEdit(id)
	if err != nil {
		return nil
	}
	v.viewingTask = false
	v.loadDraft(d)
	return textinput.Blink
}

func (v *TaskListView) loadDraft(d taskview.Draft) {
	v.formErr = nil
	v.editFocus = fieldTitle
	v.editTitle.SetValue(d.Title)
	v.editDesc.SetValue(d.Description)
	v.editHours.SetValue(d.EstimatedHours)
	v.editPriority = d.Priority
	v.editStatus = d.Status

	v.editDue.SetValue("")
	if d.DueDate != "" {
		if t, err := taskview.ParseDueDate(d.DueDate); err == nil {
			v.editDue.SetValue(v.dates.format(t))
		}
	}

	v.editProject = slices.IndexFunc(v.tv.Projects(), func(p models.Project) bool {
		return strconv.FormatInt(p.ID, 10) == d.ProjectID
	})
	v.editAssignee = slices.IndexFunc(v.tv.Users(), func(u models.User) bool {
		return strconv.FormatInt(u.ID, 10) == d.AssignedTo
	})
	v.updateEditFocus()
}

// draft collects the form controls into a taskview.Draft
func (v *TaskListView) draft() taskview.Draft {
	d := taskview.Draft{
		Title:          v.editTitle.Value(),
		Description:    v.editDesc.Value(),
		Priority:       v.editPriority,
		Status:         v.editStatus,
		DueDate:        v.dates.normalizeInput(v.editDue.Value()),
		EstimatedHours: strings.TrimSpace(v.editHours.Value()),
	}
	if projects := v.tv.Projects(); v.editProject >= 0 && v.editProject < len(projects) {
		d.ProjectID = strconv.FormatInt(projects[v.editProject].ID, 10)
	}
	if users := v.tv.Users(); v.editAssignee >= 0 && v.editAssignee < len(users) {
		d.AssignedTo = strconv.FormatInt(users[v.editAssignee].ID, 10)
	}
	return d
}

func (v *TaskListView) submit() {
	_, err := v.tv.Submit(v.draft())
	var verr *taskview.ValidationError
	if errors.As(err, &verr) {
		v.formErr = verr
		return
	}
	v.formErr = nil
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
	v.editHours.Blur()

	switch v.editFocus {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDescription:
		v.editDesc.Focus()
	case fieldDueDate:
		v.editDue.Focus()
	case fieldHours:
		v.editHours.Focus()
	}
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many two-line task rows fit below the header
func (v *TaskListView) visibleItems() int {
	availableHeight := max(v.height-14, 3)
	return max(availableHeight/3, 1)
}

func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if t, ok := v.tv.PendingDelete(); ok {
		return v.renderDeleteConfirm(t)
	}
	if v.tv.FormVisible() {
		return v.renderEditForm()
	}
	if v.viewingTask {
		if t, ok := v.tv.Task(v.viewingID); ok {
			return v.renderTaskView(t)
		}
	}

	var b strings.Builder
	if err := v.tv.Err(); err != nil {
		b.WriteString(renderErrorBanner(v.styles, err))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

// renderErrorBanner shows the user-facing message of a failed request
func renderErrorBanner(s *styles.Styles, err error) string {
	msg := err.Error()
	var fe *api.FetchError
	if errors.As(err, &fe) {
		msg = fe.Message()
	}
	return s.ErrorBanner.Render(msg) + " " + s.TitleMuted.Render("r: retry")
}

func (v *TaskListView) projectName(id int64) string {
	if p, ok := v.tv.ProjectByID(id); ok {
		return p.Name
	}
	return "Unknown project"
}

func (v *TaskListView) userName(id int64) string {
	if u, ok := v.tv.UserByID(id); ok {
		return u.Name
	}
	return "Unassigned"
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	titleText := "All projects"
	if pf := v.tv.ProjectFilter(); pf != taskview.FilterAll {
		if id, err := strconv.ParseInt(pf, 10, 64); err == nil {
			titleText = v.projectName(id)
		}
	}
	if v.tv.Loading() {
		titleText += s.TitleMuted.Render(" (loading...)")
	}
	title := s.Title.Render(titleText)

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 30)).Render(v.searchInput.View())

	statusLabel := "All"
	if sf := v.tv.StatusFilter(); sf != taskview.FilterAll {
		statusLabel = models.Status(sf).Label()
	}
	priorityLabel := "All"
	if pf := v.tv.PriorityFilter(); pf != taskview.FilterAll {
		priorityLabel = models.Priority(pf).Label()
	}
	filters := lipgloss.JoinHorizontal(lipgloss.Center,
		s.FilterButton.Render("Status: "+statusLabel),
		s.FilterButton.Render("Priority: "+priorityLabel),
	)

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, filters)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", filters)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header, v.renderStats())
}

func (v *TaskListView) renderStats() string {
	s := v.styles
	st := v.tv.Stats()
	stat := func(label string, n int) string {
		return s.StatValue.Render(strconv.Itoa(n)) + " " + label
	}

	arrow := "↑"
	if v.tv.SortDirection() == taskview.Desc {
		arrow = "↓"
	}
	sortLabel := map[taskview.SortField]string{
		taskview.SortTitle:    "title",
		taskview.SortPriority: "priority",
		taskview.SortDueDate:  "due date",
	}[v.tv.SortField()]

	return s.Stats.Render(strings.Join([]string{
		stat("total", st.Total),
		stat("todo", st.Todo),
		stat("in progress", st.InProgress),
		stat("completed", st.Completed),
		"sort: " + sortLabel + " " + arrow,
	}, " • "))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	visible := v.tv.Visible()

	if len(visible) == 0 {
		if v.tv.HasActiveFilters() {
			return s.TitleMuted.Render("No tasks match the current filters. Press 'x' to clear them.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(visible))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(visible[i], i == v.cursor && v.focus == FocusTaskList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	status := lipgloss.NewStyle().Foreground(styles.StatusColor(task.Status)).Render(task.Status.Label())
	titleLine := s.PriorityBadge(task.Priority) + " " + s.TaskTitle.Render(task.Title) + "  " + status

	meta := []string{v.projectName(task.ProjectID), v.userName(task.AssignedTo)}
	if task.DueDate != nil {
		label, color := v.dates.dueDisplay(*task.DueDate, task.Status == models.StatusCompleted, v.now())
		meta = append(meta, lipgloss.NewStyle().Foreground(color).Render(label))
	}
	if task.EstimatedHours != nil {
		meta = append(meta, strconv.FormatFloat(*task.EstimatedHours, 'f', -1, 64)+"h")
	}
	metaLine := s.TaskMeta.Render(strings.Join(meta, " • "))

	rowStyle := s.ListItem
	if selected {
		rowStyle = s.ListSelected
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		rowStyle.Width(width).Render(titleLine),
		rowStyle.Width(width).Render(metaLine),
	) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Task"
	if v.tv.Editing() {
		formTitle = "Edit Task"
	}

	styleFor := func(f formField) lipgloss.Style {
		if v.editFocus == f {
			return s.InputFocused
		}
		return s.Input
	}
	fieldErr := func(name string) string {
		if v.formErr == nil {
			return ""
		}
		if msg := v.formErr.Message(name); msg != "" {
			return s.FieldError.Render(msg)
		}
		return ""
	}
	option := func(f formField, label string) string {
		return styleFor(f).Width(inputWidth).Render("‹ " + label + " ›")
	}

	projectLabel := "Select a project"
	if projects := v.tv.Projects(); v.editProject >= 0 && v.editProject < len(projects) {
		projectLabel = projects[v.editProject].Name
	}
	assigneeLabel := "Select an assignee"
	if users := v.tv.Users(); v.editAssignee >= 0 && v.editAssignee < len(users) {
		assigneeLabel = users[v.editAssignee].Name
	}

	btnStyle := s.Button
	if v.editFocus == fieldSave {
		btnStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		styleFor(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		fieldErr(taskview.FieldTitle),
		"Description:",
		styleFor(fieldDescription).Render(v.editDesc.View()),
		fieldErr(taskview.FieldDescription),
		"Project:",
		option(fieldProject, projectLabel),
		fieldErr(taskview.FieldProjectID),
		"Assignee:",
		option(fieldAssignee, assigneeLabel),
		fieldErr(taskview.FieldAssignedTo),
		"Priority:",
		option(fieldPriority, v.editPriority.Label()),
		"Status:",
		option(fieldStatus, v.editStatus.Label()),
		"Due date (" + v.dates.Hint + "):",
		styleFor(fieldDueDate).Width(inputWidth).Render(v.editDue.View()),
		fieldErr(taskview.FieldDueDate),
		"Estimated hours:",
		styleFor(fieldHours).Width(inputWidth).Render(v.editHours.View()),
		fieldErr(taskview.FieldEstimatedHours),
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: change option • Ctrl+S: save • Esc: cancel"),
	}

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView(task models.Task) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	textWidth := max(contentWidth-6, 20)

	desc, err := renderMarkdown(task.Description, textWidth)
	if err != nil || strings.TrimSpace(task.Description) == "" {
		desc = task.Description
	}
	if strings.TrimSpace(desc) == "" {
		desc = s.TitleMuted.Render("No description")
	}

	row := func(label, value string) string {
		return s.Label.Width(12).Render(label) + value
	}
	timestamp := func(t time.Time) string {
		return t.In(time.Local).Format(v.dates.DisplayLayout + " 15:04")
	}

	due := s.TitleMuted.Render("none")
	if task.DueDate != nil {
		label, color := v.dates.dueDisplay(*task.DueDate, task.Status == models.StatusCompleted, v.now())
		due = lipgloss.NewStyle().Foreground(color).Render(label)
	}
	estimate := s.TitleMuted.Render("none")
	if task.EstimatedHours != nil {
		estimate = strconv.FormatFloat(*task.EstimatedHours, 'f', -1, 64) + "h"
	}
	tags := s.TitleMuted.Render("no tags")
	if len(task.Tags) > 0 {
		tagStrs := make([]string, len(task.Tags))
		for i, tag := range task.Tags {
			tagStrs[i] = s.Tag.Foreground(styles.Current.Accent).Render("#" + tag)
		}
		tags = strings.Join(tagStrs, "")
	}

	lines := []string{
		s.Title.Render(task.Title),
		"",
		row("Project", v.projectName(task.ProjectID)),
		row("Assignee", v.userName(task.AssignedTo)),
		row("Priority", lipgloss.NewStyle().Foreground(styles.PriorityColor(task.Priority)).Render(task.Priority.Label())),
		row("Status", lipgloss.NewStyle().Foreground(styles.StatusColor(task.Status)).Render(task.Status.Label())),
		row("Due", due),
		row("Estimate", estimate),
		row("Tags", tags),
		row("Created", timestamp(task.CreatedAt)),
		row("Updated", timestamp(task.UpdatedAt)),
	}
	if task.CompletedAt != nil {
		lines = append(lines, row("Completed", timestamp(*task.CompletedAt)))
	}
	lines = append(lines,
		"",
		desc,
		"",
		s.Help.Render(fmt.Sprintf("%s edit • %s advance status • %s delete • %s back",
			s.HelpKey.Render("e"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		)),
	)

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, lines...), v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s edit • %s del • %s search • %s/%s/%s filter • %s sort • %s help",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("1-3"),
			v.styles.HelpKey.Render("?"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpLine("↵", "view task"),
		s.HelpLine("n", "new task"),
		s.HelpLine("e", "edit task"),
		s.HelpLine("d", "delete task"),
		s.HelpLine("c", "advance status"),
		s.HelpLine("/", "search"),
		s.HelpLine("s", "cycle status filter"),
		s.HelpLine("p", "cycle priority filter"),
		s.HelpLine("f", "cycle project filter"),
		s.HelpLine("x", "clear filters"),
		s.HelpLine("1", "sort by title"),
		s.HelpLine("2", "sort by priority"),
		s.HelpLine("3", "sort by due date"),
		s.HelpLine("r", "reload"),
		s.HelpLine("esc", "back"),
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

func (v *TaskListView) renderDeleteConfirm(task models.Task) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Are you sure you want to delete %q?", task.Title)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
