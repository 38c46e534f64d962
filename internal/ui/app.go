package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/taskflow/internal/api"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/taskview"
	"github.com/tgienger/taskflow/internal/ui/views"
)

// DataSource is the REST collaborator the app reads from and sends intents to
type DataSource interface {
	FetchAll(ctx context.Context) (api.Snapshot, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Currently active view
type View int

const (
	ViewDashboard View = iota
	ViewTasks
)

type App struct {
	source      DataSource
	log         *logrus.Entry
	tv          *taskview.TaskView
	pending     []taskview.Intent
	currentView View
	dashboard   *views.DashboardView
	taskList    *views.TaskListView
	width       int
	height      int
}

type dataLoadedMsg struct {
	snap api.Snapshot
}

type requestFailedMsg struct {
	err error
}

type taskSavedMsg struct {
	task    models.Task
	created bool
}

type taskDeletedMsg struct {
	id int64
}

// NewApp creates the application. opts configure the underlying TaskView.
func NewApp(source DataSource, log *logrus.Entry, opts ...taskview.Option) *App {
	a := &App{
		source:      source,
		log:         log,
		currentView: ViewDashboard,
	}
	a.tv = taskview.New(nil, nil, nil, a.queue, opts...)
	a.dashboard = views.NewDashboardView(a.tv)
	a.taskList = views.NewTaskListView(a.tv)
	return a
}

// queue collects intents emitted while a view handles a message
func (a *App) queue(in taskview.Intent) {
	a.pending = append(a.pending, in)
}

func (a *App) Init() tea.Cmd {
	a.tv.SetLoading(true)
	return a.fetch
}

func (a *App) fetch() tea.Msg {
	snap, err := a.source.FetchAll(context.Background())
	if err != nil {
		return requestFailedMsg{err: err}
	}
	return dataLoadedMsg{snap: snap}
}

// intentCmd performs an intent against the data source. Local state is only
// touched once the result message comes back.
func (a *App) intentCmd(in taskview.Intent) tea.Cmd {
	src := a.source
	return func() tea.Msg {
		ctx := context.Background()
		switch in.Kind {
		case taskview.IntentCreate:
			t, err := src.CreateTask(ctx, in.Task)
			if err != nil {
				return requestFailedMsg{err: err}
			}
			return taskSavedMsg{task: t, created: true}
		case taskview.IntentUpdate:
			t, err := src.UpdateTask(ctx, in.Task)
			if err != nil {
				return requestFailedMsg{err: err}
			}
			return taskSavedMsg{task: t}
		case taskview.IntentDelete:
			if err := src.DeleteTask(ctx, in.TaskID); err != nil {
				return requestFailedMsg{err: err}
			}
			return taskDeletedMsg{id: in.TaskID}
		}
		return nil
	}
}

func (a *App) flush() tea.Cmd {
	if len(a.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(a.pending))
	for i, in := range a.pending {
		a.log.WithFields(logrus.Fields{"intent": in.Kind.String(), "task_id": in.TaskID}).Debug("sending intent")
		cmds[i] = a.intentCmd(in)
	}
	a.pending = nil
	return tea.Batch(cmds...)
}

func (a *App) refresh() {
	a.dashboard.Refresh()
	a.taskList.Refresh()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.Update(msg)
		a.taskList.Update(msg)
		return a, nil

	case dataLoadedMsg:
		a.tv.Load(msg.snap.Tasks, msg.snap.Projects, msg.snap.Users)
		a.tv.SetLoading(false)
		a.tv.ClearError()
		a.refresh()
		return a, nil

	case requestFailedMsg:
		a.log.WithError(msg.err).Warn("request failed")
		a.tv.SetLoading(false)
		a.tv.SetError(msg.err)
		return a, nil

	case taskSavedMsg:
		if msg.created {
			a.tv.ApplyCreated(msg.task)
		} else {
			a.tv.ApplyUpdated(msg.task)
		}
		a.tv.ClearError()
		a.refresh()
		return a, nil

	case taskDeletedMsg:
		a.tv.ApplyDeleted(msg.id)
		a.tv.ClearError()
		a.refresh()
		return a, nil

	case views.SelectedProject:
		a.tv.SetProjectFilter(msg.ProjectID)
		a.currentView = ViewTasks
		a.taskList.Refresh()
		return a, nil

	case views.BackToDashboard:
		a.currentView = ViewDashboard
		a.dashboard.Refresh()
		return a, nil

	case views.RetryMsg:
		a.tv.ClearError()
		a.tv.SetLoading(true)
		return a, a.fetch
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewDashboard:
		_, cmd = a.dashboard.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, tea.Batch(cmd, a.flush())
}

func (a *App) View() string {
	if a.currentView == ViewTasks {
		return a.taskList.View()
	}
	return a.dashboard.View()
}
