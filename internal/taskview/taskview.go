// Package taskview holds the client-side task collection together with its
// filter, sort and search criteria. Every derived value (visible tasks,
// summary counts) is recomputed from current state on each call, so the
// getters can be called any number of times without side effects.
package taskview

import (
	"slices"
	"strings"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// FilterAll disables a status, priority or project filter
const FilterAll = "all"

// DefaultActorID is recorded as createdBy on new tasks until real
// authentication exists.
const DefaultActorID int64 = 1

// SortField selects the comparator used for the visible set
type SortField string

const (
	SortTitle    SortField = "title"
	SortPriority SortField = "priority"
	SortDueDate  SortField = "dueDate"
)

// SortDirection is asc or desc
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Stats are counts over the filtered set
type Stats struct {
	Total      int
	Todo       int
	InProgress int
	Completed  int
	// Other counts tasks whose status is outside the known workflow
	Other int
}

// TaskView owns the task collection and the criteria used to display it.
// It is not safe for concurrent use; callers serialize events onto it the
// way a UI event loop does.
type TaskView struct {
	tasks    []models.Task
	projects []models.Project
	users    []models.User

	searchQuery    string
	statusFilter   string
	priorityFilter string
	projectFilter  string
	sortField      SortField
	sortDirection  SortDirection

	form            formMode
	editingTaskID   *int64
	pendingDeleteID *int64

	err     error
	loading bool

	emit  IntentFunc
	now   func() time.Time
	actor int64
}

// Option configures a TaskView
type Option func(*TaskView)

// WithClock overrides the time source used for timestamps and due date checks
func WithClock(now func() time.Time) Option {
	return func(v *TaskView) { v.now = now }
}

// WithActor sets the user id recorded as createdBy on new tasks
func WithActor(userID int64) Option {
	return func(v *TaskView) { v.actor = userID }
}

// New creates a view over the given collections. emit receives every
// create, update and delete intent; it may be nil.
func New(tasks []models.Task, projects []models.Project, users []models.User, emit IntentFunc, opts ...Option) *TaskView {
	v := &TaskView{
		statusFilter:   FilterAll,
		priorityFilter: FilterAll,
		projectFilter:  FilterAll,
		sortField:      SortDueDate,
		sortDirection:  Asc,
		emit:           emit,
		now:            time.Now,
		actor:          DefaultActorID,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.Load(tasks, projects, users)
	return v
}

// Now reads the view's clock. Renderers use it so due labels agree with
// validation.
func (v *TaskView) Now() time.Time { return v.now() }

// Load replaces all collections, e.g. after a successful initial fetch
func (v *TaskView) Load(tasks []models.Task, projects []models.Project, users []models.User) {
	v.tasks = cloneTasks(tasks)
	v.projects = slices.Clone(projects)
	v.users = slices.Clone(users)
	v.loading = false
	v.err = nil
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Tasks returns a copy of the full collection in insertion order
func (v *TaskView) Tasks() []models.Task { return cloneTasks(v.tasks) }

func (v *TaskView) Projects() []models.Project { return slices.Clone(v.projects) }

func (v *TaskView) Users() []models.User { return slices.Clone(v.users) }

// Task looks up a task by id
func (v *TaskView) Task(id int64) (models.Task, bool) {
	i := v.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return v.tasks[i].Clone(), true
}

func (v *TaskView) indexOf(id int64) int {
	return slices.IndexFunc(v.tasks, func(t models.Task) bool { return t.ID == id })
}

// ProjectByID resolves a weak project reference
func (v *TaskView) ProjectByID(id int64) (models.Project, bool) {
	i := slices.IndexFunc(v.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return models.Project{}, false
	}
	return v.projects[i], true
}

// UserByID resolves a weak user reference
func (v *TaskView) UserByID(id int64) (models.User, bool) {
	i := slices.IndexFunc(v.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, false
	}
	return v.users[i], true
}

// Filter criteria

func (v *TaskView) SearchQuery() string    { return v.searchQuery }
func (v *TaskView) StatusFilter() string   { return v.statusFilter }
func (v *TaskView) PriorityFilter() string { return v.priorityFilter }
func (v *TaskView) ProjectFilter() string  { return v.projectFilter }

func (v *TaskView) SetSearchQuery(q string) { v.searchQuery = q }

// SetStatusFilter accepts a status value or FilterAll. Empty means FilterAll.
func (v *TaskView) SetStatusFilter(s string) { v.statusFilter = orAll(s) }

func (v *TaskView) SetPriorityFilter(p string) { v.priorityFilter = orAll(p) }

// SetProjectFilter accepts a decimal project id or FilterAll
func (v *TaskView) SetProjectFilter(id string) { v.projectFilter = orAll(id) }

func orAll(s string) string {
	if strings.TrimSpace(s) == "" {
		return FilterAll
	}
	return s
}

// HasActiveFilters reports whether any criterion narrows the collection
func (v *TaskView) HasActiveFilters() bool {
	return v.searchQuery != "" ||
		v.statusFilter != FilterAll ||
		v.priorityFilter != FilterAll ||
		v.projectFilter != FilterAll
}

// ClearFilters resets search and all filters. Sorting is left alone.
func (v *TaskView) ClearFilters() {
	v.searchQuery = ""
	v.statusFilter = FilterAll
	v.priorityFilter = FilterAll
	v.projectFilter = FilterAll
}

// Sorting

func (v *TaskView) SortField() SortField         { return v.sortField }
func (v *TaskView) SortDirection() SortDirection { return v.sortDirection }

// SortBy selects a sort field. Selecting the active field toggles the
// direction; selecting another field resets it to ascending.
func (v *TaskView) SortBy(field SortField) {
	if v.sortField == field {
		if v.sortDirection == Asc {
			v.sortDirection = Desc
		} else {
			v.sortDirection = Asc
		}
		return
	}
	v.sortField = field
	v.sortDirection = Asc
}

// Derived state

// Visible returns the filtered, stably sorted tasks
func (v *TaskView) Visible() []models.Task {
	visible := v.filtered()
	cmp := comparator(v.sortField)
	dir := 1
	if v.sortDirection == Desc {
		dir = -1
	}
	slices.SortStableFunc(visible, func(a, b models.Task) int {
		return dir * cmp(a, b)
	})
	return visible
}

func (v *TaskView) filtered() []models.Task {
	query := strings.ToLower(v.searchQuery)
	out := make([]models.Task, 0, len(v.tasks))
	for _, t := range v.tasks {
		if v.matches(t, query) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (v *TaskView) matches(t models.Task, query string) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(t.Title), query) &&
		!strings.Contains(strings.ToLower(t.Description), query) {
		return false
	}
	if v.statusFilter != FilterAll && string(t.Status) != v.statusFilter {
		return false
	}
	if v.priorityFilter != FilterAll && string(t.Priority) != v.priorityFilter {
		return false
	}
	if v.projectFilter != FilterAll && formatID(t.ProjectID) != v.projectFilter {
		return false
	}
	return true
}

func comparator(field SortField) func(a, b models.Task) int {
	switch field {
	case SortTitle:
		return func(a, b models.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortPriority:
		return func(a, b models.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		}
	default:
		return compareDueDates
	}
}

// compareDueDates treats a missing due date as later than any present one
func compareDueDates(a, b models.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}

// Stats counts the filtered set by status
func (v *TaskView) Stats() Stats {
	query := strings.ToLower(v.searchQuery)
	return CountStats(v.tasks, func(t models.Task) bool { return v.matches(t, query) })
}

// CountStats buckets the tasks accepted by keep by status
func CountStats(tasks []models.Task, keep func(models.Task) bool) Stats {
	var s Stats
	for _, t := range tasks {
		if !keep(t) {
			continue
		}
		s.Total++
		switch t.Status {
		case models.StatusTodo:
			s.Todo++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusCompleted:
			s.Completed++
		default:
			s.Other++
		}
	}
	return s
}

// Load / error state

// SetLoading marks a fetch in flight
func (v *TaskView) SetLoading(loading bool) { v.loading = loading }

func (v *TaskView) Loading() bool { return v.loading }

// SetError records a collaborator failure. Collections are left untouched.
func (v *TaskView) SetError(err error) {
	v.err = err
	v.loading = false
}

func (v *TaskView) ClearError() { v.err = nil }

func (v *TaskView) Err() error { return v.err }
