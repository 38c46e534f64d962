package taskview

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

var (
	// ErrFormOpen is returned when opening the form while it is already open
	ErrFormOpen = errors.New("form already open")
	// ErrFormClosed is returned when submitting without an open form
	ErrFormClosed = errors.New("form not open")
)

type formMode int

const (
	formClosed formMode = iota
	formCreate
	formEdit
)

// Form field names, matching the task's wire names
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldProjectID      = "projectId"
	FieldAssignedTo     = "assignedTo"
	FieldDueDate        = "dueDate"
	FieldEstimatedHours = "estimatedHours"
)

// Draft is the raw form input. Numeric and date fields stay strings so
// malformed input can be reported instead of silently dropped.
type Draft struct {
	Title          string
	Description    string
	ProjectID      string
	AssignedTo     string
	Priority       models.Priority
	Status         models.Status
	DueDate        string // YYYY-MM-DD or RFC3339, empty for none
	EstimatedHours string // empty for none
}

// NewDraft returns the blank form used for new tasks
func NewDraft() Draft {
	return Draft{Priority: models.PriorityMedium, Status: models.StatusTodo}
}

// DraftFromTask pre-fills a form from an existing task
func DraftFromTask(t models.Task) Draft {
	d := Draft{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
	}
	if t.ProjectID != 0 {
		d.ProjectID = formatID(t.ProjectID)
	}
	if t.AssignedTo != 0 {
		d.AssignedTo = formatID(t.AssignedTo)
	}
	if t.DueDate != nil {
		d.DueDate = t.DueDate.UTC().Format(time.DateOnly)
	}
	if t.EstimatedHours != nil {
		d.EstimatedHours = strconv.FormatFloat(*t.EstimatedHours, 'f', -1, 64)
	}
	return d
}

// FieldError is a single failed rule
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed rule of a draft in field order
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Message returns the error for a field, or "" when the field passed
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// validated is a draft that passed every rule, with parsed values
type validated struct {
	title       string
	description string
	projectID   int64
	assignedTo  int64
	dueDate     *time.Time
	hours       *float64
}

// Validate checks a draft against the form rules, relative to now. All
// failures are collected; a nil error means the draft can be submitted.
func Validate(d Draft, now time.Time) error {
	_, err := validate(d, now)
	return err
}

func validate(d Draft, now time.Time) (validated, error) {
	var (
		out  validated
		verr ValidationError
	)

	out.title = strings.TrimSpace(d.Title)
	switch {
	case out.title == "":
		verr.add(FieldTitle, "Title is required")
	case len([]rune(out.title)) < 3:
		verr.add(FieldTitle, "Title must be at least 3 characters")
	}

	out.description = strings.TrimSpace(d.Description)
	switch {
	case out.description == "":
		verr.add(FieldDescription, "Description is required")
	case len([]rune(out.description)) < 10:
		verr.add(FieldDescription, "Description must be at least 10 characters")
	}

	if id, ok := parseID(d.ProjectID); ok {
		out.projectID = id
	} else {
		verr.add(FieldProjectID, "Project is required")
	}

	if id, ok := parseID(d.AssignedTo); ok {
		out.assignedTo = id
	} else {
		verr.add(FieldAssignedTo, "Assignee is required")
	}

	if raw := strings.TrimSpace(d.DueDate); raw != "" {
		due, err := ParseDueDate(raw)
		switch {
		case err != nil:
			verr.add(FieldDueDate, "Due date is invalid")
		case dateOnly(due).Before(dateOnly(now)):
			verr.add(FieldDueDate, "Due date cannot be in the past")
		default:
			out.dueDate = &due
		}
	}

	if raw := strings.TrimSpace(d.EstimatedHours); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil || math.IsNaN(hours) || hours <= 0:
			verr.add(FieldEstimatedHours, "Estimated hours must be a positive number")
		case hours > 100:
			verr.add(FieldEstimatedHours, "Estimated hours cannot exceed 100")
		default:
			out.hours = &hours
		}
	}

	if len(verr.Fields) > 0 {
		return validated{}, &verr
	}
	return out, nil
}

// ParseDueDate accepts a calendar date (YYYY-MM-DD, taken as UTC midnight)
// or an RFC3339 timestamp.
func ParseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse due date %q: %w", raw, err)
	}
	return t.UTC(), nil
}

func dateOnly(t time.Time) time.Time {
	v := t.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}

func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Form state machine

// FormVisible reports whether the create/edit form is open
func (v *TaskView) FormVisible() bool { return v.form != formClosed }

// Editing reports whether the open form edits an existing task
func (v *TaskView) Editing() bool { return v.form == formEdit }

// EditingTaskID returns the id of the task being edited
func (v *TaskView) EditingTaskID() (int64, bool) {
	if v.editingTaskID == nil {
		return 0, false
	}
	return *v.editingTaskID, true
}

// OpenCreate opens an empty form for a new task
func (v *TaskView) OpenCreate() (Draft, error) {
	if v.FormVisible() {
		return Draft{}, ErrFormOpen
	}
	v.form = formCreate
	v.editingTaskID = nil
	return NewDraft(), nil
}

// OpenEdit opens the form pre-filled from an existing task
func (v *TaskView) OpenEdit(id int64) (Draft, error) {
	if v.FormVisible() {
		return Draft{}, ErrFormOpen
	}
	t, ok := v.Task(id)
	if !ok {
		return Draft{}, fmt.Errorf("edit %d: %w", id, ErrTaskNotFound)
	}
	v.form = formEdit
	v.editingTaskID = &id
	return DraftFromTask(t), nil
}

// CancelForm closes the form without emitting anything
func (v *TaskView) CancelForm() { v.closeForm() }

// Escape handles the escape key: it closes an open form. It reports
// whether it consumed the key.
func (v *TaskView) Escape() bool {
	if !v.FormVisible() {
		return false
	}
	v.closeForm()
	return true
}

func (v *TaskView) closeForm() {
	v.form = formClosed
	v.editingTaskID = nil
}

// Submit validates the draft and emits a create or update intent depending
// on how the form was opened. On validation failure the form stays open and
// a *ValidationError is returned. On success the form closes and the task
// body that was sent is returned.
func (v *TaskView) Submit(d Draft) (models.Task, error) {
	switch v.form {
	case formCreate:
		return v.submitCreate(d)
	case formEdit:
		return v.submitEdit(d)
	}
	return models.Task{}, ErrFormClosed
}

func (v *TaskView) submitCreate(d Draft) (models.Task, error) {
	now := v.now()
	in, err := validate(d, now)
	if err != nil {
		return models.Task{}, err
	}

	t := models.Task{
		Title:          in.title,
		Description:    in.description,
		ProjectID:      in.projectID,
		AssignedTo:     in.assignedTo,
		Priority:       d.Priority,
		Status:         d.Status,
		DueDate:        in.dueDate,
		EstimatedHours: in.hours,
		CreatedAt:      now,
		CreatedBy:      v.actor,
		Tags:           []string{},
	}
	stampCompletion(&t, now)

	v.closeForm()
	v.send(Intent{Kind: IntentCreate, Task: t.Clone()})
	return t, nil
}

func (v *TaskView) submitEdit(d Draft) (models.Task, error) {
	now := v.now()
	in, err := validate(d, now)
	if err != nil {
		return models.Task{}, err
	}

	id := *v.editingTaskID
	t, ok := v.Task(id)
	if !ok {
		v.closeForm()
		return models.Task{}, fmt.Errorf("edit %d: %w", id, ErrTaskNotFound)
	}
	t.Title = in.title
	t.Description = in.description
	t.ProjectID = in.projectID
	t.AssignedTo = in.assignedTo
	t.Priority = d.Priority
	t.Status = d.Status
	t.DueDate = in.dueDate
	t.EstimatedHours = in.hours
	t.UpdatedAt = now
	stampCompletion(&t, now)

	v.closeForm()
	v.send(Intent{Kind: IntentUpdate, TaskID: id, Task: t.Clone()})
	return t, nil
}
