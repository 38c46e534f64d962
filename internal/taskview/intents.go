package taskview

import (
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// ErrTaskNotFound is returned when an operation names an unknown task id
var ErrTaskNotFound = errors.New("task not found")

// ErrNoPendingDelete is returned by ConfirmDelete without a prior RequestDelete
var ErrNoPendingDelete = errors.New("no delete awaiting confirmation")

// IntentKind names the change requested from the data collaborator
type IntentKind int

const (
	IntentCreate IntentKind = iota
	IntentUpdate
	IntentDelete
)

func (k IntentKind) String() string {
	switch k {
	case IntentCreate:
		return "create"
	case IntentUpdate:
		return "update"
	case IntentDelete:
		return "delete"
	}
	return fmt.Sprintf("intent(%d)", int(k))
}

// Intent is a change request that has not been applied locally. Task
// carries the full body for create and update; TaskID names the target of
// update and delete.
type Intent struct {
	Kind   IntentKind
	TaskID int64
	Task   models.Task
}

// IntentFunc receives intents as they are emitted
type IntentFunc func(Intent)

func (v *TaskView) send(in Intent) {
	if v.emit != nil {
		v.emit(in)
	}
}

// TaskPatch holds optional field changes. Nil fields are left as they are.
type TaskPatch struct {
	Title          *string
	Description    *string
	ProjectID      *int64
	AssignedTo     *int64
	Priority       *models.Priority
	Status         *models.Status
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	ClearEstimate  bool
	Tags           *[]string
}

func (p TaskPatch) apply(t *models.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		d := *p.DueDate
		t.DueDate = &d
	}
	switch {
	case p.ClearEstimate:
		t.EstimatedHours = nil
	case p.EstimatedHours != nil:
		h := *p.EstimatedHours
		t.EstimatedHours = &h
	}
	if p.Tags != nil {
		t.Tags = append([]string{}, (*p.Tags)...)
	}
}

// stampCompletion sets completedAt when a task enters completed for the
// first time. An existing completedAt is never replaced.
func stampCompletion(t *models.Task, now time.Time) {
	if t.Status == models.StatusCompleted && t.CompletedAt == nil {
		c := now
		t.CompletedAt = &c
	}
}

// RequestUpdate emits an update intent for the task with the patch applied.
// updatedAt is stamped and completedAt follows the completion rule. The
// local collection is not changed until ApplyUpdated.
func (v *TaskView) RequestUpdate(id int64, patch TaskPatch) (models.Task, error) {
	i := v.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("update %d: %w", id, ErrTaskNotFound)
	}
	updated := v.tasks[i].Clone()
	patch.apply(&updated)
	now := v.now()
	updated.UpdatedAt = now
	stampCompletion(&updated, now)

	v.send(Intent{Kind: IntentUpdate, TaskID: id, Task: updated.Clone()})
	return updated, nil
}

// ChangeStatus is the quick status action available outside the form
func (v *TaskView) ChangeStatus(id int64, status models.Status) (models.Task, error) {
	return v.RequestUpdate(id, TaskPatch{Status: &status})
}

// RequestDelete marks a task for deletion. Nothing is emitted until
// ConfirmDelete.
func (v *TaskView) RequestDelete(id int64) error {
	if v.indexOf(id) < 0 {
		return fmt.Errorf("delete %d: %w", id, ErrTaskNotFound)
	}
	v.pendingDeleteID = &id
	return nil
}

// PendingDelete returns the task awaiting delete confirmation, if any
func (v *TaskView) PendingDelete() (models.Task, bool) {
	if v.pendingDeleteID == nil {
		return models.Task{}, false
	}
	return v.Task(*v.pendingDeleteID)
}

// ConfirmDelete emits the delete intent for the pending task
func (v *TaskView) ConfirmDelete() error {
	if v.pendingDeleteID == nil {
		return ErrNoPendingDelete
	}
	id := *v.pendingDeleteID
	v.pendingDeleteID = nil
	v.send(Intent{Kind: IntentDelete, TaskID: id})
	return nil
}

// CancelDelete drops the pending delete without emitting anything
func (v *TaskView) CancelDelete() { v.pendingDeleteID = nil }

// Confirmations from the collaborator

// ApplyCreated appends the server's record of a created task
func (v *TaskView) ApplyCreated(t models.Task) {
	v.tasks = append(v.tasks, t.Clone())
}

// ApplyUpdated replaces the task with the same id. Unknown ids are ignored.
func (v *TaskView) ApplyUpdated(t models.Task) {
	if i := v.indexOf(t.ID); i >= 0 {
		v.tasks[i] = t.Clone()
	}
}

// ApplyDeleted removes the task with the given id
func (v *TaskView) ApplyDeleted(id int64) {
	if i := v.indexOf(id); i >= 0 {
		v.tasks = append(v.tasks[:i:i], v.tasks[i+1:]...)
	}
	if v.editingTaskID != nil && *v.editingTaskID == id {
		v.closeForm()
	}
}
