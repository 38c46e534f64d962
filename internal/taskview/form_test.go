package taskview

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskflow/internal/models"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

type recorder struct {
	intents []Intent
}

func (r *recorder) emit(in Intent) { r.intents = append(r.intents, in) }

func newRecordedView(tasks []models.Task) (*TaskView, *recorder) {
	rec := &recorder{}
	v := New(tasks, nil, nil, rec.emit, WithClock(func() time.Time { return fixedNow }))
	return v, rec
}

func validDraft() Draft {
	d := NewDraft()
	d.Title = "abc"
	d.Description = "0123456789"
	d.ProjectID = "1"
	d.AssignedTo = "2"
	return d
}

func fieldErrors(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr
}

func TestValidateTitleTooShort(t *testing.T) {
	d := validDraft()
	d.Title = "ab"
	verr := fieldErrors(t, Validate(d, fixedNow))
	assert.Equal(t, "Title must be at least 3 characters", verr.Message(FieldTitle))
	assert.Len(t, verr.Fields, 1)
}

func TestValidateMinimalDraftPasses(t *testing.T) {
	assert.NoError(t, Validate(validDraft(), fixedNow))
}

func TestValidateTrimsBeforeMeasuring(t *testing.T) {
	d := validDraft()
	d.Title = "  ab  "
	d.Description = "   short    "
	verr := fieldErrors(t, Validate(d, fixedNow))
	assert.NotEmpty(t, verr.Message(FieldTitle))
	assert.Equal(t, "Description must be at least 10 characters", verr.Message(FieldDescription))
}

func TestValidateReportsAllFailures(t *testing.T) {
	d := Draft{
		DueDate:        "2026-10-18",
		EstimatedHours: "101",
	}
	verr := fieldErrors(t, Validate(d, fixedNow))

	assert.Equal(t, []FieldError{
		{FieldTitle, "Title is required"},
		{FieldDescription, "Description is required"},
		{FieldProjectID, "Project is required"},
		{FieldAssignedTo, "Assignee is required"},
		{FieldDueDate, "Due date cannot be in the past"},
		{FieldEstimatedHours, "Estimated hours cannot exceed 100"},
	}, verr.Fields)
	assert.True(t, strings.HasPrefix(verr.Error(), "validation failed: title:"))
}

func TestValidateDueDate(t *testing.T) {
	cases := []struct {
		name string
		due  string
		msg  string
	}{
		{"today", "2026-10-19", ""},
		{"future", "2027-01-01", ""},
		{"rfc3339 today", "2026-10-19T00:00:00Z", ""},
		{"yesterday", "2026-10-18", "Due date cannot be in the past"},
		{"garbage", "next week", "Due date is invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			d.DueDate = tc.due
			err := Validate(d, fixedNow)
			if tc.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.msg, fieldErrors(t, err).Message(FieldDueDate))
		})
	}
}

func TestValidateEstimatedHours(t *testing.T) {
	cases := []struct {
		hours string
		msg   string
	}{
		{"0.5", ""},
		{"100", ""},
		{"0", "Estimated hours must be a positive number"},
		{"-3", "Estimated hours must be a positive number"},
		{"lots", "Estimated hours must be a positive number"},
		{"NaN", "Estimated hours must be a positive number"},
		{"100.01", "Estimated hours cannot exceed 100"},
	}
	for _, tc := range cases {
		t.Run(tc.hours, func(t *testing.T) {
			d := validDraft()
			d.EstimatedHours = tc.hours
			err := Validate(d, fixedNow)
			if tc.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.msg, fieldErrors(t, err).Message(FieldEstimatedHours))
		})
	}
}

func TestValidateRejectsNonNumericReferences(t *testing.T) {
	d := validDraft()
	d.ProjectID = "website"
	d.AssignedTo = "0"
	verr := fieldErrors(t, Validate(d, fixedNow))
	assert.Equal(t, "Project is required", verr.Message(FieldProjectID))
	assert.Equal(t, "Assignee is required", verr.Message(FieldAssignedTo))
}

func TestFormStateMachine(t *testing.T) {
	v, rec := newRecordedView(fixture())

	_, err := v.Submit(validDraft())
	assert.ErrorIs(t, err, ErrFormClosed)

	d, err := v.OpenCreate()
	require.NoError(t, err)
	assert.Equal(t, NewDraft(), d)
	assert.True(t, v.FormVisible())
	assert.False(t, v.Editing())

	_, err = v.OpenEdit(1)
	assert.ErrorIs(t, err, ErrFormOpen)

	assert.True(t, v.Escape())
	assert.False(t, v.FormVisible())
	assert.False(t, v.Escape())

	d, err = v.OpenEdit(3)
	require.NoError(t, err)
	assert.Equal(t, "Deploy", d.Title)
	assert.Equal(t, "2026-10-25", d.DueDate)
	assert.Equal(t, "1", d.ProjectID)
	id, ok := v.EditingTaskID()
	require.True(t, ok)
	assert.Equal(t, int64(3), id)

	v.CancelForm()
	assert.False(t, v.FormVisible())
	_, ok = v.EditingTaskID()
	assert.False(t, ok)

	_, err = v.OpenEdit(99)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.False(t, v.FormVisible())

	assert.Empty(t, rec.intents)
}

func TestSubmitCreateEmitsIntentWithoutMutatingCollection(t *testing.T) {
	v, rec := newRecordedView(fixture())
	_, err := v.OpenCreate()
	require.NoError(t, err)

	sent, err := v.Submit(validDraft())
	require.NoError(t, err)
	assert.False(t, v.FormVisible())

	want := models.Task{
		Title:       "abc",
		Description: "0123456789",
		ProjectID:   1,
		AssignedTo:  2,
		Priority:    models.PriorityMedium,
		Status:      models.StatusTodo,
		CreatedAt:   fixedNow,
		CreatedBy:   DefaultActorID,
		Tags:        []string{},
	}
	assert.Equal(t, want, sent)
	require.Len(t, rec.intents, 1)
	assert.Equal(t, Intent{Kind: IntentCreate, Task: want}, rec.intents[0])
	assert.Len(t, v.Tasks(), 5)

	v.ApplyCreated(models.Task{ID: 6, Title: "abc"})
	assert.Len(t, v.Tasks(), 6)
}

func TestSubmitInvalidKeepsFormOpen(t *testing.T) {
	v, rec := newRecordedView(nil)
	_, err := v.OpenCreate()
	require.NoError(t, err)

	d := validDraft()
	d.Title = "ab"
	_, err = v.Submit(d)
	fieldErrors(t, err)
	assert.True(t, v.FormVisible())
	assert.Empty(t, rec.intents)
}

func TestSubmitCreateUsesActor(t *testing.T) {
	rec := &recorder{}
	v := New(nil, nil, nil, rec.emit, WithActor(42))
	_, err := v.OpenCreate()
	require.NoError(t, err)
	_, err = v.Submit(validDraft())
	require.NoError(t, err)
	require.Len(t, rec.intents, 1)
	assert.Equal(t, int64(42), rec.intents[0].Task.CreatedBy)
}

func TestSubmitEditPreservesIdentityAndCompletion(t *testing.T) {
	created := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	done := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{{
		ID: 9, Title: "Old title", Description: "An older description", ProjectID: 1, AssignedTo: 1,
		Priority: models.PriorityLow, Status: models.StatusCompleted,
		CreatedAt: created, CreatedBy: 3, CompletedAt: &done, Tags: []string{"ops"},
	}}
	v, rec := newRecordedView(tasks)

	d, err := v.OpenEdit(9)
	require.NoError(t, err)
	d.Title = "New title"
	d.EstimatedHours = "4"

	sent, err := v.Submit(d)
	require.NoError(t, err)
	assert.False(t, v.FormVisible())

	assert.Equal(t, int64(9), sent.ID)
	assert.Equal(t, "New title", sent.Title)
	assert.Equal(t, created, sent.CreatedAt)
	assert.Equal(t, int64(3), sent.CreatedBy)
	assert.Equal(t, fixedNow, sent.UpdatedAt)
	require.NotNil(t, sent.CompletedAt)
	assert.Equal(t, done, *sent.CompletedAt)
	require.NotNil(t, sent.EstimatedHours)
	assert.Equal(t, 4.0, *sent.EstimatedHours)
	assert.Equal(t, []string{"ops"}, sent.Tags)

	require.Len(t, rec.intents, 1)
	assert.Equal(t, IntentUpdate, rec.intents[0].Kind)
	assert.Equal(t, int64(9), rec.intents[0].TaskID)

	// local state waits for confirmation
	local, _ := v.Task(9)
	assert.Equal(t, "Old title", local.Title)
	v.ApplyUpdated(sent)
	local, _ = v.Task(9)
	assert.Equal(t, "New title", local.Title)
}

func TestSubmitEditIntoCompletedStampsOnce(t *testing.T) {
	v, rec := newRecordedView([]models.Task{{
		ID: 1, Title: "Task", Description: "Long enough text", ProjectID: 1, AssignedTo: 1,
		Priority: models.PriorityLow, Status: models.StatusTodo,
	}})
	d, err := v.OpenEdit(1)
	require.NoError(t, err)
	d.Status = models.StatusCompleted
	sent, err := v.Submit(d)
	require.NoError(t, err)
	require.NotNil(t, sent.CompletedAt)
	assert.Equal(t, fixedNow, *sent.CompletedAt)
	assert.Len(t, rec.intents, 1)
}

func TestDraftRoundTripsThroughValidation(t *testing.T) {
	hours := 2.5
	task := models.Task{
		ID: 1, Title: "Write docs", Description: "Document the REST endpoints", ProjectID: 1, AssignedTo: 2,
		Priority: models.PriorityHigh, Status: models.StatusInProgress,
		DueDate: date("2026-12-01"), EstimatedHours: &hours,
	}
	d := DraftFromTask(task)
	assert.Equal(t, "2.5", d.EstimatedHours)
	assert.Equal(t, "2026-12-01", d.DueDate)
	assert.NoError(t, Validate(d, fixedNow))
}
