package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// taskRow mirrors the tasks table
type taskRow struct {
	ID             int64           `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	ProjectID      int64           `db:"project_id"`
	AssignedTo     int64           `db:"assigned_to"`
	Priority       string          `db:"priority"`
	Status         string          `db:"status"`
	DueDate        sql.NullTime    `db:"due_date"`
	EstimatedHours sql.NullFloat64 `db:"estimated_hours"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	CompletedAt    sql.NullTime    `db:"completed_at"`
	CreatedBy      int64           `db:"created_by"`
	Tags           string          `db:"tags"`
}

const taskColumns = `id, title, description, project_id, assigned_to, priority, status,
	due_date, estimated_hours, created_at, updated_at, completed_at, created_by, tags`

func (r taskRow) toModel() (models.Task, error) {
	t := models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ProjectID:   r.ProjectID,
		AssignedTo:  r.AssignedTo,
		Priority:    models.Priority(r.Priority),
		Status:      models.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		CreatedBy:   r.CreatedBy,
		Tags:        []string{},
	}
	if r.DueDate.Valid {
		v := r.DueDate.Time.UTC()
		t.DueDate = &v
	}
	if r.EstimatedHours.Valid {
		v := r.EstimatedHours.Float64
		t.EstimatedHours = &v
	}
	if r.CompletedAt.Valid {
		v := r.CompletedAt.Time.UTC()
		t.CompletedAt = &v
	}
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &t.Tags); err != nil {
			return models.Task{}, fmt.Errorf("decode tags of task %d: %w", r.ID, err)
		}
	}
	return t, nil
}

func fromModel(t models.Task) (taskRow, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return taskRow{}, err
	}
	r := taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID,
		AssignedTo:  t.AssignedTo,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		CreatedBy:   t.CreatedBy,
		Tags:        string(raw),
	}
	if t.DueDate != nil {
		r.DueDate = sql.NullTime{Time: t.DueDate.UTC(), Valid: true}
	}
	if t.EstimatedHours != nil {
		r.EstimatedHours = sql.NullFloat64{Float64: *t.EstimatedHours, Valid: true}
	}
	if t.CompletedAt != nil {
		r.CompletedAt = sql.NullTime{Time: t.CompletedAt.UTC(), Valid: true}
	}
	return r, nil
}

// CreateTask inserts a task and returns it with its new id. Missing
// timestamps are filled with the current time.
func (db *DB) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}

	row, err := fromModel(t)
	if err != nil {
		return models.Task{}, err
	}
	result, err := db.NamedExecContext(ctx, `
		INSERT INTO tasks (title, description, project_id, assigned_to, priority, status,
			due_date, estimated_hours, created_at, updated_at, completed_at, created_by, tags)
		VALUES (:title, :description, :project_id, :assigned_to, :priority, :status,
			:due_date, :estimated_hours, :created_at, :updated_at, :completed_at, :created_by, :tags)
	`, row)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}

	return db.GetTask(ctx, id)
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var row taskRow
	err := db.GetContext(ctx, &row, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, err
	}
	return row.toModel()
}

// ListTasks returns all tasks in id order
func (db *DB) ListTasks(ctx context.Context) ([]models.Task, error) {
	var rows []taskRow
	if err := db.SelectContext(ctx, &rows, "SELECT "+taskColumns+" FROM tasks ORDER BY id"); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// UpdateTask replaces every column of an existing task and returns the
// stored record. A zero updatedAt is set to the current time.
func (db *DB) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	row, err := fromModel(t)
	if err != nil {
		return models.Task{}, err
	}
	result, err := db.NamedExecContext(ctx, `
		UPDATE tasks SET title = :title, description = :description, project_id = :project_id,
			assigned_to = :assigned_to, priority = :priority, status = :status, due_date = :due_date,
			estimated_hours = :estimated_hours, created_at = :created_at, updated_at = :updated_at,
			completed_at = :completed_at, created_by = :created_by, tags = :tags
		WHERE id = :id
	`, row)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if err := requireAffected(result, "task", t.ID); err != nil {
		return models.Task{}, err
	}
	return db.GetTask(ctx, t.ID)
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return requireAffected(result, "task", id)
}

// TaskCount returns the number of tasks
func (db *DB) TaskCount(ctx context.Context) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tasks")
	return count, err
}

func requireAffected(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
