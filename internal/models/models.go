package models

import (
	"slices"
	"strings"
	"time"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities lists priorities from lowest to highest
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Rank orders priorities low < medium < high. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

func (p Priority) Label() string {
	return strings.ToUpper(string(p))
}

// Status of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// AllStatuses lists statuses in workflow order
var AllStatuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Label returns the human readable form, e.g. "IN PROGRESS"
func (s Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

// Next returns the following status in the workflow, wrapping to todo
func (s Status) Next() Status {
	for i, st := range AllStatuses {
		if st == s {
			return AllStatuses[(i+1)%len(AllStatuses)]
		}
	}
	return StatusTodo
}

// Project groups tasks
type Project struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Color       string `json:"color" db:"color"`
}

// User is a team member tasks can be assigned to
type User struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Role   string `json:"role" db:"role"`
	Avatar string `json:"avatar" db:"avatar"`
}

// Task represents a single work item
type Task struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ProjectID      int64      `json:"projectId"`
	AssignedTo     int64      `json:"assignedTo"`
	Priority       Priority   `json:"priority"`
	Status         Status     `json:"status"`
	DueDate        *time.Time `json:"dueDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	CreatedBy      int64      `json:"createdBy"`
	Tags           []string   `json:"tags"`
}

// IsOverdue reports whether the task has a due date in the past and is not completed
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// Clone returns a deep copy so callers can modify pointer fields freely
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		v := *t.DueDate
		c.DueDate = &v
	}
	if t.EstimatedHours != nil {
		v := *t.EstimatedHours
		c.EstimatedHours = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}
	c.Tags = slices.Clone(t.Tags)
	return c
}
