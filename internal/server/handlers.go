package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tgienger/taskflow/internal/models"
)

func (s *Server) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %w", errBadRequest)
	}
	return id, nil
}

func decodeTask(r *http.Request) (models.Task, error) {
	var t models.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		return models.Task{}, fmt.Errorf("invalid json: %w", errBadRequest)
	}
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("title is required: %w", errBadRequest)
	}
	if t.Priority != "" && t.Priority.Rank() == 0 {
		return models.Task{}, fmt.Errorf("unknown priority %q: %w", t.Priority, errBadRequest)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.ctx(r)
	defer cancel()

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, tasks, http.StatusOK)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	ctx, cancel := s.ctx(r)
	defer cancel()

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, t, http.StatusOK)
}

// createTask ignores any client supplied id
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTask(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	in.ID = 0
	if in.CreatedAt.IsZero() {
		in.CreatedAt = s.now().UTC()
	}

	ctx, cancel := s.ctx(r)
	defer cancel()

	created, err := s.store.CreateTask(ctx, in)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.log.WithField("task_id", created.ID).Info("task created")
	writeJSON(w, created, http.StatusCreated)
}

// updateTask replaces the stored task. createdAt and createdBy fall back to
// the stored values when omitted. A stored completedAt is never replaced.
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	in, err := decodeTask(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	in.ID = id

	ctx, cancel := s.ctx(r)
	defer cancel()

	existing, err := s.store.GetTask(ctx, id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = existing.CreatedAt
	}
	if in.CreatedBy == 0 {
		in.CreatedBy = existing.CreatedBy
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = s.now().UTC()
	}
	if existing.CompletedAt != nil {
		in.CompletedAt = existing.CompletedAt
	} else if in.Status == models.StatusCompleted && in.CompletedAt == nil {
		c := in.UpdatedAt
		in.CompletedAt = &c
	}

	updated, err := s.store.UpdateTask(ctx, in)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	ctx, cancel := s.ctx(r)
	defer cancel()

	if err := s.store.DeleteTask(ctx, id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.log.WithField("task_id", id).Info("task deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.ctx(r)
	defer cancel()

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, projects, http.StatusOK)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.ctx(r)
	defer cancel()

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, users, http.StatusOK)
}
