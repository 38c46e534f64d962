package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgienger/taskflow/internal/models"
)

// Op identifies the request that failed
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// FetchError is returned for any failed round trip to the API: transport
// errors, non-2xx responses and undecodable bodies alike.
type FetchError struct {
	Op     Op
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Message is the text shown to the user in the error banner
func (e *FetchError) Message() string {
	switch e.Op {
	case OpCreate:
		return "Failed to create task. Please try again."
	case OpUpdate:
		return "Failed to update task. Please try again."
	case OpDelete:
		return "Failed to delete task. Please try again."
	}
	return "Failed to fetch data from API"
}

// Snapshot is the full data set loaded on startup and on retry
type Snapshot struct {
	Tasks    []models.Task
	Projects []models.Project
	Users    []models.User
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

func New(baseURL string, timeout time.Duration, log *logrus.Entry) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// FetchAll loads tasks, projects and users concurrently. Any single failure
// fails the whole load so callers never see a partial snapshot.
func (c *Client) FetchAll(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		wg   sync.WaitGroup
		errs [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		errs[0] = c.do(ctx, http.MethodGet, "/tasks", nil, &snap.Tasks)
	}()
	go func() {
		defer wg.Done()
		errs[1] = c.do(ctx, http.MethodGet, "/projects", nil, &snap.Projects)
	}()
	go func() {
		defer wg.Done()
		errs[2] = c.do(ctx, http.MethodGet, "/users", nil, &snap.Users)
	}()
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		c.log.WithError(err).Warn("fetch failed")
		return Snapshot{}, &FetchError{Op: OpFetch, Status: firstStatus(errs[:]), Err: err}
	}

	if snap.Tasks == nil {
		snap.Tasks = []models.Task{}
	}
	if snap.Projects == nil {
		snap.Projects = []models.Project{}
	}
	if snap.Users == nil {
		snap.Users = []models.User{}
	}
	c.log.WithFields(logrus.Fields{
		"tasks":    len(snap.Tasks),
		"projects": len(snap.Projects),
		"users":    len(snap.Users),
	}).Debug("fetched snapshot")
	return snap, nil
}

// CreateTask posts t and returns the stored task with its server-assigned id
func (c *Client) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	var created models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", t, &created); err != nil {
		return models.Task{}, c.fail(OpCreate, err)
	}
	return created, nil
}

// UpdateTask replaces the task identified by t.ID
func (c *Client) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	var updated models.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+strconv.FormatInt(t.ID, 10), t, &updated); err != nil {
		return models.Task{}, c.fail(OpUpdate, err)
	}
	return updated, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return c.fail(OpDelete, err)
	}
	return nil
}

func (c *Client) fail(op Op, err error) error {
	c.log.WithError(err).WithField("op", op).Warn("request failed")
	return &FetchError{Op: op, Status: firstStatus([]error{err}), Err: err}
}

// statusError carries a non-2xx response
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return http.StatusText(e.status)
	}
	return e.body
}

func firstStatus(errs []error) int {
	for _, err := range errs {
		var se *statusError
		if errors.As(err, &se) {
			return se.status
		}
	}
	return 0
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode, body: errorBody(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorBody extracts {"error": "..."} when the server sent one
func errorBody(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
