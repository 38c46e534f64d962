package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskflow/internal/api"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/logger"
	"github.com/tgienger/taskflow/internal/models"
)

func newTestServer(t *testing.T, seed bool) (*httptest.Server, *db.DB) {
	t.Helper()
	database, err := db.New(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	if seed {
		_, err := database.Seed(context.Background(), time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	srv := httptest.NewServer(New(database, logger.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv, database
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload["error"]
}

func TestListEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var tasks []models.Task
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	assert.Len(t, tasks, 6)

	var projects []models.Project
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/projects", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&projects))
	assert.Len(t, projects, 3)

	var users []models.User
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Len(t, users, 4)
}

func TestEmptyListIsJSONArray(t *testing.T) {
	srv, _ := newTestServer(t, false)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/tasks", nil)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestCreateIgnoresClientID(t *testing.T) {
	srv, database := newTestServer(t, false)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", models.Task{
		ID:        99,
		Title:     "Write release notes",
		ProjectID: 1,
		CreatedBy: 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, []string{}, created.Tags)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := database.GetTask(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Write release notes", stored.Title)
}

func TestCreateRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", models.Task{Title: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(t, resp), "title is required")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/tasks", strings.NewReader("{"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/tasks", models.Task{Title: "Valid", Priority: "urgent"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateKeepsServerOwnedFields(t *testing.T) {
	srv, database := newTestServer(t, true)
	ctx := context.Background()

	before, err := database.GetTask(ctx, 1)
	require.NoError(t, err)

	edit := before
	edit.Title = "Design homepage v2"
	edit.CreatedAt = time.Time{}
	edit.CreatedBy = 0
	edit.UpdatedAt = time.Time{}
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/1", edit)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "Design homepage v2", updated.Title)
	assert.True(t, before.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, before.CreatedBy, updated.CreatedBy)
	assert.False(t, updated.UpdatedAt.IsZero())
	assert.False(t, updated.UpdatedAt.Equal(before.UpdatedAt))
}

func TestUpdateNeverReplacesCompletedAt(t *testing.T) {
	srv, database := newTestServer(t, true)
	ctx := context.Background()

	completedAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	done, err := database.CreateTask(ctx, models.Task{
		Title: "Ship release", Description: "Tag and publish the build",
		ProjectID: 1, AssignedTo: 1,
		Priority: models.PriorityMedium, Status: models.StatusCompleted,
		CreatedAt: completedAt, CompletedAt: &completedAt, CreatedBy: 1, Tags: []string{},
	})
	require.NoError(t, err)
	url := fmt.Sprintf("%s/api/tasks/%d", srv.URL, done.ID)

	omitted := done
	omitted.CompletedAt = nil
	resp := doJSON(t, http.MethodPut, url, omitted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, completedAt.Equal(*updated.CompletedAt))

	later := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	replaced := done
	replaced.CompletedAt = &later
	resp = doJSON(t, http.MethodPut, url, replaced)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, completedAt.Equal(*updated.CompletedAt))

	stored, err := database.GetTask(ctx, done.ID)
	require.NoError(t, err)
	assert.True(t, completedAt.Equal(*stored.CompletedAt))
}

func TestUpdateStampsFirstCompletion(t *testing.T) {
	srv, database := newTestServer(t, true)

	before, err := database.GetTask(context.Background(), 1)
	require.NoError(t, err)
	require.Nil(t, before.CompletedAt)

	edit := before
	edit.Status = models.StatusCompleted
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/1", edit)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.NotNil(t, updated.CompletedAt)
}

func TestMissingTaskIs404(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/tasks/5", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/5", models.Task{Title: "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/tasks/5", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	srv, database := newTestServer(t, true)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/tasks/2", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	count, err := database.TaskCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	echoed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer echoed.Body.Close()
	assert.Equal(t, "abc-123", echoed.Header.Get(requestIDHeader))
}

func TestMetricsExposeRequestCounts(t *testing.T) {
	srv, _ := newTestServer(t, false)
	doJSON(t, http.MethodGet, srv.URL+"/api/tasks/7", nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `http_requests_total{method="GET",route="/api/tasks/{id}",status="404"} 1`)
}

func TestNormalizeRoute(t *testing.T) {
	assert.Equal(t, "/api/tasks/{id}", normalizeRoute("/api/tasks/12"))
	assert.Equal(t, "/api/tasks", normalizeRoute("/api/tasks"))
}

// The client and server agree on the wire format end to end.
func TestClientAgainstServer(t *testing.T) {
	srv, _ := newTestServer(t, true)
	c := api.New(srv.URL+"/api", 2*time.Second, logger.Discard())
	ctx := context.Background()

	snap, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 6)

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	created, err := c.CreateTask(ctx, models.Task{
		Title:       "Ship release",
		Description: "Tag and publish the release",
		ProjectID:   snap.Projects[0].ID,
		AssignedTo:  snap.Users[0].ID,
		Priority:    models.PriorityHigh,
		Status:      models.StatusTodo,
		DueDate:     &due,
		CreatedBy:   1,
		Tags:        []string{},
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)
	assert.True(t, due.Equal(*created.DueDate))

	created.Status = models.StatusCompleted
	updated, err := c.UpdateTask(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	err = c.DeleteTask(ctx, created.ID)
	var fe *api.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Status)
}
