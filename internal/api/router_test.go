package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/task-tracker/internal/models"
	"github.com/TWRT/task-tracker/internal/repository"
)

func newTestServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()

	db, err := repository.InitDB(context.Background(), repository.DriverModernc, ":memory:", seed)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ts := httptest.NewServer(SetupRouter(db, RouterOptions{Logger: log.New(io.Discard, "", 0)}))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeTask(t *testing.T, data []byte) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(data, &task), "body=%s", data)
	return task
}

func decodeList(t *testing.T, data []byte) []models.Task {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(data, &tasks), "body=%s", data)
	return tasks
}

func decodeErr(t *testing.T, data []byte) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &payload), "body=%s", data)
	return payload.Error
}

func TestListSeededTasks(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	tasks := decodeList(t, body)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Item 3", tasks[0].Name, "newest first")
	assert.True(t, bool(tasks[0].Completed))
	assert.Equal(t, "Item 1", tasks[2].Name)
}

func TestListEmptyIsArray(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestCreateRejectsInvalidName(t *testing.T) {
	ts := newTestServer(t, true)

	bodies := []any{
		map[string]any{},
		map[string]any{"name": ""},
		map[string]any{"name": "   "},
		map[string]any{"name": 42},
		map[string]any{"name": nil, "description": "no name"},
		"",
	}
	for _, b := range bodies {
		resp, body := doJSON(t, ts, http.MethodPost, "/api/items", b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body=%v", b)
		assert.Equal(t, "Item name is required", decodeErr(t, body))
	}

	_, body := doJSON(t, ts, http.MethodGet, "/api/items", nil)
	assert.Len(t, decodeList(t, body), 3, "failed creates must not change the task count")
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/items", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON body", decodeErr(t, body))
}

func TestCreateCoercesCompleted(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/items", map[string]any{"name": "numeric", "completed": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.True(t, bool(decodeTask(t, body).Completed))

	resp, body = doJSON(t, ts, http.MethodPost, "/api/items", map[string]any{"name": "text", "completed": "yes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.True(t, bool(decodeTask(t, body).Completed))

	resp, body = doJSON(t, ts, http.MethodPost, "/api/items", map[string]any{"name": "zero", "completed": 0})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.False(t, bool(decodeTask(t, body).Completed))
}

func TestCreateAssignsFreshIDs(t *testing.T) {
	ts := newTestServer(t, true)

	seen := map[int64]bool{}
	for _, name := range []string{"a", "b", "c"} {
		resp, body := doJSON(t, ts, http.MethodPost, "/api/items", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		task := decodeTask(t, body)
		assert.False(t, seen[task.ID], "id %d reused", task.ID)
		assert.False(t, task.CreatedAt.IsZero())
		seen[task.ID] = true
	}
}

func TestInvalidIDs(t *testing.T) {
	ts := newTestServer(t, true)

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodGet} {
		for _, id := range []string{"abc", "0", "-1"} {
			resp, body := doJSON(t, ts, method, "/api/items/"+id, map[string]any{"completed": true})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", method, id)
			assert.Equal(t, "Valid item ID is required", decodeErr(t, body))
		}
	}
}

func TestMissingIDs(t *testing.T) {
	ts := newTestServer(t, true)

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodGet} {
		resp, body := doJSON(t, ts, method, "/api/items/999999", map[string]any{"completed": 1})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
		assert.Equal(t, "Item not found", decodeErr(t, body))
	}
}

func TestUpdateRejectsBlankName(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := doJSON(t, ts, http.MethodPut, "/api/items/1", map[string]any{"name": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Item name is required", decodeErr(t, body))

	_, body = doJSON(t, ts, http.MethodGet, "/api/items/1", nil)
	assert.Equal(t, "Item 1", decodeTask(t, body).Name)
}

func TestUpdateNullLeavesFieldUntouched(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := doJSON(t, ts, http.MethodPut, "/api/items/1", `{"due_date": null, "priority": null, "completed": 1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	task := decodeTask(t, body)
	assert.Equal(t, "2026-02-06", task.DueDateValue())
	assert.Equal(t, "high", task.Priority)
	assert.True(t, bool(task.Completed))
}

func TestListQueryOptions(t *testing.T) {
	ts := newTestServer(t, true)

	_, body := doJSON(t, ts, http.MethodGet, "/api/items?status=completed", nil)
	completed := decodeList(t, body)
	require.Len(t, completed, 1)
	assert.Equal(t, "Item 3", completed[0].Name)

	_, body = doJSON(t, ts, http.MethodGet, "/api/items?sort=priority", nil)
	byPriority := decodeList(t, body)
	require.Len(t, byPriority, 3)
	assert.Equal(t, "high", byPriority[0].Priority)
	assert.Equal(t, "medium", byPriority[1].Priority)
	assert.Equal(t, "low", byPriority[2].Priority)

	_, body = doJSON(t, ts, http.MethodGet, "/api/items?sort=due_date&status=incomplete", nil)
	byDue := decodeList(t, body)
	require.Len(t, byDue, 2)
	assert.Equal(t, "2025-12-01", byDue[0].DueDateValue())
	assert.Equal(t, "2026-02-06", byDue[1].DueDateValue())
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t, true)

	// Create
	resp, body := doJSON(t, ts, http.MethodPost, "/api/items", map[string]any{
		"name":     "Buy tickets",
		"priority": "high",
		"due_date": "2026-02-06",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	created := decodeTask(t, body)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Buy tickets", created.Name)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "2026-02-06", created.DueDateValue())
	assert.Equal(t, "", created.Description)
	assert.False(t, bool(created.Completed))
	assert.False(t, created.CreatedAt.IsZero())

	// Newest first
	resp, body = doJSON(t, ts, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decodeList(t, body)
	require.Len(t, tasks, 4)
	assert.Equal(t, created.ID, tasks[0].ID)

	// Complete
	path := "/api/items/" + jsonNumber(created.ID)
	resp, body = doJSON(t, ts, http.MethodPut, path, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	updated := decodeTask(t, body)
	assert.True(t, bool(updated.Completed))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.DueDate, updated.DueDate)
	assert.Equal(t, created.Priority, updated.Priority)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// Delete
	resp, body = doJSON(t, ts, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"message":"Item deleted successfully","id":`+jsonNumber(created.ID)+`}`, string(body))

	// Delete again
	resp, body = doJSON(t, ts, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Item not found", decodeErr(t, body))
}

func TestRequestIDAndCORS(t *testing.T) {
	ts := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/items", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("X-Request-Id", "req-123")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = doJSON(t, ts, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := doJSON(t, ts, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = doJSON(t, ts, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ready"}`, string(body))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, false)

	resp, _ := doJSON(t, ts, http.MethodPatch, "/api/items/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
