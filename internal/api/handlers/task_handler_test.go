package handlers

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TWRT/task-tracker/internal/models"
	"github.com/TWRT/task-tracker/internal/service"
)

type brokenStore struct{}

var errBroken = errors.New("database is locked")

func (brokenStore) Insert(context.Context, models.NewTask) (models.Task, error) {
	return models.Task{}, errBroken
}

func (brokenStore) Get(context.Context, int64) (models.Task, error) {
	return models.Task{}, errBroken
}

func (brokenStore) List(context.Context) ([]models.Task, error) { return nil, errBroken }

func (brokenStore) Update(context.Context, int64, models.TaskPatch) (models.Task, error) {
	return models.Task{}, errBroken
}

func (brokenStore) Delete(context.Context, int64) (bool, error) { return false, errBroken }

func newBrokenMux(logs *bytes.Buffer) *http.ServeMux {
	h := NewTaskHandler(service.NewTaskService(brokenStore{}), log.New(logs, "", 0))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", h.ListTasks)
	mux.HandleFunc("POST /api/items", h.CreateTask)
	mux.HandleFunc("PUT /api/items/{id}", h.UpdateTask)
	mux.HandleFunc("DELETE /api/items/{id}", h.DeleteTask)
	return mux
}

func TestTaskHandler_StoreFailuresAreOpaque(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		want   string
	}{
		{http.MethodGet, "/api/items", "", "Failed to fetch items"},
		{http.MethodPost, "/api/items", `{"name":"x"}`, "Failed to create item"},
		{http.MethodPut, "/api/items/3", `{"completed":true}`, "Failed to update item"},
		{http.MethodDelete, "/api/items/3", "", "Failed to delete item"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var logs bytes.Buffer
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))

			newBrokenMux(&logs).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), errBroken.Error())
			assert.Contains(t, logs.String(), errBroken.Error(), "cause must be logged server side")
		})
	}
}

func TestTaskHandler_ValidationBeforeStore(t *testing.T) {
	var logs bytes.Buffer
	mux := newBrokenMux(&logs)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"name":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Item name is required"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/items/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Valid item ID is required"}`, rec.Body.String())

	assert.Empty(t, logs.String())
}
