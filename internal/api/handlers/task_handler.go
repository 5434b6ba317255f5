package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/TWRT/task-tracker/internal/api/middleware"
	"github.com/TWRT/task-tracker/internal/models"
	"github.com/TWRT/task-tracker/internal/service"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("Invalid JSON body")

type TaskHandler struct {
	taskService *service.TaskService
	logger      *log.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *log.Logger) *TaskHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.taskService.List(r.Context(), service.ListOptions{
		Status: q.Get("status"),
		SortBy: q.Get("sort"),
	})
	if err != nil {
		h.fail(w, r, err, "Failed to fetch items")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Failed to fetch item")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "Failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch models.TaskPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err, "Failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fail maps service errors to responses. Anything that is not a client
// error is logged and answered with the opaque internalMsg.
func (h *TaskHandler) fail(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
	default:
		h.logger.Printf("rid=%s %s: %v", middleware.RequestIDFromContext(r.Context()), internalMsg, err)
		writeError(w, http.StatusInternalServerError, internalMsg)
	}
}

// decodeBody treats an empty body as an empty JSON object.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil || len(body) > maxBodyBytes {
		return errInvalidBody
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errInvalidBody
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
