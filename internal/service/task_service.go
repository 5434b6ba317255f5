package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/TWRT/task-tracker/internal/models"
	"github.com/TWRT/task-tracker/internal/repository"
	"github.com/TWRT/task-tracker/internal/view"
)

const deletedMessage = "Item deleted successfully"

type TaskStore interface {
	Insert(ctx context.Context, task models.NewTask) (models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// ListOptions narrows and orders the result of List. The zero value keeps
// the store order (newest first) and every task.
type ListOptions struct {
	Status string
	SortBy string
}

func (s *TaskService) List(ctx context.Context, opts ListOptions) ([]models.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if opts.Status != "" {
		tasks = view.FilterTasksByStatus(tasks, opts.Status)
	}
	if opts.SortBy != "" {
		tasks = view.SortTasks(tasks, opts.SortBy)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, rawID string) (models.Task, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return models.Task{}, err
	}
	return s.find(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, input models.TaskInput) (models.Task, error) {
	if !view.IsValidTaskName(input.Name) {
		return models.Task{}, ErrNameRequired
	}

	task := models.NewTask{
		Name:     input.Name.(string),
		Priority: models.DefaultPriority,
		DueDate:  input.DueDate,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Completed != nil {
		task.Completed = bool(*input.Completed)
	}

	created, err := s.store.Insert(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// Update applies only the supplied fields. The task must exist before any
// write is attempted.
func (s *TaskService) Update(ctx context.Context, rawID string, patch models.TaskPatch) (models.Task, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return models.Task{}, err
	}

	if patch.Name != nil && !view.IsValidTaskName(*patch.Name) {
		return models.Task{}, ErrNameRequired
	}

	if _, err := s.find(ctx, id); err != nil {
		return models.Task{}, err
	}

	updated, err := s.store.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the task. Deleting an id that is already gone is
// ErrNotFound, not a no-op.
func (s *TaskService) Delete(ctx context.Context, rawID string) (models.DeleteResult, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return models.DeleteResult{}, err
	}

	if _, err := s.find(ctx, id); err != nil {
		return models.DeleteResult{}, err
	}

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete task %d: %w", id, err)
	}
	if !removed {
		return models.DeleteResult{}, ErrNotFound
	}

	return models.DeleteResult{Message: deletedMessage, ID: id}, nil
}

func (s *TaskService) find(ctx context.Context, id int64) (models.Task, error) {
	task, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// ParseID accepts positive base-10 integers only.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
