package client

import (
	"context"

	"github.com/TWRT/task-tracker/internal/models"
)

type TaskClient interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, input models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) (*models.DeleteResult, error)
}
