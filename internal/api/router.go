package api

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/TWRT/task-tracker/internal/api/handlers"
	"github.com/TWRT/task-tracker/internal/api/middleware"
	"github.com/TWRT/task-tracker/internal/repository"
	"github.com/TWRT/task-tracker/internal/service"
)

type RouterOptions struct {
	Logger         *log.Logger
	AllowedOrigins []string
}

func SetupRouter(db *sql.DB, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo)

	taskHandler := handlers.NewTaskHandler(taskService, opts.Logger)
	healthHandler := handlers.NewHealthHandler(taskRepo)

	mux.HandleFunc("GET /api/items", taskHandler.ListTasks)
	mux.HandleFunc("POST /api/items", taskHandler.CreateTask)
	mux.HandleFunc("GET /api/items/{id}", taskHandler.GetTask)
	mux.HandleFunc("PUT /api/items/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("DELETE /api/items/{id}", taskHandler.DeleteTask)

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(opts.Logger),
		middleware.CORS(origins),
	)
}
