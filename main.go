package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TWRT/task-tracker/internal/api"
	"github.com/TWRT/task-tracker/internal/config"
	"github.com/TWRT/task-tracker/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.InitDB(rootCtx, cfg.DBDriver, cfg.DBPath, cfg.SeedSampleData)
	if err != nil {
		log.Fatal("Error initializing database: ", err)
	}
	defer db.Close()

	logger.Printf("database ready driver=%s path=%s", cfg.DBDriver, cfg.DBPath)

	router := api.SetupRouter(db, api.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("listening on http://localhost%s", srv.Addr)
		logger.Printf("endpoints: GET/POST /api/items, GET/PUT/DELETE /api/items/{id}")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	<-rootCtx.Done()
	logger.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown error: %v", err)
	}
	logger.Printf("bye")
}
