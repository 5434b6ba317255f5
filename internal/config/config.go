package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBDriver        string
	DBPath          string
	SeedSampleData  bool
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Load reads the given .env files (defaulting to ./.env) and then the
// process environment. Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", ":memory:"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	seed, err := strconv.ParseBool(getEnv("SEED_SAMPLE_DATA", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("SEED_SAMPLE_DATA: %w", err)
	}
	cfg.SeedSampleData = seed

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return Config{}, fmt.Errorf("PORT must be a number, got %q", cfg.Port)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// APIURL returns the base URL the CLI talks to.
func APIURL() string {
	return strings.TrimRight(getEnv("TASKS_API_URL", "http://localhost:8080"), "/")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
