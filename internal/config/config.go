package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// History feed
	HistorySource string
	HistoryFile   string
	FetchTimeout  time.Duration
	RefreshEvery  time.Duration
	WatchHistory  bool
	QuestionTTL   time.Duration

	// Paging
	PageSizeOptions []int
	DefaultPageSize int

	// Redis (optional)
	RedisURL string

	// Admin JWT (optional)
	AdminJWTSecret string

	// Frontend
	FrontendURL string

	LogLevel string
}

var defaultPageSizes = []int{10, 20, 50}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	options := getEnvAsIntListOrDefault("PAGE_SIZE_OPTIONS", defaultPageSizes)

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		HistorySource:   getEnvOrDefault("HISTORY_SOURCE", "./docs"),
		HistoryFile:     getEnvOrDefault("HISTORY_FILE", "history.json"),
		FetchTimeout:    time.Duration(getEnvAsIntOrDefault("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		RefreshEvery:    time.Duration(getEnvAsIntOrDefault("REFRESH_INTERVAL_SECONDS", 0)) * time.Second,
		WatchHistory:    getEnvAsBoolOrDefault("WATCH_HISTORY", true),
		QuestionTTL:     time.Duration(getEnvAsIntOrDefault("QUESTION_CACHE_TTL_MINUTES", 60)) * time.Minute,
		PageSizeOptions: options,
		DefaultPageSize: pickDefaultPageSize(getEnvAsIntOrDefault("DEFAULT_PAGE_SIZE", 10), options),
		RedisURL:        getEnvOrDefault("REDIS_URL", ""),
		AdminJWTSecret:  getEnvOrDefault("ADMIN_JWT_SECRET", ""),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvAsIntListOrDefault parses a comma separated list of positive
// integers. Any bad entry falls back to the default list.
func getEnvAsIntListOrDefault(key string, defaultVal []int) []int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	var out []int
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return defaultVal
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func pickDefaultPageSize(size int, options []int) int {
	for _, opt := range options {
		if opt == size {
			return size
		}
	}
	return options[0]
}
