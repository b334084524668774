// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Port      string
	CallsFile string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	ModelTimeout     time.Duration
	ModelMaxRetries  int

	CacheBackend   string
	ServerCacheTTL time.Duration
	// ClientCacheMaxAge is advertised in Cache-Control and is independent of
	// ServerCacheTTL.
	ClientCacheMaxAge int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RabbitMQURL enables exchange auditing when set.
	RabbitMQURL string
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] could not load .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:              envOrDefault("PORT", ":8000"),
		CallsFile:         envOrDefault("CALLS_FILE", "calls.json"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    envOrDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		AnthropicBaseURL:  os.Getenv("ANTHROPIC_BASE_URL"),
		ModelTimeout:      time.Duration(envIntOrDefault("MODEL_TIMEOUT_SECONDS", 60)) * time.Second,
		ModelMaxRetries:   envIntOrDefault("MODEL_MAX_RETRIES", 2),
		CacheBackend:      envOrDefault("CACHE_BACKEND", CacheBackendMemory),
		ServerCacheTTL:    time.Duration(envIntOrDefault("SERVER_CACHE_TTL_SECONDS", 60)) * time.Second,
		ClientCacheMaxAge: envIntOrDefault("CLIENT_CACHE_MAX_AGE_SECONDS", 60),
		RedisAddr:         envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envIntOrDefault("REDIS_DB", 0),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
	}

	if cfg.AnthropicAPIKey == "" {
		return Config{}, fmt.Errorf("ANTHROPIC_API_KEY is required in environment")
	}
	if cfg.CacheBackend != CacheBackendMemory && cfg.CacheBackend != CacheBackendRedis {
		return Config{}, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, cfg.CacheBackend)
	}
	if cfg.ServerCacheTTL <= 0 {
		return Config{}, fmt.Errorf("SERVER_CACHE_TTL_SECONDS must be positive")
	}
	if cfg.ClientCacheMaxAge < 0 {
		return Config{}, fmt.Errorf("CLIENT_CACHE_MAX_AGE_SECONDS must not be negative")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}
