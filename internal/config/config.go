package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTP HTTPConfig
	Log  LogConfig
}

type HTTPConfig struct {
	ClientTimeout time.Duration
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	return &Config{
		HTTP: HTTPConfig{
			ClientTimeout: mustDuration("HTTP_TIMEOUT", 120*time.Second),
		},
		Log: LogConfig{
			Level: strings.ToLower(mustEnv("LOG_LEVEL", "info")),
		},
	}
}

func mustEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func mustDuration(key string, fallback time.Duration) time.Duration {
	raw := mustEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
