package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// NATS configuration
	NatsURL         string
	NatsTurnSubject string
	NatsTimeout     time.Duration

	// State store configuration
	RedisURL   string
	SessionTTL time.Duration

	// Pantry (household-data service) configuration
	PantryBaseURL string
	PantryAPIKey  string
	PantryTimeout time.Duration

	// LLM extractor configuration
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicTimeout time.Duration

	// Dialogue configuration
	TurnDeadline   time.Duration
	UndoWindow     time.Duration
	ResumeWindow   time.Duration
	MaxPinAttempts int

	// Service configuration
	ServiceName string
}

func Load() *Config {
	return &Config{
		// NATS settings
		NatsURL:         getEnv("NATS_URL", "nats://localhost:4222"),
		NatsTurnSubject: getEnv("NATS_TURN_SUBJECT", "kitchen.turn"),
		NatsTimeout:     getDurationEnv("NATS_TIMEOUT", 30*time.Second),

		// State store settings
		RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),

		// Pantry settings
		PantryBaseURL: getEnv("PANTRY_BASE_URL", "https://localhost:8443"),
		PantryAPIKey:  getEnv("PANTRY_API_KEY", ""),
		PantryTimeout: getDurationEnv("PANTRY_TIMEOUT", 5*time.Second),

		// Anthropic settings
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		AnthropicTimeout: getDurationEnv("ANTHROPIC_TIMEOUT", 6*time.Second),

		// Dialogue settings. The turn deadline stays below the
		// platform's budget so there is margin for response assembly.
		TurnDeadline:   getDurationEnv("TURN_DEADLINE", 7*time.Second),
		UndoWindow:     getDurationEnv("UNDO_WINDOW", 60*time.Second),
		ResumeWindow:   getDurationEnv("RESUME_WINDOW", 24*time.Hour),
		MaxPinAttempts: getIntEnv("MAX_PIN_ATTEMPTS", 3),

		// Service settings
		ServiceName: getEnv("SERVICE_NAME", "our-kitchen-turns"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
