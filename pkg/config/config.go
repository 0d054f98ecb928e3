package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultModelID is the Claude model used when CLAUDE_MODEL_ID is unset
	DefaultModelID = "anthropic.claude-3-sonnet-20240229-v1:0"

	// DefaultCharacterConfig is the system prompt used when CHARACTER_CONFIG is unset
	DefaultCharacterConfig = "You are an excellent AI assistant who answers the user's questions."

	// DefaultThinkingText is posted while the model is working
	DefaultThinkingText = "Loading"
)

// Config holds application configuration loaded from environment variables.
// It is loaded once per cold start and passed by value.
type Config struct {
	// AWS
	AWSRegion string

	// Slack
	SlackBotToken      string
	SlackSigningSecret string

	// Bedrock
	ModelID         string
	CharacterConfig string

	// Thinking indicator
	ThinkingText            string
	ThinkingIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	cfg := Config{
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		SlackBotToken:           getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret:      getEnv("SLACK_SIGNING_SECRET", ""),
		ModelID:                 getEnv("CLAUDE_MODEL_ID", DefaultModelID),
		CharacterConfig:         getEnv("CHARACTER_CONFIG", DefaultCharacterConfig),
		ThinkingText:            getEnv("CHARACTER_THINKING_TEXT", DefaultThinkingText),
		ThinkingIntervalSeconds: getEnvInt("THINKING_INTERVAL_SECONDS", 2),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present
func (c Config) Validate() error {
	if c.SlackBotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if c.SlackSigningSecret == "" {
		return fmt.Errorf("SLACK_SIGNING_SECRET is required")
	}
	if c.ModelID == "" {
		return fmt.Errorf("CLAUDE_MODEL_ID must not be empty")
	}
	if c.ThinkingIntervalSeconds <= 0 {
		return fmt.Errorf("THINKING_INTERVAL_SECONDS must be positive, got %d", c.ThinkingIntervalSeconds)
	}
	return nil
}

// GetThinkingInterval returns how often the placeholder message is refreshed
func (c Config) GetThinkingInterval() time.Duration {
	return time.Duration(c.ThinkingIntervalSeconds) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
