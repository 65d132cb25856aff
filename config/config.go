package config

import (
	"errors"
	"os"
)

// Config is read once at startup and passed to constructors explicitly.
type Config struct {
	// DiscordToken authenticates the gateway session. The process refuses
	// to start without it.
	DiscordToken string

	// Provider keys are optional; with neither set the ask flow degrades
	// to a fixed unavailable message.
	AnthropicAPIKey string
	CohereAPIKey    string

	// Model overrides the provider default model id.
	Model string

	// Prefix is the legacy text command prefix.
	Prefix string

	// QAChannel is the designated answer channel. Recorded for future
	// routing restriction, not enforced yet.
	QAChannel string

	LogLevel string
}

func Load() (Config, error) {
	cfg := Config{
		DiscordToken:    os.Getenv("DISCORD_TOKEN"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		CohereAPIKey:    os.Getenv("COHERE_API_KEY"),
		Model:           os.Getenv("AI_MODEL"),
		Prefix:          getenv("BOT_PREFIX", "!"),
		QAChannel:       os.Getenv("CHANNEL_BOT_QA"),
		LogLevel:        getenv("LOG_LEVEL", "INFO"),
	}
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
