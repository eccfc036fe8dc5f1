package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr          = ":8080"
	DefaultTrackLanguage = "en"
	DefaultTrackLabel    = "English"
)

// Config holds settings read from the environment. Flags override them.
type Config struct {
	Addr          string
	TrackLanguage string
	TrackLabel    string

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// Load reads the optional dotenv files (".env" when none are given) into the
// process environment without overriding variables that are already set,
// then builds a Config from it.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		Addr:            getenv("CAPTIONIT_ADDR", DefaultAddr),
		TrackLanguage:   getenv("CAPTIONIT_TRACK_LANGUAGE", DefaultTrackLanguage),
		TrackLabel:      getenv("CAPTIONIT_TRACK_LABEL", DefaultTrackLabel),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// APIKey returns the key configured for a translation provider.
func (c Config) APIKey(provider string) (key, envVar string) {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey, "GEMINI_API_KEY"
	case "openai":
		return c.OpenAIAPIKey, "OPENAI_API_KEY"
	case "anthropic":
		return c.AnthropicAPIKey, "ANTHROPIC_API_KEY"
	default:
		return "", "API_KEY"
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
