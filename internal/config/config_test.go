package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CAPTIONIT_ADDR", "")
	t.Setenv("CAPTIONIT_TRACK_LANGUAGE", "")
	t.Setenv("CAPTIONIT_TRACK_LABEL", "")

	cfg := FromEnv()
	if cfg.Addr != DefaultAddr {
		t.Errorf("expected addr %q, got %q", DefaultAddr, cfg.Addr)
	}
	if cfg.TrackLanguage != "en" || cfg.TrackLabel != "English" {
		t.Errorf("unexpected track defaults: %q %q", cfg.TrackLanguage, cfg.TrackLabel)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CAPTIONIT_ADDR=:9999\nCAPTIONIT_TRACK_LABEL=Deutsch\nOPENAI_API_KEY=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	// already set variables win over the file
	t.Setenv("OPENAI_API_KEY", "from-env")
	// registered so the values loaded from the file are cleaned up
	t.Setenv("CAPTIONIT_ADDR", "")
	t.Setenv("CAPTIONIT_TRACK_LABEL", "")
	os.Unsetenv("CAPTIONIT_ADDR")
	os.Unsetenv("CAPTIONIT_TRACK_LABEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("expected addr from file, got %q", cfg.Addr)
	}
	if cfg.TrackLabel != "Deutsch" {
		t.Errorf("expected label from file, got %q", cfg.TrackLabel)
	}
	if cfg.OpenAIAPIKey != "from-env" {
		t.Errorf("expected env to win, got %q", cfg.OpenAIAPIKey)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing dotenv file should be ignored, got %v", err)
	}
}

func TestAPIKey(t *testing.T) {
	cfg := Config{GeminiAPIKey: "g", OpenAIAPIKey: "o", AnthropicAPIKey: "a"}

	tests := []struct {
		provider, key, env string
	}{
		{"gemini", "g", "GEMINI_API_KEY"},
		{"openai", "o", "OPENAI_API_KEY"},
		{"anthropic", "a", "ANTHROPIC_API_KEY"},
		{"other", "", "API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			key, env := cfg.APIKey(tt.provider)
			if key != tt.key || env != tt.env {
				t.Errorf("APIKey(%q) = %q, %q", tt.provider, key, env)
			}
		})
	}
}
