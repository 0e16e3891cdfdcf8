package bootstrap

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.OllamaHistory != 20 {
		t.Errorf("OllamaHistory = %d, want 20", cfg.OllamaHistory)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_HISTORY_LIMIT", "8")
	t.Setenv("LANGUAGE", "en")

	cfg := LoadConfig()
	if cfg.OllamaHistory != 8 {
		t.Errorf("OllamaHistory = %d, want 8", cfg.OllamaHistory)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Language)
	}
}

func TestLoadConfig_BadIntFallsBack(t *testing.T) {
	t.Setenv("OLLAMA_HISTORY_LIMIT", "viele")

	if cfg := LoadConfig(); cfg.OllamaHistory != 20 {
		t.Errorf("OllamaHistory = %d, want default 20", cfg.OllamaHistory)
	}
}
