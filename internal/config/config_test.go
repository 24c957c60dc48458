package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALTREC_GEMINI_API_KEY", "k-primary")
	t.Setenv("ALTREC_LOOKUP_API_KEY", "k-lookup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.MaxAttempts != 3 || cfg.Gemini.BaseDelay != 2*time.Second {
		t.Errorf("retry defaults = %d/%v", cfg.Gemini.MaxAttempts, cfg.Gemini.BaseDelay)
	}
	if cfg.Pipeline.SearchTimeout != 12*time.Second {
		t.Errorf("SearchTimeout = %v", cfg.Pipeline.SearchTimeout)
	}
	if got := cfg.Gemini.Keys(); len(got) != 1 || got[0] != "k-primary" {
		t.Errorf("Keys = %v", got)
	}
}

func TestLoadBackupKeys(t *testing.T) {
	t.Setenv("ALTREC_GEMINI_API_KEY", "k1")
	t.Setenv("ALTREC_GEMINI_BACKUP_API_KEYS", "k2, k3,")
	t.Setenv("ALTREC_LOOKUP_API_KEY", "k-lookup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	keys := cfg.Gemini.Keys()
	if len(keys) != 3 || keys[1] != "k2" || keys[2] != "k3" {
		t.Errorf("Keys = %v, want [k1 k2 k3]", keys)
	}
}

func TestLoadMissingGeminiKey(t *testing.T) {
	t.Setenv("ALTREC_GEMINI_API_KEY", "")
	t.Setenv("ALTREC_LOOKUP_API_KEY", "k-lookup")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing Gemini key")
	}
}

func TestLoadMissingLookupKey(t *testing.T) {
	t.Setenv("ALTREC_GEMINI_API_KEY", "k1")
	t.Setenv("ALTREC_LOOKUP_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing lookup key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALTREC_GEMINI_API_KEY", "k1")
	t.Setenv("ALTREC_LOOKUP_API_KEY", "k-lookup")
	t.Setenv("ALTREC_SERVER_PORT", "9090")
	t.Setenv("ALTREC_PIPELINE_SEARCH_TIMEOUT", "5s")
	t.Setenv("ALTREC_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Pipeline.SearchTimeout != 5*time.Second {
		t.Errorf("SearchTimeout = %v", cfg.Pipeline.SearchTimeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}
