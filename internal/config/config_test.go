package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toxicheck.yaml")
	cfg := Default()
	cfg.Provider.MaxPosts = 25
	cfg.Classify.Model = "gemini-2.0-flash"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Provider.MaxPosts != 25 {
		t.Fatalf("maxPosts = %d, want 25", got.Provider.MaxPosts)
	}
	if got.Classify.Model != "gemini-2.0-flash" {
		t.Fatalf("model = %q", got.Classify.Model)
	}
	if got.Cache.TTLHours != 24 {
		t.Fatalf("ttlHours = %d, want 24", got.Cache.TTLHours)
	}
}

func TestResolveEnvFillsCredentials(t *testing.T) {
	t.Setenv("EXA_API_KEY", "exa-test")
	t.Setenv("GEMINI_API_KEY", "gem-test")
	cfg := Default()
	cfg.ResolveEnv()
	if cfg.Credentials.ExaAPIKey != "exa-test" || cfg.Credentials.GeminiAPIKey != "gem-test" {
		t.Fatalf("env not resolved: %+v", cfg.Credentials)
	}
}

func TestResolveEnvKeepsExplicitValues(t *testing.T) {
	t.Setenv("EXA_API_KEY", "from-env")
	cfg := Default()
	cfg.Credentials.ExaAPIKey = "from-file"
	cfg.ResolveEnv()
	if cfg.Credentials.ExaAPIKey != "from-file" {
		t.Fatalf("explicit key overwritten: %q", cfg.Credentials.ExaAPIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
