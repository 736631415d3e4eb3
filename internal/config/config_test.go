package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yomu.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
base_url: https://example.com/app
github:
  owner: yutokawamata
  repo: TextStimulationApp
  branch: master
defaults:
  grade: grade1
  voice_mode: full-text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://example.com/app" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.GitHub.Branch != "master" {
		t.Errorf("Branch = %q", cfg.GitHub.Branch)
	}
	if cfg.Defaults.VoiceMode != "full-text" {
		t.Errorf("VoiceMode = %q", cfg.Defaults.VoiceMode)
	}
	// unset token env falls back to the default name
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %q", cfg.GitHub.TokenEnv)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GitHub.Branch != "main" {
		t.Errorf("default branch = %q", cfg.GitHub.Branch)
	}
	if cfg.Defaults.VoiceMode != "voice-on" {
		t.Errorf("default voice mode = %q", cfg.Defaults.VoiceMode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad voice mode", func(c *Config) { c.Defaults.VoiceMode = "loud" }, true},
		{"owner without repo", func(c *Config) { c.GitHub.Owner = "x"; c.GitHub.Repo = "" }, true},
		{"owner and repo", func(c *Config) { c.GitHub.Owner = "x"; c.GitHub.Repo = "y" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToken(t *testing.T) {
	cfg := Default()
	cfg.GitHub.TokenEnv = "YOMU_TEST_TOKEN"
	t.Setenv("YOMU_TEST_TOKEN", "secret")

	if got := cfg.Token(); got != "secret" {
		t.Errorf("Token = %q", got)
	}
}
