package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultTokenEnv = "GITHUB_TOKEN"

// where catalog writes go
type GitHub struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Branch   string `yaml:"branch"`
	TokenEnv string `yaml:"token_env"`
}

// per-user defaults for the read command
type Defaults struct {
	Grade     string `yaml:"grade"`
	VoiceMode string `yaml:"voice_mode"`
}

// Config is the application configuration, read from yomu.yaml.
type Config struct {
	BaseURL  string   `yaml:"base_url"`
	GitHub   GitHub   `yaml:"github"`
	Defaults Defaults `yaml:"defaults"`
}

func Default() *Config {
	return &Config{
		GitHub:   GitHub{Branch: "main", TokenEnv: defaultTokenEnv},
		Defaults: Defaults{VoiceMode: "voice-on"},
	}
}

// Load reads and validates a config file. A missing path returns defaults
// so read-only use works without any configuration beyond --base-url.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Defaults.VoiceMode {
	case "", "voice-on", "voice-off", "full-text":
	default:
		return fmt.Errorf("unknown voice mode %q", c.Defaults.VoiceMode)
	}
	if (c.GitHub.Owner == "") != (c.GitHub.Repo == "") {
		return errors.New("github owner and repo must be set together")
	}
	return nil
}

// Token resolves the GitHub token from the configured environment variable.
func (c *Config) Token() string {
	env := c.GitHub.TokenEnv
	if env == "" {
		env = defaultTokenEnv
	}
	return os.Getenv(env)
}

// DefaultPath is the config location next to the user config directory,
// falling back to the working directory.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "yomu", "yomu.yaml")
	}
	return "yomu.yaml"
}
