package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all pptpro client configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Backend API configuration
	API APIConfig `yaml:"api"`

	// Local state (session file, draft cache)
	State StateConfig `yaml:"state"`

	// UI settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend HTTP API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`

	// GenerateTimeout covers the long-running AI endpoints
	// (storyline, classification, content generation, deck export).
	GenerateTimeout string `yaml:"generate_timeout"`
}

// StateConfig configures where local state lives.
type StateConfig struct {
	// Dir is the root state directory. Session and drafts live under it.
	Dir string `yaml:"dir"`

	// SessionFile overrides the session file path (default: <dir>/session.json).
	SessionFile string `yaml:"session_file"`

	// DraftDB overrides the draft cache path (default: <dir>/drafts.db).
	DraftDB string `yaml:"draft_db"`

	// DownloadDir is where exported decks are written (default: cwd).
	DownloadDir string `yaml:"download_dir"`
}

// UIConfig configures the TUI.
type UIConfig struct {
	Theme string `yaml:"theme"` // light, dark, auto
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultStateDir returns the default state directory (~/.pptpro).
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pptpro"
	}
	return filepath.Join(home, ".pptpro")
}

// DefaultConfigPath returns the default path to the config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultStateDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	stateDir := DefaultStateDir()
	return &Config{
		Name:    "pptpro",
		Version: "0.3.0",

		API: APIConfig{
			BaseURL:         "http://localhost:8000/api",
			Timeout:         "30s",
			GenerateTimeout: "180s",
		},

		State: StateConfig{
			Dir: stateDir,
		},

		UI: UIConfig{
			Theme: "auto",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(stateDir, "pptpro.log"),
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("PPTPRO_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if dir := os.Getenv("PPTPRO_STATE_DIR"); dir != "" {
		c.State.Dir = dir
	}
	if theme := os.Getenv("PPTPRO_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if dir := os.Getenv("PPTPRO_DOWNLOAD_DIR"); dir != "" {
		c.State.DownloadDir = dir
	}
}

// SessionPath returns the resolved session file path.
func (c *Config) SessionPath() string {
	if c.State.SessionFile != "" {
		return c.State.SessionFile
	}
	return filepath.Join(c.State.Dir, "session.json")
}

// DraftDBPath returns the resolved draft cache path.
func (c *Config) DraftDBPath() string {
	if c.State.DraftDB != "" {
		return c.State.DraftDB
	}
	return filepath.Join(c.State.Dir, "drafts.db")
}

// GetAPITimeout returns the API timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetGenerateTimeout returns the AI-endpoint timeout as a duration.
func (c *Config) GetGenerateTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.GenerateTimeout)
	if err != nil {
		return 180 * time.Second
	}
	return d
}

// ValidThemes lists the supported UI themes.
var ValidThemes = []string{"light", "dark", "auto"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL not configured (set api.base_url or PPTPRO_API_URL)")
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	return nil
}
