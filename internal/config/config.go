package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "nutriplan"
	configFileName = "config.yaml"
	dbFileName     = "nutriplan.db"
)

// Config holds all nutriplan configuration.
type Config struct {
	// LLM configuration (plan generation gateway)
	LLM LLMConfig `yaml:"llm"`

	// Durable storage for saved plans and progress entries
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`
}

// LLMConfig configures the Gemini gateway.
type LLMConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
	Language string `yaml:"language"` // language the plan is written in
}

// StorageConfig configures the key-value store.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite (modernc, pure Go) or sqlite3 (mattn, cgo)
	Path   string `yaml:"path"`
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"` // Master toggle - false = no logging
	Level      string          `yaml:"level"`      // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	DarkMode bool `yaml:"dark_mode"`
}

// ValidDrivers lists the supported database/sql driver names.
var ValidDrivers = []string{"sqlite", "sqlite3"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:    "gemini-3-flash-preview",
			Timeout:  "120s",
			Language: "English",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DataDir returns the per-user directory holding the database and logs.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; env overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GEMINI_API_KEY wins over GOOGLE_API_KEY, matching the genai SDK
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("NUTRIPLAN_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if path := os.Getenv("NUTRIPLAN_DB"); path != "" {
		c.Storage.Path = path
	}
	if v := os.Getenv("NUTRIPLAN_DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// DatabasePath returns the configured database path, falling back to the data dir.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// Validate validates the configuration that does not depend on the run mode.
func (c *Config) Validate() error {
	valid := false
	for _, d := range ValidDrivers {
		if c.Storage.Driver == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers)
	}
	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
	}
	return nil
}

// RequireAPIKey reports a helpful error when no Gemini key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("Gemini API key not configured (set GEMINI_API_KEY or llm.api_key, or run with --offline)")
	}
	return nil
}
