package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	CatalogSourceFile   = "file"
	CatalogSourceSQLite = "sqlite"
)

// Render providers.
const (
	RenderProviderPollinations = "pollinations"
	RenderProviderOpenAI       = "openai"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Profiles ProfilesConfig `yaml:"profiles"`
	Engine   EngineConfig   `yaml:"engine"`
	Weather  WeatherConfig  `yaml:"weather"`
	Render   RenderConfig   `yaml:"render"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	// RequestsPerMinute is the per-IP limit on recommend and render; 0 disables it.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig selects where the catalog snapshot is loaded from.
type CatalogConfig struct {
	Source         string   `yaml:"source"`
	Path           string   `yaml:"path"`
	ReloadInterval Duration `yaml:"reload_interval"`
}

// ProfilesConfig points at an optional profile table; empty uses the built-ins.
type ProfilesConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig holds request defaults applied at the HTTP boundary.
type EngineConfig struct {
	DefaultMode       string `yaml:"default_mode"`
	DefaultMaxResults int    `yaml:"default_max_results"`
}

// WeatherConfig contains weather provider settings.
type WeatherConfig struct {
	APIKey            string   `yaml:"-"` // env-only, never in YAML
	BaseURL           string   `yaml:"base_url"`
	Timeout           Duration `yaml:"timeout"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
}

// RenderConfig contains image renderer settings.
type RenderConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"` // env-only, never in YAML
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("ATTIRE_CONFIG_PATH", "config/attire.yaml")

	// Missing file is not an error
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadLocal loads configuration for offline commands that never serve HTTP.
// Structural checks still apply; API keys are not required.
func LoadLocal() (*Config, error) {
	cfg := newDefaults()

	if err := loadYAMLFile(cfg, getEnv("ATTIRE_CONFIG_PATH", "config/attire.yaml")); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validateStructure(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			ReadTimeout:       Duration(30 * time.Second),
			WriteTimeout:      Duration(30 * time.Second),
			ShutdownTimeout:   Duration(15 * time.Second),
			RequestsPerMinute: 120,
		},
		Database: DatabaseConfig{
			Path: "data/attire.db",
		},
		Catalog: CatalogConfig{
			Source: CatalogSourceFile,
			Path:   "data/catalog.yaml",
		},
		Engine: EngineConfig{
			DefaultMode:       "hybrid",
			DefaultMaxResults: 5,
		},
		Weather: WeatherConfig{
			BaseURL:           "https://api.openweathermap.org/data/2.5/weather",
			Timeout:           Duration(5 * time.Second),
			RequestsPerMinute: 60,
		},
		Render: RenderConfig{
			Provider: RenderProviderPollinations,
			Model:    "dall-e-3",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("ATTIRE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ATTIRE_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("ATTIRE_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("ATTIRE_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}
	if v := os.Getenv("ATTIRE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RequestsPerMinute = n
		}
	}

	// Database
	if v := os.Getenv("ATTIRE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Catalog
	if v := os.Getenv("ATTIRE_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("ATTIRE_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("ATTIRE_CATALOG_RELOAD_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.ReloadInterval = Duration(d)
		}
	}

	// Profiles
	if v := os.Getenv("ATTIRE_PROFILES_PATH"); v != "" {
		cfg.Profiles.Path = v
	}

	// Engine
	if v := os.Getenv("ATTIRE_DEFAULT_MODE"); v != "" {
		cfg.Engine.DefaultMode = v
	}
	if v := os.Getenv("ATTIRE_DEFAULT_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.DefaultMaxResults = n
		}
	}

	// Weather (OPENWEATHER_API_KEY is the provider's convention)
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("ATTIRE_WEATHER_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}

	// Render (OPENAI_API_KEY is industry convention)
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Render.APIKey = v
	}
	if v := os.Getenv("ATTIRE_RENDER_PROVIDER"); v != "" {
		cfg.Render.Provider = v
	}
	if v := os.Getenv("ATTIRE_RENDER_MODEL"); v != "" {
		cfg.Render.Model = v
	}

	// Auth
	if v := os.Getenv("ATTIRE_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}

	// Log
	if v := os.Getenv("ATTIRE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ATTIRE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks configuration values.
// In dev mode (ATTIRE_DEV_MODE=true), the API key requirement is skipped.
func (c *Config) validate() error {
	if err := c.validateStructure(); err != nil {
		return err
	}

	// Dev mode bypasses API key validation
	if os.Getenv("ATTIRE_DEV_MODE") == "true" {
		return nil
	}

	if c.Render.Provider == RenderProviderOpenAI && c.Render.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required for the openai render provider")
	}
	if c.Auth.APIKey == "" {
		return errors.New("ATTIRE_API_KEY is required")
	}
	return nil
}

func (c *Config) validateStructure() error {
	if !slices.Contains([]string{CatalogSourceFile, CatalogSourceSQLite}, c.Catalog.Source) {
		return fmt.Errorf("catalog.source must be %q or %q, got %q", CatalogSourceFile, CatalogSourceSQLite, c.Catalog.Source)
	}
	if c.Catalog.Source == CatalogSourceFile && c.Catalog.Path == "" {
		return errors.New("catalog.path is required for the file source")
	}
	if c.Catalog.ReloadInterval < 0 {
		return errors.New("catalog.reload_interval must not be negative")
	}
	if !slices.Contains([]string{"hybrid", "catalog_retrieval", "generative"}, c.Engine.DefaultMode) {
		return fmt.Errorf("engine.default_mode %q is not a recommendation mode", c.Engine.DefaultMode)
	}
	if c.Engine.DefaultMaxResults < 1 || c.Engine.DefaultMaxResults > 50 {
		return fmt.Errorf("engine.default_max_results must be between 1 and 50, got %d", c.Engine.DefaultMaxResults)
	}
	if !slices.Contains([]string{RenderProviderPollinations, RenderProviderOpenAI}, c.Render.Provider) {
		return fmt.Errorf("render.provider must be %q or %q, got %q", RenderProviderPollinations, RenderProviderOpenAI, c.Render.Provider)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
