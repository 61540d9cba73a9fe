package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Auth     AuthConfig     `yaml:"auth"`
	Reset    ResetConfig    `yaml:"reset"`
	Mail     MailConfig     `yaml:"mail"`
	Worker   WorkerConfig   `yaml:"worker"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig contains login session settings.
type SessionConfig struct {
	Secret       string   `yaml:"-"` // env-only, never in YAML
	TTL          Duration `yaml:"ttl"`
	CookieName   string   `yaml:"cookie_name"`
	SecureCookie bool     `yaml:"secure_cookie"`
}

// AuthConfig contains appointment API authentication settings.
// An empty APIKey leaves the appointment API open.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// ResetConfig contains password-reset settings.
type ResetConfig struct {
	CodeTTL Duration `yaml:"code_ttl"`
}

// Mail delivery modes.
const (
	MailModeLog = "log"
	MailModeSES = "ses"
)

// MailConfig selects how reset codes are delivered.
type MailConfig struct {
	Mode   string `yaml:"mode"`
	From   string `yaml:"from"`
	Region string `yaml:"region"`
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	SweepInterval Duration `yaml:"sweep_interval"`
}

// CORSConfig contains cross-origin settings for /api routes.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// devSessionSecret signs sessions in dev mode when no secret is set.
const devSessionSecret = "ayurcare-dev-session-secret"

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
	cfg, err := loadUnvalidated()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDevDefaults()

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
	cfg.applyDevDefaults()

	return cfg, nil
}

// LoadDatabaseConfig resolves only the database settings. CLI commands that
// open the store directly use it so they do not need server secrets.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	cfg, err := loadUnvalidated()
	if err != nil {
		return nil, err
	}
	return &cfg.Database, nil
}

func loadUnvalidated() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("AYURCARE_CONFIG_PATH", "config/ayurcare.yaml")

	// Missing file is not an error
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/ayurcare.db",
		},
		Session: SessionConfig{
			TTL:        Duration(24 * time.Hour),
			CookieName: "ayurcare_session",
		},
		Reset: ResetConfig{
			CodeTTL: Duration(15 * time.Minute),
		},
		Mail: MailConfig{
			Mode: MailModeLog,
		},
		Worker: WorkerConfig{
			SweepInterval: Duration(10 * time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
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
	// Server (PORT is the platform convention; AYURCARE_PORT wins)
	if v := getEnv("AYURCARE_PORT", os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	setDuration("AYURCARE_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("AYURCARE_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("AYURCARE_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Database
	if v := os.Getenv("AYURCARE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Session
	if v := os.Getenv("AYURCARE_SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	setDuration("AYURCARE_SESSION_TTL", &cfg.Session.TTL)
	if v := os.Getenv("AYURCARE_SESSION_COOKIE"); v != "" {
		cfg.Session.CookieName = v
	}
	if v := os.Getenv("AYURCARE_SECURE_COOKIE"); v != "" {
		cfg.Session.SecureCookie = v == "true" || v == "1"
	}

	// Auth
	if v := os.Getenv("AYURCARE_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}

	// Reset
	setDuration("AYURCARE_RESET_CODE_TTL", &cfg.Reset.CodeTTL)

	// Mail (AWS_REGION is the SDK convention)
	if v := os.Getenv("AYURCARE_MAIL_MODE"); v != "" {
		cfg.Mail.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("AYURCARE_MAIL_FROM"); v != "" {
		cfg.Mail.From = v
	}
	if v := getEnv("AYURCARE_MAIL_REGION", os.Getenv("AWS_REGION")); v != "" {
		cfg.Mail.Region = v
	}

	// Worker
	setDuration("AYURCARE_SWEEP_INTERVAL", &cfg.Worker.SweepInterval)

	// CORS
	if v := os.Getenv("AYURCARE_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}

	// Log
	if v := os.Getenv("AYURCARE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AYURCARE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDuration(key string, dst *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

// IsDevMode reports whether AYURCARE_DEV_MODE=true.
func IsDevMode() bool {
	return os.Getenv("AYURCARE_DEV_MODE") == "true"
}

// validate checks that configuration values are usable.
// In dev mode the session secret may be omitted.
func (c *Config) validate() error {
	switch c.Mail.Mode {
	case MailModeLog:
	case MailModeSES:
		if c.Mail.From == "" {
			return errors.New("AYURCARE_MAIL_FROM is required when mail mode is ses")
		}
	default:
		return fmt.Errorf("unknown mail mode %q (want %s or %s)", c.Mail.Mode, MailModeLog, MailModeSES)
	}

	if time.Duration(c.Worker.SweepInterval) <= 0 {
		return errors.New("worker sweep_interval must be positive")
	}
	if time.Duration(c.Session.TTL) <= 0 {
		return errors.New("session ttl must be positive")
	}

	if IsDevMode() {
		return nil
	}
	if c.Session.Secret == "" {
		return errors.New("AYURCARE_SESSION_SECRET is required")
	}
	return nil
}

func (c *Config) applyDevDefaults() {
	if c.Session.Secret == "" && IsDevMode() {
		c.Session.Secret = devSessionSecret
	}
}

// ShowResetCode reports whether reset codes are displayed on the page,
// which is the case when no real email is sent.
func (c *Config) ShowResetCode() bool {
	return c.Mail.Mode == MailModeLog
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
