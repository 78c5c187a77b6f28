// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultPort            = 8080
	DefaultSessionTTLHours = 24
	DefaultMaxUploadBytes  = 10 << 20
	DefaultLogLevel        = "debug"
	DefaultLogFormat       = "text"
)

// Config represents the server configuration. It can be loaded from a JSON or
// YAML file; environment variables take precedence over file values.
type Config struct {
	Port int `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`

	// Model provider
	Provider     string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=gemini openai"`
	Model        string `json:"model,omitempty" yaml:"model,omitempty"`
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`

	// Sessions
	SessionSecret   string `json:"session_secret,omitempty" yaml:"session_secret,omitempty" validate:"omitempty,min=16"`
	SessionTTLHours int    `json:"session_ttl_hours,omitempty" yaml:"session_ttl_hours,omitempty" validate:"gte=0"`

	// Forms
	CSRFKey        string `json:"csrf_key,omitempty" yaml:"csrf_key,omitempty" validate:"omitempty,min=32"`
	CSRFSecure     bool   `json:"csrf_secure,omitempty" yaml:"csrf_secure,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty" validate:"gte=0"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=panic fatal error warn warning info debug trace"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            DefaultPort,
		Provider:        ProviderGemini,
		SessionTTLHours: DefaultSessionTTLHours,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load builds the effective configuration: defaults, then the optional file at
// path, then environment variables read through getenv. The result is validated.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("LLM_PROVIDER", &c.Provider)
	setString("LLM_MODEL", &c.Model)
	setString("GOOGLE_API_KEY", &c.GoogleAPIKey)
	setString("OPENAI_API_KEY", &c.OpenAIAPIKey)
	setString("SESSION_SECRET", &c.SessionSecret)
	setString("CSRF_KEY", &c.CSRFKey)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FORMAT", &c.LogFormat)

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL_HOURS: %v", err)
		}
		c.SessionTTLHours = hours
	}
	if v := getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES: %v", err)
		}
		c.MaxUploadBytes = n
	}
	if v := getenv("CSRF_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CSRF_SECURE: %v", err)
		}
		c.CSRFSecure = secure
	}

	return nil
}

// Validate checks that the configuration has valid values.
// A missing API key is not a validation failure; see CredentialError.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &Error{Message: describeValidation(err), Cause: err}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.GoogleAPIKey == "" {
		result.GoogleAPIKey = defaults.GoogleAPIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.SessionSecret == "" {
		result.SessionSecret = defaults.SessionSecret
	}
	if result.SessionTTLHours == 0 {
		result.SessionTTLHours = defaults.SessionTTLHours
	}
	if result.CSRFKey == "" {
		result.CSRFKey = defaults.CSRFKey
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Bool fields: cannot distinguish unset from false, so the file value wins.

	return result
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

// CredentialEnvVar names the environment variable holding the provider credential.
func (c *Config) CredentialEnvVar() string {
	if c.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GOOGLE_API_KEY"
}

// CredentialError reports a missing provider credential, or nil.
func (c *Config) CredentialError() error {
	if c.APIKey() != "" {
		return nil
	}
	return &MissingCredentialError{EnvVar: c.CredentialEnvVar()}
}
