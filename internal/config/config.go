package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Backend BackendConfig `koanf:"backend"`
	Listing ListingConfig `koanf:"listing"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig holds HTTP server settings for the admin dashboard.
type ServerConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Mode       string `koanf:"mode"`
	CSRFSecret string `koanf:"csrf_secret"`
	Timeout    string `koanf:"timeout"`
}

// BackendConfig describes the backend API every list and mutation goes to.
type BackendConfig struct {
	BaseURL       string `koanf:"base_url"`
	Timeout       string `koanf:"timeout"`
	HealthTimeout string `koanf:"health_timeout"`
	UserAgent     string `koanf:"user_agent"`
	SessionCookie string `koanf:"session_cookie"`
}

// ListingConfig tunes the admin list pages.
type ListingConfig struct {
	PageSize     int `koanf:"page_size"`
	MaxReconcile int `koanf:"max_reconcile"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// Defaults applied by Validate when a field is left empty.
const (
	DefaultServerTimeout  = 30 * time.Second
	DefaultBackendTimeout = 15 * time.Second
	DefaultHealthTimeout  = time.Second
	DefaultPageSize       = 10
	DefaultMaxReconcile   = 2
	MaxPageSize           = 100
	minCSRFSecretLength   = 32
)

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__BACKEND__BASE_URL=https://api.example.com overrides backend.base_url.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// APP__LISTING__PAGE_SIZE -> listing.page_size
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values, normalising
// whitespace and filling defaults.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateListing(); err != nil {
		return err
	}
	return c.validateLog()
}

func (c *Config) validateServer() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	if _, err := positiveDuration("server.timeout", c.Server.Timeout); err != nil {
		return err
	}

	secret := strings.TrimSpace(c.Server.CSRFSecret)
	c.Server.CSRFSecret = secret
	if c.Server.Mode == gin.ReleaseMode {
		if len(secret) < minCSRFSecretLength {
			return fmt.Errorf("invalid server.csrf_secret: must be at least %d characters in release mode", minCSRFSecretLength)
		}
		if CountSecretClasses(secret) < 3 {
			return fmt.Errorf("server.csrf_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
		}
	}
	return nil
}

func (c *Config) validateBackend() error {
	base := strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid backend.base_url %q: %w", c.Backend.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend.base_url %q: must be an absolute http(s) URL", c.Backend.BaseURL)
	}
	if c.Server.Mode == gin.ReleaseMode && u.Scheme != "https" && !isLoopback(u.Hostname()) {
		return fmt.Errorf("invalid backend.base_url %q: must use https in release mode", c.Backend.BaseURL)
	}
	c.Backend.BaseURL = base

	c.Backend.Timeout = strings.TrimSpace(c.Backend.Timeout)
	if _, err := positiveDuration("backend.timeout", c.Backend.Timeout); err != nil {
		return err
	}
	c.Backend.HealthTimeout = strings.TrimSpace(c.Backend.HealthTimeout)
	if _, err := positiveDuration("backend.health_timeout", c.Backend.HealthTimeout); err != nil {
		return err
	}

	c.Backend.UserAgent = strings.TrimSpace(c.Backend.UserAgent)
	c.Backend.SessionCookie = strings.TrimSpace(c.Backend.SessionCookie)
	return nil
}

func (c *Config) validateListing() error {
	switch {
	case c.Listing.PageSize == 0:
		c.Listing.PageSize = DefaultPageSize
	case c.Listing.PageSize < 0 || c.Listing.PageSize > MaxPageSize:
		return fmt.Errorf("invalid listing.page_size %d: must be between 1 and %d", c.Listing.PageSize, MaxPageSize)
	}

	switch {
	case c.Listing.MaxReconcile == 0:
		c.Listing.MaxReconcile = DefaultMaxReconcile
	case c.Listing.MaxReconcile < 0:
		return fmt.Errorf("invalid listing.max_reconcile %d: must be positive", c.Listing.MaxReconcile)
	}
	return nil
}

func (c *Config) validateLog() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	if c.Log.MaxSizeMB < 0 || c.Log.RetentionDays < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log rotation settings must not be negative")
	}
	return nil
}

// ServerTimeout returns the parsed server.timeout or its default.
func (c *Config) ServerTimeout() time.Duration {
	return durationOr(c.Server.Timeout, DefaultServerTimeout)
}

// BackendTimeout returns the parsed backend.timeout or its default.
func (c *Config) BackendTimeout() time.Duration {
	return durationOr(c.Backend.Timeout, DefaultBackendTimeout)
}

// HealthTimeout returns the parsed backend.health_timeout or its default.
func (c *Config) HealthTimeout() time.Duration {
	return durationOr(c.Backend.HealthTimeout, DefaultHealthTimeout)
}

// positiveDuration parses an optional duration field. An empty value is unset.
func positiveDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return d, nil
}

func durationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func isLoopback(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	classes := 0
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if ok {
			classes++
		}
	}
	return classes
}
