package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Backend       BackendConfig
	Session       SessionConfig
	Console       ConsoleConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	ProxyAPI       bool // expose /api/* as a reverse proxy to the backend
	CookieSecure   bool
	CookieDomain   string
}

type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type SessionConfig struct {
	Store     string // memory | redis
	RedisURL  string
	KeyPrefix string
}

type ConsoleConfig struct {
	PageSize                int
	SearchDebounceMillis    int
	NotificationPollSeconds int
	NotificationLimit       int
	WorkspaceIdleMinutes    int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// DefaultBackendURL is the production clinic backend.
const DefaultBackendURL = "https://nirmalhealthcare.co.in/clinic-backend-php"

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://nirmalhealthcare.co.in")
	v.SetDefault("PROXY_API", false)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("API_BASE_URL", DefaultBackendURL)
	v.SetDefault("API_TIMEOUT_SECONDS", 30)
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_KEY_PREFIX", "clinic-console")
	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("NOTIFICATION_POLL_SECONDS", 30)
	v.SetDefault("NOTIFICATION_LIMIT", 10)
	v.SetDefault("WORKSPACE_IDLE_MINUTES", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "clinic-console")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "nirmal-admin")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "clinic-console")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			ProxyAPI:       v.GetBool("PROXY_API"),
			CookieSecure:   v.GetBool("COOKIE_SECURE"),
			CookieDomain:   v.GetString("COOKIE_DOMAIN"),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			TimeoutSeconds: v.GetInt("API_TIMEOUT_SECONDS"),
		},
		Session: SessionConfig{
			Store:     strings.ToLower(v.GetString("SESSION_STORE")),
			RedisURL:  v.GetString("REDIS_URL"),
			KeyPrefix: v.GetString("SESSION_KEY_PREFIX"),
		},
		Console: ConsoleConfig{
			PageSize:                v.GetInt("PAGE_SIZE"),
			SearchDebounceMillis:    v.GetInt("SEARCH_DEBOUNCE_MS"),
			NotificationPollSeconds: v.GetInt("NOTIFICATION_POLL_SECONDS"),
			NotificationLimit:       v.GetInt("NOTIFICATION_LIMIT"),
			WorkspaceIdleMinutes:    v.GetInt("WORKSPACE_IDLE_MINUTES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("API_TIMEOUT_SECONDS must be positive")
	}

	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, redis; got %q", c.Session.Store)
	}

	if c.Console.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1")
	}
	if c.Console.SearchDebounceMillis < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must not be negative")
	}
	if c.Console.NotificationPollSeconds <= 0 {
		return fmt.Errorf("NOTIFICATION_POLL_SECONDS must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// BackendTimeout returns the per-request timeout for clinic backend calls.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// SearchDebounce returns the quiet period applied to search keystrokes.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.Console.SearchDebounceMillis) * time.Millisecond
}

// NotificationPollInterval returns the notification refresh period.
func (c *Config) NotificationPollInterval() time.Duration {
	return time.Duration(c.Console.NotificationPollSeconds) * time.Second
}

// WorkspaceIdleTTL returns how long an unused operator workspace is kept.
func (c *Config) WorkspaceIdleTTL() time.Duration {
	return time.Duration(c.Console.WorkspaceIdleMinutes) * time.Minute
}
