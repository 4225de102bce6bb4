package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: true,
		},
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: false,
		},
		{
			name: "staging environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "staging"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsProduction()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080"},
		Backend: BackendConfig{BaseURL: DefaultBackendURL, TimeoutSeconds: 30},
		Session: SessionConfig{Store: "memory"},
		Console: ConsoleConfig{PageSize: 20, SearchDebounceMillis: 500, NotificationPollSeconds: 30},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid memory config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid redis config",
			mutate: func(c *Config) {
				c.Session.Store = "redis"
				c.Session.RedisURL = "redis://localhost:6379/0"
			},
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectError: true,
			errorMsg:    "PORT is required",
		},
		{
			name:        "relative backend url",
			mutate:      func(c *Config) { c.Backend.BaseURL = "/clinic-backend-php" },
			expectError: true,
			errorMsg:    "API_BASE_URL must be an absolute URL",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.Backend.TimeoutSeconds = 0 },
			expectError: true,
			errorMsg:    "API_TIMEOUT_SECONDS must be positive",
		},
		{
			name:        "redis without url",
			mutate:      func(c *Config) { c.Session.Store = "redis" },
			expectError: true,
			errorMsg:    "REDIS_URL is required",
		},
		{
			name:        "unknown session store",
			mutate:      func(c *Config) { c.Session.Store = "etcd" },
			expectError: true,
			errorMsg:    "SESSION_STORE must be one of",
		},
		{
			name:        "zero page size",
			mutate:      func(c *Config) { c.Console.PageSize = 0 },
			expectError: true,
			errorMsg:    "PAGE_SIZE must be at least 1",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout())
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 20, cfg.Console.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce())
	assert.Equal(t, 30*time.Second, cfg.NotificationPollInterval())
	assert.Equal(t, 10, cfg.Console.NotificationLimit)
	assert.Equal(t, time.Hour, cfg.WorkspaceIdleTTL())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_BASE_URL", "http://localhost:8000/clinic-backend-php/")
	t.Setenv("API_TIMEOUT_SECONDS", "5")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("PROXY_API", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "http://localhost:8000/clinic-backend-php", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "redis://cache:6379/1", cfg.Session.RedisURL)
	assert.Equal(t, 50, cfg.Console.PageSize)
	assert.True(t, cfg.Server.ProxyAPI)
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_STORE", "redis")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
