package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Gateway: GatewayConfig{
			Name:        "simulated",
			Latency:     100 * time.Millisecond,
			DeclineRate: 0.05,
			TimeoutRate: 0.02,
		},
		Resilience: ResilienceConfig{
			RetryAttempts:       3,
			BreakerTimeout:      30 * time.Second,
			BreakerFailureRatio: 0.6,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read_timeout"},
		{"write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, "write_timeout"},
		{"gateway name", func(c *Config) { c.Gateway.Name = "" }, "gateway.name"},
		{"gateway latency", func(c *Config) { c.Gateway.Latency = -time.Second }, "gateway.latency"},
		{"decline rate above one", func(c *Config) { c.Gateway.DeclineRate = 1.5 }, "gateway.decline_rate"},
		{"decline rate negative", func(c *Config) { c.Gateway.DeclineRate = -0.1 }, "gateway.decline_rate"},
		{"timeout rate", func(c *Config) { c.Gateway.TimeoutRate = 2 }, "gateway.timeout_rate"},
		{"retry attempts", func(c *Config) { c.Resilience.RetryAttempts = 0 }, "resilience.retry_attempts"},
		{"breaker timeout", func(c *Config) { c.Resilience.BreakerTimeout = 0 }, "resilience.breaker_timeout"},
		{"breaker ratio", func(c *Config) { c.Resilience.BreakerFailureRatio = 0 }, "resilience.breaker_failure_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "server.port")
	assert.Contains(t, errStr, "read_timeout")
	assert.Contains(t, errStr, "write_timeout")
	assert.Contains(t, errStr, "gateway.name")
	assert.Contains(t, errStr, "resilience.retry_attempts")
	assert.Contains(t, errStr, "resilience.breaker_timeout")
	assert.Contains(t, errStr, "resilience.breaker_failure_ratio")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 600, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, "simulated", cfg.Gateway.Name)
	assert.Equal(t, 100*time.Millisecond, cfg.Gateway.Latency)
	assert.Equal(t, uint(3), cfg.Resilience.RetryAttempts)
	assert.Equal(t, uint32(10), cfg.Resilience.BreakerMinRequests)
	assert.Equal(t, 0.6, cfg.Resilience.BreakerFailureRatio)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.True(t, cfg.Observability.EnableMetrics)
	assert.False(t, cfg.Observability.EnableTracing)
	assert.Equal(t, "paygate-1", cfg.InstanceID)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PAYGATE_SERVER_PORT", "9090")
	t.Setenv("PAYGATE_GATEWAY_LATENCY", "5ms")
	t.Setenv("PAYGATE_OBSERVABILITY_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Millisecond, cfg.Gateway.Latency)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("PAYGATE_GATEWAY_DECLINE_RATE", "2")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "gateway.decline_rate")
}

func TestCORSConfig_Fields(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins:   []string{"https://example.com", "https://app.example.com"},
		AllowCredentials: true,
	}

	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AllowCredentials)
}
