package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Resilience    ResilienceConfig    `mapstructure:"resilience"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	CORS               CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// GatewayConfig drives the simulated gateway.
type GatewayConfig struct {
	Name        string        `mapstructure:"name"`
	Latency     time.Duration `mapstructure:"latency"`
	DeclineRate float64       `mapstructure:"decline_rate"`
	TimeoutRate float64       `mapstructure:"timeout_rate"`
}

// ResilienceConfig controls the retry and circuit breaker layers around the gateway.
type ResilienceConfig struct {
	RetryAttempts       uint          `mapstructure:"retry_attempts"`
	RetryDelay          time.Duration `mapstructure:"retry_delay"`
	RetryMaxDelay       time.Duration `mapstructure:"retry_max_delay"`
	BreakerMaxRequests  uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval     time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout      time.Duration `mapstructure:"breaker_timeout"`
	BreakerMinRequests  uint32        `mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("PAYGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paygate")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Gateway.Name == "" {
		errs = append(errs, fmt.Errorf("gateway.name is required"))
	}
	if c.Gateway.Latency < 0 {
		errs = append(errs, fmt.Errorf("gateway.latency must not be negative"))
	}
	if c.Gateway.DeclineRate < 0 || c.Gateway.DeclineRate > 1 {
		errs = append(errs, fmt.Errorf("gateway.decline_rate must be between 0 and 1"))
	}
	if c.Gateway.TimeoutRate < 0 || c.Gateway.TimeoutRate > 1 {
		errs = append(errs, fmt.Errorf("gateway.timeout_rate must be between 0 and 1"))
	}
	if c.Resilience.RetryAttempts == 0 {
		errs = append(errs, fmt.Errorf("resilience.retry_attempts must be at least 1"))
	}
	if c.Resilience.BreakerTimeout <= 0 {
		errs = append(errs, fmt.Errorf("resilience.breaker_timeout must be positive"))
	}
	if c.Resilience.BreakerFailureRatio <= 0 || c.Resilience.BreakerFailureRatio > 1 {
		errs = append(errs, fmt.Errorf("resilience.breaker_failure_ratio must be in (0, 1]"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.rate_limit_per_minute", 600)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Gateway defaults
	v.SetDefault("gateway.name", "simulated")
	v.SetDefault("gateway.latency", "100ms")
	v.SetDefault("gateway.decline_rate", 0.05)
	v.SetDefault("gateway.timeout_rate", 0.02)

	// Resilience defaults
	v.SetDefault("resilience.retry_attempts", 3)
	v.SetDefault("resilience.retry_delay", "100ms")
	v.SetDefault("resilience.retry_max_delay", "2s")
	v.SetDefault("resilience.breaker_max_requests", 10)
	v.SetDefault("resilience.breaker_interval", "60s")
	v.SetDefault("resilience.breaker_timeout", "30s")
	v.SetDefault("resilience.breaker_min_requests", 10)
	v.SetDefault("resilience.breaker_failure_ratio", 0.6)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)

	// Instance ID
	v.SetDefault("instance_id", "paygate-1")
}
