package bootstrap

import (
	"context"
	"fmt"
	"os"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/gateway"
	"github.com/cassiomorais/paygate/internal/infrastructure/config"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/cassiomorais/paygate/internal/processor"
	"github.com/cassiomorais/paygate/pkg/retry"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Metrics   *observability.Metrics
	Tracer    *sdktrace.TracerProvider
	Breaker   *gateway.CircuitBreaker
	Processor *processor.Processor
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, os.Stdout).
		With().Str("instance_id", cfg.InstanceID).Logger()
	logger.Info().Str("service", serviceName).Msg("Starting")

	app := &App{Config: cfg, Logger: logger}

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			app.Tracer = tp
			logger.Info().Msg("Tracing enabled")
		}
	}

	if cfg.Observability.EnableMetrics {
		app.Metrics = observability.NewMetrics(metricsNamespace, nil)
		logger.Info().Msg("Metrics initialized")
	}

	gw := app.buildGateway()

	app.Processor, err = processor.New(gw,
		processor.WithLogger(observability.Component(logger, "processor")),
		processor.WithMetrics(app.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("create processor: %w", err)
	}

	return app, nil
}

// buildGateway assembles, from the outside in: retry, circuit breaker,
// metrics, tracing, and the simulated gateway itself.
func (a *App) buildGateway() gateway.Gateway {
	cfg := a.Config

	var gw gateway.Gateway = gateway.NewSimulatedGateway(cfg.Gateway.Name,
		gateway.WithLatency(cfg.Gateway.Latency),
		gateway.WithDeclineRate(cfg.Gateway.DeclineRate),
		gateway.WithTimeoutRate(cfg.Gateway.TimeoutRate),
	)
	if a.Tracer != nil {
		gw = gateway.NewTraced(gw, a.Tracer)
	}
	if a.Metrics != nil {
		gw = gateway.NewInstrumented(gw, a.Metrics)
	}

	breakerLog := observability.Component(a.Logger, "circuit_breaker")
	a.Breaker = gateway.NewCircuitBreaker(cfg.Gateway.Name, gw, gateway.BreakerSettings{
		MaxRequests:  cfg.Resilience.BreakerMaxRequests,
		Interval:     cfg.Resilience.BreakerInterval,
		Timeout:      cfg.Resilience.BreakerTimeout,
		MinRequests:  cfg.Resilience.BreakerMinRequests,
		FailureRatio: cfg.Resilience.BreakerFailureRatio,
	}, func(name string, from, to gobreaker.State) {
		breakerLog.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Circuit breaker state changed")
		if a.Metrics != nil {
			a.Metrics.CircuitBreakerState.WithLabelValues(name).Set(gateway.StateValue(to))
		}
	})

	return gateway.NewRetrying(a.Breaker, retry.Config{
		MaxAttempts:  cfg.Resilience.RetryAttempts,
		InitialDelay: cfg.Resilience.RetryDelay,
		MaxDelay:     cfg.Resilience.RetryMaxDelay,
	}, observability.Component(a.Logger, "retry"), a.Metrics)
}

// Ready reports the service as not ready while the gateway breaker is open.
func (a *App) Ready(ctx context.Context) error {
	if a.Breaker != nil && a.Breaker.State() == gobreaker.StateOpen {
		return domainErrors.ErrGatewayUnavailable
	}
	return nil
}

func (a *App) Close(ctx context.Context) {
	if err := observability.Shutdown(ctx, a.Tracer); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to flush traces")
	}
}
