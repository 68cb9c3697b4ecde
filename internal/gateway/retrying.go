package gateway

import (
	"context"
	"errors"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/cassiomorais/paygate/pkg/retry"
	"github.com/rs/zerolog"
)

// Retrying re-attempts gateway calls that are safe to repeat. Status queries
// are retried on network failures other than an unknown id. Charges and
// refunds move money, so they are only retried when the call never left the
// process (ErrGatewayUnavailable).
type Retrying struct {
	next    Gateway
	cfg     retry.Config
	logger  zerolog.Logger
	metrics *observability.Metrics
}

func NewRetrying(next Gateway, cfg retry.Config, logger zerolog.Logger, metrics *observability.Metrics) *Retrying {
	return &Retrying{
		next:    next,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

func (g *Retrying) Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	return retry.DoWithResult(ctx, g.config(OpCharge, notSent), func() (transaction.Result, error) {
		return g.next.Charge(ctx, userID, amount)
	})
}

func (g *Retrying) Refund(ctx context.Context, transactionID string) (transaction.Result, error) {
	return retry.DoWithResult(ctx, g.config(OpRefund, notSent), func() (transaction.Result, error) {
		return g.next.Refund(ctx, transactionID)
	})
}

func (g *Retrying) QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	return retry.DoWithResult(ctx, g.config(OpQueryStatus, isNetwork), func() (transaction.Status, error) {
		return g.next.QueryStatus(ctx, transactionID)
	})
}

func (g *Retrying) config(op string, retryIf func(error) bool) retry.Config {
	cfg := g.cfg
	cfg.RetryIf = retryIf
	cfg.OnRetry = func(n uint, err error) {
		g.logger.Warn().Err(err).Str("operation", op).Uint("attempt", n+1).Msg("Gateway call failed, retrying")
		if g.metrics != nil {
			g.metrics.GatewayRetries.WithLabelValues(op).Inc()
		}
	}
	return cfg
}

func notSent(err error) bool {
	return errors.Is(err, domainErrors.ErrGatewayUnavailable)
}

func isNetwork(err error) bool {
	return errors.Is(err, domainErrors.ErrNetworkFailure) &&
		!errors.Is(err, domainErrors.ErrTransactionNotFound)
}
