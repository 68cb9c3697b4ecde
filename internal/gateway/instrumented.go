package gateway

import (
	"context"
	"time"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
)

// Instrumented counts gateway calls per outcome and records their latency.
type Instrumented struct {
	next    Gateway
	metrics *observability.Metrics
}

func NewInstrumented(next Gateway, metrics *observability.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: metrics}
}

func (g *Instrumented) Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	start := time.Now()
	res, err := g.next.Charge(ctx, userID, amount)
	g.observe(OpCharge, start, err)
	return res, err
}

func (g *Instrumented) Refund(ctx context.Context, transactionID string) (transaction.Result, error) {
	start := time.Now()
	res, err := g.next.Refund(ctx, transactionID)
	g.observe(OpRefund, start, err)
	return res, err
}

func (g *Instrumented) QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	start := time.Now()
	status, err := g.next.QueryStatus(ctx, transactionID)
	g.observe(OpQueryStatus, start, err)
	return status, err
}

func (g *Instrumented) observe(op string, start time.Time, err error) {
	g.metrics.GatewayCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	g.metrics.GatewayCalls.WithLabelValues(op, Outcome(err)).Inc()
}

// Outcome is the metric label for a gateway call result.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	if kind, ok := domainErrors.KindOf(err); ok {
		return string(kind) + "_failure"
	}
	return "error"
}
