package gateway

import (
	"context"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/cassiomorais/paygate/internal/gateway"

// Traced records a client span around every gateway call.
type Traced struct {
	next   Gateway
	tracer trace.Tracer
}

// NewTraced wraps next. A nil provider means the global one.
func NewTraced(next Gateway, tp trace.TracerProvider) *Traced {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Traced{next: next, tracer: tp.Tracer(tracerName)}
}

func (g *Traced) Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	ctx, span := g.start(ctx, OpCharge,
		attribute.String("payment.user_id", userID),
		attribute.Float64("payment.amount", amount),
	)
	defer span.End()

	res, err := g.next.Charge(ctx, userID, amount)
	if err == nil {
		span.SetAttributes(attribute.String("payment.transaction_id", res.TransactionID()))
	}
	recordOutcome(span, err)
	return res, err
}

func (g *Traced) Refund(ctx context.Context, transactionID string) (transaction.Result, error) {
	ctx, span := g.start(ctx, OpRefund, attribute.String("payment.transaction_id", transactionID))
	defer span.End()

	res, err := g.next.Refund(ctx, transactionID)
	if err == nil {
		span.SetAttributes(attribute.String("payment.refund_id", res.TransactionID()))
	}
	recordOutcome(span, err)
	return res, err
}

func (g *Traced) QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	ctx, span := g.start(ctx, OpQueryStatus, attribute.String("payment.transaction_id", transactionID))
	defer span.End()

	status, err := g.next.QueryStatus(ctx, transactionID)
	if err == nil {
		span.SetAttributes(attribute.String("payment.status", status.String()))
	}
	recordOutcome(span, err)
	return status, err
}

func (g *Traced) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return g.tracer.Start(ctx, "gateway."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func recordOutcome(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	if kind, ok := domainErrors.KindOf(err); ok {
		span.SetAttributes(attribute.String("payment.failure_kind", string(kind)))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
