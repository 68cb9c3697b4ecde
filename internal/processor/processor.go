// Package processor is the trust boundary between callers and an untrusted
// payment gateway. It validates input, calls the gateway once per operation
// and normalizes whatever comes back.
//
// Charge and refund failures raised by the gateway are absorbed into a Failed
// result. Status query failures are returned as network failures, because a
// bare status has no failed variant. Only invalid input is ever returned as a
// *errors.ValidationError.
package processor

import (
	"context"
	"fmt"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/gateway"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

const (
	msgPaymentProcessed = "Payment processed successfully"
	msgPaymentRefunded  = "Payment refunded successfully"

	msgInvalidAmount        = "Amount must be greater than zero"
	msgEmptyUserID          = "User ID must not be empty"
	msgEmptyTransactionID   = "Transaction ID must not be empty"
	msgMissingTransactionID = "Gateway returned no transaction id"
)

// Processor is safe for concurrent use as long as the gateway is.
type Processor struct {
	gateway gateway.Gateway
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the sink for outcome log entries. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithMetrics records outcome counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// New binds a processor to gw for its whole lifetime.
func New(gw gateway.Gateway, opts ...Option) (*Processor, error) {
	if gw == nil {
		return nil, domainErrors.ErrGatewayRequired
	}
	p := &Processor{
		gateway: gw,
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// ProcessPayment charges amount to userID.
func (p *Processor) ProcessPayment(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	// The negated comparison also rejects NaN.
	if !(amount > 0) {
		return transaction.Result{}, p.invalid(gateway.OpCharge, "amount", msgInvalidAmount)
	}
	if userID == "" {
		return transaction.Result{}, p.invalid(gateway.OpCharge, "user_id", msgEmptyUserID)
	}

	charged, err := call(func() (transaction.Result, error) {
		return p.gateway.Charge(ctx, userID, amount)
	})
	if err == nil && charged.TransactionID() == "" {
		err = domainErrors.NewNetworkFailure(msgMissingTransactionID)
	}
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("user_id", userID).
			Float64("amount", amount).
			Msg("Payment processing failed")
		p.record(gateway.OpCharge, transaction.StatusFailed)
		return transaction.Failed(err.Error()), nil
	}

	result := transaction.Completed(charged.TransactionID(), msgPaymentProcessed)
	p.logger.Info().
		Str("transaction_id", result.TransactionID()).
		Float64("amount", amount).
		Str("user_id", userID).
		Msg("Payment successful")
	p.record(gateway.OpCharge, transaction.StatusCompleted)
	return result, nil
}

// RefundPayment refunds a previous transaction. The returned result carries
// the id the gateway assigned to the refund.
func (p *Processor) RefundPayment(ctx context.Context, transactionID string) (transaction.Result, error) {
	if transactionID == "" {
		return transaction.Result{}, p.invalid(gateway.OpRefund, "transaction_id", msgEmptyTransactionID)
	}

	refunded, err := call(func() (transaction.Result, error) {
		return p.gateway.Refund(ctx, transactionID)
	})
	if err == nil && refunded.TransactionID() == "" {
		err = domainErrors.NewNetworkFailure(msgMissingTransactionID)
	}
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("Refund failed")
		p.record(gateway.OpRefund, transaction.StatusFailed)
		return transaction.Failed(err.Error()), nil
	}

	result := transaction.Completed(refunded.TransactionID(), msgPaymentRefunded)
	p.logger.Info().
		Str("transaction_id", result.TransactionID()).
		Str("refunded_transaction_id", transactionID).
		Msg("Refund successful")
	p.record(gateway.OpRefund, transaction.StatusCompleted)
	return result, nil
}

// GetPaymentStatus returns the gateway's status for transactionID. Any gateway
// failure comes back as a network *errors.Failure carrying the original text.
func (p *Processor) GetPaymentStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	if transactionID == "" {
		return "", p.invalid(gateway.OpQueryStatus, "transaction_id", msgEmptyTransactionID)
	}

	status, err := call(func() (transaction.Status, error) {
		return p.gateway.QueryStatus(ctx, transactionID)
	})
	if err == nil && !status.IsValid() {
		err = fmt.Errorf("gateway returned unknown status %q", string(status))
	}
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("Failed to retrieve payment status")
		p.record(gateway.OpQueryStatus, transaction.StatusFailed)
		return "", domainErrors.WrapFailure(domainErrors.KindNetwork, err)
	}

	p.logger.Info().
		Str("transaction_id", transactionID).
		Str("status", status.String()).
		Msg("Payment status retrieved")
	p.record(gateway.OpQueryStatus, status)
	return status, nil
}

func (p *Processor) invalid(op, field, message string) error {
	if p.metrics != nil {
		p.metrics.ValidationErrors.WithLabelValues(op, field).Inc()
	}
	return domainErrors.NewValidationError(field, message)
}

func (p *Processor) record(op string, status transaction.Status) {
	if p.metrics != nil {
		p.metrics.PaymentsTotal.WithLabelValues(op, string(status)).Inc()
	}
}

// call invokes the gateway, turning a panic into an ordinary error so that it
// follows the same policy as any other gateway failure.
func call[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn()
}
