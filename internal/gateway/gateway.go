// Package gateway defines the payment gateway capability the processor depends on,
// together with a simulated implementation and decorators that add resilience
// and observability around any implementation.
package gateway

import (
	"context"

	"github.com/cassiomorais/paygate/internal/domain/transaction"
)

// Operation names used for logging, metrics and spans.
const (
	OpCharge      = "charge"
	OpRefund      = "refund"
	OpQueryStatus = "query_status"
)

// Gateway is an external payment capability. Implementations signal
// operational problems with *errors.Failure values:
// Charge fails with network or payment failures, Refund with network or
// refund failures and QueryStatus with network failures.
type Gateway interface {
	// Charge debits amount from the user and returns the new transaction.
	Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error)
	// Refund reverses a previous transaction.
	Refund(ctx context.Context, transactionID string) (transaction.Result, error)
	// QueryStatus reports the current status of a transaction.
	QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error)
}
