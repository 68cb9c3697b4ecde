package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/sony/gobreaker/v2"
)

const msgGatewayUnavailable = "Payment gateway unavailable"

var errPanicked = errors.New("gateway call panicked")

// BreakerSettings configures CircuitBreaker.
type BreakerSettings struct {
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state counter reset period
	Timeout      time.Duration // open-state duration before probing
	MinRequests  uint32        // requests needed before the breaker may trip
	FailureRatio float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  10,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// StateListener observes breaker transitions.
type StateListener func(name string, from, to gobreaker.State)

// CircuitBreaker stops calling the wrapped gateway once it keeps failing.
// Declined charges and refunds are business answers and count as successes.
// Unknown transaction ids and cancelled or expired contexts are not counted at all.
// Calls rejected by an open breaker fail with a network Failure wrapping
// ErrGatewayUnavailable.
type CircuitBreaker struct {
	next Gateway
	cb   *gobreaker.TwoStepCircuitBreaker[struct{}]
}

func NewCircuitBreaker(name string, next Gateway, s BreakerSettings, onChange StateListener) *CircuitBreaker {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= s.FailureRatio
		},
		IsSuccessful: func(err error) bool { return !tripsBreaker(err) },
		IsExcluded:   excluded,
	}
	if onChange != nil {
		st.OnStateChange = onChange
	}

	return &CircuitBreaker{
		next: next,
		cb:   gobreaker.NewTwoStepCircuitBreaker[struct{}](st),
	}
}

func (b *CircuitBreaker) Name() string { return b.cb.Name() }

func (b *CircuitBreaker) State() gobreaker.State { return b.cb.State() }

func (b *CircuitBreaker) Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	return guard(b, func() (transaction.Result, error) {
		return b.next.Charge(ctx, userID, amount)
	})
}

func (b *CircuitBreaker) Refund(ctx context.Context, transactionID string) (transaction.Result, error) {
	return guard(b, func() (transaction.Result, error) {
		return b.next.Refund(ctx, transactionID)
	})
}

func (b *CircuitBreaker) QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	return guard(b, func() (transaction.Status, error) {
		return b.next.QueryStatus(ctx, transactionID)
	})
}

func guard[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	done, err := b.cb.Allow()
	if err != nil {
		var zero T
		return zero, &domainErrors.Failure{
			Kind:    domainErrors.KindNetwork,
			Message: msgGatewayUnavailable,
			Err:     fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err),
		}
	}

	// err stays non-nil if fn panics, so the panic counts as a failure.
	err = errPanicked
	defer func() { done(err) }()

	var v T
	v, err = fn()
	return v, err
}

func tripsBreaker(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, domainErrors.ErrPaymentFailure) && !errors.Is(err, domainErrors.ErrRefundFailure)
}

func excluded(err error) bool {
	return errors.Is(err, domainErrors.ErrTransactionNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// StateValue maps a breaker state to the circuit_breaker_state gauge value.
func StateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
