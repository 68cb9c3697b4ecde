package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/google/uuid"
)

const (
	msgNetworkError      = "Network error"
	msgInsufficientFunds = "Insufficient funds"
	msgUnknownTx         = "Transaction does not exist"
	msgAlreadyRefunded   = "Transaction already refunded"
	msgRefundRejected    = "Refund rejected"
)

// SimulatedGateway is an in-process gateway with configurable latency and
// failure rates. Transactions live in memory for the life of the value.
type SimulatedGateway struct {
	name        string
	latency     time.Duration
	declineRate float64 // 0.0 to 1.0
	timeoutRate float64 // 0.0 to 1.0

	mu       sync.Mutex
	statuses map[string]transaction.Status
	refunded map[string]bool
}

type SimulatedOption func(*SimulatedGateway)

func WithLatency(d time.Duration) SimulatedOption {
	return func(g *SimulatedGateway) { g.latency = d }
}

func WithDeclineRate(rate float64) SimulatedOption {
	return func(g *SimulatedGateway) { g.declineRate = rate }
}

func WithTimeoutRate(rate float64) SimulatedOption {
	return func(g *SimulatedGateway) { g.timeoutRate = rate }
}

func NewSimulatedGateway(name string, opts ...SimulatedOption) *SimulatedGateway {
	g := &SimulatedGateway{
		name:     name,
		latency:  100 * time.Millisecond,
		statuses: make(map[string]transaction.Status),
		refunded: make(map[string]bool),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *SimulatedGateway) Name() string { return g.name }

func (g *SimulatedGateway) Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	if err := g.roundTrip(ctx); err != nil {
		return transaction.Result{}, err
	}

	if rand.Float64() < g.declineRate {
		return transaction.Result{}, domainErrors.NewPaymentFailure(msgInsufficientFunds)
	}

	id := fmt.Sprintf("%s_txn_%s", g.name, uuid.New().String()[:8])

	g.mu.Lock()
	g.statuses[id] = transaction.StatusCompleted
	g.mu.Unlock()

	return transaction.Completed(id, ""), nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, transactionID string) (transaction.Result, error) {
	if err := g.roundTrip(ctx); err != nil {
		return transaction.Result{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.statuses[transactionID]; !ok {
		return transaction.Result{}, domainErrors.NewRefundFailure(msgUnknownTx)
	}
	if g.refunded[transactionID] {
		return transaction.Result{}, domainErrors.NewRefundFailure(msgAlreadyRefunded)
	}
	if rand.Float64() < g.declineRate {
		return transaction.Result{}, domainErrors.NewRefundFailure(msgRefundRejected)
	}

	id := fmt.Sprintf("%s_refund_%s", g.name, uuid.New().String()[:8])
	g.refunded[transactionID] = true
	g.statuses[id] = transaction.StatusCompleted

	return transaction.Completed(id, ""), nil
}

func (g *SimulatedGateway) QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	if err := g.roundTrip(ctx); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	status, ok := g.statuses[transactionID]
	if !ok {
		return "", &domainErrors.Failure{
			Kind:    domainErrors.KindNetwork,
			Message: msgUnknownTx,
			Err:     domainErrors.ErrTransactionNotFound,
		}
	}
	return status, nil
}

// roundTrip simulates the network hop: latency, cancellation and timeouts.
func (g *SimulatedGateway) roundTrip(ctx context.Context) error {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return domainErrors.WrapFailure(domainErrors.KindNetwork, ctx.Err())
	}

	if rand.Float64() < g.timeoutRate {
		return domainErrors.NewNetworkFailure(msgNetworkError)
	}
	return nil
}
