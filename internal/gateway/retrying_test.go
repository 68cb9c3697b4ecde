package gateway_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/gateway"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/cassiomorais/paygate/internal/testutil"
	"github.com/cassiomorais/paygate/pkg/retry"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func unavailable() error {
	return &domainErrors.Failure{
		Kind:    domainErrors.KindNetwork,
		Message: "Payment gateway unavailable",
		Err:     fmt.Errorf("%w: open", domainErrors.ErrGatewayUnavailable),
	}
}

func TestRetrying_Charge_RetriesWhenNotSent(t *testing.T) {
	m := testutil.NewMockGateway(t)
	m.On("Charge", mock.Anything, "user_1", 10.0).Return(transaction.Result{}, unavailable()).Once()
	m.On("Charge", mock.Anything, "user_1", 10.0).Return(transaction.Completed("txn_1", ""), nil).Once()

	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	var buf bytes.Buffer
	g := gateway.NewRetrying(m, fastRetry(), zerolog.New(&buf), metrics)

	res, err := g.Charge(context.Background(), "user_1", 10)
	require.NoError(t, err)
	assert.Equal(t, "txn_1", res.TransactionID())
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.GatewayRetries.WithLabelValues(gateway.OpCharge)))
	assert.Contains(t, buf.String(), "Gateway call failed, retrying")
}

func TestRetrying_Charge_DoesNotRetryFailuresAfterSending(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"network failure", domainErrors.NewNetworkFailure("Network error")},
		{"payment declined", domainErrors.NewPaymentFailure("Insufficient funds")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.NewMockGateway(t)
			m.On("Charge", mock.Anything, "user_1", 10.0).Return(transaction.Result{}, tt.err).Once()

			g := gateway.NewRetrying(m, fastRetry(), zerolog.Nop(), nil)

			_, err := g.Charge(context.Background(), "user_1", 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			m.AssertNumberOfCalls(t, "Charge", 1)
		})
	}
}

func TestRetrying_Refund_DoesNotRetryDeclines(t *testing.T) {
	m := testutil.NewMockGateway(t)
	m.On("Refund", mock.Anything, "txn_1").
		Return(transaction.Result{}, domainErrors.NewRefundFailure("Refund rejected")).Once()

	g := gateway.NewRetrying(m, fastRetry(), zerolog.Nop(), nil)

	_, err := g.Refund(context.Background(), "txn_1")
	require.ErrorIs(t, err, domainErrors.ErrRefundFailure)
	m.AssertNumberOfCalls(t, "Refund", 1)
}

func TestRetrying_QueryStatus_RetriesNetworkFailures(t *testing.T) {
	m := testutil.NewMockGateway(t)
	m.On("QueryStatus", mock.Anything, "txn_1").
		Return(transaction.Status(""), domainErrors.NewNetworkFailure("Network error")).Twice()
	m.On("QueryStatus", mock.Anything, "txn_1").Return(transaction.StatusCompleted, nil).Once()

	g := gateway.NewRetrying(m, fastRetry(), zerolog.Nop(), nil)

	status, err := g.QueryStatus(context.Background(), "txn_1")
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusCompleted, status)
}

func TestRetrying_QueryStatus_GivesUpAfterMaxAttempts(t *testing.T) {
	m := testutil.NewMockGateway(t)
	m.On("QueryStatus", mock.Anything, "txn_1").
		Return(transaction.Status(""), domainErrors.NewNetworkFailure("Network error")).Times(3)

	g := gateway.NewRetrying(m, fastRetry(), zerolog.Nop(), nil)

	_, err := g.QueryStatus(context.Background(), "txn_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainErrors.ErrNetworkFailure)
	assert.Equal(t, "Network error", err.Error())
	m.AssertNumberOfCalls(t, "QueryStatus", 3)
}

func TestRetrying_QueryStatus_DoesNotRetryUnknownTransaction(t *testing.T) {
	m := testutil.NewMockGateway(t)
	m.On("QueryStatus", mock.Anything, "txn_missing").Return(transaction.Status(""), &domainErrors.Failure{
		Kind:    domainErrors.KindNetwork,
		Message: "Transaction does not exist",
		Err:     domainErrors.ErrTransactionNotFound,
	}).Once()

	g := gateway.NewRetrying(m, fastRetry(), zerolog.Nop(), nil)

	_, err := g.QueryStatus(context.Background(), "txn_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainErrors.ErrNetworkFailure)
	assert.ErrorIs(t, err, domainErrors.ErrTransactionNotFound)
	m.AssertNumberOfCalls(t, "QueryStatus", 1)
}
