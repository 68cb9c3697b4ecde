package gateway_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/gateway"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/cassiomorais/paygate/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInstrumented_CountsOutcomes(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	m := testutil.NewMockGateway(t)
	m.On("Charge", mock.Anything, "user_1", 10.0).Return(transaction.Completed("txn_1", ""), nil).Once()
	m.On("Charge", mock.Anything, "user_2", 10.0).
		Return(transaction.Result{}, domainErrors.NewPaymentFailure("Insufficient funds")).Once()
	m.On("QueryStatus", mock.Anything, "txn_1").
		Return(transaction.Status(""), domainErrors.NewNetworkFailure("Network error")).Once()

	g := gateway.NewInstrumented(m, metrics)
	ctx := context.Background()

	_, _ = g.Charge(ctx, "user_1", 10)
	_, _ = g.Charge(ctx, "user_2", 10)
	_, _ = g.QueryStatus(ctx, "txn_1")

	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.GatewayCalls.WithLabelValues("charge", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.GatewayCalls.WithLabelValues("charge", "payment_failure")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.GatewayCalls.WithLabelValues("query_status", "network_failure")))
	assert.Equal(t, 2, promtest.CollectAndCount(metrics.GatewayCallDuration))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", gateway.Outcome(nil))
	assert.Equal(t, "refund_failure", gateway.Outcome(domainErrors.NewRefundFailure("x")))
	assert.Equal(t, "network_failure", gateway.Outcome(domainErrors.WrapFailure(domainErrors.KindNetwork, context.Canceled)))
	assert.Equal(t, "error", gateway.Outcome(errors.New("boom")))
}
