package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Failure
		expected string
	}{
		{
			name:     "message only",
			err:      NewPaymentFailure("Insufficient funds"),
			expected: "Insufficient funds",
		},
		{
			name:     "message wins over wrapped error",
			err:      &Failure{Kind: KindNetwork, Message: "Network error", Err: errors.New("dial tcp: refused")},
			expected: "Network error",
		},
		{
			name:     "falls back to wrapped error",
			err:      &Failure{Kind: KindRefund, Err: errors.New("refund window closed")},
			expected: "refund window closed",
		},
		{
			name:     "falls back to kind",
			err:      &Failure{Kind: KindNetwork},
			expected: "network failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFailure_IsMatchesKindSentinel(t *testing.T) {
	assert.ErrorIs(t, NewNetworkFailure("x"), ErrNetworkFailure)
	assert.ErrorIs(t, NewPaymentFailure("x"), ErrPaymentFailure)
	assert.ErrorIs(t, NewRefundFailure("x"), ErrRefundFailure)

	assert.NotErrorIs(t, NewNetworkFailure("x"), ErrPaymentFailure)
	assert.NotErrorIs(t, NewPaymentFailure("x"), ErrRefundFailure)
	assert.NotErrorIs(t, NewRefundFailure("x"), ErrValidationFailed)
}

func TestFailure_Unwrap(t *testing.T) {
	cause := fmt.Errorf("breaker: %w", ErrGatewayUnavailable)
	f := WrapFailure(KindNetwork, cause)

	assert.Equal(t, cause, f.Unwrap())
	assert.ErrorIs(t, f, ErrGatewayUnavailable)
	assert.ErrorIs(t, f, ErrNetworkFailure)
	assert.Equal(t, cause.Error(), f.Error())
}

func TestWrapFailure_NilCause(t *testing.T) {
	f := WrapFailure(KindPayment, nil)

	assert.Nil(t, f.Err)
	assert.Equal(t, "payment failure", f.Error())
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("charge: %w", NewPaymentFailure("declined")))
	require.True(t, ok)
	assert.Equal(t, KindPayment, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("amount", "Amount must be greater than zero")

	assert.Equal(t, "amount", err.Field)
	assert.Equal(t, "Amount must be greater than zero", err.Error())
}

func TestValidationError_Is(t *testing.T) {
	err := fmt.Errorf("process payment: %w", NewValidationError("user_id", "User ID must not be empty"))

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(NewNetworkFailure("Network error")))
}

func TestErrorConstants(t *testing.T) {
	assert.NotNil(t, ErrValidationFailed)
	assert.NotNil(t, ErrNetworkFailure)
	assert.NotNil(t, ErrPaymentFailure)
	assert.NotNil(t, ErrRefundFailure)
	assert.NotNil(t, ErrGatewayUnavailable)
	assert.NotNil(t, ErrGatewayRequired)
}

func TestFailure_TransactionNotFoundStaysNetwork(t *testing.T) {
	f := &Failure{Kind: KindNetwork, Message: "Transaction does not exist", Err: ErrTransactionNotFound}

	assert.ErrorIs(t, f, ErrNetworkFailure)
	assert.ErrorIs(t, f, ErrTransactionNotFound)
	assert.Equal(t, "Transaction does not exist", f.Error())

	wrapped := WrapFailure(KindNetwork, f)
	assert.ErrorIs(t, wrapped, ErrTransactionNotFound)
	assert.Equal(t, "Transaction does not exist", wrapped.Error())
}
