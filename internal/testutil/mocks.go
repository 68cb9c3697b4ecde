package testutil

import (
	"context"

	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/gateway"
	"github.com/stretchr/testify/mock"
)

var _ gateway.Gateway = (*MockGateway)(nil)

// MockGateway is a testify mock implementation of gateway.Gateway.
type MockGateway struct {
	mock.Mock
}

// NewMockGateway creates a MockGateway that asserts its expectations when the test ends.
func NewMockGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) Charge(ctx context.Context, userID string, amount float64) (transaction.Result, error) {
	args := m.Called(ctx, userID, amount)
	if fn, ok := args.Get(0).(func(context.Context, string, float64) (transaction.Result, error)); ok {
		return fn(ctx, userID, amount)
	}
	return args.Get(0).(transaction.Result), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, transactionID string) (transaction.Result, error) {
	args := m.Called(ctx, transactionID)
	if fn, ok := args.Get(0).(func(context.Context, string) (transaction.Result, error)); ok {
		return fn(ctx, transactionID)
	}
	return args.Get(0).(transaction.Result), args.Error(1)
}

func (m *MockGateway) QueryStatus(ctx context.Context, transactionID string) (transaction.Status, error) {
	args := m.Called(ctx, transactionID)
	if fn, ok := args.Get(0).(func(context.Context, string) (transaction.Status, error)); ok {
		return fn(ctx, transactionID)
	}
	return args.Get(0).(transaction.Status), args.Error(1)
}
