package errors

import (
	"errors"
)

var (
	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Gateway failure kinds
	ErrNetworkFailure = errors.New("network failure")
	ErrPaymentFailure = errors.New("payment failure")
	ErrRefundFailure  = errors.New("refund failure")

	// Gateway availability
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRequired    = errors.New("payment gateway is required")

	// ErrTransactionNotFound marks a lookup of an id the gateway never issued.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Kind classifies a failure signalled by the payment gateway.
type Kind string

const (
	KindNetwork Kind = "network"
	KindPayment Kind = "payment"
	KindRefund  Kind = "refund"
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetworkFailure
	case KindPayment:
		return ErrPaymentFailure
	case KindRefund:
		return ErrRefundFailure
	}
	return nil
}

// Failure is an operational error raised by the payment gateway.
// Error returns the human-readable description only, so it can be
// surfaced unchanged to callers.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Failure) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind) + " failure"
}

func (e *Failure) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the failure kind, e.g. errors.Is(err, ErrNetworkFailure).
func (e *Failure) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewNetworkFailure creates a failure for an unreachable or misbehaving gateway.
func NewNetworkFailure(message string) *Failure {
	return &Failure{Kind: KindNetwork, Message: message}
}

// NewPaymentFailure creates a failure for a charge rejected by the gateway.
func NewPaymentFailure(message string) *Failure {
	return &Failure{Kind: KindPayment, Message: message}
}

// NewRefundFailure creates a failure for a refund rejected by the gateway.
func NewRefundFailure(message string) *Failure {
	return &Failure{Kind: KindRefund, Message: message}
}

// WrapFailure classifies err as kind, keeping its text as the failure description.
func WrapFailure(kind Kind, err error) *Failure {
	f := &Failure{Kind: kind, Err: err}
	if err != nil {
		f.Message = err.Error()
	}
	return f
}

// KindOf returns the failure kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// ValidationError represents caller input that is out of contract.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
