package controller

import (
	"github.com/cassiomorais/paygate/internal/domain/transaction"
)

// --- Request DTOs ---
// Tags only check the shape of the payload. Value rules (positive amount,
// non-empty ids) belong to the processor so the messages stay consistent.

// ChargeRequest holds the input for charging a user.
type ChargeRequest struct {
	UserID string   `json:"user_id" validate:"max=255"`
	Amount *float64 `json:"amount" validate:"required"`
}

// --- Response DTOs ---

// TransactionResponse represents a charge or refund outcome.
type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// StatusResponse represents the status of a transaction.
type StatusResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// FromResult converts a transaction result to a response DTO.
func FromResult(r transaction.Result) *TransactionResponse {
	return &TransactionResponse{
		TransactionID: r.TransactionID(),
		Status:        r.Status().String(),
		Message:       r.Message(),
	}
}
