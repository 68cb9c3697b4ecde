package controller

import (
	"net/http"

	"github.com/cassiomorais/paygate/internal/domain/transaction"
	"github.com/cassiomorais/paygate/internal/processor"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PaymentController exposes the payment processor over HTTP.
type PaymentController struct {
	processor *processor.Processor
	logger    zerolog.Logger
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(p *processor.Processor, logger zerolog.Logger) *PaymentController {
	return &PaymentController{processor: p, logger: logger}
}

// Charge handles POST /api/v1/payments
func (h *PaymentController) Charge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.processor.ProcessPayment(r.Context(), req.UserID, *req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeResult(w, http.StatusCreated, result)
}

// Refund handles POST /api/v1/payments/{id}/refund
func (h *PaymentController) Refund(w http.ResponseWriter, r *http.Request) {
	result, err := h.processor.RefundPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeResult(w, http.StatusOK, result)
}

// Status handles GET /api/v1/payments/{id}/status
func (h *PaymentController) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status, err := h.processor.GetPaymentStatus(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{TransactionID: id, Status: status.String()})
}

// Failed results are data, not errors: the body is the same shape as a success.
func writeResult(w http.ResponseWriter, okStatus int, result transaction.Result) {
	status := okStatus
	if result.Status() == transaction.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, FromResult(result))
}
