package handler

import (
	"net/http"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"
	"inventory-billing/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BillingHandler handles sale and bill HTTP requests.
type BillingHandler struct {
	service service.BillingService
	logger  zerolog.Logger
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(service service.BillingService, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		logger:  logger.With().Str("handler", "billing").Logger(),
	}
}

// SubmitSale handles POST /api/billing requests.
func (h *BillingHandler) SubmitSale(w http.ResponseWriter, r *http.Request) {
	var req model.SaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	bill, err := h.service.SubmitSale(r.Context(), access.ActorFromContext(r.Context()), req.Items)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.SaleResponse{
		BillID: bill.ID,
		Total:  bill.Total,
	})
}

// GetBill handles GET /api/bills/{id} requests.
func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, model.NewValidationError("invalid bill ID format"), h.logger)
		return
	}

	bill, err := h.service.GetBill(r.Context(), access.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bill)
}
