package handler

import (
	"net/http"

	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/guard"
	"github.com/partnerlink/platform/internal/service"
)

// CompensationHandler serves the earnings read models and payout requests.
type CompensationHandler struct {
	compensation *service.CompensationService
	payouts      *service.PayoutService
	limiter      *guard.RateLimiter
}

// NewCompensationHandler creates a CompensationHandler.
func NewCompensationHandler(compensation *service.CompensationService, payouts *service.PayoutService, limiter *guard.RateLimiter) *CompensationHandler {
	return &CompensationHandler{compensation: compensation, payouts: payouts, limiter: limiter}
}

// Summary handles GET /compensation/summary.
func (h *CompensationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	summary, err := h.compensation.Summary(r.Context(), partnerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

// Transactions handles GET /compensation/transactions?limit=.
func (h *CompensationHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, offset := pagination(r, 20, 100)
	entries, err := h.compensation.Feed(r.Context(), partnerID, limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"transactions": entries})
}

// Commissions handles GET /compensation/commissions.
func (h *CompensationHandler) Commissions(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, offset := pagination(r, 20, 100)
	rows, err := h.compensation.QueuedCommissions(r.Context(), partnerID, limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"commissions": rows})
}

// payoutRequest is the body of POST /compensation/payout.
type payoutRequest struct {
	Amount int64 `json:"amount"`
}

// RequestPayout handles POST /compensation/payout.
func (h *CompensationHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if res := h.limiter.Check(r.Context(), "payout:"+partnerID.String()); !res.Allowed {
		RespondError(w, domain.ErrAccountLocked(res.Reason))
		return
	}

	var body payoutRequest
	if err := DecodeJSON(r, &body); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	entry, err := h.payouts.Request(r.Context(), partnerID, body.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, entry)
}
