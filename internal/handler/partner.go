package handler

import (
	"net/http"

	"github.com/partnerlink/platform/internal/service"
)

// PartnerHandler serves partner profile endpoints.
type PartnerHandler struct {
	partners *service.PartnerService
}

// NewPartnerHandler creates a PartnerHandler.
func NewPartnerHandler(partners *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// GetMe handles GET /partners/me.
func (h *PartnerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	partner, err := h.partners.Get(r.Context(), partnerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, partner)
}

// GetInsurance handles GET /partners/me/insurance.
func (h *PartnerHandler) GetInsurance(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	assignments, err := h.partners.Insurances(r.Context(), partnerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"insurance": assignments})
}
