package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/service"
)

// AdminHandler serves the admin surface: payout review, settlement trigger,
// reports, catalogue management.
type AdminHandler struct {
	payouts      *service.PayoutService
	settler      *service.SettlerService
	orders       *service.OrderService
	partners     *service.PartnerService
	packages     *service.PackageService
	compensation *service.CompensationService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	payouts *service.PayoutService,
	settler *service.SettlerService,
	orders *service.OrderService,
	partners *service.PartnerService,
	packages *service.PackageService,
	compensation *service.CompensationService,
) *AdminHandler {
	return &AdminHandler{
		payouts:      payouts,
		settler:      settler,
		orders:       orders,
		partners:     partners,
		packages:     packages,
		compensation: compensation,
	}
}

// ListPayouts handles GET /admin/payouts.
func (h *AdminHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)
	entries, err := h.payouts.PendingQueue(r.Context(), limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"payouts": entries})
}

// ApprovePayout handles POST /admin/payouts/{id}/approve.
func (h *AdminHandler) ApprovePayout(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid entry id"))
		return
	}

	entry, err := h.payouts.Approve(r.Context(), entryID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, entry)
}

// RejectPayout handles POST /admin/payouts/{id}/reject.
func (h *AdminHandler) RejectPayout(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid entry id"))
		return
	}

	entry, err := h.payouts.Reject(r.Context(), entryID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, entry)
}

// RunSettlement handles POST /admin/settlements/run.
func (h *AdminHandler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	stats, err := h.settler.Settle(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, stats)
}

// ListOrders handles GET /admin/orders?status=.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)

	var status *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.OrderStatus(s)
		status = &st
	}

	orders, err := h.orders.ListAllOrders(r.Context(), status, limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// ListPartners handles GET /admin/partners.
func (h *AdminHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)
	partners, err := h.partners.List(r.Context(), limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"partners": partners})
}

// PartnerLedger handles GET /admin/partners/{id}/ledger — the per-partner
// feed plus a replay reconciliation of the stored balances.
func (h *AdminHandler) PartnerLedger(w http.ResponseWriter, r *http.Request) {
	partnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid partner id"))
		return
	}

	limit, offset := pagination(r, 50, 200)
	entries, err := h.compensation.Feed(r.Context(), partnerID, limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}

	reconciliation, err := h.compensation.Reconcile(r.Context(), partnerID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entries":        entries,
		"reconciliation": reconciliation,
	})
}

// CreatePackage handles POST /admin/packages.
func (h *AdminHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePackageInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	pkg, err := h.packages.Create(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, pkg)
}

// ListPackages handles GET /admin/packages.
func (h *AdminHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.packages.ListAll(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"packages": pkgs})
}

// packageActiveRequest is the body of PATCH /admin/packages/{id}.
type packageActiveRequest struct {
	Active bool `json:"active"`
}

// SetPackageActive handles PATCH /admin/packages/{id}.
func (h *AdminHandler) SetPackageActive(w http.ResponseWriter, r *http.Request) {
	pkgID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid package id"))
		return
	}

	var body packageActiveRequest
	if err := DecodeJSON(r, &body); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	if err := h.packages.SetActive(r.Context(), pkgID, body.Active); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]bool{"active": body.Active})
}
