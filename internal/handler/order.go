package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/guard"
	"github.com/partnerlink/platform/internal/service"
)

// OrderHandler serves purchase endpoints.
type OrderHandler struct {
	orders  *service.OrderService
	limiter *guard.RateLimiter
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders *service.OrderService, limiter *guard.RateLimiter) *OrderHandler {
	return &OrderHandler{orders: orders, limiter: limiter}
}

// Place handles POST /orders. On success all compensation side-effects are
// already applied.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if res := h.limiter.Check(r.Context(), "order:"+partnerID.String()); !res.Allowed {
		RespondError(w, domain.ErrAccountLocked(res.Reason))
		return
	}

	var input service.PlaceOrderInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	input.BuyerID = partnerID

	order, err := h.orders.PlaceOrder(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, order)
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	partnerID, err := partnerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, offset := pagination(r, 20, 100)
	orders, err := h.orders.ListOrders(r.Context(), partnerID, limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	partnerID, orderID, err := h.ids(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID, partnerID, false)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/{id}/status?new_status=…
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	partnerID, orderID, err := h.ids(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	newStatus := domain.OrderStatus(r.URL.Query().Get("new_status"))
	order, err := h.orders.UpdateOrderStatus(r.Context(), orderID, partnerID, false, newStatus)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ids(r *http.Request) (partnerID, orderID uuid.UUID, err error) {
	partnerID, err = partnerIDFromContext(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	orderID, parseErr := uuid.Parse(chi.URLParam(r, "id"))
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, domain.ErrValidation("invalid order id")
	}
	return partnerID, orderID, nil
}
