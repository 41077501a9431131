package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

type OrdersResponseDTO struct {
	Orders []domain.Order `json:"orders"`
	Count  int            `json:"count"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// GET /api/v1/admin/orders?status=shipped
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	var status domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		st, err := domain.ParseOrderStatus(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		status = st
	}

	orders, err := h.admin.ListOrders(ctx, token(r, c), status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, r, http.StatusOK, OrdersResponseDTO{Orders: orders, Count: len(orders)})
}

// GET /api/v1/admin/orders/stats
func (h *Handler) OrderStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	stats, err := h.admin.OrderStats(ctx, token(r, c))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}

// PUT /api/v1/admin/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	var req UpdateStatusRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	if err := h.admin.UpdateOrderStatus(ctx, token(r, c), chi.URLParam(r, "id"), status); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
