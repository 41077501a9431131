package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/catalog"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/storefront"
)

// AdminOrders is the order administration API of the backend.
type AdminOrders interface {
	ListOrders(ctx context.Context, token string, status domain.OrderStatus) ([]domain.Order, error)
	OrderStats(ctx context.Context, token string) (domain.OrderStats, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error
}

// Handler serves the storefront API. Per-profile state comes from the request context.
type Handler struct {
	catalog     *catalog.Service
	recommender *catalog.Recommender
	admin       AdminOrders
	timeout     time.Duration
}

func NewHandler(cat *catalog.Service, rec *catalog.Recommender, admin AdminOrders, timeout time.Duration) *Handler {
	if rec == nil {
		rec = catalog.NewRecommender(nil)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{catalog: cat, recommender: rec, admin: admin, timeout: timeout}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// token prefers an explicit bearer credential over the profile session.
func token(r *http.Request, c *storefront.Client) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if s := c.Session.Current(); s != nil {
		return s.Token
	}
	return ""
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}
