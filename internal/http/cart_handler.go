package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/cart"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

const defaultAddFrom = "/products"

type ProductRequestDTO struct {
	ProductID string `json:"productId"`
	// From is where the UI should return after a login redirect.
	From string `json:"from,omitempty"`
}

type CartResponseDTO struct {
	Items []domain.CartLine `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

type WishlistResponseDTO struct {
	Items      []domain.WishlistEntry `json:"items"`
	Count      int                    `json:"count"`
	InWishlist *bool                  `json:"inWishlist,omitempty"`
}

// GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	respondJSON(w, r, http.StatusOK, cartResponse(c.Cart.Lines()))
}

// POST /api/v1/cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	var req ProductRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if c.Session.Current() == nil {
		loginRedirect(w, r, fromOr(req.From, defaultAddFrom))
		return
	}
	p, ok := h.resolveProduct(w, r, req.ProductID)
	if !ok {
		return
	}

	lines, err := c.Cart.Add(ctx, p)
	if errors.Is(err, domain.ErrUnauthenticated) {
		loginRedirect(w, r, fromOr(req.From, defaultAddFrom))
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, cartResponse(lines))
}

// DELETE /api/v1/cart/items/{line_id}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	lines, err := c.Cart.Remove(r.Context(), chi.URLParam(r, "line_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cartResponse(lines))
}

// GET /api/v1/wishlist
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	entries := c.Wishlist.Entries()
	respondJSON(w, r, http.StatusOK, WishlistResponseDTO{Items: entries, Count: len(entries)})
}

// POST /api/v1/wishlist/toggle
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	var req ProductRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if c.Session.Current() == nil {
		loginRedirect(w, r, fromOr(req.From, defaultAddFrom))
		return
	}
	p, ok := h.resolveProduct(w, r, req.ProductID)
	if !ok {
		return
	}

	in, entries, err := c.Wishlist.Toggle(ctx, p)
	if errors.Is(err, domain.ErrUnauthenticated) {
		loginRedirect(w, r, fromOr(req.From, defaultAddFrom))
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, WishlistResponseDTO{Items: entries, Count: len(entries), InWishlist: &in})
}

func (h *Handler) resolveProduct(w http.ResponseWriter, r *http.Request, id string) (domain.Product, bool) {
	if strings.TrimSpace(id) == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return domain.Product{}, false
	}
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	p, ok, err := h.catalog.Find(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return domain.Product{}, false
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, "not_found", "product not found")
		return domain.Product{}, false
	}
	return p, true
}

func cartResponse(lines []domain.CartLine) CartResponseDTO {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponseDTO{Items: lines, Count: len(lines), Total: cart.Total(lines)}
}

func fromOr(from, fallback string) string {
	if strings.HasPrefix(from, "/") {
		return from
	}
	return fallback
}
