package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/catalog"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

const defaultRecommendations = 4

type CatalogResponseDTO struct {
	Category string               `json:"category"`
	Source   catalog.Source       `json:"source"`
	Count    int                  `json:"count"`
	Items    []domain.CatalogItem `json:"items"`
}

type RecommendationsResponseDTO struct {
	Source   catalog.Source   `json:"source"`
	Products []domain.Product `json:"products"`
}

// GET /api/v1/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, catalog.Categories())
}

// GET /api/v1/catalog/{category}?q=&sort=
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil || strings.TrimSpace(category) == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_category", "category is required")
		return
	}

	res, err := c.Catalog.Open(ctx, category)
	if errors.Is(err, catalog.ErrSuperseded) {
		respondError(w, r, http.StatusConflict, "superseded", err.Error())
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	items := catalog.FilterAndSort(res.Items, q.Get("q"), q.Get("sort"))
	respondJSON(w, r, http.StatusOK, CatalogResponseDTO{
		Category: res.Category,
		Source:   res.Source,
		Count:    len(items),
		Items:    items,
	})
}

// GET /api/v1/catalog
// Returns the listing last opened by this profile with its current wishlist flags.
func (h *Handler) CurrentCatalog(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	res, ok := c.Catalog.Current()
	if !ok {
		respondError(w, r, http.StatusNotFound, "no_listing", "no category is open")
		return
	}
	q := r.URL.Query()
	items := catalog.FilterAndSort(res.Items, q.Get("q"), q.Get("sort"))
	respondJSON(w, r, http.StatusOK, CatalogResponseDTO{
		Category: res.Category,
		Source:   res.Source,
		Count:    len(items),
		Items:    items,
	})
}

// DELETE /api/v1/catalog
func (h *Handler) LeaveCatalog(w http.ResponseWriter, r *http.Request) {
	clientFrom(r.Context()).Catalog.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/products/{product_id}
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())

	id := chi.URLParam(r, "product_id")
	p, ok, err := h.catalog.Find(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, "not_found", "product not found")
		return
	}
	c.Catalog.MarkViewed(p.ID)
	respondJSON(w, r, http.StatusOK, domain.CatalogItem{Product: p, InWishlist: c.Wishlist.Contains(p.ID)})
}

// GET /api/v1/recommendations?product=&kind=&limit=&categories=&minPrice=&maxPrice=
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())
	q := r.URL.Query()

	limit := defaultRecommendations
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 50 {
			respondError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 50")
			return
		}
		limit = n
	}
	prefs, err := parsePreferences(q)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_preferences", err.Error())
		return
	}

	all, source, err := h.catalog.Products(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var out []domain.Product
	if id := q.Get("product"); id != "" {
		idx := -1
		for i := range all {
			if all[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			respondError(w, r, http.StatusNotFound, "not_found", "product not found")
			return
		}
		out = h.recommender.ForProduct(all, all[idx], c.Catalog.Viewed(), prefs, limit)
	} else {
		out = h.recommender.ForHome(all, catalog.HomeKind(q.Get("kind")), limit)
	}
	if out == nil {
		out = []domain.Product{}
	}
	respondJSON(w, r, http.StatusOK, RecommendationsResponseDTO{Source: source, Products: out})
}

func parsePreferences(q url.Values) (*catalog.Preferences, error) {
	var prefs catalog.Preferences
	set := false
	if s := q.Get("categories"); s != "" {
		for _, c := range strings.Split(s, ",") {
			if c = strings.TrimSpace(c); c != "" {
				prefs.Categories = append(prefs.Categories, c)
			}
		}
		set = true
	}
	for key, dst := range map[string]**decimal.Decimal{"minPrice": &prefs.MinPrice, "maxPrice": &prefs.MaxPrice} {
		s := q.Get(key)
		if s == "" {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, errors.New(key + " must be a number")
		}
		*dst = &d
		set = true
	}
	if !set {
		return nil, nil
	}
	return &prefs, nil
}
