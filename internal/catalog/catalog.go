package catalog

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// Source tells where a listing came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// ProductSource lists the full remote catalog.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Membership answers wishlist membership for annotation.
type Membership interface {
	Contains(productID string) bool
}

// Result is one category listing.
type Result struct {
	Category string               `json:"category"`
	Items    []domain.CatalogItem `json:"items"`
	Source   Source               `json:"source"`
}

// Service reads the catalog from the backend and falls back to the built-in dataset when
// the backend cannot serve it.
type Service struct {
	source   ProductSource
	fallback []domain.Product
	sfg      singleflight.Group // collapses concurrent full-list fetches
	log      *zap.Logger
}

func NewService(source ProductSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		source:   source,
		fallback: FallbackProducts(),
		log:      log,
	}
}

// Products returns the full product list. A remote failure yields the fallback dataset;
// only cancellation of ctx is returned as an error.
func (s *Service) Products(ctx context.Context) ([]domain.Product, Source, error) {
	ch := s.sfg.DoChan("products", func() (interface{}, error) {
		// shared by every waiter, so no single caller's cancellation may abort it
		return s.source.ListProducts(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return slices.Clone(res.Val.([]domain.Product)), SourceRemote, nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		s.log.Warn("product fetch failed, serving fallback catalog",
			zap.Error(res.Err),
			zap.Bool("remote_unavailable", errors.Is(res.Err, domain.ErrRemoteUnavailable)),
		)
		return slices.Clone(s.fallback), SourceFallback, nil
	}
}

// FetchByCategory lists the products of one category and annotates wishlist membership.
func (s *Service) FetchByCategory(ctx context.Context, category string, membership Membership) (Result, error) {
	products, source, err := s.Products(ctx)
	if err != nil {
		return Result{}, err
	}
	items := make([]domain.CatalogItem, 0)
	for _, p := range products {
		if p.Category != category {
			continue
		}
		items = append(items, domain.CatalogItem{
			Product:    p,
			InWishlist: membership != nil && membership.Contains(p.ID),
		})
	}
	return Result{Category: category, Items: items, Source: source}, nil
}

// Find looks a product up by id in the current catalog.
func (s *Service) Find(ctx context.Context, productID string) (domain.Product, bool, error) {
	products, _, err := s.Products(ctx)
	if err != nil {
		return domain.Product{}, false, err
	}
	i := slices.IndexFunc(products, func(p domain.Product) bool { return p.ID == productID })
	if i < 0 {
		return domain.Product{}, false, nil
	}
	return products[i], true, nil
}

// Categories returns the landing-page category tiles.
func Categories() []domain.Category {
	return []domain.Category{
		{ID: 1, Name: "Traditional Clothing", Description: "Sarees, Kurtas, Sherwanis"},
		{ID: 2, Name: "Handicrafts", Description: "Artisanal Creations"},
		{ID: 3, Name: "Spices & Food Items", Description: "Authentic Indian Taste"},
		{ID: 4, Name: "Jewelry & Accessories", Description: "Traditional Designs"},
		{ID: 5, Name: "Home & Living", Description: "Decor & Furniture"},
	}
}
