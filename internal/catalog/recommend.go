package catalog

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// HomeKind selects a landing-page recommendation strip.
type HomeKind string

const (
	HomeFeatured     HomeKind = "featured"
	HomeTrending     HomeKind = "trending"
	HomeRegional     HomeKind = "regional"
	HomeFastShipping HomeKind = "fastShipping"
)

// Preferences are optional shopper preferences that boost matching products.
type Preferences struct {
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

func (p *Preferences) matches(prod domain.Product) bool {
	if p == nil {
		return false
	}
	if slices.Contains(p.Categories, prod.Category) {
		return true
	}
	return p.MinPrice != nil && p.MaxPrice != nil &&
		p.MinPrice.LessThanOrEqual(prod.Price) && prod.Price.LessThanOrEqual(*p.MaxPrice)
}

// Recommender is a best-effort heuristic. Ranking quality is not guaranteed.
type Recommender struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRecommender(rnd *rand.Rand) *Recommender {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Recommender{rnd: rnd}
}

var twentyPercent = decimal.NewFromFloat(0.2)

type scored struct {
	product domain.Product
	score   int
}

// ForProduct recommends up to limit products related to current.
func (r *Recommender) ForProduct(all []domain.Product, current domain.Product, viewed []string, prefs *Preferences, limit int) []domain.Product {
	if len(all) == 0 || limit <= 0 {
		return nil
	}
	threshold := current.Price.Mul(twentyPercent)

	var candidates []scored
	add := func(score int, keep func(domain.Product) bool) {
		for _, p := range all {
			if p.ID != current.ID && keep(p) {
				candidates = append(candidates, scored{product: p, score: score})
			}
		}
	}
	add(4, func(p domain.Product) bool { return p.Category == current.Category })
	add(3, func(p domain.Product) bool { return p.Price.Sub(current.Price).Abs().LessThanOrEqual(threshold) })
	add(3, func(p domain.Product) bool { return slices.Contains(viewed, p.ID) })
	add(2, func(p domain.Product) bool { return p.Seller == current.Seller })
	add(5, prefs.matches)

	// first occurrence of a product keeps its score
	seen := map[string]bool{}
	unique := candidates[:0]
	for _, c := range candidates {
		if !seen[c.product.ID] {
			seen[c.product.ID] = true
			unique = append(unique, c)
		}
	}
	slices.SortStableFunc(unique, func(a, b scored) int { return cmp.Compare(b.score, a.score) })
	if len(unique) > limit*2 {
		unique = unique[:limit*2]
	}

	out := make([]domain.Product, 0, limit)
	for _, c := range unique {
		out = append(out, c.product)
	}
	if len(out) < limit {
		seen[current.ID] = true
		out = append(out, r.randomFill(all, seen, limit-len(out))...)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ForHome recommends up to limit products for a landing-page strip.
func (r *Recommender) ForHome(all []domain.Product, kind HomeKind, limit int) []domain.Product {
	if len(all) == 0 || limit <= 0 {
		return nil
	}
	byRating := func(a, b domain.Product) int { return cmp.Compare(b.RatingValue(), a.RatingValue()) }

	var picked []domain.Product
	switch kind {
	case HomeTrending:
		picked = filter(all, func(p domain.Product) bool { return p.RatingValue() >= 4 || p.Popular })
		slices.SortStableFunc(picked, byRating)
	case HomeRegional:
		picked = filter(all, func(p domain.Product) bool { return p.OriginState != "" })
		r.shuffle(picked)
	case HomeFastShipping:
		picked = filter(all, func(p domain.Product) bool { return p.IndiaPostOptimized })
		slices.SortStableFunc(picked, byRating)
	default:
		picked = filter(all, func(p domain.Product) bool { return p.Featured || p.RatingValue() >= 4 })
		slices.SortStableFunc(picked, byRating)
	}

	if len(picked) < limit {
		used := make(map[string]bool, len(picked))
		for _, p := range picked {
			used[p.ID] = true
		}
		picked = append(picked, r.randomFill(all, used, limit-len(picked))...)
	}
	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}

func (r *Recommender) randomFill(all []domain.Product, used map[string]bool, n int) []domain.Product {
	rest := filter(all, func(p domain.Product) bool { return !used[p.ID] })
	r.shuffle(rest)
	if len(rest) > n {
		rest = rest[:n]
	}
	return rest
}

func (r *Recommender) shuffle(ps []domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
}

func filter(all []domain.Product, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
