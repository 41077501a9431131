package catalog

import (
	"slices"
	"strings"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// Sort keys accepted by FilterAndSort. Anything else sorts by name.
const (
	SortByName   = "name"
	SortByPrice  = "price"
	SortBySeller = "seller"
)

// FilterAndSort keeps items whose name or description contains term, ignoring case, and
// returns them stably sorted. The input is not modified.
func FilterAndSort(items []domain.CatalogItem, term, sortBy string) []domain.CatalogItem {
	needle := strings.ToLower(term)
	out := make([]domain.CatalogItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) {
			out = append(out, it)
		}
	}

	var cmp func(a, b domain.CatalogItem) int
	switch sortBy {
	case SortByPrice:
		cmp = func(a, b domain.CatalogItem) int { return a.Price.Cmp(b.Price) }
	case SortBySeller:
		cmp = func(a, b domain.CatalogItem) int { return compareText(a.Seller, b.Seller) }
	default:
		cmp = func(a, b domain.CatalogItem) int { return compareText(a.Name, b.Name) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// compareText orders case-insensitively, breaking ties on the raw bytes.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
