package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrSuperseded is returned by View.Open when a newer Open started before this one finished.
var ErrSuperseded = errors.New("catalog request superseded by a newer one")

const maxViewed = 10

// View is the category listing of one browsing profile. The latest Open wins: each Open
// cancels the one in flight and stale results are never committed.
type View struct {
	svc        *Service
	membership Membership

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current *Result
	viewed  []string
}

func NewView(svc *Service, membership Membership) *View {
	return &View{svc: svc, membership: membership}
}

// Open fetches category and commits it as the current listing.
func (v *View) Open(ctx context.Context, category string) (Result, error) {
	v.mu.Lock()
	v.seq++
	token := v.seq
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	res, err := v.svc.FetchByCategory(ctx, category, v.membership)

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq {
		return Result{}, ErrSuperseded
	}
	v.cancel = nil
	if err != nil {
		return Result{}, err
	}
	v.current = &res
	return cloneResult(res), nil
}

// Current returns the committed listing, if any.
func (v *View) Current() (Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return Result{}, false
	}
	return cloneResult(*v.current), true
}

// WishlistChanged updates the inWishlist flag of matching items in the committed listing.
func (v *View) WishlistChanged(productID string, inWishlist bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return
	}
	for i := range v.current.Items {
		if v.current.Items[i].ID == productID {
			v.current.Items[i].InWishlist = inWishlist
		}
	}
}

// MarkViewed records productID as the most recently viewed product.
func (v *View) MarkViewed(productID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewed = slices.DeleteFunc(v.viewed, func(id string) bool { return id == productID })
	v.viewed = append([]string{productID}, v.viewed...)
	if len(v.viewed) > maxViewed {
		v.viewed = v.viewed[:maxViewed]
	}
}

// Viewed returns recently viewed product ids, newest first.
func (v *View) Viewed() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.viewed)
}

// Reset drops the committed listing, as when leaving the products view.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.current = nil
}

func cloneResult(r Result) Result {
	r.Items = slices.Clone(r.Items)
	return r
}
