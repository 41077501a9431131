package wishlist

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
)

type fakeSessions struct{ session *domain.Session }

func (f *fakeSessions) Current() *domain.Session { return f.session }

func signedIn() *fakeSessions {
	return &fakeSessions{session: &domain.Session{User: domain.User{ID: "u1"}, Token: "t"}}
}

type recorder struct{ events []bool }

func (r *recorder) WishlistChanged(_ string, in bool) { r.events = append(r.events, in) }

func product(id string) domain.Product {
	return domain.Product{ID: id, Name: "Item " + id, Price: decimal.NewFromInt(100)}
}

func newTestService(t *testing.T, s store.Store, sessions SessionProvider) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), s, sessions, nil)
	require.NoError(t, err)
	return svc
}

func TestToggle_RequiresSession(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore(), &fakeSessions{})

	in, entries, err := svc.Toggle(context.Background(), product("1"))

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.False(t, in)
	assert.Nil(t, entries)
	assert.Empty(t, svc.Entries())
}

func TestToggle_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore(), signedIn())
	rec := &recorder{}
	svc.Subscribe(rec)
	before := svc.Entries()

	in, _, err := svc.Toggle(ctx, product("1"))
	require.NoError(t, err)
	assert.True(t, in)
	assert.True(t, svc.Contains("1"))

	in, after, err := svc.Toggle(ctx, product("1"))
	require.NoError(t, err)
	assert.False(t, in)

	assert.Equal(t, before, after)
	assert.Equal(t, []bool{true, false}, rec.events)
}

func TestToggle_AtMostOneEntryPerProduct(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore(), signedIn())

	for _, id := range []string{"1", "2", "1", "3", "1", "2", "2"} {
		_, _, err := svc.Toggle(ctx, product(id))
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, e := range svc.Entries() {
			assert.False(t, seen[e.Product.ID], "duplicate entry for %s", e.Product.ID)
			seen[e.Product.ID] = true
		}
	}
	assert.True(t, svc.Contains("1"))
	assert.False(t, svc.Contains("2"))
	assert.True(t, svc.Contains("3"))
}

func TestToggle_Persists(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := newTestService(t, mem, signedIn())
	_, entries, err := svc.Toggle(ctx, product("9"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].WishlistEntryID)

	reopened := newTestService(t, mem, signedIn())
	assert.True(t, reopened.Contains("9"))
	require.Len(t, reopened.Entries(), 1)
	assert.Equal(t, entries[0].WishlistEntryID, reopened.Entries()[0].WishlistEntryID)
}

func TestReload_DropsDuplicates(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	raw := `[{"wishlistEntryId":"a","product":{"_id":"1","name":"x","price":1,"category":"c"}},
	         {"wishlistEntryId":"b","product":{"_id":"1","name":"x","price":1,"category":"c"}}]`
	require.NoError(t, mem.Set(ctx, store.KeyWishlist, []byte(raw)))

	svc := newTestService(t, mem, signedIn())
	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].WishlistEntryID)
}

func TestReload_PicksUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	a := newTestService(t, mem, signedIn())
	b := newTestService(t, mem, signedIn())

	_, _, err := a.Toggle(ctx, product("5"))
	require.NoError(t, err)
	assert.False(t, b.Contains("5"))

	require.NoError(t, b.Reload(ctx))
	assert.True(t, b.Contains("5"))
}
