package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

type stubSource struct {
	products []domain.Product
	err      error
	calls    atomic.Int32
	delay    time.Duration
}

func (s *stubSource) ListProducts(context.Context) ([]domain.Product, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type members map[string]bool

func (m members) Contains(id string) bool { return m[id] }

func remoteProducts() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "Pashmina Shawl", Price: decimal.NewFromInt(5000), Category: "Traditional Clothing"},
		{ID: "b", Name: "Dhokra Figurine", Price: decimal.NewFromInt(1500), Category: "Handicrafts"},
		{ID: "c", Name: "Phulkari Dupatta", Price: decimal.NewFromInt(2200), Category: "Traditional Clothing"},
	}
}

func TestFetchByCategory_Remote(t *testing.T) {
	svc := NewService(&stubSource{products: remoteProducts()}, nil)

	res, err := svc.FetchByCategory(context.Background(), "Traditional Clothing", members{"c": true})
	require.NoError(t, err)

	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, "Traditional Clothing", res.Category)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "a", res.Items[0].ID)
	assert.False(t, res.Items[0].InWishlist)
	assert.Equal(t, "c", res.Items[1].ID)
	assert.True(t, res.Items[1].InWishlist)
}

func TestFetchByCategory_FallbackOnRemoteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(&stubSource{err: fmt.Errorf("GET /products: %w", domain.ErrRemoteUnavailable)}, zap.New(core))

	res, err := svc.FetchByCategory(context.Background(), "Traditional Clothing", members{})
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, res.Source)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Banarasi Silk Saree", res.Items[0].Name)
	assert.Equal(t, "Kanjivaram Silk Saree", res.Items[1].Name)
	for _, it := range res.Items {
		assert.Equal(t, "Traditional Clothing", it.Category)
		assert.False(t, it.InWishlist)
	}
	assert.Equal(t, 1, logs.FilterMessage("product fetch failed, serving fallback catalog").Len())
}

func TestFetchByCategory_UnknownCategoryIsEmpty(t *testing.T) {
	svc := NewService(&stubSource{err: errors.New("down")}, nil)

	res, err := svc.FetchByCategory(context.Background(), "Books", members{})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestFetchByCategory_NilMembership(t *testing.T) {
	svc := NewService(&stubSource{products: remoteProducts()}, nil)
	res, err := svc.FetchByCategory(context.Background(), "Handicrafts", nil)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.False(t, res.Items[0].InWishlist)
}

func TestProducts_CancelledContext(t *testing.T) {
	svc := NewService(&stubSource{products: remoteProducts(), delay: 200 * time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.Products(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProducts_ConcurrentFetchesCollapse(t *testing.T) {
	src := &stubSource{products: remoteProducts(), delay: 100 * time.Millisecond}
	svc := NewService(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, source, err := svc.Products(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, SourceRemote, source)
		}()
	}
	wg.Wait()

	assert.Less(t, int(src.calls.Load()), 10)
}

func TestFind(t *testing.T) {
	svc := NewService(&stubSource{products: remoteProducts()}, nil)

	p, ok, err := svc.Find(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Dhokra Figurine", p.Name)

	_, ok, err = svc.Find(context.Background(), "zz")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 5)
	assert.Equal(t, "Traditional Clothing", cats[0].Name)
	assert.Equal(t, "Home & Living", cats[4].Name)
}

func TestFallbackProducts_TraditionalClothing(t *testing.T) {
	var n int
	for _, p := range FallbackProducts() {
		if p.Category == "Traditional Clothing" {
			n++
		}
	}
	assert.Equal(t, 2, n)
}
