// Package storefront composes the per-profile state of every browsing client.
package storefront

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/cart"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/catalog"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/checkout"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/session"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/wishlist"
)

var (
	ErrInvalidClientID = errors.New("client id must be 1-64 letters, digits, '-' or '_'")
	ErrRegistryClosed  = errors.New("registry is closed")
)

var clientIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Options are the collaborators shared by all clients.
type Options struct {
	Store              store.Store
	Catalog            *catalog.Service
	Auth               session.Authenticator
	Orders             checkout.OrderCreator
	Payments           checkout.PaymentAuthorizer
	Publisher          checkout.EventPublisher
	Tokens             *session.TokenIssuer
	Sync               store.SyncPolicy
	RequireUPIID       bool
	RequireIndianPhone bool
	Logger             *zap.Logger
}

// Client is the state of one browsing profile.
type Client struct {
	ID       string
	Session  *session.Manager
	Cart     *cart.Service
	Wishlist *wishlist.Service
	Catalog  *catalog.View
	Checkout *checkout.Machine

	stop context.CancelFunc
}

// Registry creates clients on first use and keeps them until Close.
type Registry struct {
	opts Options
	log  *zap.Logger

	base   context.Context
	cancel context.CancelFunc

	opening singleflight.Group // one open per id, others wait for it

	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Registry{
		opts:    opts,
		log:     opts.Logger.Named("storefront"),
		base:    base,
		cancel:  cancel,
		clients: make(map[string]*Client),
	}
}

// Get returns the client for id, loading its persisted state on first use.
func (r *Registry) Get(ctx context.Context, id string) (*Client, error) {
	if !clientIDRe.MatchString(id) {
		return nil, ErrInvalidClientID
	}
	if c, ok := r.lookup(id); ok {
		return c, nil
	}
	v, err, _ := r.opening.Do(id, func() (any, error) {
		// A previous open may have finished between lookup and Do.
		if c, ok := r.lookup(id); ok {
			return c, nil
		}
		c, err := r.open(ctx, id)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.base.Err() != nil {
			c.stop()
			return nil, ErrRegistryClosed
		}
		r.clients[id] = c
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}

func (r *Registry) lookup(id string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Close stops change propagation for every client.
func (r *Registry) Close() {
	r.cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.stop()
		delete(r.clients, id)
	}
}

func (r *Registry) open(ctx context.Context, id string) (*Client, error) {
	log := r.log.With(zap.String("client_id", id))
	scoped := store.Scoped(r.opts.Store, id)

	sessions, err := session.NewManager(ctx, scoped, r.opts.Auth, r.opts.Tokens, log.Named("session"))
	if err != nil {
		return nil, err
	}
	carts, err := cart.NewService(ctx, scoped, sessions, log.Named("cart"))
	if err != nil {
		return nil, err
	}
	wl, err := wishlist.NewService(ctx, scoped, sessions, log.Named("wishlist"))
	if err != nil {
		return nil, err
	}
	view := catalog.NewView(r.opts.Catalog, wl)
	wl.Subscribe(view)

	machine := checkout.NewMachine(checkout.Deps{
		Orders:    r.opts.Orders,
		Cart:      carts,
		Payments:  r.opts.Payments,
		Publisher: r.opts.Publisher,
		Validator: checkout.NewValidator(checkout.ValidatorOptions{RequireUPIID: r.opts.RequireUPIID, RequireIndianPhone: r.opts.RequireIndianPhone}),
		Logger:    log.Named("checkout"),
	})

	syncCtx, stop := context.WithCancel(r.base)
	c := &Client{
		ID:       id,
		Session:  sessions,
		Cart:     carts,
		Wishlist: wl,
		Catalog:  view,
		Checkout: machine,
		stop:     stop,
	}
	if err := r.follow(syncCtx, scoped, c, log); err != nil {
		stop()
		return nil, err
	}
	log.Debug("client opened")
	return c, nil
}

// follow reloads the entities selected by the sync policy when their slots change.
func (r *Registry) follow(ctx context.Context, s store.Store, c *Client, log *zap.Logger) error {
	type target struct {
		enabled bool
		keys    []string
		reload  func(context.Context) error
		name    string
	}
	targets := []target{
		{r.opts.Sync.Session, []string{store.KeyUser, store.KeyToken}, c.Session.Reload, "session"},
		{r.opts.Sync.Cart, []string{store.KeyCart}, c.Cart.Reload, "cart"},
		{r.opts.Sync.Wishlist, []string{store.KeyWishlist}, c.Wishlist.Reload, "wishlist"},
	}
	for _, t := range targets {
		if !t.enabled {
			continue
		}
		reload, name := t.reload, t.name
		ok, err := store.Follow(ctx, s, t.keys, func(ctx context.Context) {
			if err := reload(ctx); err != nil {
				log.Warn("failed to reload after external change", zap.String("entity", name), zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			log.Debug("store does not publish changes, sync disabled")
			return nil
		}
	}
	return nil
}
