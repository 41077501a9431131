package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// NewRouter mounts the storefront API. Everything under /api/v1 runs in the context of a
// browsing profile.
func NewRouter(h *Handler, clients ClientSource, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(AccessLog)

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Get("/shipping-options", h.ShippingOptions)
		r.Get("/tracking", h.CheckTrackingInput)
		r.Get("/tracking/{number}", h.Track)

		r.Group(func(r chi.Router) {
			r.Use(ResolveClient(clients))

			r.Get("/catalog", h.CurrentCatalog)
			r.Delete("/catalog", h.LeaveCatalog)
			r.Get("/catalog/{category}", h.Catalog)
			r.Get("/products/{product_id}", h.Product)
			r.Get("/recommendations", h.Recommendations)

			r.Get("/session", h.GetSession)
			r.Get("/navigate", h.Navigate)
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Login)
				r.Post("/register", h.Register)
				r.Post("/logout", h.Logout)
			})
			r.Put("/seller/profile", h.CompleteSellerProfile)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Post("/items", h.AddCartItem)
				r.Delete("/items/{line_id}", h.RemoveCartItem)
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.GetWishlist)
				r.Post("/toggle", h.ToggleWishlist)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", h.GetCheckout)
				r.Post("/begin", h.BeginCheckout)
				r.Put("/information", h.SetInformation)
				r.Put("/payment", h.SetPayment)
				r.Post("/next", h.NextStep)
				r.Post("/back", h.PreviousStep)
				r.Post("/step/{step}", h.GoToStep)
				r.Post("/submit", h.SubmitOrder)
			})

			r.Route("/admin/orders", func(r chi.Router) {
				r.Get("/", h.ListOrders)
				r.Get("/stats", h.OrderStats)
				r.Put("/{id}/status", h.UpdateOrderStatus)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
