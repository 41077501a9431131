package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/logger"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/storefront"
)

const HeaderClientID = "X-Client-ID"

type ctxKey int

const clientKey ctxKey = iota

// ClientSource resolves a browsing profile.
type ClientSource interface {
	Get(ctx context.Context, id string) (*storefront.Client, error)
}

// RequestLogger attaches a logger carrying the chi request id and the active trace to the
// request context. It must run after middleware.RequestID.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := middleware.GetReqID(r.Context())
			ctx, reqLog := logger.WithRequestID(r.Context(), log, reqID)
			ctx = logger.WithContext(ctx, logger.WithTraceContext(ctx, reqLog))
			w.Header().Set(middleware.RequestIDHeader, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog writes one line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.FromContext(r.Context()).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// ResolveClient loads the browsing profile named by X-Client-ID. A request without one gets
// a fresh profile whose id is echoed back in the response header.
func ResolveClient(clients ClientSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderClientID)
			if id == "" {
				id = uuid.NewString()
			}
			c, err := clients.Get(r.Context(), id)
			if errors.Is(err, storefront.ErrInvalidClientID) {
				respondError(w, r, http.StatusBadRequest, "invalid_client_id", err.Error())
				return
			}
			if err != nil {
				handleError(w, r, err)
				return
			}
			w.Header().Set(HeaderClientID, id)
			ctx, _ := logger.WithClientID(r.Context(), logger.FromContext(r.Context()), id)
			ctx = context.WithValue(ctx, clientKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientFrom(ctx context.Context) *storefront.Client {
	c, _ := ctx.Value(clientKey).(*storefront.Client)
	return c
}
