package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/backend"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/catalog"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/checkout"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/config"
	h "github.com/RohitJoHNSon03/capstone-india-diaspora/internal/http"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/logger"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/publisher"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/session"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/storefront"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	// Amounts go over the wire as JSON numbers, as the backend sends them.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slots, err := store.Open(ctx, store.Options{
		Driver:        cfg.Store.Driver,
		Prefix:        cfg.Store.Prefix,
		TTL:           cfg.Store.TTL,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
		MongoURI:      cfg.Store.MongoURI,
		MongoDatabase: cfg.Store.MongoDatabase,
		SQLitePath:    cfg.Store.SQLitePath,
		PostgresDSN:   cfg.Store.PostgresDSN,
	}, log.Named("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer slots.Close()

	api, err := backend.NewClient(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Timeout:        cfg.Backend.RequestTimeout,
		MaxFailures:    cfg.Backend.BreakerMaxFailures,
		BreakerTimeout: cfg.Backend.BreakerTimeout,
	}, log.Named("backend"))
	if err != nil {
		return err
	}

	var events checkout.EventPublisher = publisher.NopPublisher{}
	if cfg.Kafka.Enabled {
		p := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Named("publisher"))
		defer p.Close()
		events = p
		log.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	products := catalog.NewService(api, log.Named("catalog"))
	clients := storefront.NewRegistry(storefront.Options{
		Store:     slots,
		Catalog:   products,
		Auth:      api,
		Orders:    api,
		Payments:  checkout.StubAuthorizer{},
		Publisher: events,
		Tokens:    session.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer),
		Sync: store.SyncPolicy{
			Session:  cfg.Sync.Session,
			Cart:     cfg.Sync.Cart,
			Wishlist: cfg.Sync.Wishlist,
		},
		RequireUPIID:       cfg.Checkout.RequireUPIID,
		RequireIndianPhone: cfg.Checkout.RequireIndianPhone,
		Logger:             log,
	})
	defer clients.Close()

	handler := h.NewHandler(products, catalog.NewRecommender(nil), api, cfg.Backend.RequestTimeout)
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      h.NewRouter(handler, clients, log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
