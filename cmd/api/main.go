// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shopcart/internal/infra/config"
	"shopcart/internal/infra/logging"
	"shopcart/internal/platform/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger がまだ無いので最小構成で落とす
		logging.Must("info", "json").Fatal("[boot] config", zap.Error(err))
	}

	log := logging.Must(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────
	// Lightweight healthz first; app routes are mounted once DI is up
	// ─────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	cont, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal("[boot] di init failed", zap.Error(err))
	}
	defer func() {
		if err := cont.Close(); err != nil {
			log.Warn("[boot] container close", zap.Error(err))
		}
	}()
	mux.Handle("/", cont.Router)

	// ─────────────────────────────────────────────────────────────
	// Optional catalog seeding (CATALOG_URI)
	// ─────────────────────────────────────────────────────────────
	if cfg.CatalogURI != "" {
		n, err := cont.SeedCatalog(ctx, cfg.CatalogURI)
		if err != nil {
			log.Fatal("[boot] catalog seed failed", zap.String("uri", cfg.CatalogURI), zap.Error(err))
		}
		log.Info("[boot] catalog seeded", zap.String("uri", cfg.CatalogURI), zap.Int("products", n))
	}

	// カートキャッシュの期限切れ掃除
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		cont.CartStore.Run(ctx, cfg.CartSweepInterval)
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info("[boot] signal received; shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("[boot] server shutdown error", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	log.Info("[boot] listening", zap.String("port", cfg.Port), zap.String("backend", cfg.StoreBackend))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("[boot] server error", zap.Error(err))
		stop()
	}

	<-idleConnsClosed
	<-janitorDone
	log.Info("[boot] server stopped")
}
