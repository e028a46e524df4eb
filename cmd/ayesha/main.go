package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/ayeshastore/ayesha/internal/api"
	"github.com/ayeshastore/ayesha/internal/assistant"
	"github.com/ayeshastore/ayesha/internal/config"
	"github.com/ayeshastore/ayesha/internal/llm"
	"github.com/ayeshastore/ayesha/internal/logger"
	"github.com/ayeshastore/ayesha/internal/metrics"
	"github.com/ayeshastore/ayesha/internal/orders"
	"github.com/ayeshastore/ayesha/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Production())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	catalog := orders.Default()
	if cfg.OrdersFile != "" {
		catalog, err = orders.LoadFile(cfg.OrdersFile)
		if err != nil {
			log.Fatal("orders", zap.Error(err))
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("session store", zap.Error(err))
	}
	defer store.Close()

	gateway, err := llm.New(cfg)
	if err != nil {
		log.Fatal("llm", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	locks := session.NewLocker()

	// Periodic cleanup of idle per-session locks
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := locks.Cleanup(time.Hour); n > 0 {
				log.Debug("session locks cleaned", zap.Int("removed", n))
			}
		}
	}()

	a := assistant.New(store, catalog, gateway, locks, log, m)
	h := api.NewHandler(a, log, cfg.ExposeErrorDetail)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(h, cfg.CORSAllowedOrigins, log, reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("provider", gateway.Provider()),
			zap.String("session_backend", cfg.SessionBackend),
			zap.Int("orders", catalog.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
		return
	}
	log.Info("stopped")
}

func openStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.BackendCache:
		return session.NewCacheStore(cfg.SessionTTL, cfg.MaxHistory), nil
	case config.BackendBolt:
		return session.NewBoltStore(filepath.Join(cfg.DataDir, "ayesha.db"), cfg.MaxHistory)
	default:
		return session.NewMemoryStore(cfg.MaxHistory), nil
	}
}
