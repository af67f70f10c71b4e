// Command undrstnd-proxy serves Undrstnd chat models over HTTP with a response
// cache, server-sent event streaming and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go/chat"
	"github.com/undrstnd-labs/undrstnd-go/internal/cache"
	"github.com/undrstnd-labs/undrstnd-go/internal/config"
	"github.com/undrstnd-labs/undrstnd-go/internal/logging"
	"github.com/undrstnd-labs/undrstnd-go/internal/metrics"
	"github.com/undrstnd-labs/undrstnd-go/internal/server"
	"github.com/undrstnd-labs/undrstnd-go/provider"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("undrstnd-proxy exited with error: %v", err)
	}
}

// chatter is implemented by provider.Provider and the deprecated provider.Client.
type chatter interface {
	Chat(modelID provider.ModelID, settings ...provider.ChatSettings) (*chat.Model, error)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Env: cfg.Log.Env, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New(nil)

	logger.Info("loaded config",
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("legacy", cfg.Provider.Legacy),
		zap.String("base_url", cfg.Provider.BaseURL),
		zap.String("model", cfg.Provider.Model),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	store, closeStore, err := cache.New(cfg.CacheStoreConfig())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if rs, ok := store.(*cache.RedisStore); ok {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Info("redis connection established", zap.String("addr", cfg.Cache.RedisAddr))
	}

	var loader *cache.Loader
	if store != nil {
		loader = cache.NewLoader(cache.NewLoggingStore(store, m), cfg.Cache.TTL)
	}

	opts := []provider.Option{
		provider.WithAPIKey(cfg.Provider.APIKey),
		provider.WithLogger(logger),
		provider.WithRecorder(m),
		provider.WithMaxRetries(cfg.Provider.MaxRetries),
		provider.WithTimeout(cfg.Provider.Timeout),
	}
	if cfg.Provider.BaseURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.Provider.BaseURL))
	}
	var p chatter = provider.New(opts...)
	if cfg.Provider.Legacy {
		p = provider.NewClient(opts...)
	}

	handler := server.NewHandler(modelFactory(p, cfg.Provider.Model, cfg.Provider.SafePrompt), loader)
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.NewRouter(server.Deps{
			Logger:         logger,
			Metrics:        m,
			Handler:        handler,
			RequestTimeout: cfg.Server.RequestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting proxy", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}

// modelFactory builds chat models on first use and reuses them afterwards.
func modelFactory(p chatter, defaultModel string, safePrompt bool) server.ModelFactory {
	var (
		mu     sync.Mutex
		models = make(map[string]*chat.Model)
	)
	return func(modelID string) (server.Model, error) {
		if modelID == "" {
			modelID = defaultModel
		}
		mu.Lock()
		defer mu.Unlock()
		if m, ok := models[modelID]; ok {
			return m, nil
		}
		m, err := p.Chat(modelID, provider.ChatSettings{SafePrompt: safePrompt})
		if err != nil {
			return nil, err
		}
		models[modelID] = m
		return m, nil
	}
}
