// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/girogi/internal/api"
	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/chat"
	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/session"
	"github.com/starford/girogi/internal/sse"
	"github.com/starford/girogi/internal/storage"
	"github.com/starford/girogi/internal/syncer"
)

// Run starts the chat service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Corpus.DataDir),
		slog.String("state_dir", cfg.Corpus.StateDir),
		slog.String("model", cfg.Gemini.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure local directories exist.
	if err := os.MkdirAll(cfg.Corpus.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Corpus.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	corpus, err := storage.NewFS(cfg.Corpus.DataDir)
	if err != nil {
		return fmt.Errorf("init corpus storage: %w", err)
	}
	state, err := storage.NewFS(cfg.Corpus.StateDir)
	if err != nil {
		return fmt.Errorf("init state storage: %w", err)
	}

	// Missing credential or store config is fatal to the interactive
	// session: surface a blocking message and exit.
	if cfg.Gemini.ResolveAPIKey() == "" {
		return apperr.New(apperr.KindConfiguration,
			APIKeyEnvVar+" is not set; add it to the environment or a .env file")
	}
	storeCfg, err := syncer.LoadStoreConfig(state)
	if err != nil {
		return err
	}

	metaStore := metadata.NewStore(state, logger)
	catalog := metadata.NewCatalog(metaStore.Load())
	logger.Info("Article metadata loaded", slog.Int("articles", catalog.Len()))

	client := gemini.NewClient(cfg.Gemini.ClientConfig())
	engine := chat.NewEngine(client, storeCfg.CorpusName, logger)
	sessions := session.NewManager()
	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(engine, sessions, catalog, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Optionally watch the corpus and resync on changes.
	if cfg.Corpus.Watch {
		sync := syncer.New(client, corpus, state, cfg.Corpus.StoreName, cfg.Corpus.DataDir, logger)
		storeID := storeCfg.CorpusName

		resync := func() {
			set, added := metaStore.GenerateAndMerge(corpus)
			if added > 0 {
				if err := metaStore.Save(set); err != nil {
					logger.Error("resync: save metadata failed", slog.String("error", err.Error()))
				}
			}
			catalog.Replace(set)

			res, err := sync.Sync(gCtx, storeID)
			if err != nil {
				logger.Error("resync: sync failed", slog.String("error", err.Error()))
				return
			}
			broker.PublishSyncEvent(res.Uploaded, res.Failed, res.Skipped)
		}

		g.Go(func() error {
			return syncer.Watch(gCtx, corpus.Root(), logger, resync)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
