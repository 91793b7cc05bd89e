package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/chat"
	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/mcpserver"
	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/storage"
	"github.com/starford/girogi/internal/syncer"
)

// RunMCP serves the archive assistant over MCP stdio. Logs go to
// stderr; stdout belongs to the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	if cfg.Gemini.ResolveAPIKey() == "" {
		return apperr.New(apperr.KindConfiguration,
			APIKeyEnvVar+" is not set; add it to the environment or a .env file")
	}

	state, err := storage.NewFS(cfg.Corpus.StateDir)
	if err != nil {
		return fmt.Errorf("init state storage: %w", err)
	}
	storeCfg, err := syncer.LoadStoreConfig(state)
	if err != nil {
		return err
	}

	catalog := metadata.NewCatalog(metadata.NewStore(state, logger).Load())
	client := gemini.NewClient(cfg.Gemini.ClientConfig())
	engine := chat.NewEngine(client, storeCfg.CorpusName, logger)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(engine, catalog).ServeStdio()
}
