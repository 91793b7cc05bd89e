package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/chat"
	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/models"
	"github.com/starford/girogi/internal/storage"
	"github.com/starford/girogi/internal/syncer"
)

// RunChat starts an interactive terminal session against the archive.
func RunChat(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
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

	return chatLoop(ctx, os.Stdin, engine, catalog)
}

func chatLoop(ctx context.Context, in io.Reader, engine *chat.Engine, catalog *metadata.Catalog) error {
	color.Cyan("\nAsk about the newsletter archive (type 'exit' to quit)")

	scanner := bufio.NewScanner(in)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	var history []models.ChatMessage

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		answer, citations := engine.Ask(ctx, query, history)

		history = append(history,
			models.ChatMessage{Role: models.RoleUser, Content: query},
			models.ChatMessage{Role: models.RoleAssistant, Content: answer, Citations: citations},
		)

		fmt.Print("\n")
		assistantPrompt("Girogi: %s\n", answer)

		if len(citations) > 0 {
			color.Blue("\nSources:")
			for _, c := range chat.ResolveAll(citations, catalog) {
				if c.URL != nil {
					color.Blue("  - %s (%s)", c.Title, *c.URL)
				} else {
					color.Blue("  - %s", c.Title)
				}
			}
		}
	}

	return scanner.Err()
}
