package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/storage"
	"github.com/starford/girogi/internal/syncer"
	"github.com/starford/girogi/internal/tracker"
)

// RunSync performs one ingestion run: metadata generate-and-merge
// (always), then store ensure and delta upload. A missing credential
// aborts the remote half but metadata generation still lands.
func RunSync(ctx context.Context, opts ...Option) error {
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
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Corpus.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	state, err := storage.NewFS(cfg.Corpus.StateDir)
	if err != nil {
		return fmt.Errorf("init state storage: %w", err)
	}

	corpus, corpusErr := storage.NewFS(cfg.Corpus.DataDir)

	// 1. Metadata first: it lands even when the remote half is
	// unreachable or unconfigured.
	metaStore := metadata.NewStore(state, logger)
	var set = metaStore.Load()
	if corpusErr == nil {
		var added int
		set, added = metaStore.GenerateAndMerge(corpus)
		if err := metaStore.Save(set); err != nil {
			return err
		}
		color.Green("✓ Metadata saved: %d articles (%d new)", len(set), added)
	} else {
		logger.Warn("sync: corpus directory unavailable",
			slog.String("dir", cfg.Corpus.DataDir), slog.String("error", corpusErr.Error()))
		color.Yellow("! Corpus directory unavailable, metadata unchanged (%d articles)", len(set))
	}

	// 2. Credential check: fatal for the upload half only.
	if cfg.Gemini.ResolveAPIKey() == "" {
		color.Yellow("! %s is not set; metadata generated, skipping remote sync", APIKeyEnvVar)
		return apperr.New(apperr.KindConfiguration,
			APIKeyEnvVar+" is not set; add it to the environment or a .env file")
	}
	if corpusErr != nil {
		return nil
	}

	client := gemini.NewClient(cfg.Gemini.ClientConfig())
	sync := syncer.New(client, corpus, state, cfg.Corpus.StoreName, cfg.Corpus.DataDir, logger)

	// 3. Ensure the remote store exists. Failure here is fatal: there
	// is nothing to upload against.
	storeID, err := sync.EnsureStore(ctx)
	if err != nil {
		return err
	}
	color.Green("✓ Remote store ready: %s", storeID)

	// 4. Upload the delta with a progress bar sized to the pending set.
	pending := pendingCount(corpus, state)
	if pending == 0 {
		color.Green("✓ Nothing new to upload")
		return nil
	}

	bar := progressbar.NewOptions(pending,
		progressbar.OptionSetDescription(color.BlueString("Uploading articles...")),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	sync.OnUpload = func(name string, err error) {
		_ = bar.Add(1)
	}

	res, err := sync.Sync(ctx, storeID)
	fmt.Println()
	if err != nil {
		return err
	}

	color.Green("✓ Upload complete: %d uploaded, %d failed, %d skipped",
		res.Uploaded, res.Failed, res.Skipped)
	return nil
}

// pendingCount sizes the progress bar: local files minus tracked ones.
func pendingCount(corpus, state storage.Provider) int {
	docs, err := corpus.List()
	if err != nil {
		return 0
	}
	uploaded := tracker.New(state).Load()
	n := 0
	for _, d := range docs {
		if _, done := uploaded[d.Name]; !done {
			n++
		}
	}
	return n
}
