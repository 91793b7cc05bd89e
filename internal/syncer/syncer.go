// Package syncer reconciles the local corpus directory against the
// remote file search store, uploading only documents not yet tracked.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/gemini"
	"github.com/starford/girogi/internal/storage"
	"github.com/starford/girogi/internal/tracker"
)

const (
	// maxFileSize is the per-document upload ceiling.
	maxFileSize = 10 << 20
	// uploadPace is the fixed delay between upload calls, keeping
	// the batch under the remote request-rate ceiling.
	uploadPace = 300 * time.Millisecond
)

// remote is the slice of the Gemini client the syncer needs.
type remote interface {
	ListStores(ctx context.Context) ([]gemini.Store, error)
	CreateStore(ctx context.Context, displayName string) (gemini.Store, error)
	UploadFile(ctx context.Context, storeID, filename string, content []byte) error
}

// Result tallies one sync run.
type Result struct {
	Uploaded int
	Failed   int
	Skipped  int
}

// Syncer drives the ingestion pipeline. It is the single writer of the
// upload tracker and the store config.
type Syncer struct {
	client    remote
	corpus    storage.Provider
	state     storage.Provider
	tracker   *tracker.Tracker
	storeName string
	dataDir   string
	logger    *slog.Logger
	limiter   *rate.Limiter

	// OnUpload, when set, is called after each upload attempt with the
	// filename and outcome. Used for CLI progress reporting.
	OnUpload func(name string, err error)
}

// New creates a Syncer for the given corpus and state directories.
func New(client remote, corpus, state storage.Provider, storeName, dataDir string, logger *slog.Logger) *Syncer {
	return &Syncer{
		client:    client,
		corpus:    corpus,
		state:     state,
		tracker:   tracker.New(state),
		storeName: storeName,
		dataDir:   dataDir,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Every(uploadPace), 1),
	}
}

// EnsureStore returns the identifier of the remote store with the
// configured display name, creating it (and persisting a fresh store
// config) when none exists. Listing or creation failures are fatal to
// the run: there is no store identifier to upload against.
func (s *Syncer) EnsureStore(ctx context.Context) (string, error) {
	stores, err := s.client.ListStores(ctx)
	if err != nil {
		return "", apperr.Wrap(apperr.KindFatal, "list remote stores", err)
	}

	for _, st := range stores {
		if st.DisplayName == s.storeName {
			s.logger.Info("syncer: reusing remote store",
				slog.String("name", s.storeName), slog.String("id", st.Name))
			return st.Name, nil
		}
	}

	created, err := s.client.CreateStore(ctx, s.storeName)
	if err != nil {
		return "", apperr.Wrap(apperr.KindFatal, "create remote store", err)
	}
	s.logger.Info("syncer: created remote store",
		slog.String("name", s.storeName), slog.String("id", created.Name))

	if err := saveStoreConfig(s.state, created.Name, s.storeName, s.dataDir); err != nil {
		return "", apperr.Wrap(apperr.KindFatal, "persist store config", err)
	}
	return created.Name, nil
}

// Sync uploads every corpus document not yet in the tracker. Oversized
// and failed documents are logged and skipped without aborting the
// batch. The tracker is persisted exactly once, after the batch, so a
// crash mid-run re-uploads at most the in-flight file next time.
func (s *Syncer) Sync(ctx context.Context, storeID string) (Result, error) {
	var res Result

	docs, err := s.corpus.List()
	if err != nil {
		return res, apperr.Wrap(apperr.KindFatal, "list corpus documents", err)
	}

	uploaded := s.tracker.Load()

	for _, doc := range docs {
		if _, done := uploaded[doc.Name]; done {
			continue
		}

		if doc.Size > maxFileSize {
			s.logger.Warn("syncer: skipping oversized file",
				slog.String("file", doc.Name), slog.Int64("size", doc.Size))
			res.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}

		uploadErr := s.uploadOne(ctx, storeID, doc.Name)
		if s.OnUpload != nil {
			s.OnUpload(doc.Name, uploadErr)
		}
		if uploadErr != nil {
			s.logger.Warn("syncer: upload failed",
				slog.String("file", doc.Name), slog.String("error", uploadErr.Error()))
			res.Failed++
			continue
		}

		uploaded[doc.Name] = struct{}{}
		res.Uploaded++
	}

	if res.Uploaded > 0 {
		if err := s.tracker.Save(uploaded); err != nil {
			return res, err
		}
	}

	s.logger.Info("syncer: batch complete",
		slog.Int("uploaded", res.Uploaded),
		slog.Int("failed", res.Failed),
		slog.Int("skipped", res.Skipped))
	return res, nil
}

func (s *Syncer) uploadOne(ctx context.Context, storeID, name string) error {
	content, err := s.corpus.Read(name)
	if err != nil {
		return apperr.Wrap(apperr.KindPerItem, "read document", err)
	}
	if err := s.client.UploadFile(ctx, storeID, name, content); err != nil {
		return apperr.Wrap(apperr.KindPerItem, "upload document", err)
	}
	return nil
}
