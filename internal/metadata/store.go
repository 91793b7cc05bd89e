// Package metadata maintains the canonical article metadata mapping
// persisted as article_metadata.json.
package metadata

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/starford/girogi/internal/frontmatter"
	"github.com/starford/girogi/internal/models"
	"github.com/starford/girogi/internal/storage"
)

// FileName is the persisted metadata file, relative to the state directory.
const FileName = "article_metadata.json"

// DefaultAuthor is used when an article's frontmatter carries no author.
const DefaultAuthor = "Records & Society"

// Store reads and writes the article metadata mapping.
type Store struct {
	state  storage.Provider
	logger *slog.Logger
}

// NewStore creates a Store persisting into the given state directory.
func NewStore(state storage.Provider, logger *slog.Logger) *Store {
	return &Store{state: state, logger: logger}
}

// Load reads the persisted mapping. A missing or corrupt file yields
// an empty mapping; corruption is logged but never raised so that
// ingestion can fall back and rebuild.
func (s *Store) Load() models.ArticleSet {
	data, err := s.state.Read(FileName)
	if err != nil {
		return models.ArticleSet{}
	}
	var set models.ArticleSet
	if err := json.Unmarshal(data, &set); err != nil {
		s.logger.Error("metadata: corrupt file, falling back to empty mapping",
			slog.String("file", FileName), slog.String("error", err.Error()))
		return models.ArticleSet{}
	}
	if set == nil {
		set = models.ArticleSet{}
	}
	return set
}

// GenerateAndMerge derives metadata for every corpus document whose
// stem is not already present and inserts it. Existing keys are left
// untouched, so re-running over an unchanged corpus is a no-op. A
// missing corpus directory is non-fatal: the existing mapping is
// returned unchanged.
func (s *Store) GenerateAndMerge(corpus storage.Provider) (models.ArticleSet, int) {
	set := s.Load()

	docs, err := corpus.List()
	if err != nil {
		s.logger.Warn("metadata: corpus directory unavailable, keeping existing mapping",
			slog.String("error", err.Error()))
		return set, 0
	}

	added := 0
	for _, doc := range docs {
		if _, exists := set[doc.Stem]; exists {
			continue
		}

		var rec frontmatter.Record
		data, err := corpus.Read(doc.Name)
		if err != nil {
			s.logger.Warn("metadata: read failed",
				slog.String("file", doc.Name), slog.String("error", err.Error()))
		} else {
			var ok bool
			rec, ok = frontmatter.Extract(data)
			if !ok {
				s.logger.Warn("metadata: no parsable frontmatter",
					slog.String("file", doc.Name))
			}
		}

		set[doc.Stem] = articleFromRecord(doc.Stem, rec)
		added++
	}

	return set, added
}

// Save atomically persists the full mapping. Keys are sorted by the
// encoder, so saving an unchanged mapping is byte-stable.
func (s *Store) Save(set models.ArticleSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("metadata: encode: %w", err)
	}
	data = append(data, '\n')
	if err := s.state.Write(FileName, data); err != nil {
		return fmt.Errorf("metadata: save: %w", err)
	}
	return nil
}

// articleFromRecord applies the field defaults: title falls back to
// the stem, author to the first listed author or the organisation name.
func articleFromRecord(stem string, rec frontmatter.Record) models.Article {
	a := models.Article{
		Title:  rec.Title,
		URL:    rec.Source,
		Author: DefaultAuthor,
	}
	if a.Title == "" {
		a.Title = stem
	}
	if len(rec.Authors) > 0 {
		a.Author = rec.Authors[0]
	}
	return a
}
