package metadata

import (
	"sync"

	"github.com/starford/girogi/internal/models"
)

// Catalog holds the current article mapping for read paths (citation
// resolution, listings) while the sync pipeline remains the single
// writer. Replace swaps the whole snapshot after a merge run.
type Catalog struct {
	mu  sync.RWMutex
	set models.ArticleSet
}

// NewCatalog creates a Catalog seeded with the given mapping.
func NewCatalog(set models.ArticleSet) *Catalog {
	if set == nil {
		set = models.ArticleSet{}
	}
	return &Catalog{set: set}
}

// Get returns the article for a stem.
func (c *Catalog) Get(stem string) (models.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.set[stem]
	return a, ok
}

// All returns the current snapshot. Callers must not mutate it.
func (c *Catalog) All() models.ArticleSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set
}

// Len returns the number of articles in the snapshot.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.set)
}

// Replace swaps in a new snapshot.
func (c *Catalog) Replace(set models.ArticleSet) {
	if set == nil {
		set = models.ArticleSet{}
	}
	c.mu.Lock()
	c.set = set
	c.mu.Unlock()
}
