package chat

import (
	"strings"

	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/models"
)

// Resolve maps a raw grounding reference to its canonical article
// metadata. The raw title is typically a filename with a .md suffix;
// the suffix is stripped and the rest looked up as a stem. On a miss
// the original title comes back with a nil URL so the display layer
// can tell "no link available" from "has a link".
func Resolve(raw models.Citation, catalog *metadata.Catalog) models.ResolvedCitation {
	stem := strings.TrimSuffix(raw.Title, ".md")
	if article, ok := catalog.Get(stem); ok {
		url := article.URL
		resolved := models.ResolvedCitation{Title: article.Title}
		if url != "" {
			resolved.URL = &url
		}
		return resolved
	}
	return models.ResolvedCitation{Title: raw.Title}
}

// ResolveAll resolves a citation list in order.
func ResolveAll(raw []models.Citation, catalog *metadata.Catalog) []models.ResolvedCitation {
	out := make([]models.ResolvedCitation, 0, len(raw))
	for _, c := range raw {
		out = append(out, Resolve(c, catalog))
	}
	return out
}
