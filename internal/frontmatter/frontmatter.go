// Package frontmatter extracts the YAML header block from Markdown
// newsletter articles.
package frontmatter

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Record holds the fields recovered from an article's frontmatter.
// Authors is already normalised: a scalar author field becomes a
// one-element slice, a list keeps its order, and anything else is
// empty. A missing or malformed header yields the zero Record.
type Record struct {
	Title   string
	Source  string
	Authors []string
}

// IsZero reports whether no frontmatter fields were recovered.
func (r Record) IsZero() bool {
	return r.Title == "" && r.Source == "" && len(r.Authors) == 0
}

// Extract parses the frontmatter block (between leading --- delimiters)
// out of raw Markdown bytes. It never returns an error: ingestion must
// continue for the rest of the corpus, so absent or malformed headers
// produce an empty Record and the caller logs a warning when ok is false.
func Extract(data []byte) (rec Record, ok bool) {
	fm, ok := splitHeader(data)
	if !ok || fm == nil {
		return Record{}, ok
	}

	if t, found := fm["title"]; found {
		if s, isStr := t.(string); isStr {
			rec.Title = s
		}
	}
	if src, found := fm["source"]; found {
		if s, isStr := src.(string); isStr {
			rec.Source = s
		}
	}
	rec.Authors = normaliseAuthors(fm["author"])
	return rec, true
}

// splitHeader isolates the YAML block between the leading ---
// delimiters. ok is false when the block is absent or invalid.
func splitHeader(data []byte) (map[string]interface{}, bool) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter.
		return nil, false
	}

	var fm map[string]interface{}
	if err := yaml.Unmarshal(rest[:idx], &fm); err != nil {
		return nil, false
	}
	return fm, true
}

// normaliseAuthors turns the list-or-scalar author field into an
// ordered string slice so no downstream code branches on shape.
func normaliseAuthors(raw interface{}) []string {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
