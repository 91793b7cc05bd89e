// Package models defines the domain types for Girogi.
package models

import "time"

// Article holds the canonical metadata for one newsletter article,
// keyed externally by the document stem (filename without extension).
type Article struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Author string `json:"author"`
}

// ArticleSet maps document stems to their canonical metadata.
// Once a key exists it is never overwritten; merge runs only add.
type ArticleSet map[string]Article

// StoreConfig is the singleton record describing the remote file
// search store. Written once when the store is created, read-only
// afterwards.
type StoreConfig struct {
	CorpusName  string `json:"corpus_name"`
	StoreName   string `json:"store_name"`
	CreatedAt   string `json:"created_at"`
	DataSource  string `json:"data_source"`
	Description string `json:"description"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in a session transcript. Citations are only
// present on assistant messages.
type ChatMessage struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
}

// Citation is a raw grounding reference as returned by the remote
// store: the display title and a snippet of the retrieved text.
type Citation struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ResolvedCitation is a citation mapped back to canonical article
// metadata. URL is nil when no metadata entry matched the title, so
// consumers can distinguish "no link available" from "has a link".
type ResolvedCitation struct {
	Title string  `json:"title"`
	URL   *string `json:"url"`
}

// DocumentInfo describes one Markdown file in the corpus directory.
type DocumentInfo struct {
	Name    string    // filename with extension
	Stem    string    // filename without extension
	Size    int64     // bytes
	ModTime time.Time
}
