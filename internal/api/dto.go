package api

import "github.com/starford/girogi/internal/models"

// ChatRequest is the request body for POST /api/chat. SessionID is
// optional; omitting it starts a fresh session.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse carries a grounded answer with resolved citations.
type ChatResponse struct {
	SessionID string                    `json:"session_id"`
	Answer    string                    `json:"answer"`
	Citations []models.ResolvedCitation `json:"citations"`
}

// ArticleListItem is one entry in the article listing.
type ArticleListItem struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Author string `json:"author"`
}

// ArticleListResponse wraps the article listing.
type ArticleListResponse struct {
	Articles []ArticleListItem `json:"articles"`
	Total    int               `json:"total"`
}

// TranscriptMessage is one transcript turn with resolved citations.
type TranscriptMessage struct {
	Role      models.Role               `json:"role"`
	Content   string                    `json:"content"`
	Citations []models.ResolvedCitation `json:"citations,omitempty"`
}

// TranscriptResponse wraps a session transcript.
type TranscriptResponse struct {
	SessionID string              `json:"session_id"`
	Messages  []TranscriptMessage `json:"messages"`
}
