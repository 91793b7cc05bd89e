package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/starford/girogi/internal/chat"
	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/models"
	"github.com/starford/girogi/internal/session"
	"github.com/starford/girogi/internal/sse"
)

// Answerer produces a grounded answer with raw citations. Satisfied by
// *chat.Engine; an interface so handlers are testable without a remote.
type Answerer interface {
	Ask(ctx context.Context, query string, history []models.ChatMessage) (string, []models.Citation)
}

// Handler holds API route handlers and their dependencies.
type Handler struct {
	engine   Answerer
	sessions *session.Manager
	catalog  *metadata.Catalog
	broker   *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil.
func NewHandler(engine Answerer, sessions *session.Manager, catalog *metadata.Catalog, broker *sse.Broker) *Handler {
	return &Handler{engine: engine, sessions: sessions, catalog: catalog, broker: broker}
}

// Chat handles POST /api/chat: appends the user turn, asks the engine
// with the prior transcript, appends the assistant turn, and returns
// the answer with resolved citations. The query path never fails with
// an error payload; engine failures arrive as displayable answers.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("message is required"))
		return
	}

	sess := h.sessions.GetOrCreate(req.SessionID)
	history := sess.History()

	sess.Append(models.ChatMessage{Role: models.RoleUser, Content: req.Message})

	answer, citations := h.engine.Ask(r.Context(), req.Message, history)

	sess.Append(models.ChatMessage{
		Role:      models.RoleAssistant,
		Content:   answer,
		Citations: citations,
	})

	if h.broker != nil {
		h.broker.PublishChatEvent(sess.ID, len(citations))
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID: sess.ID,
		Answer:    answer,
		Citations: chat.ResolveAll(citations, h.catalog),
	})
}

// ListArticles handles GET /api/articles.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	set := h.catalog.All()

	items := make([]ArticleListItem, 0, len(set))
	for key, a := range set {
		items = append(items, ArticleListItem{
			Key:    key,
			Title:  a.Title,
			URL:    a.URL,
			Author: a.Author,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	writeJSON(w, http.StatusOK, ArticleListResponse{Articles: items, Total: len(items)})
}

// GetSession handles GET /api/sessions/{id}: the transcript with
// citations resolved for display.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}

	history := sess.History()
	msgs := make([]TranscriptMessage, 0, len(history))
	for _, m := range history {
		tm := TranscriptMessage{Role: m.Role, Content: m.Content}
		if len(m.Citations) > 0 {
			tm.Citations = chat.ResolveAll(m.Citations, h.catalog)
		}
		msgs = append(msgs, tm)
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{SessionID: sess.ID, Messages: msgs})
}
