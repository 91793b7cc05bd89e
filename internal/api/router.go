package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/girogi/internal/metadata"
	"github.com/starford/girogi/internal/session"
	"github.com/starford/girogi/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(engine Answerer, sessions *session.Manager, catalog *metadata.Catalog, broker *sse.Broker, authEnabled bool, token string) chi.Router {
	h := NewHandler(engine, sessions, catalog, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/chat", h.Chat)
	r.Get("/articles", h.ListArticles)
	r.Get("/sessions/{id}", h.GetSession)

	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
