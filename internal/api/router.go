package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/filing"
	"github.com/starford/ansuz/internal/keymap"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *filing.Service, keys *keymap.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, keys)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Snippets.
	r.Post("/snippets", h.SubmitSnippet)
	r.Put("/snippets/{id}", h.UpdateSnippet)
	r.Delete("/snippets/{id}", h.DeleteSnippet)
	r.Post("/snippets/{id}/move", h.MoveSnippet)

	// Documents. The static "marked" route must win over {ref}.
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/marked", h.MarkedDocument)
	r.Get("/documents/{ref}", h.GetDocument)
	r.Delete("/documents/{ref}", h.DeleteDocument)
	r.Post("/documents/{ref}/mark", h.MarkDocument)

	// Presentation config.
	r.Get("/config", h.Keybindings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
