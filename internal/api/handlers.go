package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/filing"
	"github.com/starford/ansuz/internal/keymap"
)

// Handler holds API route handlers.
type Handler struct {
	svc  *filing.Service
	keys *keymap.Store
}

// NewHandler creates a new Handler. keys may be nil when no keybinding store
// is wired (the /config endpoint then serves defaults).
func NewHandler(svc *filing.Service, keys *keymap.Store) *Handler {
	return &Handler{svc: svc, keys: keys}
}

// snippetID extracts the numeric snippet id from the URL.
func snippetID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// documentName extracts the document name from the URL. Names may contain
// spaces, so clients send them percent-encoded.
func documentName(r *http.Request) string {
	raw := chi.URLParam(r, "ref")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// SubmitSnippet handles POST /api/snippets.
//
//	@Summary		Submit a snippet for auto-filing
//	@Tags			snippets
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SubmitSnippetRequest	true	"Snippet to file"
//	@Success		201		{object}	FilingResult
//	@Success		204		"Empty snippet, nothing filed"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets [post]
func (h *Handler) SubmitSnippet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SubmitSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.Submit(r.Context(), req.Text, req.Title)
	if err != nil {
		slog.Error("submit snippet failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// UpdateSnippet handles PUT /api/snippets/{id}.
//
//	@Summary		Replace a snippet's text
//	@Tags			snippets
//	@Accept			json
//	@Param			id		path	int						true	"Snippet id"
//	@Param			body	body	UpdateSnippetRequest	true	"New text"
//	@Success		204		"Snippet updated (or deleted when text is empty)"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets/{id} [put]
func (h *Handler) UpdateSnippet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, ok := snippetID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid snippet id"))
		return
	}
	var req UpdateSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.Update(r.Context(), id, req.Text); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("update snippet failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSnippet handles DELETE /api/snippets/{id}.
//
//	@Summary		Delete a snippet
//	@Tags			snippets
//	@Param			id	path	int	true	"Snippet id"
//	@Success		204	"Snippet deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets/{id} [delete]
func (h *Handler) DeleteSnippet(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid snippet id"))
		return
	}
	if err := h.svc.DeleteSnippet(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete snippet failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveSnippet handles POST /api/snippets/{id}/move.
//
//	@Summary		Move a snippet to another document
//	@Tags			snippets
//	@Accept			json
//	@Param			id		path	int					true	"Snippet id"
//	@Param			body	body	MoveSnippetRequest	true	"Destination document"
//	@Success		204		"Snippet moved"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets/{id}/move [post]
func (h *Handler) MoveSnippet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, ok := snippetID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid snippet id"))
		return
	}
	var req MoveSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.TargetDocumentID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("target_document_id is required"))
		return
	}
	if err := h.svc.MoveSnippet(r.Context(), id, req.TargetDocumentID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("move snippet failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List every document with its snippet texts
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Snippets(r.Context())
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs})
}

// GetDocument handles GET /api/documents/{ref}, where ref is the document name.
//
//	@Summary		Get a document and its snippets by name
//	@Tags			documents
//	@Produce		json
//	@Param			ref	path		string	true	"Document name"
//	@Success		200	{object}	DocumentDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{ref} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	name := documentName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document name is required"))
		return
	}
	doc, err := h.svc.Document(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get document failed", slog.String("name", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// MarkedDocument handles GET /api/documents/marked.
//
//	@Summary		Get the pinned document
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/marked [get]
func (h *Handler) MarkedDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Marked(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no document is marked"))
		} else {
			slog.Error("marked document failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/{ref}, where ref is the
// numeric document id.
//
//	@Summary		Delete a document and all its snippets
//	@Tags			documents
//	@Param			ref	path	int	true	"Document id"
//	@Success		204	"Document deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{ref} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ref"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	if err := h.svc.DeleteDocument(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete document failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkDocument handles POST /api/documents/{ref}/mark, where ref is the
// numeric document id.
//
//	@Summary		Pin a document so untitled submissions file into it
//	@Tags			documents
//	@Param			ref	path	int	true	"Document id"
//	@Success		204	"Document marked"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{ref}/mark [post]
func (h *Handler) MarkDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ref"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	if err := h.svc.MarkDocument(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("mark document failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Keybindings handles GET /api/config.
//
//	@Summary		Current keybindings for the desktop shell
//	@Tags			config
//	@Produce		json
//	@Success		200	{object}	keymap.Bindings
//	@Security		BearerAuth
//	@Router			/config [get]
func (h *Handler) Keybindings(w http.ResponseWriter, _ *http.Request) {
	b := keymap.Defaults()
	if h.keys != nil {
		b = h.keys.Bindings()
	}
	writeJSON(w, http.StatusOK, b)
}
