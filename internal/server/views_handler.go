package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/itnihongo/kaiwa/internal/views"
)

type viewCount struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

type incrementRequest struct {
	ID string `json:"id"`
}

// ViewsHandler serves the view counter:
// GET ?all=1 returns every count, GET ?id= one count and POST {"id"} increments.
type ViewsHandler struct {
	store views.Store
}

func NewViewsHandler(store views.Store) *ViewsHandler {
	return &ViewsHandler{store: store}
}

func (h *ViewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if h.store == nil {
		writeError(w, http.StatusInternalServerError, "Server not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.increment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ViewsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Query().Get("all") == "1" {
		counts, err := h.store.All(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, counts)
		return
	}

	id, err := views.SanitizeID(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	count, err := h.store.Get(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCount{ID: id, Count: count})
}

func (h *ViewsHandler) increment(w http.ResponseWriter, r *http.Request) {
	var req incrementRequest
	// a missing or malformed body is treated as an empty id
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req)

	id, err := views.SanitizeID(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	count, err := h.store.Increment(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCount{ID: id, Count: count})
}

func (h *ViewsHandler) fail(w http.ResponseWriter, err error) {
	slog.Default().Error("views request failed", slog.Any("error", err))
	if errors.Is(err, views.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, "Server not configured")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
