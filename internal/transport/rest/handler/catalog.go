package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"hellosleep/internal/service"
)

// CatalogHandler serves the static tag and booklet tables
type CatalogHandler struct {
	tags     *service.TagService
	booklets *service.BookletService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(tags *service.TagService, booklets *service.BookletService) *CatalogHandler {
	return &CatalogHandler{tags: tags, booklets: booklets}
}

// Tags handles GET /v1/tags
func (h *CatalogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": h.tags.Tags()})
}

// Booklet handles GET /v1/booklets/{id}; ?format=html renders the content
func (h *CatalogHandler) Booklet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b, err := h.booklets.Get(id)
	if errors.Is(err, service.ErrBookletNotFound) {
		writeError(w, http.StatusNotFound, "booklet not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") != "html" {
		writeJSON(w, http.StatusOK, b)
		return
	}

	html, err := h.booklets.RenderHTML(b)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render booklet")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}
