package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hellosleep/internal/cache"
	"hellosleep/internal/catalog"
	"hellosleep/internal/model"
	"hellosleep/internal/transport/rest/middleware"
)

// ContentReader reads mirrored recommendation records; nil when no content store is configured
type ContentReader interface {
	GetRecommendation(ctx context.Context, patternHash string) (*model.ContentRecord, error)
}

// AdminHandler serves the operator-only cache and catalog diagnostics
type AdminHandler struct {
	patterns      *cache.PatternCache
	content       ContentReader
	nearThreshold float64
	cleanupMaxAge time.Duration
	cleanupMinUse int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(patterns *cache.PatternCache, content ContentReader, nearThreshold float64, cleanupMaxAge time.Duration, cleanupMinUse int) *AdminHandler {
	return &AdminHandler{
		patterns:      patterns,
		content:       content,
		nearThreshold: nearThreshold,
		cleanupMaxAge: cleanupMaxAge,
		cleanupMinUse: cleanupMinUse,
	}
}

// SimilarRequest asks for near matches of an answer set
type SimilarRequest struct {
	Answers       model.AnswerSet `json:"answers"`
	MinSimilarity float64         `json:"minSimilarity,omitempty"`
}

// CleanupRequest overrides the configured cleanup gates
type CleanupRequest struct {
	MaxAge   string `json:"maxAge,omitempty"`
	MinUsage int    `json:"minUsage,omitempty"`
}

// CacheStats handles GET /v1/admin/cache/stats
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.patterns.Stats())
}

// Similar handles POST /v1/admin/cache/similar
func (h *AdminHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req SimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers are required")
		return
	}
	min := req.MinSimilarity
	if min <= 0 {
		min = h.nearThreshold
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hash":          cache.Hash(req.Answers),
		"minSimilarity": min,
		"hitThreshold":  h.patterns.HitThreshold(),
		"matches":       orEmpty(h.patterns.FindSimilar(req.Answers, min)),
	})
}

// Entry handles GET /v1/admin/cache/entries/{hash}
func (h *AdminHandler) Entry(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]

	entry, ok := h.patterns.Get(hash)
	if !ok {
		writeError(w, http.StatusNotFound, "pattern not found")
		return
	}

	resp := map[string]interface{}{"entry": entry}
	if h.content != nil {
		rec, err := h.content.GetRecommendation(r.Context(), hash)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["content"] = rec
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cleanup handles POST /v1/admin/cache/cleanup
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	req := CleanupRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	maxAge := h.cleanupMaxAge
	if req.MaxAge != "" {
		d, err := time.ParseDuration(req.MaxAge)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "maxAge must be a positive duration")
			return
		}
		maxAge = d
	}
	minUse := h.cleanupMinUse
	if req.MinUsage > 0 {
		minUse = req.MinUsage
	}

	removed, err := h.patterns.Cleanup(r.Context(), maxAge, minUse)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed":     removed,
		"stats":       h.patterns.Stats(),
		"requestedBy": middleware.GetAdminID(r.Context()),
	})
}

// CatalogGaps handles GET /v1/admin/catalog/gaps
func (h *AdminHandler) CatalogGaps(w http.ResponseWriter, r *http.Request) {
	report := catalog.Validate()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"errors": orEmpty(report.Errors),
		"gaps":   orEmpty(report.Gaps),
	})
}
