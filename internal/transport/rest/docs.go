package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/forumkit/doccat-backend/internal/domain"
)

type indexReadService interface {
	IndexForCategory(ctx context.Context, categoryID int64) (*domain.DocIndex, error)
	SidebarStructure(ctx context.Context, index *domain.DocIndex) ([]domain.SidebarStructureSection, error)
}

type docCategoryCache interface {
	IDs(ctx context.Context) ([]int64, error)
}

// DocsHandler serves the public read endpoints for documentation
// categories.
type DocsHandler struct {
	svc   indexReadService
	cache docCategoryCache
	log   *slog.Logger
}

// NewDocsHandler creates a DocsHandler.
func NewDocsHandler(svc indexReadService, cache docCategoryCache, logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		svc:   svc,
		cache: cache,
		log:   logger.With("handler", "docs"),
	}
}

type indexResponse struct {
	CategoryID       int64                            `json:"category_id"`
	IndexTopicID     int64                            `json:"index_topic_id"`
	SidebarStructure []domain.SidebarStructureSection `json:"sidebar_structure"`
}

// GetIndex returns a category's projected sidebar structure.
// GET /categories/{id}/docs-index
func (h *DocsHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	index, err := h.svc.IndexForCategory(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category has no docs index")
			return
		}
		h.log.ErrorContext(r.Context(), "load index", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	structure, err := h.svc.SidebarStructure(r.Context(), index)
	if err != nil {
		h.log.ErrorContext(r.Context(), "project structure", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{
		CategoryID:       index.CategoryID,
		IndexTopicID:     index.IndexTopicID,
		SidebarStructure: structure,
	})
}

// ListDocCategories returns the ids of all categories with a docs index.
// GET /docs/categories
func (h *DocsHandler) ListDocCategories(w http.ResponseWriter, r *http.Request) {
	ids, err := h.cache.IDs(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "load doc categories", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	writeJSON(w, http.StatusOK, map[string][]int64{"category_ids": ids})
}
