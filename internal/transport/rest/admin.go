package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
	"github.com/forumkit/doccat-backend/internal/service/reports"
	"github.com/forumkit/doccat-backend/internal/transport/middleware"
)

type assignService interface {
	Assign(ctx context.Context, category *domain.Category, topicID int64) (bool, error)
}

type categoryReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
}

type reportBuilder interface {
	Build(ctx context.Context, categoryID int64, includeSubcategories bool) (*reports.Report, error)
}

type docsSettings interface {
	Enabled() bool
	SetEnabled(v bool) bool
}

type cacheInvalidator interface {
	Invalidate()
}

// AdminHandler serves the staff-only index management endpoints.
type AdminHandler struct {
	docs       assignService
	categories categoryReader
	reports    reportBuilder
	queue      jobs.Enqueuer
	settings   docsSettings
	cache      cacheInvalidator
	log        *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	docs assignService,
	categories categoryReader,
	reportSvc reportBuilder,
	queue jobs.Enqueuer,
	docsSettings docsSettings,
	cache cacheInvalidator,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		docs:       docs,
		categories: categories,
		reports:    reportSvc,
		queue:      queue,
		settings:   docsSettings,
		cache:      cache,
		log:        logger.With("handler", "admin"),
	}
}

type setIndexRequest struct {
	IndexTopicID *int64 `json:"index_topic_id"`
}

// SetIndex assigns or clears a category's index topic. A null
// index_topic_id clears the binding.
// PUT /admin/categories/{id}/docs-index
func (h *AdminHandler) SetIndex(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}

	var req setIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var topicID int64
	if req.IndexTopicID != nil {
		topicID = *req.IndexTopicID
	}

	changed, err := h.docs.Assign(r.Context(), category, topicID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "assign index", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

// ClearIndex removes a category's index binding.
// DELETE /admin/categories/{id}/docs-index
func (h *AdminHandler) ClearIndex(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}

	changed, err := h.docs.Assign(r.Context(), category, 0)
	if err != nil {
		h.log.ErrorContext(r.Context(), "clear index", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

// RefreshIndex schedules a structure rebuild for a category.
// POST /admin/categories/{id}/docs-index/refresh
func (h *AdminHandler) RefreshIndex(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}

	if err := h.queue.Enqueue(r.Context(), jobs.RefreshIndex, jobs.RefreshIndexArgs(category.ID)); err != nil {
		h.log.ErrorContext(r.Context(), "enqueue refresh", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "refresh queue unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"enqueued": true})
}

// Report audits a category's index against its topics.
// GET /admin/categories/{id}/docs-index/report?include_subcategories=true
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	categoryID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	includeSubcategories := r.URL.Query().Get("include_subcategories") == "true"

	report, err := h.reports.Build(r.Context(), categoryID, includeSubcategories)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category has no docs index")
			return
		}
		h.log.ErrorContext(r.Context(), "build report", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type settingsRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateSettings toggles documentation category maintenance.
// PUT /admin/docs/settings
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.settings.SetEnabled(req.Enabled) {
		// The toggle changes which categories count as doc categories.
		h.cache.Invalidate()
		h.log.InfoContext(r.Context(), "docs maintenance toggled", slog.Bool("enabled", req.Enabled))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.settings.Enabled()})
}

func (h *AdminHandler) loadCategory(w http.ResponseWriter, r *http.Request) (*domain.Category, bool) {
	categoryID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return nil, false
	}

	category, err := h.categories.GetByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return nil, false
		}
		h.log.ErrorContext(r.Context(), "load category", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return category, true
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
