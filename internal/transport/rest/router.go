package rest

import "net/http"

// NewRouter wires all REST endpoints onto a ServeMux.
func NewRouter(health *HealthHandler, docs *DocsHandler, admin *AdminHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", health.Live)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /docs/categories", docs.ListDocCategories)
	mux.HandleFunc("GET /categories/{id}/docs-index", docs.GetIndex)

	mux.HandleFunc("PUT /admin/categories/{id}/docs-index", admin.SetIndex)
	mux.HandleFunc("DELETE /admin/categories/{id}/docs-index", admin.ClearIndex)
	mux.HandleFunc("POST /admin/categories/{id}/docs-index/refresh", admin.RefreshIndex)
	mux.HandleFunc("GET /admin/categories/{id}/docs-index/report", admin.Report)
	mux.HandleFunc("PUT /admin/docs/settings", admin.UpdateSettings)

	return mux
}
