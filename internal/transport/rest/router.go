package rest

import "net/http"

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Tools    *ToolHandler
	Taxonomy *TaxonomyHandler
	Audit    *AuditHandler
	Health   *HealthHandler
}

// NewRouter mounts the API surface on a ServeMux. Authentication is
// resolved by middleware before routing; handlers themselves decide
// whether anonymous access is allowed.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/v1/me", h.Auth.Me)

	mux.HandleFunc("GET /api/v1/tools", h.Tools.List)
	mux.HandleFunc("POST /api/v1/tools", h.Tools.Create)
	mux.HandleFunc("GET /api/v1/tools/{id}", h.Tools.Get)
	mux.HandleFunc("PATCH /api/v1/tools/{id}", h.Tools.Update)
	mux.HandleFunc("DELETE /api/v1/tools/{id}", h.Tools.Delete)
	mux.HandleFunc("POST /api/v1/tools/{id}/approve", h.Tools.Approve)
	mux.HandleFunc("POST /api/v1/tools/{id}/reject", h.Tools.Reject)
	mux.HandleFunc("POST /api/v1/tools/{id}/rate", h.Tools.Rate)

	mux.HandleFunc("GET /api/v1/categories", h.Taxonomy.ListCategories)
	mux.HandleFunc("POST /api/v1/categories", h.Taxonomy.CreateCategory)
	mux.HandleFunc("GET /api/v1/tags", h.Taxonomy.ListTags)
	mux.HandleFunc("POST /api/v1/tags", h.Taxonomy.CreateTag)

	mux.HandleFunc("GET /api/v1/audit-logs", h.Audit.List)
	mux.HandleFunc("DELETE /api/v1/audit-logs/{id}", h.Audit.Purge)

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /live", h.Health.Live)

	return mux
}
