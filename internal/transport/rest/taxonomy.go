package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// taxonomyService defines the minimal interface needed by TaxonomyHandler.
type taxonomyService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, actor domain.Actor, name string, description *string) (domain.Category, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, name string) (domain.Tag, error)
}

// TaxonomyHandler serves category and tag endpoints.
type TaxonomyHandler struct {
	svc taxonomyService
	log *slog.Logger
}

// NewTaxonomyHandler creates a TaxonomyHandler.
func NewTaxonomyHandler(svc taxonomyService, logger *slog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc, log: logger.With("handler", "taxonomy")}
}

type createCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type createTagRequest struct {
	Name string `json:"name"`
}

// ListCategories handles GET /api/v1/categories.
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// CreateCategory handles POST /api/v1/categories.
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := ctxutil.ActorFromCtx(r.Context())
	if !ok {
		respondError(h.log, w, r, domain.ErrUnauthorized)
		return
	}
	var req createCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.svc.CreateCategory(r.Context(), actor, req.Name, req.Description)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

// ListTags handles GET /api/v1/tags.
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": out})
}

// CreateTag handles POST /api/v1/tags.
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.ActorFromCtx(r.Context()); !ok {
		respondError(h.log, w, r, domain.ErrUnauthorized)
		return
	}
	var req createTagRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tag, err := h.svc.CreateTag(r.Context(), req.Name)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTagResponse(tag))
}
