package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/internal/service/catalog"
)

// catalogService defines the minimal interface needed by ToolHandler.
type catalogService interface {
	CreateTool(ctx context.Context, in catalog.CreateToolInput) (*domain.Tool, error)
	UpdateTool(ctx context.Context, id uuid.UUID, in catalog.UpdateToolInput) (*domain.Tool, error)
	ApproveTool(ctx context.Context, id uuid.UUID) (*domain.Tool, error)
	RejectTool(ctx context.Context, id uuid.UUID) (*domain.Tool, error)
	DeleteTool(ctx context.Context, id uuid.UUID) error
	RateTool(ctx context.Context, id uuid.UUID, value int) (domain.RatingSummary, error)
	GetTool(ctx context.Context, id uuid.UUID) (*domain.Tool, error)
	FindTools(ctx context.Context, in catalog.FindToolsInput) (*catalog.FindResult, error)
}

// ToolHandler serves tool REST endpoints.
type ToolHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewToolHandler creates a ToolHandler.
func NewToolHandler(svc catalogService, logger *slog.Logger) *ToolHandler {
	return &ToolHandler{svc: svc, log: logger.With("handler", "tools")}
}

type screenshotRequest struct {
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

type exampleRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

type createToolRequest struct {
	Name             string              `json:"name"`
	URL              string              `json:"url"`
	Description      string              `json:"description"`
	HowToUse         *string             `json:"howToUse"`
	DocumentationURL *string             `json:"documentationUrl"`
	CategoryIDs      []string            `json:"categoryIds"`
	Roles            []string            `json:"roles"`
	Tags             []string            `json:"tags"`
	Screenshots      []screenshotRequest `json:"screenshots"`
	Examples         []exampleRequest    `json:"examples"`
}

type updateToolRequest struct {
	Name             *string              `json:"name"`
	URL              *string              `json:"url"`
	Description      *string              `json:"description"`
	HowToUse         *string              `json:"howToUse"`
	DocumentationURL *string              `json:"documentationUrl"`
	CategoryIDs      *[]string            `json:"categoryIds"`
	Roles            *[]string            `json:"roles"`
	Tags             *[]string            `json:"tags"`
	Screenshots      *[]screenshotRequest `json:"screenshots"`
	Examples         *[]exampleRequest    `json:"examples"`
}

type toolListResponse struct {
	Tools []toolResponse   `json:"tools"`
	Meta  pageMetaResponse `json:"meta"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// List handles GET /api/v1/tools.
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := catalog.FindToolsInput{
		Search:       optionalParam(q.Get("search")),
		CategorySlug: optionalParam(q.Get("category")),
		TagSlug:      optionalParam(q.Get("tag")),
		Status:       optionalParam(q.Get("status")),
		Page:         pageParam(q.Get("page")),
	}
	if role := q.Get("role"); role != "" {
		rr := domain.Role(role)
		in.Role = &rr
	}

	res, err := h.svc.FindTools(r.Context(), in)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := toolListResponse{
		Tools: make([]toolResponse, 0, len(res.Tools)),
		Meta: pageMetaResponse{
			Total:    res.Meta.Total,
			Page:     res.Meta.Page,
			LastPage: res.Meta.LastPage,
		},
	}
	for _, t := range res.Tools {
		out.Tools = append(out.Tools, toToolResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/tools/{id}.
func (h *ToolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tool, err := h.svc.GetTool(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toToolResponse(*tool))
}

// Create handles POST /api/v1/tools.
func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := catalog.CreateToolInput{
		Name:             req.Name,
		URL:              req.URL,
		Description:      req.Description,
		HowToUse:         req.HowToUse,
		DocumentationURL: req.DocumentationURL,
		Tags:             req.Tags,
		Screenshots:      screenshotsFromRequest(req.Screenshots),
		Examples:         examplesFromRequest(req.Examples),
	}

	var err error
	if in.CategoryIDs, err = parseUUIDs(req.CategoryIDs); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid category id", nil)
		return
	}
	in.Roles = rolesFromRequest(req.Roles)

	tool, err := h.svc.CreateTool(r.Context(), in)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toToolResponse(*tool))
}

// Update handles PATCH /api/v1/tools/{id}.
func (h *ToolHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateToolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := catalog.UpdateToolInput{
		Name:             req.Name,
		URL:              req.URL,
		Description:      req.Description,
		HowToUse:         req.HowToUse,
		DocumentationURL: req.DocumentationURL,
		Tags:             req.Tags,
	}
	if req.CategoryIDs != nil {
		ids, err := parseUUIDs(*req.CategoryIDs)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid category id", nil)
			return
		}
		in.CategoryIDs = &ids
	}
	if req.Roles != nil {
		roles := rolesFromRequest(*req.Roles)
		in.Roles = &roles
	}
	if req.Screenshots != nil {
		shots := screenshotsFromRequest(*req.Screenshots)
		in.Screenshots = &shots
	}
	if req.Examples != nil {
		examples := examplesFromRequest(*req.Examples)
		in.Examples = &examples
	}

	tool, err := h.svc.UpdateTool(r.Context(), id, in)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toToolResponse(*tool))
}

// Delete handles DELETE /api/v1/tools/{id}.
func (h *ToolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTool(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Approve handles POST /api/v1/tools/{id}/approve.
func (h *ToolHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.svc.ApproveTool)
}

// Reject handles POST /api/v1/tools/{id}/reject.
func (h *ToolHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.svc.RejectTool)
}

func (h *ToolHandler) moderate(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*domain.Tool, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tool, err := fn(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toToolResponse(*tool))
}

// Rate handles POST /api/v1/tools/{id}/rate.
func (h *ToolHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	summary, err := h.svc.RateTool(r.Context(), id, req.Rating)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{Average: summary.Average, Count: summary.Count})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func optionalParam(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func pageParam(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func rolesFromRequest(raw []string) []domain.Role {
	out := make([]domain.Role, 0, len(raw))
	for _, s := range raw {
		out = append(out, domain.Role(s))
	}
	return out
}

func screenshotsFromRequest(raw []screenshotRequest) []catalog.ScreenshotInput {
	out := make([]catalog.ScreenshotInput, 0, len(raw))
	for _, s := range raw {
		out = append(out, catalog.ScreenshotInput{URL: s.URL, Caption: s.Caption})
	}
	return out
}

func examplesFromRequest(raw []exampleRequest) []catalog.ExampleInput {
	out := make([]catalog.ExampleInput, 0, len(raw))
	for _, e := range raw {
		out = append(out, catalog.ExampleInput{Title: e.Title, Description: e.Description, URL: e.URL})
	}
	return out
}
