package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/internal/service/audittrail"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// auditService defines the minimal interface needed by AuditHandler.
type auditService interface {
	List(ctx context.Context, actor domain.Actor, filter domain.AuditFilter) (*audittrail.ListResult, error)
	Purge(ctx context.Context, actor domain.Actor, id int64) error
}

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	svc auditService
	log *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc auditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: logger.With("handler", "audit")}
}

type auditListResponse struct {
	Records []auditRecordResponse `json:"records"`
	Meta    pageMetaResponse      `json:"meta"`
}

// List handles GET /api/v1/audit-logs.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := ctxutil.ActorFromCtx(r.Context())
	if !ok {
		respondError(h.log, w, r, domain.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := domain.AuditFilter{
		Search: optionalParam(q.Get("search")),
		Page:   pageParam(q.Get("page")),
	}
	if action := q.Get("action"); action != "" {
		a := domain.AuditAction(action)
		filter.Action = &a
	}
	if raw := q.Get("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation", "invalid actor_id", nil)
			return
		}
		filter.ActorID = &id
	}
	var ok2 bool
	if filter.From, ok2 = dateParam(q.Get("from"), false); !ok2 {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid from date", nil)
		return
	}
	if filter.To, ok2 = dateParam(q.Get("to"), true); !ok2 {
		writeError(w, http.StatusUnprocessableEntity, "validation", "invalid to date", nil)
		return
	}

	res, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	out := auditListResponse{
		Records: make([]auditRecordResponse, 0, len(res.Records)),
		Meta: pageMetaResponse{
			Total:    res.Meta.Total,
			Page:     res.Meta.Page,
			LastPage: res.Meta.LastPage,
		},
	}
	for _, rec := range res.Records {
		out.Records = append(out.Records, toAuditRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// Purge handles DELETE /api/v1/audit-logs/{id}.
func (h *AuditHandler) Purge(w http.ResponseWriter, r *http.Request) {
	actor, ok := ctxutil.ActorFromCtx(r.Context())
	if !ok {
		respondError(h.log, w, r, domain.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found", nil)
		return
	}

	if err := h.svc.Purge(r.Context(), actor, id); err != nil {
		respondError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dateParam parses a YYYY-MM-DD bound. endOfDay widens "to" so the
// named day is fully included.
func dateParam(raw string, endOfDay bool) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
