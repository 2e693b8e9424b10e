// Package audittrail owns the append-only history of catalog
// mutations. Every record snapshots actor and subject identity by
// value, so history stays legible after either is deleted.
package audittrail

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

type auditRepo interface {
	Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)
	Find(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements audit trail business logic.
type Service struct {
	log  *slog.Logger
	repo auditRepo
}

// NewService creates an audit trail service.
func NewService(logger *slog.Logger, repo auditRepo) *Service {
	return &Service{
		log:  logger.With("service", "audittrail"),
		repo: repo,
	}
}

// Record appends an event with a live subject reference. Used for
// created/updated/approved/rejected; changes is only set for updated.
// Request provenance is read from the context, captured at write time.
func (s *Service) Record(
	ctx context.Context,
	actor domain.Actor,
	action domain.AuditAction,
	tool *domain.Tool,
	changes map[string]domain.FieldChange,
) (domain.AuditRecord, error) {
	toolID := tool.ID
	rec := domain.AuditRecord{
		ActorID:   &actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Action:    action,
		ToolID:    &toolID,
		ToolName:  tool.Name,
		Changes:   changes,
	}
	stampProvenance(ctx, &rec)

	return s.repo.Create(ctx, rec)
}

// RecordDeleted appends a tombstone event. The caller must snapshot
// the tool's name and id BEFORE the delete executes; the live
// reference is cleared here and the dead id is kept in Extra so the
// record stays meaningful after the row is gone.
func (s *Service) RecordDeleted(
	ctx context.Context,
	actor domain.Actor,
	toolName string,
	deadToolID uuid.UUID,
) (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		ActorID:   &actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Action:    domain.AuditActionDeleted,
		ToolID:    nil,
		ToolName:  toolName,
		Extra:     map[string]string{"deleted_tool_id": deadToolID.String()},
	}
	stampProvenance(ctx, &rec)

	return s.repo.Create(ctx, rec)
}

// ListResult is one page of audit records.
type ListResult struct {
	Records []domain.AuditRecord
	Meta    domain.PageMeta
}

// List returns a filtered page, newest-first. Elevated actors only.
func (s *Service) List(ctx context.Context, actor domain.Actor, filter domain.AuditFilter) (*ListResult, error) {
	if !actor.IsElevated() {
		return nil, domain.ErrForbidden
	}

	filter.Normalize()
	if filter.Action != nil && !filter.Action.IsValid() {
		return nil, domain.NewValidationError("action", "unknown audit action")
	}

	records, total, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Records: records,
		Meta:    domain.NewPageMeta(total, filter.Page, domain.AuditPageSize),
	}, nil
}

// Purge permanently deletes one record. Elevated actors only. The
// purge itself is deliberately not re-audited; it is logged instead.
func (s *Service) Purge(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsElevated() {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "audit record purged",
		slog.Int64("record_id", id),
		slog.String("actor_id", actor.ID.String()),
	)
	return nil
}

func stampProvenance(ctx context.Context, rec *domain.AuditRecord) {
	meta := ctxutil.RequestMetaFromCtx(ctx)
	if meta.IPAddress != "" {
		rec.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		rec.UserAgent = &meta.UserAgent
	}
}
