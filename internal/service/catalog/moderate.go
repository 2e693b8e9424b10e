package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/authz"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// ApproveTool publishes a pending entry. Approving an already-approved
// entry is a no-op that writes nothing, not even an audit record.
func (s *Service) ApproveTool(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	return s.moderate(ctx, id, domain.ToolStatusApproved, domain.AuditActionApproved)
}

// RejectTool declines a pending entry. Rejecting an already-rejected
// entry is a no-op.
func (s *Service) RejectTool(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	return s.moderate(ctx, id, domain.ToolStatusRejected, domain.AuditActionRejected)
}

// moderate is the shared transition. The privilege check runs before
// the entry is even loaded: an unprivileged caller gets forbidden no
// matter what state the entry is in, or whether it exists.
func (s *Service) moderate(ctx context.Context, id uuid.UUID, target domain.ToolStatus, action domain.AuditAction) (*domain.Tool, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if d := authz.Decide(actor, ok, domain.ActionModerate, authz.Subject{}); !d.Allowed {
		return nil, domain.ErrForbidden
	}

	var result *domain.Tool
	var transitioned bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tool, err := s.tools.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if tool.Status == target {
			result = tool
			return nil
		}
		if tool.Status != domain.ToolStatusPending {
			return domain.ErrConflict
		}

		updated, err := s.tools.UpdateStatus(ctx, id, target)
		if err != nil {
			return err
		}
		if _, err := s.audit.Record(ctx, actor, action, updated, nil); err != nil {
			return err
		}

		result = updated
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.views.InvalidateToolViews(ctx)
		s.log.InfoContext(ctx, "tool moderated",
			slog.String("tool_id", id.String()),
			slog.String("status", string(target)),
			slog.String("actor_id", actor.ID.String()),
		)
	}

	return s.hydrateOne(ctx, result)
}
