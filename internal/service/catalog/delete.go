package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/authz"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// DeleteTool removes an entry. Only the creator or an elevated actor
// may delete. The name and id are snapshotted before the row goes away
// so the tombstone audit record stays legible; the record keeps no
// live reference, only the dead id in its extra payload.
func (s *Service) DeleteTool(ctx context.Context, id uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tool, err := s.tools.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if d := authz.Decide(actor, ok, domain.ActionDelete, authz.SubjectForTool(tool)); !d.Allowed {
			return domain.ErrForbidden
		}

		name, deadID := tool.Name, tool.ID

		if err := s.tools.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.audit.RecordDeleted(ctx, actor, name, deadID)
		return err
	})
	if err != nil {
		return err
	}

	s.views.InvalidateToolViews(ctx)

	s.log.InfoContext(ctx, "tool deleted",
		slog.String("tool_id", id.String()),
		slog.String("actor_id", actor.ID.String()),
	)
	return nil
}
