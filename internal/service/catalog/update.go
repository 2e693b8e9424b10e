package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/authz"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// UpdateTool applies a partial edit. Any authenticated actor may edit
// any entry. Editing never touches the lifecycle state: a rejected
// entry stays rejected until explicitly re-moderated. The audit record
// carries old/new pairs for exactly the scalar fields whose values
// changed; an edit that changes nothing still audits, with empty
// changes.
func (s *Service) UpdateTool(ctx context.Context, id uuid.UUID, in UpdateToolInput) (*domain.Tool, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if d := authz.Decide(actor, ok, domain.ActionUpdate, authz.Subject{}); !d.Allowed {
		return nil, domain.ErrForbidden
	}

	if err := in.validate(s.cfg); err != nil {
		return nil, err
	}

	var updated *domain.Tool
	var tagsTouched bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.tools.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		after, err := s.tools.UpdateScalars(ctx, id, mergeScalars(before, in))
		if err != nil {
			return err
		}

		tagsTouched, err = s.syncRelations(ctx, after, relationSet{
			CategoryIDs: in.CategoryIDs,
			Roles:       in.Roles,
			Tags:        in.Tags,
			Screenshots: in.Screenshots,
			Examples:    in.Examples,
		})
		if err != nil {
			return err
		}

		changes := domain.DiffFields(before.TrackedFields(), after.TrackedFields())
		if _, err := s.audit.Record(ctx, actor, domain.AuditActionUpdated, after, changes); err != nil {
			return err
		}

		updated = after
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.views.InvalidateToolViews(ctx)
	if tagsTouched {
		s.views.InvalidateTagViews(ctx)
	}

	s.log.InfoContext(ctx, "tool updated",
		slog.String("tool_id", id.String()),
		slog.String("actor_id", actor.ID.String()),
	)

	return s.hydrateOne(ctx, updated)
}

// mergeScalars folds the supplied fields over the stored row. The
// optional scalars treat an explicit empty string as "clear".
func mergeScalars(before *domain.Tool, in UpdateToolInput) domain.ToolScalars {
	fields := domain.ToolScalars{
		Name:             before.Name,
		URL:              before.URL,
		Description:      before.Description,
		HowToUse:         before.HowToUse,
		DocumentationURL: before.DocumentationURL,
	}
	if in.Name != nil {
		fields.Name = *in.Name
	}
	if in.URL != nil {
		fields.URL = *in.URL
	}
	if in.Description != nil {
		fields.Description = *in.Description
	}
	if in.HowToUse != nil {
		fields.HowToUse = optional(*in.HowToUse)
	}
	if in.DocumentationURL != nil {
		fields.DocumentationURL = optional(*in.DocumentationURL)
	}
	return fields
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
