package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/authz"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// CreateTool registers a new entry. The initial lifecycle state depends
// on the creator: elevated roles publish immediately, everyone else
// lands in pending until moderated. The insert, its relation sync, and
// the audit record commit atomically.
func (s *Service) CreateTool(ctx context.Context, in CreateToolInput) (*domain.Tool, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if d := authz.Decide(actor, ok, domain.ActionCreate, authz.Subject{}); !d.Allowed {
		return nil, domain.ErrForbidden
	}

	if err := in.validate(s.cfg); err != nil {
		return nil, err
	}

	var created *domain.Tool
	var tagsTouched bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tool, err := s.tools.Create(ctx, &domain.Tool{
			Name:             in.Name,
			URL:              in.URL,
			Description:      in.Description,
			HowToUse:         in.HowToUse,
			DocumentationURL: in.DocumentationURL,
			Status:           domain.InitialToolStatus(actor.Role),
			CreatedBy:        actor.ID,
		})
		if err != nil {
			return err
		}

		tagsTouched, err = s.syncRelations(ctx, tool, relationSet{
			CategoryIDs: &in.CategoryIDs,
			Roles:       &in.Roles,
			Tags:        &in.Tags,
			Screenshots: &in.Screenshots,
			Examples:    &in.Examples,
		})
		if err != nil {
			return err
		}

		if _, err := s.audit.Record(ctx, actor, domain.AuditActionCreated, tool, nil); err != nil {
			return err
		}

		created = tool
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.views.InvalidateToolViews(ctx)
	if tagsTouched {
		s.views.InvalidateTagViews(ctx)
	}

	s.log.InfoContext(ctx, "tool created",
		slog.String("tool_id", created.ID.String()),
		slog.String("status", string(created.Status)),
		slog.String("actor_id", actor.ID.String()),
	)

	return s.hydrateOne(ctx, created)
}

// relationSet is the optional relation payload shared by create and
// update. Nil members are skipped; create passes all of them.
type relationSet struct {
	CategoryIDs *[]uuid.UUID
	Roles       *[]domain.Role
	Tags        *[]string
	Screenshots *[]ScreenshotInput
	Examples    *[]ExampleInput
}

// syncRelations full-replaces each supplied relation and reports
// whether any tag row was newly created.
func (s *Service) syncRelations(ctx context.Context, tool *domain.Tool, set relationSet) (bool, error) {
	if set.CategoryIDs != nil {
		if err := s.tools.ReplaceCategories(ctx, tool.ID, *set.CategoryIDs); err != nil {
			return false, err
		}
	}
	if set.Roles != nil {
		if err := s.tools.ReplaceRoles(ctx, tool.ID, *set.Roles); err != nil {
			return false, err
		}
	}

	var tagsCreated bool
	if set.Tags != nil {
		tagIDs, created, err := s.tags.ResolveTags(ctx, *set.Tags)
		if err != nil {
			return false, err
		}
		if err := s.tools.ReplaceTags(ctx, tool.ID, tagIDs); err != nil {
			return false, err
		}
		tagsCreated = created
	}

	if set.Screenshots != nil {
		if err := s.tools.ReplaceScreenshots(ctx, tool.ID, screenshotsFromInput(tool.ID, *set.Screenshots)); err != nil {
			return false, err
		}
	}
	if set.Examples != nil {
		if err := s.tools.ReplaceExamples(ctx, tool.ID, examplesFromInput(tool.ID, *set.Examples)); err != nil {
			return false, err
		}
	}

	return tagsCreated, nil
}
