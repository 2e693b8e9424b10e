package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/authz"
	"github.com/heartmarshall/toolhub-backend/internal/cache"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// FindToolsInput selects a listing page. Status is honored only for
// elevated actors: a lifecycle state name narrows to that state, "all"
// lifts the constraint. Everyone else sees approved entries only,
// whatever they ask for.
type FindToolsInput struct {
	Search       *string
	Role         *domain.Role
	CategorySlug *string
	TagSlug      *string
	Status       *string
	Page         int
}

// FindResult is one page of hydrated tools.
type FindResult struct {
	Tools []domain.Tool
	Meta  domain.PageMeta
}

// StatusAll lifts the lifecycle constraint for elevated listings.
const StatusAll = "all"

// FindTools returns a filtered page, newest-first. The unfiltered
// approved first page, the landing view every visitor hits, is served
// through the cache; every other combination queries storage directly.
func (s *Service) FindTools(ctx context.Context, in FindToolsInput) (*FindResult, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)

	filter := domain.ToolFilter{
		Search:       in.Search,
		Role:         in.Role,
		CategorySlug: in.CategorySlug,
		TagSlug:      in.TagSlug,
		Page:         in.Page,
	}
	filter.Normalize()

	if in.Role != nil && !in.Role.IsValid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	approvedOnly := true
	if in.Status != nil && authz.CanSeeStatus(actor, ok) {
		switch {
		case *in.Status == StatusAll:
			approvedOnly = false
		case domain.ToolStatus(*in.Status).IsValid():
			st := domain.ToolStatus(*in.Status)
			filter.Status = &st
			approvedOnly = st == domain.ToolStatusApproved
		default:
			return nil, domain.NewValidationError("status", "unknown status")
		}
	}

	cacheable := filter.IsEmpty() && filter.Page == 1 && approvedOnly

	if approvedOnly && filter.Status == nil {
		st := domain.ToolStatusApproved
		filter.Status = &st
	}

	if !cacheable {
		return s.findPage(ctx, filter)
	}

	var res FindResult
	err := s.views.GetOrCompute(ctx, cache.ViewApprovedToolsPage1, &res, func(ctx context.Context) (any, error) {
		page, err := s.findPage(ctx, filter)
		if err != nil {
			return nil, err
		}
		return *page, nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) findPage(ctx context.Context, filter domain.ToolFilter) (*FindResult, error) {
	tools, total, err := s.tools.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	hydrated, err := s.hydrate(ctx, tools)
	if err != nil {
		return nil, err
	}
	return &FindResult{
		Tools: hydrated,
		Meta:  domain.NewPageMeta(total, filter.Page, domain.ToolPageSize),
	}, nil
}

// GetTool returns one hydrated entry. Non-approved entries are visible
// only to elevated actors.
func (s *Service) GetTool(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)

	tool, err := s.tools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := authz.Decide(actor, ok, domain.ActionRead, authz.SubjectForTool(tool)); !d.Allowed {
		// Hide existence of unpublished entries from unprivileged readers.
		return nil, domain.ErrNotFound
	}

	return s.hydrateOne(ctx, tool)
}
