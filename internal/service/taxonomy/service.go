// Package taxonomy implements category and tag management. Both
// listings are served through the cache coordinator; creating either
// invalidates exactly its own view.
package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/cache"
	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type taxonomyRepo interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	FirstOrCreateTag(ctx context.Context, name, slug string) (domain.Tag, bool, error)
}

type viewCache interface {
	GetOrCompute(ctx context.Context, view string, out any, compute func(ctx context.Context) (any, error)) error
	InvalidateCategoryViews(ctx context.Context)
	InvalidateTagViews(ctx context.Context)
}

// Service implements taxonomy business logic.
type Service struct {
	log   *slog.Logger
	repo  taxonomyRepo
	views viewCache
	cfg   config.CatalogConfig
}

// NewService creates a taxonomy service.
func NewService(logger *slog.Logger, repo taxonomyRepo, views viewCache, cfg config.CatalogConfig) *Service {
	return &Service{
		log:   logger.With("service", "taxonomy"),
		repo:  repo,
		views: views,
		cfg:   cfg,
	}
}

// ListCategories returns every category, name-ordered, via the cached
// view.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := s.views.GetOrCompute(ctx, cache.ViewAllCategories, &cats, func(ctx context.Context) (any, error) {
		return s.repo.ListCategories(ctx)
	})
	return cats, err
}

// CreateCategory creates a category and forgets the categories view.
func (s *Service) CreateCategory(ctx context.Context, actor domain.Actor, name string, description *string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.NewValidationError("name", "required")
	}
	slug := domain.Slugify(name)
	if slug == "" {
		return domain.Category{}, domain.NewValidationError("name", "must contain letters or digits")
	}

	created, err := s.repo.CreateCategory(ctx, domain.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		CreatedBy:   actor.ID,
	})
	if err != nil {
		return domain.Category{}, err
	}

	s.views.InvalidateCategoryViews(ctx)
	return created, nil
}

// ListTags returns every tag, name-ordered, via the cached view.
func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := s.views.GetOrCompute(ctx, cache.ViewAllTags, &tags, func(ctx context.Context) (any, error) {
		return s.repo.ListTags(ctx)
	})
	return tags, err
}

// CreateTag resolves a free-text label to its tag, creating it when
// the slug is new. Only an actual insert forgets the tags view.
func (s *Service) CreateTag(ctx context.Context, name string) (domain.Tag, error) {
	tag, created, err := s.resolveTag(ctx, name)
	if err != nil {
		return domain.Tag{}, err
	}
	if created {
		s.views.InvalidateTagViews(ctx)
	}
	return tag, nil
}

// ResolveTags maps free-text labels to tag ids, creating missing tags.
// Used by the catalog service when syncing a tool's tag references.
// Reports whether any tag was newly created so the caller can forget
// the tags view once.
func (s *Service) ResolveTags(ctx context.Context, names []string) ([]uuid.UUID, bool, error) {
	var ids []uuid.UUID
	var anyCreated bool
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		slug := domain.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag, created, err := s.resolveTag(ctx, name)
		if err != nil {
			return nil, false, err
		}
		anyCreated = anyCreated || created
		ids = append(ids, tag.ID)
	}

	return ids, anyCreated, nil
}

func (s *Service) resolveTag(ctx context.Context, name string) (domain.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, false, domain.NewValidationError("tag", "required")
	}
	if len(name) > s.cfg.MaxTagLength {
		return domain.Tag{}, false, domain.NewValidationError("tag", "too long")
	}
	slug := domain.Slugify(name)
	if slug == "" {
		return domain.Tag{}, false, domain.NewValidationError("tag", "must contain letters or digits")
	}

	return s.repo.FirstOrCreateTag(ctx, name, slug)
}
