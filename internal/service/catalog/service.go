// Package catalog orchestrates tool mutations. Every mutating
// operation runs the same pipeline: resolve actor → authorize →
// mutate + audit inside one transaction → invalidate derived views →
// return the refreshed, fully hydrated tool. Authorization and
// validation failures abort before any write; a failed view
// invalidation never rolls anything back.
package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type toolRepo interface {
	Create(ctx context.Context, t *domain.Tool) (*domain.Tool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tool, error)
	Find(ctx context.Context, f domain.ToolFilter) ([]domain.Tool, int, error)
	UpdateScalars(ctx context.Context, id uuid.UUID, fields domain.ToolScalars) (*domain.Tool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ToolStatus) (*domain.Tool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ReplaceCategories(ctx context.Context, toolID uuid.UUID, categoryIDs []uuid.UUID) error
	ReplaceTags(ctx context.Context, toolID uuid.UUID, tagIDs []uuid.UUID) error
	ReplaceRoles(ctx context.Context, toolID uuid.UUID, roles []domain.Role) error
	ReplaceScreenshots(ctx context.Context, toolID uuid.UUID, shots []domain.Screenshot) error
	ReplaceExamples(ctx context.Context, toolID uuid.UUID, examples []domain.Example) error

	CategoriesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Category, error)
	TagsByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error)
	RolesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Role, error)
	ScreenshotsByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Screenshot, error)
	ExamplesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Example, error)
}

type ratingRepo interface {
	Upsert(ctx context.Context, toolID, userID uuid.UUID, value int) error
	SummaryByToolID(ctx context.Context, toolID uuid.UUID) (domain.RatingSummary, error)
	SummariesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID]domain.RatingSummary, error)
}

type userRepo interface {
	ActorsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Actor, error)
}

type auditTrail interface {
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, tool *domain.Tool, changes map[string]domain.FieldChange) (domain.AuditRecord, error)
	RecordDeleted(ctx context.Context, actor domain.Actor, toolName string, deadToolID uuid.UUID) (domain.AuditRecord, error)
}

type tagResolver interface {
	ResolveTags(ctx context.Context, names []string) ([]uuid.UUID, bool, error)
}

type viewCache interface {
	GetOrCompute(ctx context.Context, view string, out any, compute func(ctx context.Context) (any, error)) error
	InvalidateToolViews(ctx context.Context)
	InvalidateTagViews(ctx context.Context)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the catalog business logic.
type Service struct {
	log     *slog.Logger
	tools   toolRepo
	ratings ratingRepo
	users   userRepo
	audit   auditTrail
	tags    tagResolver
	views   viewCache
	tx      txManager
	cfg     config.CatalogConfig
}

// NewService creates a catalog service. The view cache is an explicit
// collaborator so tests can substitute a recording implementation.
func NewService(
	logger *slog.Logger,
	tools toolRepo,
	ratings ratingRepo,
	users userRepo,
	audit auditTrail,
	tags tagResolver,
	views viewCache,
	tx txManager,
	cfg config.CatalogConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "catalog"),
		tools:   tools,
		ratings: ratings,
		users:   users,
		audit:   audit,
		tags:    tags,
		views:   views,
		tx:      tx,
		cfg:     cfg,
	}
}
