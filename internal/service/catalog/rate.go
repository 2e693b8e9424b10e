package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// RateTool records the actor's vote, one per (tool, user): a repeat
// vote overwrites the previous value. Rating is not a catalog mutation
// and is not audited. Returns the refreshed aggregate.
func (s *Service) RateTool(ctx context.Context, id uuid.UUID, value int) (domain.RatingSummary, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.RatingSummary{}, domain.ErrUnauthorized
	}

	if value < 1 || value > 5 {
		return domain.RatingSummary{}, domain.NewValidationError("rating", "must be between 1 and 5")
	}

	// Existence check keeps a vote for a vanished tool a clean 404
	// instead of a foreign key violation.
	if _, err := s.tools.GetByID(ctx, id); err != nil {
		return domain.RatingSummary{}, err
	}

	if err := s.ratings.Upsert(ctx, id, actor.ID, value); err != nil {
		return domain.RatingSummary{}, err
	}

	s.views.InvalidateToolViews(ctx)

	s.log.InfoContext(ctx, "tool rated",
		slog.String("tool_id", id.String()),
		slog.String("actor_id", actor.ID.String()),
		slog.Int("value", value),
	)

	return s.ratings.SummaryByToolID(ctx, id)
}
