// Package rating implements rating persistence: an atomic
// insert-or-replace keyed on (tool, user) and the derived aggregates.
package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// Repo provides rating persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a rating repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Upsert stores the user's vote for a tool. The ON CONFLICT clause
// guarantees two concurrent votes by the same user never produce two
// rows; the later write replaces the value in place.
func (r *Repo) Upsert(ctx context.Context, toolID, userID uuid.UUID, value int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO tool_ratings (tool_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (tool_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()`,
		toolID, userID, value,
	)
	if err != nil {
		return postgres.MapError(err, "tool_rating", toolID.String())
	}
	return nil
}

// SummaryByToolID returns the aggregate for one tool. Average is
// rounded to one decimal place; a tool without votes yields {0, 0}.
func (r *Repo) SummaryByToolID(ctx context.Context, toolID uuid.UUID) (domain.RatingSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var avg *float64
	var count int
	err := q.QueryRow(ctx,
		`SELECT AVG(rating), COUNT(*) FROM tool_ratings WHERE tool_id = $1`,
		toolID,
	).Scan(&avg, &count)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("rating summary for tool %s: %w", toolID, err)
	}

	return summary(avg, count), nil
}

// SummariesByToolIDs returns aggregates grouped by tool for hydration.
// Tools without votes are absent from the map.
func (r *Repo) SummariesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID]domain.RatingSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT tool_id, AVG(rating), COUNT(*)
		FROM tool_ratings
		WHERE tool_id = ANY($1)
		GROUP BY tool_id`,
		toolIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("rating summaries: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.RatingSummary)
	for rows.Next() {
		var toolID uuid.UUID
		var avg *float64
		var count int
		if err := rows.Scan(&toolID, &avg, &count); err != nil {
			return nil, fmt.Errorf("scan rating summary: %w", err)
		}
		out[toolID] = summary(avg, count)
	}
	return out, rows.Err()
}

func summary(avg *float64, count int) domain.RatingSummary {
	s := domain.RatingSummary{Count: count}
	if avg != nil {
		s.Average = math.Round(*avg*10) / 10
	}
	return s
}
