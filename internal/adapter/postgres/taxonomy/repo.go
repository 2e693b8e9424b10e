// Package taxonomy implements the shared category and tag stores.
// Tags are identified by slug: creating an existing slug returns the
// existing row (first-or-create), so free-text labels converge.
package taxonomy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// Repo provides category and tag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a taxonomy repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// ListCategories returns every category ordered by name.
func (r *Repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, name, slug, description, created_by, created_at
		FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a category. A duplicate slug maps to
// domain.ErrAlreadyExists via the unique constraint.
func (r *Repo) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, description, created_by, created_at`,
		c.Name, c.Slug, c.Description, c.CreatedBy,
	)

	var created domain.Category
	err := row.Scan(&created.ID, &created.Name, &created.Slug,
		&created.Description, &created.CreatedBy, &created.CreatedAt)
	if err != nil {
		return domain.Category{}, postgres.MapError(err, "category", c.Slug)
	}
	return created, nil
}

// CategoriesByIDs resolves category ids, used to validate relation
// input before linking.
func (r *Repo) CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, name, slug, description, created_by, created_at
		FROM categories WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get categories by ids: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// ListTags returns every tag ordered by name.
func (r *Repo) ListTags(ctx context.Context) ([]domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT id, name, slug, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FirstOrCreateTag returns the tag with the given slug, inserting it
// if absent. The ON CONFLICT upsert makes concurrent creates of the
// same slug converge on one row. Returns whether the row was created.
func (r *Repo) FirstOrCreateTag(ctx context.Context, name, slug string) (domain.Tag, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	// DO UPDATE instead of DO NOTHING so RETURNING always yields the
	// row; the name keeps its original spelling.
	row := q.QueryRow(ctx, `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_at, (xmax = 0) AS inserted`,
		name, slug,
	)

	var t domain.Tag
	var inserted bool
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &inserted); err != nil {
		return domain.Tag{}, false, postgres.MapError(err, "tag", slug)
	}
	return t, inserted, nil
}

// GetTagBySlug returns a tag by slug.
func (r *Repo) GetTagBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.Tag
	err := q.QueryRow(ctx,
		`SELECT id, name, slug, created_at FROM tags WHERE slug = $1`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		return domain.Tag{}, postgres.MapError(err, "tag", slug)
	}
	return t, nil
}
