// Package tool implements the tool repository over PostgreSQL: the
// tool row itself, its exclusively-owned sub-records (roles,
// screenshots, examples, full-replace semantics), and its shared
// category/tag references.
package tool

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// Repo provides tool persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a tool repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const toolColumns = `t.id, t.name, t.url, t.description, t.how_to_use,
	t.documentation_url, t.status, t.created_by, t.created_at, t.updated_at`

// toolColumnsBare is toolColumns without the table alias, for
// RETURNING clauses on statements that cannot alias.
const toolColumnsBare = `id, name, url, description, how_to_use,
	documentation_url, status, created_by, created_at, updated_at`

func scanTool(row pgx.Row) (*domain.Tool, error) {
	var t domain.Tool
	var status string
	err := row.Scan(
		&t.ID, &t.Name, &t.URL, &t.Description, &t.HowToUse,
		&t.DocumentationURL, &status, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.ToolStatus(status)
	return &t, nil
}

// Create inserts a tool row and returns the persisted tool.
func (r *Repo) Create(ctx context.Context, t *domain.Tool) (*domain.Tool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO tools (name, url, description, how_to_use, documentation_url, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+toolColumnsBare,
		t.Name, t.URL, t.Description, t.HowToUse, t.DocumentationURL,
		string(t.Status), t.CreatedBy,
	)

	created, err := scanTool(row)
	if err != nil {
		return nil, postgres.MapError(err, "tool", t.Name)
	}
	return created, nil
}

// GetByID returns the base tool row without relations.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+toolColumns+` FROM tools t WHERE t.id = $1`, id)
	t, err := scanTool(row)
	if err != nil {
		return nil, postgres.MapError(err, "tool", id.String())
	}
	return t, nil
}

// GetByIDForUpdate returns the tool row with a row lock, serializing
// concurrent mutations of the same tool. Must run inside RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+toolColumns+` FROM tools t WHERE t.id = $1 FOR UPDATE`, id)
	t, err := scanTool(row)
	if err != nil {
		return nil, postgres.MapError(err, "tool", id.String())
	}
	return t, nil
}

// Find returns a page of tools matching the filter plus the total count.
func (r *Repo) Find(ctx context.Context, f domain.ToolFilter) ([]domain.Tool, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := applyFilter(
		psql.Select("COUNT(*)").From("tools t"), f,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build tool count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tools: %w", err)
	}

	offset := (f.Page - 1) * domain.ToolPageSize
	pageSQL, pageArgs, err := applyFilter(
		psql.Select(toolColumns).From("tools t"), f,
	).
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(domain.ToolPageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build tool page query: %w", err)
	}

	rows, err := q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("find tools: %w", err)
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tool: %w", err)
		}
		tools = append(tools, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tools: %w", err)
	}

	return tools, total, nil
}

// UpdateScalars writes the full scalar set and returns the fresh row.
func (r *Repo) UpdateScalars(ctx context.Context, id uuid.UUID, fields domain.ToolScalars) (*domain.Tool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE tools t SET
			name = $2, url = $3, description = $4,
			how_to_use = $5, documentation_url = $6, updated_at = now()
		WHERE t.id = $1
		RETURNING `+toolColumns,
		id, fields.Name, fields.URL, fields.Description,
		fields.HowToUse, fields.DocumentationURL,
	)

	t, err := scanTool(row)
	if err != nil {
		return nil, postgres.MapError(err, "tool", id.String())
	}
	return t, nil
}

// UpdateStatus moves the tool to the given lifecycle state.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ToolStatus) (*domain.Tool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE tools t SET status = $2, updated_at = now()
		WHERE t.id = $1
		RETURNING `+toolColumns,
		id, string(status),
	)

	t, err := scanTool(row)
	if err != nil {
		return nil, postgres.MapError(err, "tool", id.String())
	}
	return t, nil
}

// Delete removes the tool; owned sub-records cascade in the schema.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM tools WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "tool", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tool %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Owned sub-records and shared references (full-replace semantics)
// ---------------------------------------------------------------------------

// ReplaceCategories rewrites the tool's category references.
func (r *Repo) ReplaceCategories(ctx context.Context, toolID uuid.UUID, categoryIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM tool_categories WHERE tool_id = $1`, toolID); err != nil {
		return postgres.MapError(err, "tool_categories", toolID.String())
	}
	for _, cid := range dedupe(categoryIDs) {
		if _, err := q.Exec(ctx,
			`INSERT INTO tool_categories (tool_id, category_id) VALUES ($1, $2)`,
			toolID, cid,
		); err != nil {
			return postgres.MapError(err, "tool_categories", toolID.String())
		}
	}
	return nil
}

// ReplaceTags rewrites the tool's tag references.
func (r *Repo) ReplaceTags(ctx context.Context, toolID uuid.UUID, tagIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM tool_tags WHERE tool_id = $1`, toolID); err != nil {
		return postgres.MapError(err, "tool_tags", toolID.String())
	}
	for _, tid := range dedupe(tagIDs) {
		if _, err := q.Exec(ctx,
			`INSERT INTO tool_tags (tool_id, tag_id) VALUES ($1, $2)`,
			toolID, tid,
		); err != nil {
			return postgres.MapError(err, "tool_tags", toolID.String())
		}
	}
	return nil
}

// ReplaceRoles rewrites the recommended-role set.
func (r *Repo) ReplaceRoles(ctx context.Context, toolID uuid.UUID, roles []domain.Role) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM tool_roles WHERE tool_id = $1`, toolID); err != nil {
		return postgres.MapError(err, "tool_roles", toolID.String())
	}

	seen := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		if seen[role] {
			continue
		}
		seen[role] = true
		if _, err := q.Exec(ctx,
			`INSERT INTO tool_roles (tool_id, role) VALUES ($1, $2)`,
			toolID, string(role),
		); err != nil {
			return postgres.MapError(err, "tool_roles", toolID.String())
		}
	}
	return nil
}

// ReplaceScreenshots deletes the old set wholesale and inserts the new
// one in order.
func (r *Repo) ReplaceScreenshots(ctx context.Context, toolID uuid.UUID, shots []domain.Screenshot) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM tool_screenshots WHERE tool_id = $1`, toolID); err != nil {
		return postgres.MapError(err, "tool_screenshots", toolID.String())
	}
	for i, s := range shots {
		if _, err := q.Exec(ctx,
			`INSERT INTO tool_screenshots (tool_id, url, caption, sort_order) VALUES ($1, $2, $3, $4)`,
			toolID, s.URL, s.Caption, i,
		); err != nil {
			return postgres.MapError(err, "tool_screenshots", toolID.String())
		}
	}
	return nil
}

// ReplaceExamples deletes the old set wholesale and inserts the new one.
func (r *Repo) ReplaceExamples(ctx context.Context, toolID uuid.UUID, examples []domain.Example) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM tool_examples WHERE tool_id = $1`, toolID); err != nil {
		return postgres.MapError(err, "tool_examples", toolID.String())
	}
	for _, e := range examples {
		if _, err := q.Exec(ctx,
			`INSERT INTO tool_examples (tool_id, title, description, url) VALUES ($1, $2, $3, $4)`,
			toolID, e.Title, e.Description, e.URL,
		); err != nil {
			return postgres.MapError(err, "tool_examples", toolID.String())
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Batched relation hydration
// ---------------------------------------------------------------------------

// CategoriesByToolIDs returns category references grouped by tool.
func (r *Repo) CategoriesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT tc.tool_id, c.id, c.name, c.slug, c.description, c.created_by, c.created_at
		FROM tool_categories tc
		JOIN categories c ON c.id = tc.category_id
		WHERE tc.tool_id = ANY($1)
		ORDER BY c.name`,
		toolIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get tool categories: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Category)
	for rows.Next() {
		var toolID uuid.UUID
		var c domain.Category
		if err := rows.Scan(&toolID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool category: %w", err)
		}
		out[toolID] = append(out[toolID], c)
	}
	return out, rows.Err()
}

// TagsByToolIDs returns tag references grouped by tool.
func (r *Repo) TagsByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT tt.tool_id, tg.id, tg.name, tg.slug, tg.created_at
		FROM tool_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.tool_id = ANY($1)
		ORDER BY tg.name`,
		toolIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get tool tags: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Tag)
	for rows.Next() {
		var toolID uuid.UUID
		var tg domain.Tag
		if err := rows.Scan(&toolID, &tg.ID, &tg.Name, &tg.Slug, &tg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool tag: %w", err)
		}
		out[toolID] = append(out[toolID], tg)
	}
	return out, rows.Err()
}

// RolesByToolIDs returns recommended roles grouped by tool.
func (r *Repo) RolesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Role, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT tool_id, role FROM tool_roles WHERE tool_id = ANY($1) ORDER BY role`,
		toolIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get tool roles: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Role)
	for rows.Next() {
		var toolID uuid.UUID
		var role string
		if err := rows.Scan(&toolID, &role); err != nil {
			return nil, fmt.Errorf("scan tool role: %w", err)
		}
		out[toolID] = append(out[toolID], domain.Role(role))
	}
	return out, rows.Err()
}

// ScreenshotsByToolIDs returns ordered screenshots grouped by tool.
func (r *Repo) ScreenshotsByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Screenshot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, tool_id, url, caption, sort_order
		FROM tool_screenshots
		WHERE tool_id = ANY($1)
		ORDER BY tool_id, sort_order`,
		toolIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get tool screenshots: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Screenshot)
	for rows.Next() {
		var s domain.Screenshot
		if err := rows.Scan(&s.ID, &s.ToolID, &s.URL, &s.Caption, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("scan tool screenshot: %w", err)
		}
		out[s.ToolID] = append(out[s.ToolID], s)
	}
	return out, rows.Err()
}

// ExamplesByToolIDs returns examples grouped by tool.
func (r *Repo) ExamplesByToolIDs(ctx context.Context, toolIDs []uuid.UUID) (map[uuid.UUID][]domain.Example, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, tool_id, title, description, url
		FROM tool_examples
		WHERE tool_id = ANY($1)
		ORDER BY tool_id, id`,
		toolIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get tool examples: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Example)
	for rows.Next() {
		var e domain.Example
		if err := rows.Scan(&e.ID, &e.ToolID, &e.Title, &e.Description, &e.URL); err != nil {
			return nil, fmt.Errorf("scan tool example: %w", err)
		}
		out[e.ToolID] = append(out[e.ToolID], e)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
