package tool

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// psql builds queries with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// applyFilter adds the WHERE clauses shared by the page query and the
// count query. The status rule is decided by the service: the repo
// filters exactly what it is told (nil Status means every status).
func applyFilter(b sq.SelectBuilder, f domain.ToolFilter) sq.SelectBuilder {
	if f.Status != nil {
		b = b.Where(sq.Eq{"t.status": string(*f.Status)})
	}
	if f.Search != nil {
		b = b.Where(sq.ILike{"t.name": "%" + *f.Search + "%"})
	}
	if f.Role != nil {
		b = b.Where(
			"EXISTS (SELECT 1 FROM tool_roles tr WHERE tr.tool_id = t.id AND tr.role = ?)",
			string(*f.Role),
		)
	}
	if f.CategorySlug != nil {
		b = b.Where(
			`EXISTS (
				SELECT 1 FROM tool_categories tc
				JOIN categories c ON c.id = tc.category_id
				WHERE tc.tool_id = t.id AND c.slug = ?
			)`,
			*f.CategorySlug,
		)
	}
	if f.TagSlug != nil {
		b = b.Where(
			`EXISTS (
				SELECT 1 FROM tool_tags tt
				JOIN tags tg ON tg.id = tt.tag_id
				WHERE tt.tool_id = t.id AND tg.slug = ?
			)`,
			*f.TagSlug,
		)
	}
	return b
}
