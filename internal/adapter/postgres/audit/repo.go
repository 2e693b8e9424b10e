// Package audit implements the audit log repository over PostgreSQL.
// Records are append-only: there is no update path, and the only
// deletion is the administrative purge of a single record.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates an audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const auditColumns = `id, actor_id, actor_name, actor_role, action, tool_id,
	tool_name, changes, extra, ip_address, user_agent, created_at`

// Create appends a record and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	changesJSON, err := marshalOrNil(rec.Changes)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record marshal changes: %w", err)
	}
	extraJSON, err := marshalOrNil(rec.Extra)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record marshal extra: %w", err)
	}

	row := q.QueryRow(ctx, `
		INSERT INTO audit_logs
			(actor_id, actor_name, actor_role, action, tool_id, tool_name,
			 changes, extra, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+auditColumns,
		rec.ActorID, rec.ActorName, string(rec.ActorRole), string(rec.Action),
		rec.ToolID, rec.ToolName, changesJSON, extraJSON,
		rec.IPAddress, rec.UserAgent,
	)

	created, err := scanRecord(row)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", rec.ToolName)
	}
	return created, nil
}

// Find returns a filtered page, always newest-first, plus the total.
func (r *Repo) Find(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := applyFilter(psql.Select("COUNT(*)").From("audit_logs"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit_records: %w", err)
	}

	offset := (f.Page - 1) * domain.AuditPageSize
	pageSQL, pageArgs, err := applyFilter(psql.Select(auditColumns).From("audit_logs"), f).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(domain.AuditPageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit page query: %w", err)
	}

	rows, err := q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("find audit_records: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit_record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit_records: %w", err)
	}

	return records, total, nil
}

// Delete purges a single record. This is the one sanctioned mutation
// of history and is itself deliberately not re-audited.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM audit_logs WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "audit_record", strconv.FormatInt(id, 10))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("audit_record %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// applyFilter adds the WHERE clauses shared by the count and page
// queries.
func applyFilter(b sq.SelectBuilder, f domain.AuditFilter) sq.SelectBuilder {
	if f.Action != nil {
		b = b.Where(sq.Eq{"action": string(*f.Action)})
	}
	if f.ActorID != nil {
		b = b.Where(sq.Eq{"actor_id": *f.ActorID})
	}
	if f.Search != nil {
		pattern := "%" + *f.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"actor_name": pattern},
			sq.ILike{"tool_name": pattern},
		})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.To})
	}
	return b
}

func scanRecord(row pgx.Row) (domain.AuditRecord, error) {
	var rec domain.AuditRecord
	var action, role string
	var actorID, toolID *uuid.UUID
	var changesJSON, extraJSON []byte

	err := row.Scan(
		&rec.ID, &actorID, &rec.ActorName, &role, &action, &toolID,
		&rec.ToolName, &changesJSON, &extraJSON,
		&rec.IPAddress, &rec.UserAgent, &rec.CreatedAt,
	)
	if err != nil {
		return domain.AuditRecord{}, err
	}

	rec.ActorID = actorID
	rec.ActorRole = domain.Role(role)
	rec.Action = domain.AuditAction(action)
	rec.ToolID = toolID

	if len(changesJSON) > 0 {
		if err := json.Unmarshal(changesJSON, &rec.Changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %d unmarshal changes: %w", rec.ID, err)
		}
	}
	if len(extraJSON) > 0 {
		if err := json.Unmarshal(extraJSON, &rec.Extra); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %d unmarshal extra: %w", rec.ID, err)
		}
	}

	return rec, nil
}

// marshalOrNil keeps empty maps out of the table: NULL, not '{}'.
func marshalOrNil[M ~map[string]V, V any](m M) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}
