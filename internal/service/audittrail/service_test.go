package audittrail

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockAuditRepo struct {
	CreateFunc func(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)
	FindFunc   func(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error)
	DeleteFunc func(ctx context.Context, id int64) error

	created []domain.AuditRecord
}

func (m *mockAuditRepo) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	rec.ID = int64(len(m.created) + 1)
	rec.CreatedAt = time.Now()
	m.created = append(m.created, rec)
	return rec, nil
}

func (m *mockAuditRepo) Find(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockAuditRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

var (
	owner  = domain.Actor{ID: uuid.New(), Name: "Olga", Role: domain.RoleOwner}
	member = domain.Actor{ID: uuid.New(), Name: "Boris", Role: domain.RoleBackend}
)

// ===========================================================================
// Record
// ===========================================================================

func TestRecord_SnapshotsActorAndSubject(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewService(testLogger(), repo)

	tool := &domain.Tool{ID: uuid.New(), Name: "Grafana"}

	rec, err := svc.Record(context.Background(), member, domain.AuditActionCreated, tool, nil)
	require.NoError(t, err)

	assert.Equal(t, member.ID, *rec.ActorID)
	assert.Equal(t, "Boris", rec.ActorName)
	assert.Equal(t, domain.RoleBackend, rec.ActorRole)
	assert.Equal(t, domain.AuditActionCreated, rec.Action)
	require.NotNil(t, rec.ToolID)
	assert.Equal(t, tool.ID, *rec.ToolID)
	assert.Equal(t, "Grafana", rec.ToolName)
	assert.Nil(t, rec.Changes)
}

func TestRecord_CapturesProvenanceFromContext(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewService(testLogger(), repo)

	ctx := ctxutil.WithRequestMeta(context.Background(), domain.RequestMeta{
		IPAddress: "192.0.2.7",
		UserAgent: "toolhub-cli/1.2",
	})

	rec, err := svc.Record(ctx, member, domain.AuditActionApproved, &domain.Tool{ID: uuid.New(), Name: "n"}, nil)
	require.NoError(t, err)

	require.NotNil(t, rec.IPAddress)
	assert.Equal(t, "192.0.2.7", *rec.IPAddress)
	require.NotNil(t, rec.UserAgent)
	assert.Equal(t, "toolhub-cli/1.2", *rec.UserAgent)
}

func TestRecord_NoProvenanceLeavesFieldsNil(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewService(testLogger(), repo)

	rec, err := svc.Record(context.Background(), member, domain.AuditActionUpdated,
		&domain.Tool{ID: uuid.New(), Name: "n"},
		map[string]domain.FieldChange{"url": {Old: "a", New: "b"}},
	)
	require.NoError(t, err)

	assert.Nil(t, rec.IPAddress)
	assert.Nil(t, rec.UserAgent)
	assert.Equal(t, map[string]domain.FieldChange{"url": {Old: "a", New: "b"}}, rec.Changes)
}

func TestRecordDeleted_DeadReferenceKeepsNameSnapshot(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewService(testLogger(), repo)

	deadID := uuid.New()
	rec, err := svc.RecordDeleted(context.Background(), owner, "Old Wiki", deadID)
	require.NoError(t, err)

	assert.Nil(t, rec.ToolID, "live reference must be cleared")
	assert.Equal(t, "Old Wiki", rec.ToolName, "name snapshot must survive")
	assert.Equal(t, deadID.String(), rec.Extra["deleted_tool_id"])
	assert.Equal(t, domain.AuditActionDeleted, rec.Action)
}

// ===========================================================================
// List
// ===========================================================================

func TestList_RequiresElevatedActor(t *testing.T) {
	svc := NewService(testLogger(), &mockAuditRepo{})

	_, err := svc.List(context.Background(), member, domain.AuditFilter{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_PaginatesNewestFirst(t *testing.T) {
	repo := &mockAuditRepo{
		FindFunc: func(_ context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error) {
			assert.Equal(t, 2, f.Page)
			return []domain.AuditRecord{{ID: 31}}, 61, nil
		},
	}
	svc := NewService(testLogger(), repo)

	res, err := svc.List(context.Background(), owner, domain.AuditFilter{Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 61, res.Meta.Total)
	assert.Equal(t, 2, res.Meta.Page)
	assert.Equal(t, 3, res.Meta.LastPage)
	require.Len(t, res.Records, 1)
}

func TestList_RejectsUnknownAction(t *testing.T) {
	svc := NewService(testLogger(), &mockAuditRepo{})

	bad := domain.AuditAction("promoted")
	_, err := svc.List(context.Background(), owner, domain.AuditFilter{Action: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ===========================================================================
// Purge
// ===========================================================================

func TestPurge_RequiresElevatedActor(t *testing.T) {
	deleted := false
	repo := &mockAuditRepo{
		DeleteFunc: func(context.Context, int64) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(testLogger(), repo)

	err := svc.Purge(context.Background(), member, 7)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, deleted, "purge must not reach the repo when denied")
}

func TestPurge_DeletesWithoutWritingNewRecord(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewService(testLogger(), repo)

	require.NoError(t, svc.Purge(context.Background(), owner, 7))
	assert.Empty(t, repo.created, "purge must not be re-audited")
}
