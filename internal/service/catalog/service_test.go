package catalog

import (
	"context"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/toolhub-backend/internal/cache"
	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

// ===========================================================================
// In-memory fakes
// ===========================================================================

// fakeToolRepo is a map-backed tool store so the pipeline tests can run
// multi-step scenarios against real state transitions.
type fakeToolRepo struct {
	tools       map[uuid.UUID]domain.Tool
	categories  map[uuid.UUID][]uuid.UUID
	tagIDs      map[uuid.UUID][]uuid.UUID
	roles       map[uuid.UUID][]domain.Role
	screenshots map[uuid.UUID][]domain.Screenshot
	examples    map[uuid.UUID][]domain.Example
}

func newFakeToolRepo() *fakeToolRepo {
	return &fakeToolRepo{
		tools:       map[uuid.UUID]domain.Tool{},
		categories:  map[uuid.UUID][]uuid.UUID{},
		tagIDs:      map[uuid.UUID][]uuid.UUID{},
		roles:       map[uuid.UUID][]domain.Role{},
		screenshots: map[uuid.UUID][]domain.Screenshot{},
		examples:    map[uuid.UUID][]domain.Example{},
	}
}

func (f *fakeToolRepo) Create(_ context.Context, t *domain.Tool) (*domain.Tool, error) {
	cp := *t
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.tools[cp.ID] = cp
	return &cp, nil
}

func (f *fakeToolRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Tool, error) {
	t, ok := f.tools[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (f *fakeToolRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeToolRepo) Find(_ context.Context, filter domain.ToolFilter) ([]domain.Tool, int, error) {
	var out []domain.Tool
	for _, t := range f.tools {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (f *fakeToolRepo) UpdateScalars(_ context.Context, id uuid.UUID, fields domain.ToolScalars) (*domain.Tool, error) {
	t, ok := f.tools[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Name = fields.Name
	t.URL = fields.URL
	t.Description = fields.Description
	t.HowToUse = fields.HowToUse
	t.DocumentationURL = fields.DocumentationURL
	t.UpdatedAt = time.Now()
	f.tools[id] = t
	cp := t
	return &cp, nil
}

func (f *fakeToolRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ToolStatus) (*domain.Tool, error) {
	t, ok := f.tools[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Status = status
	f.tools[id] = t
	cp := t
	return &cp, nil
}

func (f *fakeToolRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tools[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.tools, id)
	return nil
}

func (f *fakeToolRepo) ReplaceCategories(_ context.Context, toolID uuid.UUID, ids []uuid.UUID) error {
	f.categories[toolID] = ids
	return nil
}

func (f *fakeToolRepo) ReplaceTags(_ context.Context, toolID uuid.UUID, ids []uuid.UUID) error {
	f.tagIDs[toolID] = ids
	return nil
}

func (f *fakeToolRepo) ReplaceRoles(_ context.Context, toolID uuid.UUID, roles []domain.Role) error {
	f.roles[toolID] = roles
	return nil
}

func (f *fakeToolRepo) ReplaceScreenshots(_ context.Context, toolID uuid.UUID, shots []domain.Screenshot) error {
	f.screenshots[toolID] = shots
	return nil
}

func (f *fakeToolRepo) ReplaceExamples(_ context.Context, toolID uuid.UUID, examples []domain.Example) error {
	f.examples[toolID] = examples
	return nil
}

func (f *fakeToolRepo) CategoriesByToolIDs(context.Context, []uuid.UUID) (map[uuid.UUID][]domain.Category, error) {
	return map[uuid.UUID][]domain.Category{}, nil
}

func (f *fakeToolRepo) TagsByToolIDs(context.Context, []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	return map[uuid.UUID][]domain.Tag{}, nil
}

func (f *fakeToolRepo) RolesByToolIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Role, error) {
	out := map[uuid.UUID][]domain.Role{}
	for _, id := range ids {
		out[id] = f.roles[id]
	}
	return out, nil
}

func (f *fakeToolRepo) ScreenshotsByToolIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Screenshot, error) {
	out := map[uuid.UUID][]domain.Screenshot{}
	for _, id := range ids {
		out[id] = f.screenshots[id]
	}
	return out, nil
}

func (f *fakeToolRepo) ExamplesByToolIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Example, error) {
	out := map[uuid.UUID][]domain.Example{}
	for _, id := range ids {
		out[id] = f.examples[id]
	}
	return out, nil
}

type fakeRatingRepo struct {
	votes map[uuid.UUID]map[uuid.UUID]int // toolID -> userID -> value
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{votes: map[uuid.UUID]map[uuid.UUID]int{}}
}

func (f *fakeRatingRepo) Upsert(_ context.Context, toolID, userID uuid.UUID, value int) error {
	if f.votes[toolID] == nil {
		f.votes[toolID] = map[uuid.UUID]int{}
	}
	f.votes[toolID][userID] = value
	return nil
}

func (f *fakeRatingRepo) SummaryByToolID(_ context.Context, toolID uuid.UUID) (domain.RatingSummary, error) {
	votes := f.votes[toolID]
	if len(votes) == 0 {
		return domain.RatingSummary{}, nil
	}
	sum := 0
	for _, v := range votes {
		sum += v
	}
	return domain.RatingSummary{
		Average: float64(sum) / float64(len(votes)),
		Count:   len(votes),
	}, nil
}

func (f *fakeRatingRepo) SummariesByToolIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.RatingSummary, error) {
	out := map[uuid.UUID]domain.RatingSummary{}
	for _, id := range ids {
		s, _ := f.SummaryByToolID(ctx, id)
		out[id] = s
	}
	return out, nil
}

type fakeUserRepo struct {
	actors map[uuid.UUID]domain.Actor
}

func (f *fakeUserRepo) ActorsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Actor, error) {
	out := map[uuid.UUID]domain.Actor{}
	for _, id := range ids {
		if a, ok := f.actors[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

// fakeAudit records every appended event for assertions.
type fakeAudit struct {
	records []domain.AuditRecord
}

func (f *fakeAudit) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, tool *domain.Tool, changes map[string]domain.FieldChange) (domain.AuditRecord, error) {
	toolID := tool.ID
	rec := domain.AuditRecord{
		ID:        int64(len(f.records) + 1),
		ActorID:   &actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Action:    action,
		ToolID:    &toolID,
		ToolName:  tool.Name,
		Changes:   changes,
	}
	meta := ctxutil.RequestMetaFromCtx(ctx)
	if meta.IPAddress != "" {
		rec.IPAddress = &meta.IPAddress
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAudit) RecordDeleted(_ context.Context, actor domain.Actor, toolName string, deadToolID uuid.UUID) (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		ID:        int64(len(f.records) + 1),
		ActorID:   &actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Action:    domain.AuditActionDeleted,
		ToolName:  toolName,
		Extra:     map[string]string{"deleted_tool_id": deadToolID.String()},
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAudit) last() domain.AuditRecord {
	return f.records[len(f.records)-1]
}

type fakeTags struct {
	known   map[string]uuid.UUID
	created bool
}

func (f *fakeTags) ResolveTags(_ context.Context, names []string) ([]uuid.UUID, bool, error) {
	var ids []uuid.UUID
	anyCreated := false
	for _, n := range names {
		slug := domain.Slugify(n)
		if slug == "" {
			continue
		}
		id, ok := f.known[slug]
		if !ok {
			id = uuid.New()
			if f.known == nil {
				f.known = map[string]uuid.UUID{}
			}
			f.known[slug] = id
			anyCreated = true
		}
		ids = append(ids, id)
	}
	f.created = anyCreated
	return ids, anyCreated, nil
}

// recordingViews passes reads through to an inner memory store (so the
// cached-listing tests see real cache behavior) and records forgets.
type recordingViews struct {
	inner     *cache.Coordinator
	forgotten []string
}

func newRecordingViews() *recordingViews {
	store := cache.NewMemoryStore()
	return &recordingViews{
		inner: cache.NewCoordinator(store, slog.New(slog.DiscardHandler), cache.DefaultTTLs()),
	}
}

func (v *recordingViews) GetOrCompute(ctx context.Context, view string, out any, compute func(ctx context.Context) (any, error)) error {
	return v.inner.GetOrCompute(ctx, view, out, compute)
}

func (v *recordingViews) InvalidateToolViews(ctx context.Context) {
	v.forgotten = append(v.forgotten, cache.ViewApprovedToolsPage1)
	v.inner.InvalidateToolViews(ctx)
}

func (v *recordingViews) InvalidateTagViews(ctx context.Context) {
	v.forgotten = append(v.forgotten, cache.ViewAllTags)
	v.inner.InvalidateTagViews(ctx)
}

type passTx struct{}

func (passTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ===========================================================================
// Fixture
// ===========================================================================

type fixture struct {
	svc     *Service
	tools   *fakeToolRepo
	ratings *fakeRatingRepo
	users   *fakeUserRepo
	audit   *fakeAudit
	tags    *fakeTags
	views   *recordingViews
}

var (
	owner   = domain.Actor{ID: uuid.New(), Name: "Olga", Role: domain.RoleOwner}
	alice   = domain.Actor{ID: uuid.New(), Name: "Alice", Role: domain.RoleBackend}
	bob     = domain.Actor{ID: uuid.New(), Name: "Bob", Role: domain.RoleOwner}
	charlie = domain.Actor{ID: uuid.New(), Name: "Charlie", Role: domain.RoleQA}
	testCfg = config.CatalogConfig{MaxScreenshots: 5, MaxExamples: 5, MaxTagLength: 50}
)

func newFixture() *fixture {
	f := &fixture{
		tools:   newFakeToolRepo(),
		ratings: newFakeRatingRepo(),
		users: &fakeUserRepo{actors: map[uuid.UUID]domain.Actor{
			owner.ID: owner, alice.ID: alice, bob.ID: bob, charlie.ID: charlie,
		}},
		audit: &fakeAudit{},
		tags:  &fakeTags{},
		views: newRecordingViews(),
	}
	f.svc = NewService(
		slog.New(slog.DiscardHandler),
		f.tools, f.ratings, f.users, f.audit, f.tags, f.views, passTx{}, testCfg,
	)
	return f
}

func as(actor domain.Actor) context.Context {
	return ctxutil.WithActor(context.Background(), actor)
}

func validInput() CreateToolInput {
	return CreateToolInput{
		Name:        "Grafana",
		URL:         "https://grafana.example.com",
		Description: "Dashboards for everything",
		Roles:       []domain.Role{domain.RoleBackend, domain.RoleQA},
		Tags:        []string{"monitoring"},
	}
}

// ===========================================================================
// Create
// ===========================================================================

func TestCreateTool_NonElevatedCreatorStartsPending(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.ToolStatusPending, tool.Status)
	assert.Equal(t, alice.ID, tool.CreatedBy)

	rec := f.audit.last()
	assert.Equal(t, domain.AuditActionCreated, rec.Action)
	assert.Equal(t, "Alice", rec.ActorName)
	assert.Nil(t, rec.Changes, "created must not carry a diff")
}

func TestCreateTool_ElevatedCreatorPublishesImmediately(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(owner), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusApproved, tool.Status)
}

func TestCreateTool_AnonymousDenied(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTool(context.Background(), validInput())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, f.audit.records)
}

func TestCreateTool_ValidationAbortsBeforeAnyWrite(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.URL = "not a url"
	in.Description = ""

	_, err := f.svc.CreateTool(as(alice), in)
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]bool{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["url"])
	assert.True(t, fields["description"])

	assert.Empty(t, f.tools.tools, "nothing may be written on invalid input")
	assert.Empty(t, f.audit.records)
	assert.Empty(t, f.views.forgotten)
}

func TestCreateTool_RejectsTooManyScreenshots(t *testing.T) {
	f := newFixture()

	in := validInput()
	for i := 0; i < 6; i++ {
		in.Screenshots = append(in.Screenshots, ScreenshotInput{URL: "https://img.example.com/s.png"})
	}

	_, err := f.svc.CreateTool(as(alice), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTool_NewTagForgetsTagsView(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	assert.Contains(t, f.views.forgotten, cache.ViewApprovedToolsPage1)
	assert.Contains(t, f.views.forgotten, cache.ViewAllTags)
}

// ===========================================================================
// Update
// ===========================================================================

func TestUpdateTool_DiffContainsOnlyChangedFields(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	desc := "Dashboards, now with alerts"
	_, err = f.svc.UpdateTool(as(alice), tool.ID, UpdateToolInput{Description: &desc})
	require.NoError(t, err)

	rec := f.audit.last()
	assert.Equal(t, domain.AuditActionUpdated, rec.Action)
	require.Len(t, rec.Changes, 1)
	assert.Equal(t, "Dashboards for everything", rec.Changes["description"].Old)
	assert.Equal(t, desc, rec.Changes["description"].New)
}

func TestUpdateTool_ThirdPartyMayEdit(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	name := "Grafana OSS"
	updated, err := f.svc.UpdateTool(as(charlie), tool.ID, UpdateToolInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grafana OSS", updated.Name)
	assert.Equal(t, "Charlie", f.audit.last().ActorName)
}

func TestUpdateTool_NeverChangesStatus(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.ToolStatusPending, tool.Status)

	url := "https://grafana.internal.example.com"
	updated, err := f.svc.UpdateTool(as(owner), tool.ID, UpdateToolInput{URL: &url})
	require.NoError(t, err)

	assert.Equal(t, domain.ToolStatusPending, updated.Status, "editing must not re-moderate")
}

func TestUpdateTool_NoopEditStillAuditsWithEmptyChanges(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	same := tool.Name
	_, err = f.svc.UpdateTool(as(alice), tool.ID, UpdateToolInput{Name: &same})
	require.NoError(t, err)

	rec := f.audit.last()
	assert.Equal(t, domain.AuditActionUpdated, rec.Action)
	assert.Empty(t, rec.Changes)
}

func TestUpdateTool_ClearsOptionalFieldWithEmptyString(t *testing.T) {
	f := newFixture()

	in := validInput()
	how := "Open the dashboard"
	in.HowToUse = &how
	tool, err := f.svc.CreateTool(as(alice), in)
	require.NoError(t, err)

	empty := ""
	updated, err := f.svc.UpdateTool(as(alice), tool.ID, UpdateToolInput{HowToUse: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.HowToUse)

	rec := f.audit.last()
	assert.Equal(t, "Open the dashboard", rec.Changes["how_to_use"].Old)
	assert.Equal(t, "", rec.Changes["how_to_use"].New)
}

func TestUpdateTool_UnknownIDIsNotFound(t *testing.T) {
	f := newFixture()

	name := "x"
	_, err := f.svc.UpdateTool(as(alice), uuid.New(), UpdateToolInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// Moderation
// ===========================================================================

func TestApproveTool_PendingBecomesApproved(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	approved, err := f.svc.ApproveTool(as(bob), tool.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusApproved, approved.Status)

	rec := f.audit.last()
	assert.Equal(t, domain.AuditActionApproved, rec.Action)
	assert.Equal(t, "Bob", rec.ActorName)
}

func TestApproveTool_NonElevatedDeniedEvenWhenAlreadyApproved(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(owner), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.ToolStatusApproved, tool.Status)

	// Privilege is checked before state: no idempotent escape hatch.
	_, err = f.svc.ApproveTool(as(alice), tool.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApproveTool_IdempotentOnApproved(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(owner), validInput())
	require.NoError(t, err)
	auditCount := len(f.audit.records)

	again, err := f.svc.ApproveTool(as(bob), tool.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusApproved, again.Status)
	assert.Len(t, f.audit.records, auditCount, "no-op approve must not audit")
}

func TestRejectTool_PendingBecomesRejected(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	rejected, err := f.svc.RejectTool(as(owner), tool.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusRejected, rejected.Status)
	assert.Equal(t, domain.AuditActionRejected, f.audit.last().Action)
}

func TestModerate_NoTransitionOutOfRejected(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)
	_, err = f.svc.RejectTool(as(owner), tool.ID)
	require.NoError(t, err)

	_, err = f.svc.ApproveTool(as(owner), tool.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ===========================================================================
// Delete
// ===========================================================================

func TestDeleteTool_CreatorMayDelete(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTool(as(alice), tool.ID))

	_, err = f.tools.GetByID(context.Background(), tool.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rec := f.audit.last()
	assert.Equal(t, domain.AuditActionDeleted, rec.Action)
	assert.Nil(t, rec.ToolID)
	assert.Equal(t, "Grafana", rec.ToolName)
	assert.Equal(t, tool.ID.String(), rec.Extra["deleted_tool_id"])
}

func TestDeleteTool_ThirdPartyDenied(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	err = f.svc.DeleteTool(as(charlie), tool.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, getErr := f.tools.GetByID(context.Background(), tool.ID)
	assert.NoError(t, getErr, "denied delete must leave the tool intact")
}

func TestDeleteTool_OwnerMayDeleteAnything(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	assert.NoError(t, f.svc.DeleteTool(as(owner), tool.ID))
}

// ===========================================================================
// Listing and visibility
// ===========================================================================

func TestFindTools_AnonymousSeesOnlyApproved(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTool(as(alice), validInput()) // pending
	require.NoError(t, err)
	in := validInput()
	in.Name = "Published"
	_, err = f.svc.CreateTool(as(owner), in) // approved
	require.NoError(t, err)

	res, err := f.svc.FindTools(context.Background(), FindToolsInput{Page: 1})
	require.NoError(t, err)

	require.Len(t, res.Tools, 1)
	assert.Equal(t, "Published", res.Tools[0].Name)
}

func TestFindTools_StatusFilterIgnoredForNonElevated(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTool(as(alice), validInput()) // pending
	require.NoError(t, err)

	all := StatusAll
	res, err := f.svc.FindTools(as(charlie), FindToolsInput{Status: &all, Page: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Tools, "non-elevated caller must not see pending entries")
}

func TestFindTools_ElevatedStatusAllSeesEverything(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTool(as(alice), validInput()) // pending
	require.NoError(t, err)
	in := validInput()
	in.Name = "Published"
	_, err = f.svc.CreateTool(as(owner), in) // approved
	require.NoError(t, err)

	all := StatusAll
	res, err := f.svc.FindTools(as(owner), FindToolsInput{Status: &all, Page: 1})
	require.NoError(t, err)
	assert.Len(t, res.Tools, 2)
}

func TestFindTools_LandingPageServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.Name = "First"
	first, err := f.svc.CreateTool(as(owner), in)
	require.NoError(t, err)

	// Prime the view.
	res, err := f.svc.FindTools(context.Background(), FindToolsInput{Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)

	// Mutate behind the cache's back: a stale read would miss this.
	_, err = f.tools.UpdateStatus(context.Background(), first.ID, domain.ToolStatusRejected)
	require.NoError(t, err)

	res, err = f.svc.FindTools(context.Background(), FindToolsInput{Page: 1})
	require.NoError(t, err)
	assert.Len(t, res.Tools, 1, "cached view still serves the old page")

	// Any write through the service forgets the view.
	in2 := validInput()
	in2.Name = "Second"
	_, err = f.svc.CreateTool(as(owner), in2)
	require.NoError(t, err)

	res, err = f.svc.FindTools(context.Background(), FindToolsInput{Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, "Second", res.Tools[0].Name, "recomputed view reflects current state")
}

func TestGetTool_PendingHiddenFromNonElevated(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)

	_, err = f.svc.GetTool(context.Background(), tool.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "existence must not leak")

	_, err = f.svc.GetTool(as(charlie), tool.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.GetTool(as(owner), tool.ID)
	require.NoError(t, err)
	assert.Equal(t, tool.ID, got.ID)
}

func TestGetTool_HydratesAuthorAndRelations(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.Screenshots = []ScreenshotInput{{URL: "https://img.example.com/1.png"}}
	tool, err := f.svc.CreateTool(as(owner), in)
	require.NoError(t, err)

	got, err := f.svc.GetTool(context.Background(), tool.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Author)
	assert.Equal(t, "Olga", got.Author.Name)
	assert.Equal(t, []domain.Role{domain.RoleBackend, domain.RoleQA}, got.Roles)
	require.Len(t, got.Screenshots, 1)
}

// ===========================================================================
// Rating
// ===========================================================================

func TestRateTool_RepeatVoteOverwrites(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(owner), validInput())
	require.NoError(t, err)

	sum, err := f.svc.RateTool(as(alice), tool.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.InDelta(t, 2.0, sum.Average, 0.001)

	sum, err = f.svc.RateTool(as(alice), tool.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count, "same voter must not double-count")
	assert.InDelta(t, 5.0, sum.Average, 0.001)
}

func TestRateTool_ValidatesRange(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(owner), validInput())
	require.NoError(t, err)

	_, err = f.svc.RateTool(as(alice), tool.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.RateTool(as(alice), tool.ID, 6)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRateTool_AnonymousDenied(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RateTool(context.Background(), uuid.New(), 4)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ===========================================================================
// Full lifecycle
// ===========================================================================

// The canonical flow: a backend engineer submits, an owner approves,
// the creator refines, a third party tries to delete and is denied.
// The audit trail reads back the whole story in order.
func TestLifecycle_SubmitApproveEditDenyDelete(t *testing.T) {
	f := newFixture()

	tool, err := f.svc.CreateTool(as(alice), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.ToolStatusPending, tool.Status)

	_, err = f.svc.ApproveTool(as(bob), tool.ID)
	require.NoError(t, err)

	desc := "Dashboards and alerting"
	_, err = f.svc.UpdateTool(as(alice), tool.ID, UpdateToolInput{Description: &desc})
	require.NoError(t, err)

	err = f.svc.DeleteTool(as(charlie), tool.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	actions := make([]domain.AuditAction, 0, len(f.audit.records))
	for _, r := range f.audit.records {
		actions = append(actions, r.Action)
	}
	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionCreated,
		domain.AuditActionApproved,
		domain.AuditActionUpdated,
	}, actions, "denied delete must leave no trace")

	got, err := f.svc.GetTool(context.Background(), tool.ID)
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, domain.ToolStatusApproved, got.Status)
}
