package issuesync

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"smartcampus/errs"
	"smartcampus/models"
	"smartcampus/store"
)

// fakeBackend behaves like the campus API: it assigns ids, status and
// createdAt and returns issues in insertion order.
type fakeBackend struct {
	mu     sync.Mutex
	issues []models.Issue
	nextID int
	calls  int
}

func (f *fakeBackend) ListIssues(ctx context.Context) ([]models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]models.Issue(nil), f.issues...), nil
}

func (f *fakeBackend) CreateIssue(ctx context.Context, d models.IssueDraft) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.nextID++
	issue := models.Issue{
		ID:           models.IssueID("x" + strconv.Itoa(f.nextID)),
		Title:        d.Title,
		Description:  d.Description,
		LocationName: d.LocationName,
		Category:     d.Category,
		Priority:     d.Priority,
		Status:       models.Submitted,
		Lat:          d.Lat,
		Lng:          d.Lng,
		CreatedAt:    time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
	f.issues = append(f.issues, issue)
	return &issue, nil
}

func (f *fakeBackend) DeleteIssue(ctx context.Context, id models.IssueID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for n, i := range f.issues {
		if i.ID == id {
			f.issues = append(f.issues[:n], f.issues[n+1:]...)
			return nil
		}
	}
	return errs.Server("DELETE /api/issues/"+id.String(), 404, "Issue not found")
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ListIssues(ctx context.Context) ([]models.Issue, error) {
	args := m.Called(ctx)
	issues, _ := args.Get(0).([]models.Issue)
	return issues, args.Error(1)
}

func (m *mockBackend) CreateIssue(ctx context.Context, d models.IssueDraft) (*models.Issue, error) {
	args := m.Called(ctx, d)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockBackend) DeleteIssue(ctx context.Context, id models.IssueID) error {
	return m.Called(ctx, id).Error(0)
}

func yes(models.Issue) bool { return true }

func observed() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func seeded() []models.Issue {
	return []models.Issue{
		{ID: "1", Title: "Broken Light in Hostel B", Status: models.Submitted, Priority: models.Low},
		{ID: "2", Title: "Water Leakage near Mess", Status: models.Resolved, Priority: models.High},
	}
}

func TestSyncer_CreateThenLoad(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, store.New())
	ctx := context.Background()

	created, err := s.Create(ctx, models.IssueDraft{Title: "Leak", Priority: models.Medium, Lat: 26.08, Lng: 91.56})
	require.NoError(t, err)
	assert.Empty(t, s.Store().Snapshot().Issues, "create must not touch the store")

	require.NoError(t, s.Load(ctx))
	got, ok := s.Store().Snapshot().Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, *created, got)
	assert.Equal(t, models.Submitted, got.Status)
	assert.Equal(t, models.DefaultCategory, got.Category)
}

func TestSyncer_CreateRejectsEmptyTitleBeforeNetwork(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, store.New())

	_, err := s.Create(context.Background(), models.IssueDraft{Title: "  ", Priority: models.High})

	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, 0, backend.calls)
}

func TestSyncer_LoadFailureKeepsState(t *testing.T) {
	logger, logs := observed()
	backend := &mockBackend{}
	backend.On("ListIssues", mock.Anything).Return(seeded(), nil).Once()
	backend.On("ListIssues", mock.Anything).Return(nil, errs.Network("GET /api/issues", errors.New("connection refused"))).Once()
	s := New(backend, store.New(), WithLogger(logger))

	require.NoError(t, s.Load(context.Background()))
	before := s.Store().Snapshot()

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.Equal(t, before, s.Store().Snapshot())
	assert.Equal(t, 1, logs.FilterMessage("loading issues failed").Len())
	backend.AssertExpectations(t)
}

func TestSyncer_LoadRejectsDuplicateIDs(t *testing.T) {
	backend := &mockBackend{}
	backend.On("ListIssues", mock.Anything).Return([]models.Issue{{ID: "1"}, {ID: "1"}}, nil)
	s := New(backend, store.New(), WithLogger(zap.NewNop().Sugar()))

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, errs.ErrDecode)
	assert.Empty(t, s.Store().Snapshot().Issues)
}

func TestSyncer_LoadRejectsMissingID(t *testing.T) {
	backend := &mockBackend{}
	backend.On("ListIssues", mock.Anything).Return(seeded(), nil).Once()
	backend.On("ListIssues", mock.Anything).Return([]models.Issue{{Title: "no id", Status: models.Submitted}}, nil).Once()
	s := New(backend, store.New(), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, s.Load(context.Background()))
	before := s.Store().Snapshot()

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, errs.ErrDecode)
	assert.ErrorIs(t, err, store.ErrMissingID)
	assert.Equal(t, before, s.Store().Snapshot())
}

// cancellingBackend cancels the caller's context while the request is in
// flight, like a view being unmounted.
type cancellingBackend struct {
	fakeBackend
	cancel context.CancelFunc
}

func (c *cancellingBackend) ListIssues(ctx context.Context) ([]models.Issue, error) {
	c.cancel()
	return seeded(), nil
}

func TestSyncer_LoadAfterCancelIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(&cancellingBackend{cancel: cancel}, store.New(), WithLogger(zap.NewNop().Sugar()))

	err := s.Load(ctx)
	assert.ErrorIs(t, err, errs.ErrCancelled)
	assert.Equal(t, uint64(0), s.Store().Snapshot().Version)
}

func TestSyncer_RemoveCommits(t *testing.T) {
	backend := &fakeBackend{issues: seeded()}
	s := New(backend, store.New())
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Remove(context.Background(), "1", ConfirmFunc(yes)))

	_, ok := s.Store().Snapshot().Find("1")
	assert.False(t, ok)
	assert.Len(t, backend.issues, 1)
}

func TestSyncer_RemoveRollsBackOnFailure(t *testing.T) {
	failures := []struct {
		name string
		err  error
		kind error
	}{
		{"server", errs.Server("DELETE", 500, "boom"), errs.ErrServer},
		{"network", errs.Network("DELETE", errors.New("connection reset")), errs.ErrNetwork},
		{"decode", errs.Decode("DELETE", errors.New("unexpected EOF")), errs.ErrDecode},
	}
	for _, f := range failures {
		for _, issue := range seeded() {
			t.Run(f.name+"/"+issue.ID.String(), func(t *testing.T) {
				backend := &mockBackend{}
				backend.On("ListIssues", mock.Anything).Return(seeded(), nil)
				backend.On("DeleteIssue", mock.Anything, issue.ID).Return(f.err)
				s := New(backend, store.New(), WithLogger(zap.NewNop().Sugar()))
				require.NoError(t, s.Load(context.Background()))

				var during []models.IssueID
				unsubscribe := s.Store().Subscribe(func(snap store.Snapshot) {
					if _, ok := snap.Find(issue.ID); !ok {
						during = append(during, issue.ID)
					}
				})
				defer unsubscribe()

				err := s.Remove(context.Background(), issue.ID, ConfirmFunc(yes))
				assert.ErrorIs(t, err, f.kind)

				assert.Equal(t, []models.IssueID{issue.ID}, during, "entry is removed optimistically")
				assert.Equal(t, seeded(), s.Store().Snapshot().Issues, "entry is restored in place")
			})
		}
	}
}

func TestSyncer_RemoveNeedsConfirmation(t *testing.T) {
	backend := &mockBackend{}
	backend.On("ListIssues", mock.Anything).Return(seeded(), nil)
	s := New(backend, store.New())
	require.NoError(t, s.Load(context.Background()))

	err := s.Remove(context.Background(), "2", ConfirmFunc(func(models.Issue) bool { return false }))
	assert.ErrorIs(t, err, errs.ErrNotConfirmed)

	err = s.Remove(context.Background(), "2", nil)
	assert.ErrorIs(t, err, errs.ErrNotConfirmed)

	backend.AssertNotCalled(t, "DeleteIssue", mock.Anything, mock.Anything)
	assert.Len(t, s.Store().Snapshot().Issues, 2)
}

func TestSyncer_RemoveUnknownIssue(t *testing.T) {
	s := New(&fakeBackend{}, store.New())

	err := s.Remove(context.Background(), "404", ConfirmFunc(yes))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
