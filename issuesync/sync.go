package issuesync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"smartcampus/errs"
	"smartcampus/models"
	"smartcampus/store"
)

// Backend is the part of the campus API the sync client needs.
type Backend interface {
	ListIssues(ctx context.Context) ([]models.Issue, error)
	CreateIssue(ctx context.Context, draft models.IssueDraft) (*models.Issue, error)
	DeleteIssue(ctx context.Context, id models.IssueID) error
}

// Confirmer asks the user a blocking yes/no question before a removal.
type Confirmer interface {
	Confirm(issue models.Issue) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(models.Issue) bool

func (f ConfirmFunc) Confirm(issue models.Issue) bool { return f(issue) }

type Syncer struct {
	backend Backend
	store   *store.Store
	log     *zap.SugaredLogger
}

type Option func(*Syncer)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Syncer) { s.log = l }
}

func New(backend Backend, st *store.Store, opts ...Option) *Syncer {
	s := &Syncer{backend: backend, store: st, log: zap.S()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) Store() *store.Store { return s.store }

// Load fetches the full collection and replaces the store contents. On any
// failure the store keeps its last-known state. Results that arrive after ctx
// is done are dropped, so a view that cancels its context on unmount never
// receives a late update.
func (s *Syncer) Load(ctx context.Context) error {
	issues, err := s.backend.ListIssues(ctx)
	if err != nil {
		s.log.Errorw("loading issues failed", "error", err, "kind", errs.KindOf(err))
		return fmt.Errorf("load issues: %w", err)
	}
	if err := ctx.Err(); err != nil {
		s.log.Debugw("dropping issues loaded after cancellation", "count", len(issues))
		return errs.Cancelled("load issues", err)
	}
	if err := s.store.ReplaceContext(ctx, issues); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			s.log.Debugw("dropping issues loaded after cancellation", "count", len(issues))
			return errs.Cancelled("load issues", err)
		}
		s.log.Errorw("backend returned an inconsistent issue list", "error", err)
		return errs.Decode("load issues", err)
	}
	s.log.Debugw("issues loaded", "count", len(issues))
	return nil
}

// Create validates draft and sends it. The store is left alone: id, status and
// createdAt come from the backend on the next Load.
func (s *Syncer) Create(ctx context.Context, draft models.IssueDraft) (*models.Issue, error) {
	draft = draft.WithDefaults()
	if err := models.Validate("create issue", draft); err != nil {
		return nil, err
	}
	issue, err := s.backend.CreateIssue(ctx, draft)
	if err != nil {
		s.log.Errorw("creating issue failed", "title", draft.Title, "error", err)
		return nil, fmt.Errorf("create issue: %w", err)
	}
	s.log.Infow("issue created", "id", issue.ID, "priority", issue.Priority)
	return issue, nil
}

// Remove deletes the issue after confirm approves it. The entry disappears
// from the store at once and is put back if the backend call fails.
func (s *Syncer) Remove(ctx context.Context, id models.IssueID, confirm Confirmer) error {
	issue, ok := s.store.Snapshot().Find(id)
	if !ok {
		return fmt.Errorf("remove issue %s: %w", id, errs.ErrNotFound)
	}
	if confirm == nil || !confirm.Confirm(issue) {
		return fmt.Errorf("remove issue %s: %w", id, errs.ErrNotConfirmed)
	}

	removal, ok := s.store.BeginRemove(id)
	if !ok {
		return fmt.Errorf("remove issue %s: %w", id, errs.ErrNotFound)
	}
	if err := s.backend.DeleteIssue(ctx, id); err != nil {
		removal.Revert()
		s.log.Errorw("deleting issue failed, restored locally", "id", id, "error", err)
		return fmt.Errorf("remove issue %s: %w", id, err)
	}
	removal.Commit()
	s.log.Infow("issue deleted", "id", id)
	return nil
}
