// Package store holds the client-side issue collection. Views read snapshots and
// subscribe to changes; only the sync client writes.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"smartcampus/models"
)

// Snapshot is an immutable view of the store at one version. Callers must not
// modify Issues.
type Snapshot struct {
	Version uint64
	Issues  []models.Issue
}

func (s Snapshot) Len() int { return len(s.Issues) }

// Find returns the issue with id.
func (s Snapshot) Find(id models.IssueID) (models.Issue, bool) {
	for _, i := range s.Issues {
		if i.ID == id {
			return i, true
		}
	}
	return models.Issue{}, false
}

// Listener is called with the new snapshot after every change.
type Listener func(Snapshot)

// Store is safe for concurrent use. Every mutation publishes a fresh slice, so a
// Snapshot handed out earlier never changes underneath its holder.
type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	listeners map[int]Listener
	nextID    int
}

func New() *Store {
	return &Store{
		snap:      Snapshot{Issues: []models.Issue{}},
		listeners: make(map[int]Listener),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// DuplicateIDError reports a collection that would break id uniqueness.
type DuplicateIDError struct {
	ID models.IssueID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("store: duplicate issue id %q", e.ID)
}

// ErrMissingID rejects a collection holding an issue without an id.
var ErrMissingID = errors.New("store: issue without id")

// Replace swaps the whole collection. A collection containing an issue without
// an id, or the same id twice, is rejected and the store keeps its contents.
func (s *Store) Replace(issues []models.Issue) error {
	return s.ReplaceContext(context.Background(), issues)
}

// ReplaceContext is Replace, except that nothing is written once ctx is done.
// ctx is checked under the store lock, so a cancelled caller never sees its
// result published.
func (s *Store) ReplaceContext(ctx context.Context, issues []models.Issue) error {
	seen := make(map[models.IssueID]struct{}, len(issues))
	for n, i := range issues {
		if i.ID == "" {
			return fmt.Errorf("%w (position %d)", ErrMissingID, n)
		}
		if _, dup := seen[i.ID]; dup {
			return &DuplicateIDError{ID: i.ID}
		}
		seen[i.ID] = struct{}{}
	}
	next := make([]models.Issue, len(issues))
	copy(next, issues)

	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.publishLocked(next)
	snap, listeners := s.snap, s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snap)
	return nil
}

// Removal is a pending optimistic removal. Exactly one of Commit or Revert
// should be called; further calls are no-ops.
type Removal struct {
	store *Store
	issue models.Issue
	index int
	done  bool
}

func (r *Removal) Issue() models.Issue { return r.issue }

// Commit makes the removal final.
func (r *Removal) Commit() {
	r.store.mu.Lock()
	r.done = true
	r.store.mu.Unlock()
}

// Revert puts the issue back at its former position. If a load has meanwhile
// brought the issue back, nothing is inserted.
func (r *Removal) Revert() {
	s := r.store
	s.mu.Lock()
	if r.done {
		s.mu.Unlock()
		return
	}
	r.done = true
	if _, present := s.snap.Find(r.issue.ID); present {
		s.mu.Unlock()
		return
	}
	idx := r.index
	if idx > len(s.snap.Issues) {
		idx = len(s.snap.Issues)
	}
	next := make([]models.Issue, 0, len(s.snap.Issues)+1)
	next = append(next, s.snap.Issues[:idx]...)
	next = append(next, r.issue)
	next = append(next, s.snap.Issues[idx:]...)
	s.publishLocked(next)
	snap, listeners := s.snap, s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snap)
}

// BeginRemove removes the issue with id right away and returns a Removal to
// commit or revert once the backend has answered.
func (s *Store) BeginRemove(id models.IssueID) (*Removal, bool) {
	s.mu.Lock()
	idx := -1
	for n, i := range s.snap.Issues {
		if i.ID == id {
			idx = n
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, false
	}
	removed := s.snap.Issues[idx]
	next := make([]models.Issue, 0, len(s.snap.Issues)-1)
	next = append(next, s.snap.Issues[:idx]...)
	next = append(next, s.snap.Issues[idx+1:]...)
	s.publishLocked(next)
	snap, listeners := s.snap, s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snap)
	return &Removal{store: s, issue: removed, index: idx}, true
}

func (s *Store) publishLocked(issues []models.Issue) {
	s.snap = Snapshot{Version: s.snap.Version + 1, Issues: issues}
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap)
	}
}
