package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"smartcampus/models"
)

// NewMemory returns a Store kept in process memory, optionally seeded with
// DemoIssues.
func NewMemory(seed bool) *Store {
	issues := &memoryIssues{}
	if seed {
		issues.items = DemoIssues(time.Now().UTC())
	}
	return &Store{
		Issues: issues,
		Health: &memoryHealth{},
		Users:  &memoryUsers{byID: map[string]models.User{}},
	}
}

type memoryIssues struct {
	mu    sync.RWMutex
	items []models.Issue
}

func (m *memoryIssues) List(ctx context.Context) ([]models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]models.Issue{}, m.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryIssues) Get(ctx context.Context, id models.IssueID) (*models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryIssues) Insert(ctx context.Context, issue *models.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if issue.ID == "" {
		issue.ID = models.IssueID(primitive.NewObjectID().Hex())
	}
	for _, it := range m.items {
		if it.ID == issue.ID {
			return ErrDuplicate
		}
	}
	m.items = append(m.items, *issue)
	return nil
}

func (m *memoryIssues) Delete(ctx context.Context, id models.IssueID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type memoryHealth struct {
	mu      sync.RWMutex
	reports []models.HealthReport
}

func (m *memoryHealth) Insert(ctx context.Context, report models.HealthReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.Symptoms = append([]string{}, report.Symptoms...)
	m.reports = append(m.reports, report)
	return nil
}

func (m *memoryHealth) Since(ctx context.Context, t time.Time) ([]models.HealthReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.HealthReport
	for _, r := range m.reports {
		if !r.CreatedAt.Before(t) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryUsers struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryUsers) ByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
