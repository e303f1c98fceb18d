package repository

import (
	"context"
	"errors"
	"time"

	"smartcampus/models"
)

var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate")
)

// IssueRepository stores issues. List returns them oldest first.
type IssueRepository interface {
	List(ctx context.Context) ([]models.Issue, error)
	Get(ctx context.Context, id models.IssueID) (*models.Issue, error)
	Insert(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, id models.IssueID) error
}

// HealthRepository stores anonymous health reports.
type HealthRepository interface {
	Insert(ctx context.Context, report models.HealthReport) error
	Since(ctx context.Context, t time.Time) ([]models.HealthReport, error)
}

// UserRepository stores accounts. Create fails with ErrDuplicate when the
// email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id string) (*models.User, error)
}

// Store groups the repositories the backend needs.
type Store struct {
	Issues IssueRepository
	Health HealthRepository
	Users  UserRepository
}

// DemoIssues are the issues a fresh in-memory store can start with.
func DemoIssues(now time.Time) []models.Issue {
	return []models.Issue{
		{
			ID:           "1",
			Title:        "Broken Light in Hostel B",
			Description:  "Corridor light on the second floor has been out for two days.",
			LocationName: "Hostel B",
			Category:     models.DefaultCategory,
			Priority:     models.Medium,
			Status:       models.InProgress,
			Lat:          26.0818,
			Lng:          91.5614,
			CreatedAt:    now.Add(-48 * time.Hour),
		},
		{
			ID:           "2",
			Title:        "Water Leakage near Mess",
			Description:  "Pipe leaking beside the mess entrance.",
			LocationName: "Central Mess",
			Category:     "Water",
			Priority:     models.Low,
			Status:       models.Resolved,
			Lat:          26.0806,
			Lng:          91.5627,
			CreatedAt:    now.Add(-24 * time.Hour),
		},
	}
}
