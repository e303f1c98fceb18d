package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/models"
)

func TestMemoryIssues(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(false)

	list, err := s.Issues.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	now := time.Now()
	late := &models.Issue{Title: "late", CreatedAt: now}
	early := &models.Issue{Title: "early", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, s.Issues.Insert(ctx, late))
	require.NoError(t, s.Issues.Insert(ctx, early))
	assert.NotEmpty(t, late.ID)
	assert.NotEqual(t, late.ID, early.ID)

	list, err = s.Issues.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].Title)

	dup := *late
	assert.ErrorIs(t, s.Issues.Insert(ctx, &dup), ErrDuplicate)

	got, err := s.Issues.Get(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, "late", got.Title)

	require.NoError(t, s.Issues.Delete(ctx, late.ID))
	assert.ErrorIs(t, s.Issues.Delete(ctx, late.ID), ErrNotFound)
	_, err = s.Issues.Get(ctx, late.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySeed(t *testing.T) {
	list, err := NewMemory(true).Issues.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Broken Light in Hostel B", list[0].Title)
	assert.Equal(t, models.Resolved, list[1].Status)
}

func TestMemoryHealthSince(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(false)
	now := time.Now()

	require.NoError(t, s.Health.Insert(ctx, models.HealthReport{IllnessType: models.Viral, CreatedAt: now.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, s.Health.Insert(ctx, models.HealthReport{IllnessType: models.Respiratory, CreatedAt: now.Add(-time.Hour)}))

	got, err := s.Health.Since(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Respiratory, got[0].IllnessType)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(false)

	u := &models.User{Name: "Asha", Email: "asha@campus.edu"}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.ErrorIs(t, s.Users.Create(ctx, &models.User{Email: "ASHA@campus.edu"}), ErrDuplicate)

	got, err := s.Users.ByEmail(ctx, "Asha@Campus.edu")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.Users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	_, err = s.Users.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
