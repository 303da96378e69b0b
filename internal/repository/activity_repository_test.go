package repository

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/case-service/internal/domain"
)

func TestMemoryActivityRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryActivityRepository(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.CaseActivity{
			ID:     strconv.Itoa(i),
			CaseID: "case-" + strconv.Itoa(i%2),
			Type:   domain.ActivityUpdated,
		}))
	}

	recent, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "5", recent[0].ID)
	assert.Equal(t, "3", recent[2].ID)

	recent, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "5", recent[0].ID)

	byCase, err := repo.ListByCase(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, byCase, 2)
	assert.Equal(t, "3", byCase[0].ID)
	assert.Equal(t, "5", byCase[1].ID)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "Agent@Housing.gov", Role: domain.UserRoleAgent}))
	assert.Error(t, repo.Create(ctx, &domain.User{ID: "u2", Email: "agent@housing.gov"}))

	u, err := repo.GetByEmail(ctx, "agent@housing.gov")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryActivityRepository_CapacityDropsOldest(t *testing.T) {
	repo := NewMemoryActivityRepository(2)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &domain.CaseActivity{ID: id, CaseID: "1"}))
	}

	entries, err := repo.ListByCase(ctx, "1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].ID)
	assert.Equal(t, "c", entries[1].ID)
}
