package appointments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	first, err := repo.Create(ctx, "u1", "Swedish Massage", "2025-12-05 14:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, StatusPending, first.Status)

	second, err := repo.Create(ctx, "u1", "Thai Massage", "2025-12-06 10:00")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "ids are assigned in insertion order")

	_, err = repo.Create(ctx, "u2", "Reflexology", "2025-12-07 09:00")
	require.NoError(t, err)

	appts, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, int64(1), appts[0].ID)
	assert.Equal(t, int64(2), appts[1].ID)

	found, err := repo.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, found)

	appts, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, appts[0].Status)
	assert.Equal(t, StatusPending, appts[1].Status)

	found, err = repo.Reschedule(ctx, second.ID, "2025-12-08 11:00")
	require.NoError(t, err)
	assert.True(t, found)

	appts, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-08 11:00", appts[1].When)
}

func TestInMemoryRepositoryMissingID(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	found, err := repo.Cancel(ctx, 99)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Reschedule(ctx, 99, "2025-12-08 11:00")
	require.NoError(t, err)
	assert.False(t, found)

	appts, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, appts)
}
