package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
)

func TestJobStore_SaveAndGet(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()

	job := &domain.Job{ID: "batch_1", Status: domain.JobStatusValidating, Documents: []string{"A.pdf"}}
	require.NoError(t, store.Save(ctx, job))

	got, err := store.Get(ctx, "batch_1")
	require.NoError(t, err)
	assert.Equal(t, *job, *got)

	// Returned copies do not alias stored state
	got.Documents[0] = "changed"
	again, err := store.Get(ctx, "batch_1")
	require.NoError(t, err)
	assert.Equal(t, "A.pdf", again.Documents[0])
}

func TestJobStore_Get_NotFound(t *testing.T) {
	_, err := NewJobStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobStore_List_NewestFirst(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, &domain.Job{ID: "old", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.Job{ID: "new", CreatedAt: now}))

	jobs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "old", jobs[1].ID)
}

func TestJobStore_Delete(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Job{ID: "batch_1"}))

	require.NoError(t, store.Delete(ctx, "batch_1"))

	_, err := store.Get(ctx, "batch_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
