package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *SelectionStore {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSelectionStore(context.Background(), db)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 6, 1, 12, 30, 15, 500, time.UTC) }
	return store
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.Save(ctx, "ebola-sudan", []string{"B.1", "A.1", "B.1"})
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"A.1", "B.1"}, saved.AccessionVersions)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 15, 0, time.UTC), got.CreatedAt)

	n, known := got.Filter().SequenceCount()
	assert.True(t, known)
	assert.Equal(t, 2, n)
}

func TestGetMissing(t *testing.T) {
	_, err := newTestStore(t).Get(context.Background(), "nope")
	var nf *SelectionNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)
}

func TestNewSelectionStoreIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSelectionStore(context.Background(), db)
	require.NoError(t, err)
	_, err = NewSelectionStore(context.Background(), db)
	assert.NoError(t, err)
}
