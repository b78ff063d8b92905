package views

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "views.json")
	store := NewFileStore(path)
	ctx := context.Background()

	count, err := store.Get(ctx, "lesson-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = store.Increment(ctx, "lesson-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = store.Increment(ctx, "lesson-01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	_, err = store.Increment(ctx, "lesson-02")
	require.NoError(t, err)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"lesson-01": 2, "lesson-02": 1}, all)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lesson-01": 2, "lesson-02": 1}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_ConcurrentIncrements(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "views.json"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(ctx, "lesson")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := store.Get(ctx, "lesson")
	require.NoError(t, err)
	assert.Equal(t, int64(20), count)
}

func TestFileStore_Unreadable(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	_, err := store.All(context.Background())
	assert.Error(t, err)
}

func TestFileStore_Set(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "views.json"))
	ctx := context.Background()

	_, err := store.Increment(ctx, "lesson-01")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "lesson-01", 40))
	require.NoError(t, store.Set(ctx, "lesson-02", 2))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"lesson-01": 40, "lesson-02": 2}, all)
}
