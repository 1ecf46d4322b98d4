package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredName(t *testing.T) {
	at := time.UnixMilli(1743062400123)

	assert.Equal(t, "HDFC_Statement-1743062400123.xls", StoredName("HDFC_Statement.XLS", at))
	assert.Equal(t, "my_statement-1743062400123.xlsx", StoredName("my statement.xlsx", at))
	assert.Equal(t, "passwd-1743062400123", StoredName("../../etc/passwd", at))
	assert.Equal(t, "statement-1743062400123.csv", StoredName(".csv", at))
}

func TestLocalStorage_SaveDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	info, err := store.Save(ctx, "statement.xlsx", "application/octet-stream", strings.NewReader("workbook"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size)
	assert.True(t, strings.HasPrefix(info.Path, "statement-"))
	assert.True(t, strings.HasSuffix(info.Path, ".xlsx"))

	data, err := os.ReadFile(filepath.Join(store.basePath, info.Path))
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(data))

	got, err := store.getInfo(info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.Name, got.Name)

	require.NoError(t, store.Delete(ctx, info.ID))
	_, err = store.getInfo(info.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, filepath.Join(store.basePath, info.Path))
}

func TestLocalStorage_DeleteUnknown(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_PurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2025, 3, 27, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now.Add(-48 * time.Hour) }
	old, err := store.Save(ctx, "old.xls", "", strings.NewReader("old"))
	require.NoError(t, err)

	store.now = func() time.Time { return now }
	fresh, err := store.Save(ctx, "fresh.xls", "", strings.NewReader("fresh"))
	require.NoError(t, err)

	purged, err := store.PurgeOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = store.getInfo(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, filepath.Join(store.basePath, old.Path))

	_, err = store.getInfo(fresh.ID)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(store.basePath, fresh.Path))
}
