package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, maxBackups int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "vaultbook.db"), maxBackups)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	_, err := s.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, DefaultKey, []byte(`{"version":"1.0.0"}`)))
	got, err := s.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(got))

	require.NoError(t, s.Save(ctx, DefaultKey, []byte(`{"version":"1.0.1"}`)))
	got, err = s.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.1"}`, string(got))
}

func TestSave_RequiresKey(t *testing.T) {
	s := openTestStore(t, 0)
	assert.Error(t, s.Save(context.Background(), "", []byte("{}")))
}

func TestBackupsAreCapped(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	for i := 1; i <= 7; i++ {
		require.NoError(t, s.Save(ctx, DefaultKey, []byte(fmt.Sprintf(`{"n":%d}`, i))))
	}

	backups, err := s.Backups(ctx, DefaultKey)
	require.NoError(t, err)
	require.Len(t, backups, DefaultMaxBackups)
	assert.Equal(t, `{"n":7}`, string(backups[0].Data))
	assert.Equal(t, `{"n":3}`, string(backups[4].Data))
	assert.Equal(t, "auto", backups[0].Type)
	assert.True(t, backups[0].CreatedAt.After(backups[1].CreatedAt))
}

func TestBackupsArePerKey(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 2)

	require.NoError(t, s.Save(ctx, "a", []byte("1")))
	require.NoError(t, s.Save(ctx, "b", []byte("2")))
	require.NoError(t, s.Save(ctx, "a", []byte("3")))
	require.NoError(t, s.Save(ctx, "a", []byte("4")))

	a, err := s.Backups(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, a, 2)
	b, err := s.Backups(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}

func TestRestoreBackup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)
	require.NoError(t, s.Save(ctx, DefaultKey, []byte("first")))
	require.NoError(t, s.Save(ctx, DefaultKey, []byte("second")))

	require.NoError(t, s.RestoreBackup(ctx, DefaultKey, 1))
	got, err := s.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	backups, err := s.Backups(ctx, DefaultKey)
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, "restore", backups[0].Type)

	assert.ErrorIs(t, s.RestoreBackup(ctx, DefaultKey, 3), ErrNotFound)
	assert.ErrorIs(t, s.RestoreBackup(ctx, DefaultKey, -1), ErrNotFound)
}

func TestClearAndInfo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	info, err := s.Info(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, info.HasData)
	assert.Zero(t, info.BackupCount)

	require.NoError(t, s.Save(ctx, DefaultKey, []byte("12345")))
	info, err = s.Info(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, info.HasData)
	assert.Equal(t, 5, info.DataSize)
	assert.Equal(t, 1, info.BackupCount)
	assert.False(t, info.LastBackup.IsZero())

	require.NoError(t, s.Clear(ctx, DefaultKey))
	_, err = s.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
	backups, err := s.Backups(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestReopenKeepsState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vaultbook.db")

	s, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, DefaultKey, []byte("kept")))
	require.NoError(t, s.Close())

	s, err = Open(path, 0)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}
