package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hostelhub/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add rooms table", "add_rooms_table"},
		{"Add-Rooms-Table", "add_rooms_table"},
		{"ADD_ROOMS_TABLE", "add_rooms_table"},
		{"add__rooms__table", "add_rooms_table"},
		{"Add Rooms 123", "add_rooms_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 4, 2, 9, 30, 15, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add room photos", "Photo keys per room", now)
	require.NoError(t, err)

	assert.Equal(t, "20260402093015", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260402093015_add_room_photos.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260402093015_add_room_photos.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_room_photos")
	assert.Contains(t, string(up), "-- Description: Photo keys per room")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")
}

func TestCreateMigration_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "!!!", "")
	assert.ErrorIs(t, err, ErrEmptyMigrationName)

	now := time.Date(2026, 4, 2, 9, 30, 15, 0, time.UTC)
	_, err = createMigrationAt(dir, "dup", "", now)
	require.NoError(t, err)
	_, err = createMigrationAt(dir, "dup", "", now)
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {},
		"002_b.down.sql": {},
		"001_a.up.sql":   {},
		"001_a.down.sql": {},
		"README.md":      {},
		"sub/003.up.sql": {},
	}
	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a", "002_b"}, names)

	names, err = ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		up, err := migrations.FS.ReadFile(name + ".up.sql")
		require.NoError(t, err)
		down, err := migrations.FS.ReadFile(name + ".down.sql")
		require.NoError(t, err, "missing down migration for %s", name)
		assert.Contains(t, strings.ToUpper(string(up)), "CREATE TABLE")
		assert.Contains(t, strings.ToUpper(string(down)), "DROP TABLE")
	}
}
