package db_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmapr/internal/journal/config"
	"mindmapr/internal/journal/db"
)

func TestMigrationsURL(t *testing.T) {
	t.Run("absolute path kept", func(t *testing.T) {
		url, err := db.MigrationsURL("/srv/migrations/entries")
		require.NoError(t, err)
		assert.Equal(t, "file:///srv/migrations/entries", url)
	})

	t.Run("relative path resolved", func(t *testing.T) {
		url, err := db.MigrationsURL("migrations/entries")
		require.NoError(t, err)

		path := strings.TrimPrefix(url, "file://")
		assert.True(t, filepath.IsAbs(path))
		assert.True(t, strings.HasSuffix(path, filepath.Join("migrations", "entries")))
	})
}

func TestNewFailsOnMissingMigrations(t *testing.T) {
	cfg := &config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "postgres",
		Password: "postgres",
		Database: "mindmapr",
	}

	database, err := db.New(context.Background(), cfg, filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), db.ErrDBMigrations)
	assert.Nil(t, database)
}
