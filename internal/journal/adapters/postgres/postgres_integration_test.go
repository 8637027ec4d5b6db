//go:build integration_pg

package postgres_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"mindmapr/internal/journal/adapters/postgres"
	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/repositories"
	pgdb "mindmapr/pkg/db/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "mindmapr",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/mindmapr?sslmode=disable", host, mapped.Port())
}

func TestEntryRepository_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx := testContext(t)

	migrations, err := filepath.Abs(filepath.Join("..", "..", "..", "..", "migrations", "entries"))
	require.NoError(t, err)
	require.NoError(t, pgdb.MigrateDSN(ctx, dsn, "file://"+migrations))

	database, err := pgdb.New(ctx, dsn, pgdb.Options{MinConn: 1, MaxConn: 4})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(ctx) })

	repo := postgres.NewRepositoryFactory(database.Pool()).EntryRepository()

	happy := entities.MoodResult{Label: entities.MoodHappy, Confidence: 0.92}

	t.Run("pagination and ordering", func(t *testing.T) {
		for i := range 25 {
			_, err := repo.Insert(ctx, entities.NewEntry("pager", fmt.Sprintf("entry %02d", i), entities.FallbackMood()))
			require.NoError(t, err)
		}

		filter := repositories.EntryFilter{UserID: "pager"}
		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 25, total)

		var seen []string
		for page := 1; page <= 3; page++ {
			entries, err := repo.FindMany(ctx, filter, repositories.SortNewestFirst, (page-1)*10, 10)
			require.NoError(t, err)
			for _, e := range entries {
				seen = append(seen, e.ID)
			}
		}
		assert.Len(t, seen, 25)

		unique := make(map[string]struct{}, len(seen))
		for _, id := range seen {
			unique[id] = struct{}{}
		}
		assert.Len(t, unique, 25, "pages must not overlap")
	})

	t.Run("search is case insensitive and literal", func(t *testing.T) {
		_, err := repo.Insert(ctx, entities.NewEntry("searcher", "Landed the JOB today", happy))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, entities.NewEntry("searcher", "100% tired", entities.FallbackMood()))
		require.NoError(t, err)

		found, err := repo.FindMany(ctx, repositories.EntryFilter{UserID: "searcher", Search: "job"},
			repositories.SortNewestFirst, 0, 10)
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = repo.FindMany(ctx, repositories.EntryFilter{UserID: "searcher", Search: "%"},
			repositories.SortNewestFirst, 0, 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "100% tired", found[0].Content)
	})

	t.Run("update keeps mood and moves updated_at forward", func(t *testing.T) {
		created, err := repo.Insert(ctx, entities.NewEntry("writer", "I got the job!", happy))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, "Actually it was fine.")
		require.NoError(t, err)

		assert.Equal(t, entities.MoodHappy, updated.MoodLabel)
		assert.InDelta(t, 0.92, updated.MoodConfidence, 1e-9)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	})

	t.Run("delete then lookup", func(t *testing.T) {
		created, err := repo.Insert(ctx, entities.NewEntry("deleter", "bye", entities.FallbackMood()))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))
		require.ErrorIs(t, repo.Delete(ctx, created.ID), entities.ErrEntryNotFound)

		_, err = repo.FindByID(ctx, created.ID)
		require.ErrorIs(t, err, entities.ErrEntryNotFound)

		_, err = repo.FindByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, entities.ErrEntryNotFound)
	})
}
