package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
)

// newTestRepository connects to TEST_DB_DSN, migrates and truncates the schema.
func newTestRepository(t *testing.T) *ContactRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", logger))

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE contacts RESTART IDENTITY`)
	require.NoError(t, err)
	return NewContactRepository(pool)
}

func TestContactRepositoryCRUD(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	created, err := r.Save(ctx, &entity.Contact{Name: "Ann", Email: "a@x.com", PhoneNumber: "123"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	got, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name)
	require.Equal(t, "a@x.com", got.Email)
	require.Equal(t, "123", got.PhoneNumber)

	updated, err := r.Save(ctx, &entity.Contact{ID: created.ID, Name: "Ann2"})
	require.NoError(t, err)
	require.Equal(t, "Ann2", updated.Name)
	require.Empty(t, updated.Email)

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, r.DeleteByID(ctx, created.ID))
	_, err = r.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, r.DeleteByID(ctx, created.ID), repository.ErrNotFound)

	_, err = r.Save(ctx, &entity.Contact{ID: 999, Name: "ghost"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
