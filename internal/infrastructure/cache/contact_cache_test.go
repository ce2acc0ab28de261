package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
	"github.com/oksasatya/agenda-api/internal/infrastructure/memory"
)

func newTestCache(t *testing.T, next repository.ContactRepository) *ContactRepository {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return NewContactRepository(next, rdb, time.Minute, nil)
}

func TestFindByIDIsCachedAndEvictedOnSave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContactRepository(&entity.Contact{Name: "Ann"})
	c := newTestCache(t, store)

	got, err := c.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name)

	exists, err := c.Redis.Exists(ctx, contactKey(1)).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), exists)

	_, err = c.Save(ctx, &entity.Contact{ID: 1, Name: "Ann2"})
	require.NoError(t, err)

	exists, err = c.Redis.Exists(ctx, contactKey(1)).Result()
	require.NoError(t, err)
	require.Zero(t, exists)

	got, err = c.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Ann2", got.Name)
}

func TestDeleteEvictsAndMissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContactRepository(&entity.Contact{Name: "Ann"})
	c := newTestCache(t, store)

	_, err := c.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, c.DeleteByID(ctx, 1))

	_, err = c.FindByID(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := c.Redis.Exists(ctx, contactKey(1)).Result()
	require.NoError(t, err)
	require.Zero(t, exists)
}
