package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
)

func TestSaveAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository()

	a, err := r.Save(ctx, &entity.Contact{Name: "Ann"})
	require.NoError(t, err)
	b, err := r.Save(ctx, &entity.Contact{Name: "Bob"})
	require.NoError(t, err)

	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)
	require.False(t, a.CreatedAt.IsZero())
}

func TestSaveDoesNotAliasCallerValue(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository()

	in := &entity.Contact{Name: "Ann"}
	saved, err := r.Save(ctx, in)
	require.NoError(t, err)
	require.Zero(t, in.ID)

	saved.Name = "mutated"
	got, err := r.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name)
}

func TestSaveOverwritesAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(&entity.Contact{Name: "Ann", Email: "a@x.com"})
	orig, err := r.FindByID(ctx, 1)
	require.NoError(t, err)

	updated, err := r.Save(ctx, &entity.Contact{ID: 1, Name: "Ann2"})
	require.NoError(t, err)
	require.Equal(t, "Ann2", updated.Name)
	require.Empty(t, updated.Email)
	require.Equal(t, orig.CreatedAt, updated.CreatedAt)
}

func TestSaveUnknownIDIsNotFound(t *testing.T) {
	r := NewContactRepository()
	_, err := r.Save(context.Background(), &entity.Contact{ID: 42, Name: "x"})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Zero(t, r.Len())
}

func TestDeleteKeepsOrderAndNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(
		&entity.Contact{Name: "a"},
		&entity.Contact{Name: "b"},
		&entity.Contact{Name: "c"},
	)

	require.NoError(t, r.DeleteByID(ctx, 2))
	require.ErrorIs(t, r.DeleteByID(ctx, 2), repository.ErrNotFound)

	_, err := r.FindByID(ctx, 2)
	require.ErrorIs(t, err, repository.ErrNotFound)

	d, err := r.Save(ctx, &entity.Contact{Name: "d"})
	require.NoError(t, err)
	require.Equal(t, int64(4), d.ID)

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"a", "c", "d"}, names)
}

func TestConcurrentInsertsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := r.Save(ctx, &entity.Contact{Name: "x"})
			if err == nil {
				ids <- c.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	require.Len(t, seen, n)
}
