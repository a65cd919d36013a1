package repository

import (
	"context"
	"sync"
	"testing"

	"address-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract runs the behaviour every Store implementation must share.
// newStore must return an empty store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create and list", func(t *testing.T) {
		store := newStore(t)

		created := []models.Address{}
		for _, in := range []models.Address{
			{Name: "Home", Latitude: 0, Longitude: 0},
			{Name: "Office", Latitude: 0, Longitude: 1},
			{Name: "Marunouchi", Latitude: 35.681236, Longitude: 139.767125},
		} {
			addr, err := store.Create(ctx, in.Name, in.Latitude, in.Longitude)
			require.NoError(t, err)
			assert.NotZero(t, addr.ID)
			assert.Equal(t, in.Name, addr.Name)
			created = append(created, *addr)
		}

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, created, all)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := newStore(t)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("duplicate name is rejected regardless of coordinates", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Create(ctx, "Home", 10, 20)
		require.NoError(t, err)

		_, err = store.Create(ctx, "Home", -45, 170)
		assert.ErrorIs(t, err, ErrDuplicateName)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("concurrent creates with the same name", func(t *testing.T) {
		store := newStore(t)

		const workers = 8
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			successes  int
			duplicates int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.Create(ctx, "Contested", float64(i), float64(i))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case assert.ErrorIs(t, err, ErrDuplicateName):
					duplicates++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, duplicates)
	})

	t.Run("get by id", func(t *testing.T) {
		store := newStore(t)

		created, err := store.Create(ctx, "Home", 1.5, 2.5)
		require.NoError(t, err)

		got, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)

		_, err = store.GetByID(ctx, created.ID+100)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update persists new values", func(t *testing.T) {
		store := newStore(t)

		created, err := store.Create(ctx, "Home", 1, 1)
		require.NoError(t, err)

		updated, err := store.Update(ctx, created.ID, "New Home", -12.5, 130.25)
		require.NoError(t, err)
		assert.Equal(t, &models.Address{ID: created.ID, Name: "New Home", Latitude: -12.5, Longitude: 130.25}, updated)

		got, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("update does not check name collisions", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Create(ctx, "Home", 1, 1)
		require.NoError(t, err)
		other, err := store.Create(ctx, "Office", 2, 2)
		require.NoError(t, err)

		updated, err := store.Update(ctx, other.ID, "Home", 3, 3)
		require.NoError(t, err)
		assert.Equal(t, "Home", updated.Name)
	})

	t.Run("update missing id", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Update(ctx, 42, "Nowhere", 0, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)

		keep, err := store.Create(ctx, "Keep", 1, 1)
		require.NoError(t, err)
		drop, err := store.Create(ctx, "Drop", 2, 2)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, drop.ID))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Address{*keep}, all)

		assert.ErrorIs(t, store.Delete(ctx, drop.ID), ErrNotFound)
	})
}
