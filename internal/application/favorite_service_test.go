package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.signup(t, "owner@example.com", "owner")
	fan := f.signup(t, "fan@example.com", "fan")
	r := f.recipe(t, owner, "Cake", "Dessert", true)

	require.NoError(t, f.favorites.AddFavorite(ctx, fan, r.ID))
	assert.ErrorIs(t, f.favorites.AddFavorite(ctx, fan, r.ID), ErrAlreadyFavorited)
	assert.Equal(t, 1, f.store.FavoriteCount(fan.UserID, r.ID))

	list, err := f.favorites.ListFavorites(ctx, fan)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].Recipe.ID)
	assert.Equal(t, "owner", list[0].Recipe.Username)

	require.NoError(t, f.favorites.RemoveFavorite(ctx, fan, r.ID))
	assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, fan, r.ID), ErrFavoriteNotFound)

	list, err = f.favorites.ListFavorites(ctx, fan)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, f.favorites.AddFavorite(ctx, fan, r.ID), "a removed favorite can be added again")
}

func TestAddFavoriteValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	fan := f.signup(t, "fan@example.com", "fan")

	assert.ErrorIs(t, f.favorites.AddFavorite(ctx, fan, 0), ErrRecipeIDRequired)
	assert.ErrorIs(t, f.favorites.AddFavorite(ctx, fan, 12345), ErrRecipeNotFound)
	assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, fan, 0), ErrRecipeIDRequired)
	assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, fan, 12345), ErrFavoriteNotFound)
}

func TestAddFavoriteAcceptsUnvalidatedRecipe(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.signup(t, "owner@example.com", "owner")
	hidden := f.recipe(t, owner, "Draft", "Main", false)

	require.NoError(t, f.favorites.AddFavorite(ctx, owner, hidden.ID))
}

func TestFavoritesAreScopedPerUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.signup(t, "a@example.com", "a")
	b := f.signup(t, "b@example.com", "b")
	r := f.recipe(t, a, "Cake", "Dessert", true)

	require.NoError(t, f.favorites.AddFavorite(ctx, a, r.ID))
	require.NoError(t, f.favorites.AddFavorite(ctx, b, r.ID))
	require.NoError(t, f.favorites.RemoveFavorite(ctx, a, r.ID))

	assert.Equal(t, 0, f.store.FavoriteCount(a.UserID, r.ID))
	assert.Equal(t, 1, f.store.FavoriteCount(b.UserID, r.ID))
}

func TestConcurrentAddFavoriteCreatesOneRow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.signup(t, "owner@example.com", "owner")
	r := f.recipe(t, owner, "Cake", "Dessert", true)

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.favorites.AddFavorite(ctx, owner, r.ID)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyFavorited):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
	assert.Equal(t, 1, f.store.FavoriteCount(owner.UserID, r.ID))
}
