package repository

import (
	"context"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

// FavoriteRepository manages the (user, recipe) join.
type FavoriteRepository interface {
	// Add inserts the pair and reports whether a new row was created.
	// created is false when the pair already existed, including when a
	// concurrent insert won. ErrNotFound means the recipe or user is gone.
	Add(ctx context.Context, userID, recipeID int64) (created bool, err error)
	// Remove deletes the pair or returns ErrNotFound.
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
	ListRecipes(ctx context.Context, userID int64) ([]entity.Recipe, error)
}
