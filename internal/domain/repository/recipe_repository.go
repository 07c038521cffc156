package repository

import (
	"context"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

// RecipeRepository stores recipes. Only ListValidated applies the
// is_validate visibility rule; the other reads see every row.
type RecipeRepository interface {
	Create(ctx context.Context, r *entity.Recipe) error
	ListValidated(ctx context.Context, f entity.RecipeFilter) ([]entity.Recipe, error)
	ListByOwner(ctx context.Context, userID int64) ([]entity.Recipe, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
