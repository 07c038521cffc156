package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository"
)

type FavoriteRepository struct {
	db DBTX
}

func NewFavoriteRepository(db DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add leans on the (user_id, recipe_id) unique constraint: an existing pair
// and a lost race both come back as no row, so neither can double-insert.
func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID int64) (bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO favorites (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
		RETURNING id
	`, userID, recipeID).Scan(&id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	}
	if code, _ := pgErrorCode(err); code == codeForeignKeyViolation {
		return false, repository.ErrNotFound
	}
	return false, err
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	res, err := r.db.Exec(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)
	`, userID, recipeID).Scan(&exists)
	return exists, err
}

func (r *FavoriteRepository) ListRecipes(ctx context.Context, userID int64) ([]entity.Recipe, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recipeColumns+`
		FROM favorites f
		JOIN recipes r ON r.id = f.recipe_id
		WHERE f.user_id = $1
		ORDER BY f.created_at, f.id
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
