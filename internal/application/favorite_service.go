package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	repo "github.com/oksasatya/recipe-share-api/internal/domain/repository"
)

// FavoriteService guards the (user, recipe) relation.
//
// Per pair the state is Present or Absent: Add moves Absent to Present and
// fails on Present, Remove moves Present to Absent and fails on Absent.
type FavoriteService struct {
	Recipes   repo.RecipeRepository
	Favorites repo.FavoriteRepository
	Logger    *logrus.Logger
}

func NewFavoriteService(recipes repo.RecipeRepository, favorites repo.FavoriteRepository, logger *logrus.Logger) *FavoriteService {
	return &FavoriteService{Recipes: recipes, Favorites: favorites, Logger: logger}
}

// AddFavorite works on any existing recipe, validated or not.
func (s *FavoriteService) AddFavorite(ctx context.Context, id entity.Identity, recipeID int64) error {
	if recipeID <= 0 {
		return ErrRecipeIDRequired
	}
	ok, err := s.Recipes.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRecipeNotFound
	}
	created, err := s.Favorites.Add(ctx, id.UserID, recipeID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRecipeNotFound
	}
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyFavorited
	}
	favoritesAdded.Add(1)
	return nil
}

func (s *FavoriteService) ListFavorites(ctx context.Context, id entity.Identity) ([]entity.FavoriteRecipe, error) {
	recipes, err := s.Favorites.ListRecipes(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.FavoriteRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, entity.FavoriteRecipe{Recipe: r})
	}
	return out, nil
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, id entity.Identity, recipeID int64) error {
	if recipeID <= 0 {
		return ErrRecipeIDRequired
	}
	err := s.Favorites.Remove(ctx, id.UserID, recipeID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	if err != nil {
		return err
	}
	favoritesRemoved.Add(1)
	return nil
}
