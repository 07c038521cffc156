package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	repo "github.com/oksasatya/recipe-share-api/internal/domain/repository"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
)

type RecipeService struct {
	Repo   repo.RecipeRepository
	Media  helpers.MediaStore
	Index  *RecipeIndex
	Logger *logrus.Logger
}

func NewRecipeService(recipes repo.RecipeRepository, media helpers.MediaStore, index *RecipeIndex, logger *logrus.Logger) *RecipeService {
	return &RecipeService{Repo: recipes, Media: media, Index: index, Logger: logger}
}

// ParseEntries decodes a form value holding a JSON array.
// Callers pass "[]" when the field was not sent at all.
func ParseEntries(raw string) (entity.Entries, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var out entity.Entries
	if err := dec.Decode(&out); err != nil || out == nil {
		return nil, ErrInvalidIngredients
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrInvalidIngredients
	}
	return out, nil
}

// ListRecipes returns validated recipes matching at most one criterion.
func (s *RecipeService) ListRecipes(ctx context.Context, f entity.RecipeFilter) ([]entity.Recipe, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	return s.Repo.ListValidated(ctx, f)
}

type CreateRecipeInput struct {
	Title       string
	Date        string
	Category    string
	Difficulty  string
	Portions    int
	Time        int
	Tips        string
	Ingredients entity.Entries
	Steps       entity.Entries
	IsValidate  *bool
	Image       Upload
}

// CreateRecipe stamps the caller as owner and snapshots their username.
func (s *RecipeService) CreateRecipe(ctx context.Context, id entity.Identity, in CreateRecipeInput) (*entity.Recipe, error) {
	url, err := s.Media.Save(ctx, "recipes", in.Image.Filename, in.Image.ContentType, in.Image.Body)
	if err != nil {
		return nil, err
	}
	r := &entity.Recipe{
		Title:       in.Title,
		Date:        in.Date,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Portions:    in.Portions,
		Time:        in.Time,
		Image:       url,
		Ingredients: nonNilEntries(in.Ingredients),
		Steps:       nonNilEntries(in.Steps),
		Tips:        in.Tips,
		UserID:      id.UserID,
		Username:    id.Username,
		IsValidate:  in.IsValidate == nil || *in.IsValidate,
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		discardMedia(ctx, s.Media, url, s.Logger)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	recipesCreated.Add(1)
	err = s.Index.Put(ctx, r)
	s.Index.warn(err, "es index failed", logrus.Fields{"recipe_id": r.ID})
	return r, nil
}

// ListMyRecipes returns everything the caller owns, validated or not.
func (s *RecipeService) ListMyRecipes(ctx context.Context, id entity.Identity) ([]entity.Recipe, error) {
	return s.Repo.ListByOwner(ctx, id.UserID)
}

// SearchRecipes uses the search cluster when configured and a title match otherwise.
func (s *RecipeService) SearchRecipes(ctx context.Context, q string, size int) ([]entity.Recipe, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.ListRecipes(ctx, entity.RecipeFilter{})
	}
	if s.Index.Enabled() {
		out, err := s.Index.Search(ctx, q, size)
		if err == nil {
			return out, nil
		}
		s.Index.warn(err, "es search failed, falling back to title match", logrus.Fields{"q": q})
	}
	return s.ListRecipes(ctx, entity.RecipeFilter{Search: q})
}

func nonNilEntries(e entity.Entries) entity.Entries {
	if e == nil {
		return entity.Entries{}
	}
	return e
}
