package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository"
)

const recipeColumns = `r.id, r.title, r.date::text, r.category, r.difficulty, r.portions, r.time, r.image,
		       r.ingredients, r.steps, r.tips, r.user_id, r.username, r.is_validate, r.created_at`

type RecipeRepository struct {
	db DBTX
}

func NewRecipeRepository(db DBTX) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	date, err := time.Parse(time.DateOnly, rec.Date)
	if err != nil {
		return fmt.Errorf("recipe date: %w", err)
	}
	ingredients, err := json.Marshal(nonNil(rec.Ingredients))
	if err != nil {
		return err
	}
	steps, err := json.Marshal(nonNil(rec.Steps))
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO recipes
		(title, date, category, difficulty, portions, time, image,
		 ingredients, steps, tips, user_id, username, is_validate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`,
		rec.Title,
		date,
		rec.Category,
		rec.Difficulty,
		rec.Portions,
		rec.Time,
		rec.Image,
		ingredients,
		steps,
		rec.Tips,
		rec.UserID,
		rec.Username,
		rec.IsValidate,
	).Scan(&rec.ID, &rec.CreatedAt)
	if code, _ := pgErrorCode(err); code == codeForeignKeyViolation {
		return repository.ErrNotFound
	}
	return err
}

// ListValidated applies the first non-empty criterion of f, in the order
// id, category (case-insensitive exact), search (case-insensitive substring
// of the title).
func (r *RecipeRepository) ListValidated(ctx context.Context, f entity.RecipeFilter) ([]entity.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.is_validate = TRUE`
	var args []any
	switch {
	case f.ID != nil:
		query += ` AND r.id = $1`
		args = append(args, *f.ID)
	case f.Category != "":
		query += ` AND lower(r.category) = lower($1)`
		args = append(args, f.Category)
	case f.Search != "":
		query += ` AND r.title ILIKE '%' || $1 || '%'`
		args = append(args, escapeLike(f.Search))
	}
	query += ` ORDER BY r.id`
	return r.list(ctx, query, args...)
}

func (r *RecipeRepository) ListByOwner(ctx context.Context, userID int64) ([]entity.Recipe, error) {
	return r.list(ctx, `SELECT `+recipeColumns+` FROM recipes r WHERE r.user_id = $1 ORDER BY r.id`, userID)
}

func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM recipes WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *RecipeRepository) list(ctx context.Context, query string, args ...any) ([]entity.Recipe, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func collectRecipes(rows pgx.Rows) ([]entity.Recipe, error) {
	defer rows.Close()
	out := make([]entity.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecipe(row pgx.Row) (entity.Recipe, error) {
	var (
		rec         entity.Recipe
		ingredients []byte
		steps       []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.Title,
		&rec.Date,
		&rec.Category,
		&rec.Difficulty,
		&rec.Portions,
		&rec.Time,
		&rec.Image,
		&ingredients,
		&steps,
		&rec.Tips,
		&rec.UserID,
		&rec.Username,
		&rec.IsValidate,
		&rec.CreatedAt,
	)
	if err != nil {
		return rec, err
	}
	if err := unmarshalEntries(ingredients, &rec.Ingredients); err != nil {
		return rec, fmt.Errorf("recipe %d ingredients: %w", rec.ID, err)
	}
	if err := unmarshalEntries(steps, &rec.Steps); err != nil {
		return rec, fmt.Errorf("recipe %d steps: %w", rec.ID, err)
	}
	return rec, nil
}

func unmarshalEntries(raw []byte, dst *entity.Entries) error {
	*dst = entity.Entries{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(e entity.Entries) entity.Entries {
	if e == nil {
		return entity.Entries{}
	}
	return e
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside ILIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
