package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return mock
}

var recipeCols = []string{
	"id", "title", "date", "category", "difficulty", "portions", "time", "image",
	"ingredients", "steps", "tips", "user_id", "username", "is_validate", "created_at",
}

func TestFavoriteAdd(t *testing.T) {
	cases := []struct {
		name    string
		rows    *pgxmock.Rows
		err     error
		created bool
		wantErr error
	}{
		{name: "inserted", rows: pgxmock.NewRows([]string{"id"}).AddRow(int64(9)), created: true},
		{name: "already present", err: pgx.ErrNoRows},
		{name: "recipe gone", err: &pgconn.PgError{Code: codeForeignKeyViolation}, wantErr: repository.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			exp := mock.ExpectQuery("INSERT INTO favorites").WithArgs(int64(1), int64(2))
			if tc.rows != nil {
				exp.WillReturnRows(tc.rows)
			} else {
				exp.WillReturnError(tc.err)
			}

			created, err := NewFavoriteRepository(mock).Add(context.Background(), 1, 2)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.created, created)
		})
	}
}

func TestFavoriteRemoveMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM favorites").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewFavoriteRepository(mock).Remove(context.Background(), 1, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserCreateMapsUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", repository.ErrEmailTaken},
		{"users_username_key", repository.ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery("INSERT INTO users").
				WithArgs("chef@example.com", pgxmock.AnyArg(), "hash").
				WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: tc.constraint})

			name := "chef"
			err := NewUserRepository(mock).Create(context.Background(), &entity.User{
				Email: "chef@example.com", Username: &name, Password: "hash",
			})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUserDeleteMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM users").WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, NewUserRepository(mock).Delete(context.Background(), 5), repository.ErrNotFound)
}

func TestUserGetByEmailNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM users").WithArgs("nobody@example.com").WillReturnError(pgx.ErrNoRows)

	_, err := NewUserRepository(mock).GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListValidatedFilterPrecedence(t *testing.T) {
	id := int64(3)
	cases := []struct {
		name   string
		filter entity.RecipeFilter
		clause string
		arg    any
	}{
		{"id wins", entity.RecipeFilter{ID: &id, Category: "Dessert", Search: "cake"}, `AND r\.id = \$1`, int64(3)},
		{"category before search", entity.RecipeFilter{Category: "Dessert", Search: "cake"}, `AND lower\(r\.category\) = lower\(\$1\)`, "Dessert"},
		{"search is escaped", entity.RecipeFilter{Search: "50%_off"}, `AND r\.title ILIKE`, `50\%\_off`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
			mock.ExpectQuery(`is_validate = TRUE ` + tc.clause).
				WithArgs(tc.arg).
				WillReturnRows(pgxmock.NewRows(recipeCols).AddRow(
					int64(3), "Cake", "2024-05-01", "Dessert", "easy", 4, 30, "/media/recipes/a.jpg",
					[]byte(`["egg"]`), []byte(`[{"text":"bake"}]`), "tip", int64(1), "chef", true, created,
				))

			out, err := NewRecipeRepository(mock).ListValidated(context.Background(), tc.filter)
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, entity.Entries{"egg"}, out[0].Ingredients)
			assert.Equal(t, entity.Entries{map[string]any{"text": "bake"}}, out[0].Steps)
		})
	}
}

func TestListValidatedWithoutFilter(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`is_validate = TRUE ORDER BY r\.id`).WillReturnRows(pgxmock.NewRows(recipeCols))

	out, err := NewRecipeRepository(mock).ListValidated(context.Background(), entity.RecipeFilter{})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestRecipeCreate(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		mock := newMock(t)
		err := NewRecipeRepository(mock).Create(context.Background(), &entity.Recipe{Date: "01/05/2024"})
		assert.Error(t, err)
	})

	t.Run("owner gone", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("INSERT INTO recipes").
			WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

		err := NewRecipeRepository(mock).Create(context.Background(), &entity.Recipe{Date: "2024-05-01", UserID: 7})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("stores empty entries as arrays", func(t *testing.T) {
		mock := newMock(t)
		now := time.Now()
		args := make([]any, 13)
		for i := range args {
			args[i] = pgxmock.AnyArg()
		}
		args[7] = []byte(`[]`)
		args[8] = []byte(`["mix"]`)
		mock.ExpectQuery("INSERT INTO recipes").
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))

		rec := &entity.Recipe{Date: "2024-05-01", Steps: entity.Entries{"mix"}, UserID: 1}
		require.NoError(t, NewRecipeRepository(mock).Create(context.Background(), rec))
		assert.Equal(t, int64(11), rec.ID)
	})
}

func TestNewsListEmpty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM news").WillReturnRows(pgxmock.NewRows([]string{"id", "title", "subtitle", "html", "media"}))

	out, err := NewNewsRepository(mock).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
}
