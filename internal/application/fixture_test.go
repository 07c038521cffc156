package application

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository/repositorytest"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
	mailtpl "github.com/oksasatya/recipe-share-api/pkg/mailer/templates"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return nil
}

type fixture struct {
	mediaDir  string
	store     *repositorytest.Store
	pub       *fakePublisher
	identity  *IdentityService
	news      *NewsService
	recipes   *RecipeService
	favorites *FavoriteService
}

func newFixture(t *testing.T, rdb *redis.Client) *fixture {
	t.Helper()
	store := repositorytest.NewStore()
	pub := &fakePublisher{}
	logger := helpers.NopLogger()
	mediaDir := t.TempDir()
	media := helpers.NewLocalMediaStore(mediaDir, "/media")
	index := NewRecipeIndex(nil, "recipes", logger)
	return &fixture{
		mediaDir: mediaDir,
		store:    store,
		pub:      pub,
		identity: NewIdentityService(
			store.Users(),
			helpers.NewJWTManager("test-secret", time.Hour),
			NewSessions(rdb, time.Hour),
			NewNotifier(pub, mailtpl.Brand{CompanyName: "Recipe Share"}, true, logger),
			index,
			logger,
		),
		news:      NewNewsService(store.News(), media, rdb, logger),
		recipes:   NewRecipeService(store.Recipes(), media, index, logger),
		favorites: NewFavoriteService(store.Recipes(), store.Favorites(), logger),
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// signup registers a user and resolves its token into an identity.
func (f *fixture) signup(t *testing.T, email, username string) entity.Identity {
	t.Helper()
	ctx := context.Background()
	res, err := f.identity.Register(ctx, RegisterInput{Email: email, Password: "s3cret-pass", Username: username})
	require.NoError(t, err)
	id, err := f.identity.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	return *id
}

func (f *fixture) recipe(t *testing.T, owner entity.Identity, title, category string, validated bool) *entity.Recipe {
	t.Helper()
	r, err := f.recipes.CreateRecipe(context.Background(), owner, CreateRecipeInput{
		Title:       title,
		Date:        "2024-05-01",
		Category:    category,
		Difficulty:  "easy",
		Portions:    4,
		Time:        30,
		Tips:        "serve warm",
		Ingredients: entity.Entries{"egg", "flour"},
		Steps:       entity.Entries{"mix", "bake"},
		IsValidate:  &validated,
		Image:       Upload{Filename: "dish.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpg")},
	})
	require.NoError(t, err)
	return r
}

// mediaFiles lists every stored upload, relative to the media dir.
func (f *fixture) mediaFiles(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(f.mediaDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(f.mediaDir, p)
		out = append(out, filepath.ToSlash(rel))
		return err
	})
	require.NoError(t, err)
	return out
}
