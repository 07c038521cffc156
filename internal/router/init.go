package router

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/config"
	app "github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/internal/container"
	repo "github.com/oksasatya/recipe-share-api/internal/domain/repository"
	pginfra "github.com/oksasatya/recipe-share-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-share-api/internal/router/modules"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
	mailtpl "github.com/oksasatya/recipe-share-api/pkg/mailer/templates"
)

// Deps are the collaborators the modules are built from.
type Deps struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Users     repo.UserRepository
	News      repo.NewsRepository
	Recipes   repo.RecipeRepository
	Favorites repo.FavoriteRepository
	Redis     *redis.Client
	Media     helpers.MediaStore
	JWT       *helpers.JWTManager
	Publisher app.Publisher
	ES        *elasticsearch.Client
}

// DepsFromContainer builds Postgres-backed deps from the container singletons.
func DepsFromContainer() Deps {
	pool := container.GetPGPool()
	d := Deps{
		Config:    container.GetConfig(),
		Logger:    container.GetLogger(),
		Users:     pginfra.NewUserRepository(pool),
		News:      pginfra.NewNewsRepository(pool),
		Recipes:   pginfra.NewRecipeRepository(pool),
		Favorites: pginfra.NewFavoriteRepository(pool),
		Redis:     container.GetRedis(),
		Media:     container.GetMedia(),
		JWT:       container.GetJWT(),
		ES:        container.GetES(),
	}
	if pub := container.GetRabbitPub(); pub != nil {
		d.Publisher = pub
	}
	return d
}

type services struct {
	identity  *app.IdentityService
	news      *app.NewsService
	recipes   *app.RecipeService
	favorites *app.FavoriteService
}

func buildServices(d Deps) services {
	cfg := d.Config
	index := app.NewRecipeIndex(d.ES, cfg.ESRecipesIndex, d.Logger)
	notifier := app.NewNotifier(d.Publisher, mailtpl.Brand{
		AppName:     cfg.AppName,
		CompanyName: cfg.CompanyName,
		SupportURL:  cfg.SupportURL,
	}, cfg.MailSendEnabled, d.Logger)

	return services{
		identity:  app.NewIdentityService(d.Users, d.JWT, app.NewSessions(d.Redis, cfg.SessionTTL), notifier, index, d.Logger),
		news:      app.NewNewsService(d.News, d.Media, d.Redis, d.Logger),
		recipes:   app.NewRecipeService(d.Recipes, d.Media, index, d.Logger),
		favorites: app.NewFavoriteService(d.Recipes, d.Favorites, d.Logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, d Deps) {
	cfg := d.Config
	svc := buildServices(d)
	auth := middleware.Auth(svc.identity)

	limiterRedis := d.Redis
	if !cfg.RateLimitEnabled {
		limiterRedis = nil
	}

	if cfg.HTTPLogEnabled && d.Logger != nil {
		r.Use(middleware.AccessLog(d.Logger))
	}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.identity, d.Logger, cfg.CookieDomain, cfg.CookieSecure), auth, limiterRedis))
	r.Add(modules.NewNewsModule(handlers.NewNewsHandler(svc.news, d.Logger), auth, limiterRedis))
	r.Add(modules.NewRecipeModule(handlers.NewRecipeHandler(svc.recipes, d.Logger), auth, limiterRedis))
	r.Add(modules.NewFavoriteModule(handlers.NewFavoriteHandler(svc.favorites, d.Logger), auth, limiterRedis))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limiterRedis))
	}
}
