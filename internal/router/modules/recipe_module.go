package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
)

// RecipeModule: listing and search are public; creating and /recipes/my need a session.
type RecipeModule struct {
	Handler *handlers.RecipeHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewRecipeModule(h *handlers.RecipeHandler, auth gin.HandlerFunc, rdb *redis.Client) *RecipeModule {
	return &RecipeModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/recipes", m.Handler.List)
	rg.GET("/recipes/search", searchLimiter, m.Handler.Search)

	auth := rg.Group("/recipes")
	auth.Use(m.Auth, userLimiter(m.Redis))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/my", m.Handler.Mine)
	}
}
