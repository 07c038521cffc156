package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
)

// FavoriteModule: every /favorites route needs a session.
type FavoriteModule struct {
	Handler *handlers.FavoriteHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewFavoriteModule(h *handlers.FavoriteHandler, auth gin.HandlerFunc, rdb *redis.Client) *FavoriteModule {
	return &FavoriteModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *FavoriteModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/favorites")
	auth.Use(m.Auth, userLimiter(m.Redis))
	{
		auth.POST("", m.Handler.Add)
		auth.GET("", m.Handler.List)
		auth.DELETE("", m.Handler.Remove)
	}
}
