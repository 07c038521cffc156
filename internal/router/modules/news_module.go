package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
)

// NewsModule: GET /news is public, POST /news needs a session.
type NewsModule struct {
	Handler *handlers.NewsHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewNewsModule(h *handlers.NewsHandler, auth gin.HandlerFunc, rdb *redis.Client) *NewsModule {
	return &NewsModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *NewsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/news", m.Handler.List)
	rg.POST("/news", m.Auth, userLimiter(m.Redis), m.Handler.Create)
}
