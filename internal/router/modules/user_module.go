package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
)

// UserModule wires account routes under the given RouterGroup (usually /api).
// Public: POST /signup, POST /login
// Protected: DELETE /remove_user
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.DELETE("/remove_user", m.Auth, userLimiter(m.Redis), m.Handler.RemoveUser)
}

// userLimiter is the per-user budget shared by every authenticated route.
func userLimiter(rdb *redis.Client) gin.HandlerFunc {
	return middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil)
}
