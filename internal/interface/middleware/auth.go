package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/pkg/response"
)

// SessionResolver turns a bearer token into the caller's identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.Identity, error)
}

// Auth rejects the request with 401 unless it carries a token that resolves to a live session.
// On success the identity is stored in the Gin context for CurrentIdentity.
func Auth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		id, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil || id == nil {
			response.Abort(c, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}
		c.Set(CtxIdentityKey, *id)
		c.Next()
	}
}
