package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

func init() { gin.SetMode(gin.TestMode) }

type resolverFunc func(ctx context.Context, token string) (*entity.Identity, error)

func (f resolverFunc) ResolveSession(ctx context.Context, token string) (*entity.Identity, error) {
	return f(ctx, token)
}

var tokenResolver = resolverFunc(func(_ context.Context, token string) (*entity.Identity, error) {
	if token == "good" {
		return &entity.Identity{UserID: 7, Username: "chef"}, nil
	}
	return nil, errors.New("bad token")
})

func whoami(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.Username)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", Auth(tokenResolver), whoami)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication credentials were not provided.", message(t, w))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Given token not valid for any token type", message(t, w))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer good")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chef", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic good")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a non-bearer header is not overridden by the cookie")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "5f1c7c59-8a4c-4c3e-9b9e-3b7a6b1d2e10")
	w = serve(r, req)
	assert.Equal(t, "5f1c7c59-8a4c-4c3e-9b9e-3b7a6b1d2e10", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.9", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", serve(r, req).Body.String())
}

func newLimiterRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimit(t *testing.T) {
	mr, rdb := newLimiterRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/login", RateLimit(rdb, 2, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.Header.Set("X-Forwarded-For", ip)
		return serve(r, req)
	}

	w := get("203.0.113.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, get("203.0.113.1").Code)

	w = get("203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get("203.0.113.2").Code, "other clients have their own window")

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, get("203.0.113.1").Code)
}

func TestRateLimitBypassAndFailOpen(t *testing.T) {
	mr, rdb := newLimiterRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/vars", RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/vars", nil)
		req.Header.Set("X-Forwarded-For", "10.1.2.3")
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	}

	mr.Close()
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/vars", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	}
}

func TestKeyByUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "203.0.113.5")
	assert.Equal(t, "rl:user:anon:ip:203.0.113.5", KeyByUserID()(c))

	c.Set(CtxIdentityKey, entity.Identity{UserID: 42})
	assert.Equal(t, "rl:user:42", KeyByUserID()(c))
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(AccessLog(logger))
	r.GET("/me", Auth(tokenResolver), whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	serve(r, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request served", entry["msg"])
	assert.EqualValues(t, 200, entry["status"])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.Equal(t, "/me", entry["route"])
}
