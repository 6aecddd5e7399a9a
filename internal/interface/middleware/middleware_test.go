package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func init() { gin.SetMode(gin.TestMode) }

type stubTokens map[string]application.Identity

func (s stubTokens) ResolveToken(_ context.Context, token string) (*application.Identity, error) {
	id, ok := s[token]
	if !ok {
		return nil, apperror.Auth("invalid bearer token")
	}
	return &id, nil
}

type stubAuth struct{ user *entity.User }

func (s stubAuth) Authenticate(_ context.Context, username, password string) (*entity.User, error) {
	if username != s.user.Username || password != "secret" {
		return nil, apperror.Auth("invalid username or password")
	}
	return s.user, nil
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w := serve(r, req)
	assert.Equal(t, incoming, w.Body.String())
	assert.Equal(t, incoming, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "not a uuid")
	w = serve(r, req)
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.NotEqual(t, "not a uuid", w.Header().Get(HeaderRequestID))
}

func TestBearerAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", BearerAuth(stubTokens{"good": {UserID: "u1", Username: "alice", Email: "a@x.com"}}), func(c *gin.Context) {
		c.String(http.StatusOK, Identity(c).UserID+"/"+Identity(c).Username)
	})

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer good", http.StatusOK, "u1/alice"},
		{"lowercase scheme", "bearer good", http.StatusOK, "u1/alice"},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, "invalid bearer token"},
		{"basic scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, "invalid bearer token"},
		{"missing", "", http.StatusUnauthorized, "invalid bearer token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestBasicAuth(t *testing.T) {
	u := &entity.User{ID: "u1", Username: "alice", Email: "a@x.com"}
	r := gin.New()
	r.GET("/", BasicAuth(stubAuth{user: u}), func(c *gin.Context) {
		require.Same(t, u, Account(c))
		c.String(http.StatusOK, Identity(c).UserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "secret")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "wrong")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ipFromCtx(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	assert.Equal(t, "198.51.100.4", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	assert.Equal(t, "203.0.113.9", serve(r, req).Body.String())
}

func TestRequirePrivateIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", RequirePrivateIP(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	assert.Equal(t, http.StatusNotFound, serve(r, req).Code)
}

func TestKeyByUserIDFallsBackToIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "203.0.113.7")
	assert.Equal(t, "rl:user:anon:ip:203.0.113.7", KeyByUserID()(c))

	c.Set(CtxUserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}
