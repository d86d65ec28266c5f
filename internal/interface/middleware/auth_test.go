package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

func testEngine(jwt *helpers.JWTManager, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	chain := []gin.HandlerFunc{Auth(nil, jwt)}
	if role != "" {
		chain = append(chain, RequireRole(role))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"|"+c.GetString(CtxUserRoleKey))
	})
	r.GET("/me", chain...)
	return r
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	access, _, err := jwt.GenerateAccessToken("u1", "sid", "student")
	require.NoError(t, err)
	refresh, _, err := jwt.GenerateRefreshToken("u1", "sid", "student")
	require.NoError(t, err)
	r := testEngine(jwt, "")

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized, "missing access token"},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+access) }, http.StatusOK, "u1|student"},
		{"lowercase bearer", func(req *http.Request) { req.Header.Set("Authorization", "bearer "+access) }, http.StatusOK, "u1|student"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: access}) }, http.StatusOK, "u1|student"},
		{"refresh token rejected", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+refresh) }, http.StatusUnauthorized, "invalid access token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", -time.Minute, time.Hour)
	access, _, err := jwt.GenerateAccessToken("u1", "sid", "teacher")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	testEngine(jwt, "").ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	r := testEngine(jwt, "teacher")

	for role, status := range map[string]int{"teacher": http.StatusOK, "student": http.StatusForbidden} {
		access, _, err := jwt.GenerateAccessToken("u1", "sid", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, role)
	}
}

func TestRequestID(t *testing.T) {
	r := testEngine(helpers.NewJWTManager("a", "r", time.Minute, time.Hour), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	generated := w.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), generated)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(requestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(requestIDHeader))
}

func TestAllowFuncs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)

	c.Set("real_ip", "10.0.0.7")
	assert.True(t, AllowPrivateIP()(c))
	c.Set("real_ip", "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))

	assert.True(t, AllowPathPrefix("/api/health")(c))
	assert.False(t, AllowPathPrefix("/api/courses")(c))
	assert.True(t, AnyAllow(nil, AllowPrivateIP(), AllowPathPrefix("/api/health"))(c))
	assert.False(t, AnyAllow(AllowPrivateIP())(c))
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
