package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"longnovel-ai/pkg/utils"
)

func newAuthTestRouter(cfg AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": c.GetString("tenant_id")})
	}
	r.GET("/health", handler)
	r.GET("/v1/projects", handler)
	r.POST("/v1/auth/token", handler)
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_SkipPaths(t *testing.T) {
	r := newAuthTestRouter(AuthConfig{
		Secret:    "test-secret",
		Issuer:    "longnovel-ai",
		SkipPaths: append(DefaultSkipPaths, "/v1/auth"),
		Enabled:   true,
	})

	// 健康检查与认证端点免认证
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/v1/auth/token", "").Code)
}

func TestAuth_MissingToken(t *testing.T) {
	r := newAuthTestRouter(AuthConfig{Secret: "test-secret", Enabled: true})
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/v1/projects", "").Code)
}

func TestAuth_ValidToken(t *testing.T) {
	r := newAuthTestRouter(AuthConfig{Secret: "test-secret", Issuer: "longnovel-ai", Enabled: true})

	token, err := utils.NewJWTManager("test-secret", "longnovel-ai").
		GenerateToken("tenant-1", "user-1", "writer", "access", time.Hour)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/v1/projects", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant-1")
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	r := newAuthTestRouter(AuthConfig{Secret: "test-secret", Issuer: "longnovel-ai", Enabled: true})

	token, err := utils.NewJWTManager("test-secret", "longnovel-ai").
		GenerateToken("tenant-1", "user-1", "writer", "refresh", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/v1/projects", token).Code)
}

func TestAuth_Disabled(t *testing.T) {
	r := newAuthTestRouter(AuthConfig{Enabled: false})
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/projects", "").Code)
}

func TestAuth_InvalidFormat(t *testing.T) {
	r := newAuthTestRouter(AuthConfig{Secret: "test-secret", Enabled: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
