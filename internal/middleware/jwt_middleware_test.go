package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/catalog_api/internal/utils"
)

func newProtectedServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewJWTMiddleware()

	router := gin.New()
	router.GET("/me", mw.Handle(), func(c *gin.Context) {
		c.JSON(200, gin.H{
			"user_id":  c.GetString("user_id"),
			"username": c.GetString("username"),
			"is_admin": c.GetBool("is_admin"),
		})
	})
	router.GET("/admin", mw.HandleAdmin(), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router
}

func doGet(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	utils.InitJWT("test-secret")
	router := newProtectedServer()

	userToken, err := utils.GenerateJWT("user-1", "ana", false)
	require.NoError(t, err)
	adminToken, err := utils.GenerateJWT("admin-1", "admin", true)
	require.NoError(t, err)

	t.Run("missing header fails with 401", func(t *testing.T) {
		rec := doGet(router, "/me", "")
		assert.Equal(t, 401, rec.Code)
		assert.JSONEq(t, `{"error":"Missing authorization header"}`, rec.Body.String())
	})

	t.Run("malformed header fails with 401", func(t *testing.T) {
		rec := doGet(router, "/me", "Token "+userToken)
		assert.Equal(t, 401, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid authorization header"}`, rec.Body.String())
	})

	t.Run("garbage token fails with 401", func(t *testing.T) {
		rec := doGet(router, "/me", "Bearer not.a.token")
		assert.Equal(t, 401, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())
	})

	t.Run("valid token exposes the caller identity", func(t *testing.T) {
		rec := doGet(router, "/me", "Bearer "+userToken)
		require.Equal(t, 200, rec.Code)
		assert.JSONEq(t, `{"user_id":"user-1","username":"ana","is_admin":false}`, rec.Body.String())
	})

	t.Run("non-admin is rejected from admin routes", func(t *testing.T) {
		rec := doGet(router, "/admin", "Bearer "+userToken)
		assert.Equal(t, 403, rec.Code)
		assert.JSONEq(t, `{"error":"Admin access required"}`, rec.Body.String())
	})

	t.Run("admin passes admin routes", func(t *testing.T) {
		rec := doGet(router, "/admin", "Bearer "+adminToken)
		assert.Equal(t, 200, rec.Code)
	})
}
