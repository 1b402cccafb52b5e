package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storelane/catalog_api/internal/utils"
)

// JWTMiddleware authenticates requests with a bearer token and exposes the
// caller identity to handlers via the context.
type JWTMiddleware struct{}

// NewJWTMiddleware constructs a JWTMiddleware.
func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

// Handle requires a valid token and sets user_id, username and is_admin.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

// HandleAdmin requires a valid token belonging to an admin account.
func (m *JWTMiddleware) HandleAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}
		if !claims.IsAdmin {
			utils.AbortError(c, 403, "Admin access required")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("is_admin", true)
		c.Next()
	}
}

// authenticate parses the Authorization header. On failure it writes the
// error response, aborts the chain and returns ok=false.
func (m *JWTMiddleware) authenticate(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.AbortError(c, 401, "Missing authorization header")
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.AbortError(c, 401, "Invalid authorization header")
		return nil, false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		utils.AbortError(c, 401, "Invalid or expired token")
		return nil, false
	}
	return claims, true
}
