package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartcampus/utils"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// AuthMiddleware requires a valid "Bearer <token>" Authorization header.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			return
		}

		userID, err := utils.ParseToken(tokenString, secret)
		if err != nil {
			zap.S().Debugw("token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id set by AuthMiddleware, or "".
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// OptionalAuth sets the user id when a valid token is present and lets the
// request through either way.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader != "" && secret != "" {
			if userID, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}
