package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"riskassess-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Identity resolves the request's owner from the X-User-Id header. The
// gateway in front of this service handles authentication; here we only need
// a stable principal to scope documents and runs.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
