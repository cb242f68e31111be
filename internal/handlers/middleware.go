// Package handlers exposes the HTTP surface: site CRUD, check triggers,
// analytics reads and credential management. Every route is scoped to the
// user principal carried in the X-User-ID header.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userHeader carries the authenticated principal, set by the gateway in
// front of this service.
const userHeader = "X-User-ID"

const userKey = "user_id"

// RequireUser rejects requests without a user principal.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing " + userHeader + " header"})
			return
		}
		c.Set(userKey, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}
