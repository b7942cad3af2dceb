package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotline/models"
)

// RequireRole gates a route group to the given roles. It runs after
// AuthMiddleware; ownership checks stay in the services.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this resource"})
	}
}
