package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slotline/models"
	"slotline/utils"
)

const principalKey = "principal"

// AuthMiddleware resolves the Bearer token into a Principal and stores it on
// the request context. Identity lives upstream; this subsystem only consumes
// the (id, role) pair the token carries.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		principal, err := utils.PrincipalFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
