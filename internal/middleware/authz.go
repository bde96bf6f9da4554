package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopauth/internal/authz"
)

// RequireStaff пускает только токены с is_staff=true. Ставится после AuthMiddleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		vt, ok := TokenFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token in context"})
			return
		}
		if !authz.IsStaff(vt.Claims) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
