package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopauth/internal/models"
	"shopauth/internal/services"
)

const (
	CtxToken    = "auth_token"
	CtxSubject  = "subject"
	CtxClaims   = "claims"
	CtxRawToken = "raw_token"
)

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.VerifiedToken, error)
}

// BearerToken достаёт токен из "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	return tokenStr, tokenStr != ""
}

// AuthMiddleware требует валидный, неотозванный access-токен.
func AuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenStr, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		vt, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(CtxToken, vt)
		c.Set(CtxSubject, vt.Subject)
		c.Set(CtxClaims, vt.Claims)
		c.Set(CtxRawToken, tokenStr)
		c.Next()
	}
}

func TokenFromContext(c *gin.Context) (*models.VerifiedToken, bool) {
	v, ok := c.Get(CtxToken)
	if !ok {
		return nil, false
	}
	vt, ok := v.(*models.VerifiedToken)
	return vt, ok
}
