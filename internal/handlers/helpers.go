package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopauth/internal/services"
)

// statusFor: стабильный HTTP-статус для каждого ожидаемого вида ошибки.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, true
	case errors.Is(err, services.ErrCodeExpired):
		return http.StatusForbidden, true
	case errors.Is(err, services.ErrCodeOwnerMismatch):
		return http.StatusForbidden, true
	case errors.Is(err, services.ErrCodeIncorrect):
		return http.StatusBadRequest, true
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, true
	}
	return http.StatusInternalServerError, false
}

// respondError: ожидаемые ошибки уходят как есть, остальное логируем и прячем.
func respondError(c *gin.Context, op string, err error) {
	status, expected := statusFor(err)
	if !expected {
		log.Printf("%s internal error: %v", op, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
