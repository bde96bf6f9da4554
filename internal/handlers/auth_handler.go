package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopauth/internal/middleware"
	"shopauth/internal/models"
	"shopauth/internal/services"
)

type AuthHandler struct {
	sessions    *services.SessionService
	userService services.UserService
}

func NewAuthHandler(sessions *services.SessionService, userService services.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userService: userService}
}

// @Summary      Вход в систему
// @Description  Проверяет username/password и возвращает access и refresh токены
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      201    {object}  models.TokenPair
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, "[auth][login]", err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

// @Summary      Обновление access-токена
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenStr, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Refresh Token"})
		return
	}
	access, err := h.sessions.Refresh(c.Request.Context(), tokenStr)
	if err != nil {
		respondError(c, "[auth][refresh]", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// @Summary      Отзыв access-токена
// @Tags         Auth
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/access-revoke [delete]
func (h *AuthHandler) RevokeAccess(c *gin.Context) {
	tokenStr, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Token"})
		return
	}
	if err := h.sessions.RevokeAccess(c.Request.Context(), tokenStr); err != nil {
		respondError(c, "[auth][access-revoke]", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Access token has been revoke"})
}

// @Summary      Отзыв refresh-токена
// @Tags         Auth
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh-revoke [delete]
func (h *AuthHandler) RevokeRefresh(c *gin.Context) {
	tokenStr, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Refresh Token"})
		return
	}
	if err := h.sessions.RevokeRefresh(c.Request.Context(), tokenStr); err != nil {
		respondError(c, "[auth][refresh-revoke]", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Refresh token has been revoke"})
}

func (h *AuthHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "This is Authentication route"})
}

// Me: claims текущего токена.
func (h *AuthHandler) Me(c *gin.Context) {
	vt, ok := middleware.TokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username": vt.Subject,
		"claims":   vt.Claims,
	})
}

// GetUser: просмотр пользователя по username (только staff).
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "[auth][user]", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
