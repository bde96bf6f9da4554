package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopauth/internal/models"
	"shopauth/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Регистрация
// @Description  Создаёт пользователя; активен сразу, если указан телефон
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "Данные регистрации"
// @Success      201     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /auth/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.service.Signup(c.Request.Context(), services.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.PhoneNumber,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		respondError(c, "[auth][signup]", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User created successfully",
		"user":    user, // PasswordHash помечен json:"-"
	})
}
