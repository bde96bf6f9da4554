package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopauth/internal/models"
	"shopauth/internal/services"
)

type PasswordHandler struct {
	sessions *services.SessionService
}

func NewPasswordHandler(sessions *services.SessionService) *PasswordHandler {
	return &PasswordHandler{sessions: sessions}
}

// @Summary      Запрос кода сброса пароля
// @Tags         Password
// @Produce      json
// @Param        username  query  string  true   "Имя пользователя"
// @Param        plan      query  string  false  "email | mobile"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/password [get]
func (h *PasswordHandler) RequestCode(c *gin.Context) {
	plan := strings.ToLower(strings.TrimSpace(c.DefaultQuery("plan", services.PlanEmail)))
	if err := h.sessions.RequestResetCode(c.Request.Context(), c.Query("username"), plan); err != nil {
		respondError(c, "[password-reset][request]", err)
		return
	}
	msg := "email has been sent"
	if plan == services.PlanMobile {
		msg = "sms has been sent"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// @Summary      Сброс пароля по коду
// @Tags         Password
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Код и новый пароль"
// @Success      201    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /auth/password [post]
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.sessions.SubmitReset(c.Request.Context(), services.ResetInput{
		Username:     req.Username,
		Code:         req.Code,
		NewPassword:  req.NewPassword,
		NewPassword2: req.NewPassword2,
	})
	if err != nil {
		respondError(c, "[password-reset][submit]", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Password changed successfully"})
}

// @Summary      Смена пароля по старому паролю
// @Tags         Password
// @Accept       json
// @Produce      json
// @Param        change  body      models.ChangePasswordRequest  true  "Старый и новый пароль"
// @Success      201     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /auth/password [patch]
func (h *PasswordHandler) Change(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sessions.ChangePassword(c.Request.Context(), req.Username, req.Password, req.NewPassword); err != nil {
		respondError(c, "[auth][password]", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": req.Username + " password changed"})
}
