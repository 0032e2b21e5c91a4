package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/musicquiz-api/internal/service"
)

// AuthHandler обрабатывает логин администраторов
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest представляет запрос на вход администратора
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Login обрабатывает вход администратора и выпускает админский токен
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, admin, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"admin_id":  admin.ID,
			"tenant_id": admin.TenantID,
			"email":     admin.Email,
			"name":      admin.Name,
			"role":      admin.Role,
		},
	})
}
