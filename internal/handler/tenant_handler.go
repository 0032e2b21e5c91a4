package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/musicquiz-api/internal/middleware"
	"github.com/yourusername/musicquiz-api/internal/service"
)

// TenantHandler обрабатывает провиженинг тенантов и администраторов
type TenantHandler struct {
	authService *service.AuthService
}

// NewTenantHandler создает новый обработчик тенантов
func NewTenantHandler(authService *service.AuthService) *TenantHandler {
	return &TenantHandler{authService: authService}
}

// CreateTenantRequest представляет запрос на создание тенанта
type CreateTenantRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Slug         string `json:"slug" binding:"required,min=1,max=50,lowercase"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// CreateTenant создает новый тенант (супер-админ)
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	tenant, err := h.authService.CreateTenant(principal, req.Name, req.Slug, req.ContactEmail)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// GetTenant возвращает тенант
func (h *TenantHandler) GetTenant(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	tenant, err := h.authService.GetTenant(principal, c.Param("tenantId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// ListTenants возвращает все тенанты (супер-админ)
func (h *TenantHandler) ListTenants(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	tenants, err := h.authService.ListTenants(principal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenants)
}

// UpdateTenantRequest представляет запрос на обновление тенанта
type UpdateTenantRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=100"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// UpdateTenant обновляет данные тенанта
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	tenant, err := h.authService.UpdateTenant(principal, c.Param("tenantId"), req.Name, req.ContactEmail)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// DeleteTenant удаляет тенант каскадно (супер-админ)
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.authService.DeleteTenant(principal, c.Param("tenantId")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted successfully"})
}

// CreateAdminRequest представляет запрос на создание администратора
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=tenant_admin super_admin"`
}

// CreateAdmin создает администратора тенанта
func (h *TenantHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	admin, err := h.authService.CreateAdmin(principal, c.Param("tenantId"), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, admin)
}

// ListAdmins возвращает администраторов тенанта
func (h *TenantHandler) ListAdmins(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	admins, err := h.authService.ListAdmins(principal, c.Param("tenantId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, admins)
}

// UpdateAdminRequest представляет запрос на обновление администратора
type UpdateAdminRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

// UpdateAdmin обновляет имя и/или пароль администратора
func (h *TenantHandler) UpdateAdmin(c *gin.Context) {
	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	admin, err := h.authService.UpdateAdmin(principal, c.Param("adminId"), req.Name, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// DeleteAdmin удаляет администратора
func (h *TenantHandler) DeleteAdmin(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.authService.DeleteAdmin(principal, c.Param("adminId")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}
