package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	"github.com/yourusername/musicquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
	"github.com/yourusername/musicquiz-api/pkg/auth"
)

// AuthService обслуживает админское пространство учетных данных:
// логин администраторов и управление тенантами/админами (провиженинг).
type AuthService struct {
	tenantRepo repository.TenantRepository
	adminRepo  repository.AdminRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	tenantRepo repository.TenantRepository,
	adminRepo repository.AdminRepository,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		adminRepo:  adminRepo,
		jwtService: jwtService,
	}
}

// Login проверяет учетные данные администратора и выпускает админский токен.
// Несуществующий email и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(email, password string) (string, *entity.Admin, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, err
	}

	if !admin.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для email=%s", email)
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateAdminToken(admin)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue admin token: %w", err)
	}
	return token, admin, nil
}

// CreateTenant создает новый тенант (только супер-админ)
func (s *AuthService) CreateTenant(principal auth.Principal, name, slug, contactEmail string) (*entity.Tenant, error) {
	if !principal.IsSuperAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if name == "" || slug == "" {
		return nil, fmt.Errorf("tenant name and slug are required: %w", apperrors.ErrValidation)
	}

	tenant := &entity.Tenant{
		ID:           uuid.NewString(),
		Name:         name,
		Slug:         slug,
		ContactEmail: contactEmail,
	}
	if err := s.tenantRepo.Create(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetTenant возвращает тенант. Tenant-admin видит только собственный тенант.
func (s *AuthService) GetTenant(principal auth.Principal, tenantID string) (*entity.Tenant, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}
	if !principal.IsSuperAdmin() && principal.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return s.tenantRepo.GetByID(tenantID)
}

// ListTenants возвращает все тенанты (только супер-админ)
func (s *AuthService) ListTenants(principal auth.Principal) ([]entity.Tenant, error) {
	if !principal.IsSuperAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.tenantRepo.List()
}

// UpdateTenant обновляет данные тенанта
func (s *AuthService) UpdateTenant(principal auth.Principal, tenantID, name, contactEmail string) (*entity.Tenant, error) {
	if !principal.IsSuperAdmin() && !(principal.IsAdmin() && principal.TenantID == tenantID) {
		return nil, apperrors.ErrForbidden
	}

	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		tenant.Name = name
	}
	if contactEmail != "" {
		tenant.ContactEmail = contactEmail
	}
	if err := s.tenantRepo.Update(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant удаляет тенант каскадно (только супер-админ)
func (s *AuthService) DeleteTenant(principal auth.Principal, tenantID string) error {
	if !principal.IsSuperAdmin() {
		return apperrors.ErrForbidden
	}
	return s.tenantRepo.Delete(tenantID)
}

// CreateAdmin создает администратора тенанта. Tenant-admin может заводить
// админов только в своем тенанте; роль super_admin назначает только супер-админ.
func (s *AuthService) CreateAdmin(principal auth.Principal, tenantID, email, name, password, role string) (*entity.Admin, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}
	if !principal.IsSuperAdmin() && principal.TenantID != tenantID {
		return nil, apperrors.ErrForbidden
	}

	if role == "" {
		role = entity.AdminRoleTenant
	}
	if role == entity.AdminRoleSuper && !principal.IsSuperAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if role != entity.AdminRoleTenant && role != entity.AdminRoleSuper {
		return nil, fmt.Errorf("unknown admin role %q: %w", role, apperrors.ErrValidation)
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", apperrors.ErrValidation)
	}

	if role != entity.AdminRoleSuper {
		if _, err := s.tenantRepo.GetByID(tenantID); err != nil {
			return nil, err
		}
	}

	admin := &entity.Admin{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Email:        email,
		Name:         name,
		PasswordHash: password, // BeforeSave хеширует
		Role:         role,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// ListAdmins возвращает администраторов тенанта
func (s *AuthService) ListAdmins(principal auth.Principal, tenantID string) ([]entity.Admin, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}
	if !principal.IsSuperAdmin() && principal.TenantID != tenantID {
		return nil, apperrors.ErrForbidden
	}
	return s.adminRepo.ListByTenant(tenantID)
}

// UpdateAdmin обновляет имя и/или пароль администратора
func (s *AuthService) UpdateAdmin(principal auth.Principal, adminID, name, password string) (*entity.Admin, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if !principal.IsSuperAdmin() && principal.TenantID != admin.TenantID {
		return nil, apperrors.ErrNotFound
	}

	if name != "" {
		admin.Name = name
	}
	if password != "" {
		admin.PasswordHash = password // BeforeSave хеширует
	}
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// DeleteAdmin удаляет администратора
func (s *AuthService) DeleteAdmin(principal auth.Principal, adminID string) error {
	if !principal.IsAdmin() {
		return apperrors.ErrUnauthorized
	}

	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() && principal.TenantID != admin.TenantID {
		return apperrors.ErrNotFound
	}
	if admin.ID == principal.AdminID {
		return fmt.Errorf("admin cannot delete itself: %w", apperrors.ErrValidation)
	}
	return s.adminRepo.Delete(adminID)
}
