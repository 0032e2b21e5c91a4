package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// AdminRepo реализует repository.AdminRepository
type AdminRepo struct {
	db *gorm.DB
}

// NewAdminRepo создает новый репозиторий администраторов
func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// Create создает нового администратора
func (r *AdminRepo) Create(admin *entity.Admin) error {
	if err := r.db.Create(admin).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("admin email already registered: %w", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

// GetByID возвращает администратора по ID
func (r *AdminRepo) GetByID(id string) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.First(&admin, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetByEmail возвращает администратора по email
func (r *AdminRepo) GetByEmail(email string) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.First(&admin, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ListByTenant возвращает администраторов тенанта
func (r *AdminRepo) ListByTenant(tenantID string) ([]entity.Admin, error) {
	var admins []entity.Admin
	if err := r.db.Where("tenant_id = ?", tenantID).Order("created_at").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Update обновляет данные администратора
func (r *AdminRepo) Update(admin *entity.Admin) error {
	// Save вызывает BeforeSave и хеширует пароль, если он был сменен
	result := r.db.Save(admin)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return fmt.Errorf("admin email already registered: %w", apperrors.ErrConflict)
		}
		return result.Error
	}
	return nil
}

// Delete удаляет администратора
func (r *AdminRepo) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&entity.Admin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
