package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// TenantRepo реализует repository.TenantRepository
type TenantRepo struct {
	db *gorm.DB
}

// NewTenantRepo создает новый репозиторий тенантов
func NewTenantRepo(db *gorm.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

// Create создает новый тенант
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	if err := r.db.Create(tenant).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tenant slug already taken: %w", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

// GetByID возвращает тенант по ID
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := r.db.First(&tenant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// List возвращает все тенанты
func (r *TenantRepo) List() ([]entity.Tenant, error) {
	var tenants []entity.Tenant
	if err := r.db.Order("created_at").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Update обновляет данные тенанта
func (r *TenantRepo) Update(tenant *entity.Tenant) error {
	result := r.db.Model(&entity.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]interface{}{
			"name":          tenant.Name,
			"contact_email": tenant.ContactEmail,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет тенант и каскадно все его дочерние записи одной транзакцией
func (r *TenantRepo) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&entity.SessionParticipation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&entity.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&entity.Round{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&entity.QuizSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&entity.Admin{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&entity.Tenant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
