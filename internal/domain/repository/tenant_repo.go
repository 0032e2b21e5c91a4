package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// TenantRepository определяет методы для работы с тенантами
type TenantRepository interface {
	// Create создает новый тенант
	Create(tenant *entity.Tenant) error

	// GetByID возвращает тенант по ID
	GetByID(id string) (*entity.Tenant, error)

	// List возвращает все тенанты (только для супер-админа)
	List() ([]entity.Tenant, error)

	// Update обновляет данные тенанта
	Update(tenant *entity.Tenant) error

	// Delete удаляет тенант и каскадно все его дочерние записи
	Delete(id string) error
}
