package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// AdminRepository определяет методы для работы с администраторами
type AdminRepository interface {
	// Create создает нового администратора
	Create(admin *entity.Admin) error

	// GetByID возвращает администратора по ID
	GetByID(id string) (*entity.Admin, error)

	// GetByEmail возвращает администратора по email (для логина)
	GetByEmail(email string) (*entity.Admin, error)

	// ListByTenant возвращает администраторов тенанта
	ListByTenant(tenantID string) ([]entity.Admin, error)

	// Update обновляет данные администратора
	Update(admin *entity.Admin) error

	// Delete удаляет администратора
	Delete(id string) error
}
