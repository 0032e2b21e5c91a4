package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// ParticipantRepository определяет методы для работы с участниками
type ParticipantRepository interface {
	// Create создает нового участника
	Create(participant *entity.Participant) error

	// GetByID возвращает участника тенанта по ID
	GetByID(tenantID, id string) (*entity.Participant, error)

	// ListByTenant возвращает участников тенанта
	ListByTenant(tenantID string) ([]entity.Participant, error)

	// Update обновляет имя и аватар участника
	Update(participant *entity.Participant) error

	// DeleteCascade удаляет участника вместе с его участиями и ответами.
	// Возвращает количество удаленных ответов.
	DeleteCascade(tenantID, id string) (int64, error)

	// DeleteAllByTenant удаляет всех участников тенанта каскадно.
	// Возвращает количество удаленных участников.
	DeleteAllByTenant(tenantID string) (int64, error)
}
