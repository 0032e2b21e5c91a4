package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// SessionRepository определяет методы для работы с квиз-сессиями.
// Параметр tenantID фильтрует выборку по тенанту; пустая строка означает
// отсутствие фильтра (супер-админ). Записи чужого тенанта возвращаются
// как ErrNotFound, чтобы не раскрывать их существование.
type SessionRepository interface {
	// Create создает новую сессию
	Create(session *entity.QuizSession) error

	// GetByID возвращает сессию по ID
	GetByID(tenantID, id string) (*entity.QuizSession, error)

	// GetWithRounds возвращает сессию вместе с раундами (упорядоченными по номеру)
	GetWithRounds(tenantID, id string) (*entity.QuizSession, error)

	// ListByTenant возвращает сессии тенанта
	ListByTenant(tenantID string) ([]entity.QuizSession, error)

	// UpdateInfo точечно обновляет описательные поля сессии без полного Save
	UpdateInfo(id string, updates map[string]interface{}) error

	// UpdateStateVersioned применяет условное обновление статуса, текущего раунда
	// и счетчика версии: запись обновляется только если version в базе равен
	// expectedVersion. При несовпадении возвращает ErrConflict.
	UpdateStateVersioned(session *entity.QuizSession, expectedVersion int64) error

	// IncrementRoundCount атомарно изменяет round_count на delta
	IncrementRoundCount(id string, delta int) error

	// Delete удаляет сессию и каскадно её раунды, участия и ответы
	Delete(tenantID, id string) error
}
