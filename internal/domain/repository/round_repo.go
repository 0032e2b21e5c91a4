package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// RoundRepository определяет методы для работы с раундами
type RoundRepository interface {
	// Create создает новый раунд
	Create(round *entity.Round) error

	// GetBySessionAndNumber возвращает раунд сессии по порядковому номеру
	GetBySessionAndNumber(sessionID string, roundNumber int) (*entity.Round, error)

	// ListBySession возвращает раунды сессии, упорядоченные по номеру
	ListBySession(sessionID string) ([]entity.Round, error)

	// UpdateStatuses сохраняет новые статусы (и revealed_at) набора раундов
	// одной транзакцией — используется для неявных переходов состояния.
	UpdateStatuses(rounds []entity.Round) error

	// Delete удаляет раунд сессии по номеру
	Delete(sessionID string, roundNumber int) error
}
