package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// ParticipationRepository определяет методы для работы с участиями в сессиях
type ParticipationRepository interface {
	// Create создает запись участия (участник × сессия)
	Create(participation *entity.SessionParticipation) error

	// GetBySessionAndParticipant возвращает участие по паре идентификаторов
	GetBySessionAndParticipant(sessionID, participantID string) (*entity.SessionParticipation, error)

	// ListBySession возвращает участия сессии, упорядоченные по очкам (убывание)
	// и времени присоединения (возрастание) — детерминированный порядок
	// таблицы лидеров.
	ListBySession(sessionID string) ([]entity.SessionParticipation, error)

	// ApplyScoreDelta атомарно изменяет очки и счетчик правильных ответов.
	// Инкременты коммутативны: применяются независимо по каждому участию
	// без блокировок между участниками.
	ApplyScoreDelta(participationID string, pointsDelta, correctDelta int) error

	// ResetBySession обнуляет очки и счетчики правильных ответов всех участий сессии
	ResetBySession(sessionID string) error
}
