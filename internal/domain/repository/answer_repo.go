package repository

import "github.com/yourusername/musicquiz-api/internal/domain/entity"

// AnswerRepository определяет методы для работы с ответами участников
type AnswerRepository interface {
	// Upsert сохраняет ответ; при существующей записи для пары
	// (участие, раунд) перезаписывает вариант, время и сбрасывает начисления.
	// Дубликат не создается никогда.
	Upsert(answer *entity.Answer) error

	// GetByParticipationAndRound возвращает ответ участия на раунд
	GetByParticipationAndRound(participationID string, roundNumber int) (*entity.Answer, error)

	// ListBySessionRound возвращает все ответы сессии на раунд
	ListBySessionRound(sessionID string, roundNumber int) ([]entity.Answer, error)

	// ListByParticipation возвращает ответы одного участия
	ListByParticipation(participationID string) ([]entity.Answer, error)

	// MarkAwarded фиксирует результат начисления за раскрытый раунд
	MarkAwarded(answerID string, isCorrect bool, awardedPoints int) error

	// RevokeAwardsBySessionRounds отзывает начисления по указанным раундам сессии:
	// обнуляет awarded_points/is_correct. Возвращает затронутые ответы
	// (с прежними значениями начислений) для корректировки счета участий.
	RevokeAwardsBySessionRounds(sessionID string, roundNumbers []int) ([]entity.Answer, error)

	// ZeroAwardsBySession обнуляет начисления всех ответов сессии (сброс очков)
	ZeroAwardsBySession(sessionID string) error
}
