package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Upsert сохраняет ответ. При конфликте по (participation_id, round_number)
// перезаписывает вариант и время отправки: участник передумал до раскрытия.
// Начисления сбрасываются — раунд еще активен, начислений быть не может.
func (r *AnswerRepo) Upsert(answer *entity.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "participation_id"}, {Name: "round_number"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"selected_option": answer.SelectedOption,
			"submitted_at":    answer.SubmittedAt,
			"is_correct":      false,
			"awarded_points":  0,
		}),
	}).Create(answer).Error
}

// GetByParticipationAndRound возвращает ответ участия на раунд
func (r *AnswerRepo) GetByParticipationAndRound(participationID string, roundNumber int) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.First(&answer, "participation_id = ? AND round_number = ?", participationID, roundNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// ListBySessionRound возвращает все ответы сессии на раунд
func (r *AnswerRepo) ListBySessionRound(sessionID string, roundNumber int) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("session_id = ? AND round_number = ?", sessionID, roundNumber).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// ListByParticipation возвращает ответы одного участия
func (r *AnswerRepo) ListByParticipation(participationID string) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("participation_id = ?", participationID).
		Order("round_number").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// MarkAwarded фиксирует результат начисления за раскрытый раунд
func (r *AnswerRepo) MarkAwarded(answerID string, isCorrect bool, awardedPoints int) error {
	return r.db.Model(&entity.Answer{}).
		Where("id = ?", answerID).
		Updates(map[string]interface{}{
			"is_correct":     isCorrect,
			"awarded_points": awardedPoints,
		}).Error
}

// RevokeAwardsBySessionRounds отзывает начисления по указанным раундам сессии.
// Возвращает ответы с прежними значениями начислений: вызывающая сторона
// корректирует по ним счет участий.
func (r *AnswerRepo) RevokeAwardsBySessionRounds(sessionID string, roundNumbers []int) ([]entity.Answer, error) {
	if len(roundNumbers) == 0 {
		return nil, nil
	}

	var answers []entity.Answer
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("session_id = ? AND round_number IN ? AND awarded_points > 0", sessionID, roundNumbers).
			Find(&answers).Error
		if err != nil {
			return err
		}

		return tx.Model(&entity.Answer{}).
			Where("session_id = ? AND round_number IN ?", sessionID, roundNumbers).
			Updates(map[string]interface{}{
				"is_correct":     false,
				"awarded_points": 0,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// ZeroAwardsBySession обнуляет начисления всех ответов сессии (сброс очков)
func (r *AnswerRepo) ZeroAwardsBySession(sessionID string) error {
	return r.db.Model(&entity.Answer{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_correct":     false,
			"awarded_points": 0,
		}).Error
}
