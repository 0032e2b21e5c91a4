package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// ParticipationRepo реализует repository.ParticipationRepository
type ParticipationRepo struct {
	db *gorm.DB
}

// NewParticipationRepo создает новый репозиторий участий
func NewParticipationRepo(db *gorm.DB) *ParticipationRepo {
	return &ParticipationRepo{db: db}
}

// Create создает запись участия
func (r *ParticipationRepo) Create(participation *entity.SessionParticipation) error {
	if err := r.db.Create(participation).Error; err != nil {
		if isUniqueViolation(err) {
			// Участник уже присоединился к этой сессии
			return fmt.Errorf("participant already joined session: %w", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

// GetBySessionAndParticipant возвращает участие по паре идентификаторов
func (r *ParticipationRepo) GetBySessionAndParticipant(sessionID, participantID string) (*entity.SessionParticipation, error) {
	var participation entity.SessionParticipation
	err := r.db.First(&participation, "session_id = ? AND participant_id = ?", sessionID, participantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participation, nil
}

// ListBySession возвращает участия сессии в детерминированном порядке
// таблицы лидеров: очки по убыванию, при равенстве — раньше присоединившийся выше.
func (r *ParticipationRepo) ListBySession(sessionID string) ([]entity.SessionParticipation, error) {
	var participations []entity.SessionParticipation
	err := r.db.Where("session_id = ?", sessionID).
		Order("total_points DESC, joined_at ASC").
		Find(&participations).Error
	if err != nil {
		return nil, err
	}
	return participations, nil
}

// ApplyScoreDelta атомарно изменяет очки и счетчик правильных ответов через gorm.Expr.
// Инкременты коммутативны, поэтому начисления разным участиям могут идти параллельно.
func (r *ParticipationRepo) ApplyScoreDelta(participationID string, pointsDelta, correctDelta int) error {
	result := r.db.Model(&entity.SessionParticipation{}).
		Where("id = ?", participationID).
		Updates(map[string]interface{}{
			"total_points":    gorm.Expr("total_points + ?", pointsDelta),
			"correct_answers": gorm.Expr("correct_answers + ?", correctDelta),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ResetBySession обнуляет очки и счетчики правильных ответов всех участий сессии
func (r *ParticipationRepo) ResetBySession(sessionID string) error {
	return r.db.Model(&entity.SessionParticipation{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"total_points":    0,
			"correct_answers": 0,
		}).Error
}
