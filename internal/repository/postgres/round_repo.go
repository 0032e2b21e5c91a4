package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// RoundRepo реализует repository.RoundRepository
type RoundRepo struct {
	db *gorm.DB
}

// NewRoundRepo создает новый репозиторий раундов
func NewRoundRepo(db *gorm.DB) *RoundRepo {
	return &RoundRepo{db: db}
}

// Create создает новый раунд
func (r *RoundRepo) Create(round *entity.Round) error {
	if err := r.db.Create(round).Error; err != nil {
		if isUniqueViolation(err) {
			// Гонка двух addRound за один номер
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetBySessionAndNumber возвращает раунд сессии по порядковому номеру
func (r *RoundRepo) GetBySessionAndNumber(sessionID string, roundNumber int) (*entity.Round, error) {
	var round entity.Round
	err := r.db.First(&round, "session_id = ? AND round_number = ?", sessionID, roundNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// ListBySession возвращает раунды сессии, упорядоченные по номеру
func (r *RoundRepo) ListBySession(sessionID string) ([]entity.Round, error) {
	var rounds []entity.Round
	err := r.db.Where("session_id = ?", sessionID).Order("round_number").Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

// UpdateStatuses сохраняет новые статусы набора раундов одной транзакцией.
// Набор приходит из функции перехода состояния: старт раунда N может
// одновременно раскрыть раунд M и демотировать более поздние раунды.
func (r *RoundRepo) UpdateStatuses(rounds []entity.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range rounds {
			err := tx.Model(&entity.Round{}).
				Where("id = ?", rounds[i].ID).
				Updates(map[string]interface{}{
					"status":      rounds[i].Status,
					"revealed_at": rounds[i].RevealedAt,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete удаляет раунд сессии по номеру
func (r *RoundRepo) Delete(sessionID string, roundNumber int) error {
	result := r.db.Where("session_id = ? AND round_number = ?", sessionID, roundNumber).
		Delete(&entity.Round{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
