package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий квиз-сессий
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// tenantScoped добавляет фильтр по тенанту; пустой tenantID — без фильтра (супер-админ)
func tenantScoped(db *gorm.DB, tenantID string) *gorm.DB {
	if tenantID == "" {
		return db
	}
	return db.Where("tenant_id = ?", tenantID)
}

// Create создает новую сессию
func (r *SessionRepo) Create(session *entity.QuizSession) error {
	return r.db.Create(session).Error
}

// GetByID возвращает сессию по ID в пределах тенанта
func (r *SessionRepo) GetByID(tenantID, id string) (*entity.QuizSession, error) {
	var session entity.QuizSession
	err := tenantScoped(r.db, tenantID).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Чужой тенант и отсутствующая запись неразличимы для вызывающего
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetWithRounds возвращает сессию вместе с раундами
func (r *SessionRepo) GetWithRounds(tenantID, id string) (*entity.QuizSession, error) {
	var session entity.QuizSession
	err := tenantScoped(r.db, tenantID).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number")
		}).
		First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListByTenant возвращает сессии тенанта
func (r *SessionRepo) ListByTenant(tenantID string) ([]entity.QuizSession, error) {
	var sessions []entity.QuizSession
	err := tenantScoped(r.db, tenantID).Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateInfo точечно обновляет описательные поля сессии без полного Save
func (r *SessionRepo) UpdateInfo(id string, updates map[string]interface{}) error {
	result := r.db.Model(&entity.QuizSession{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateStateVersioned применяет условное обновление статуса сессии.
// Условие WHERE version = expectedVersion реализует оптимистичную блокировку:
// проигравший гонку переход получает ErrConflict и не перезатирает чужие изменения.
func (r *SessionRepo) UpdateStateVersioned(session *entity.QuizSession, expectedVersion int64) error {
	result := r.db.Model(&entity.QuizSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":        session.Status,
			"current_round": session.CurrentRound,
			"version":       session.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// IncrementRoundCount атомарно изменяет round_count на delta через gorm.Expr
func (r *SessionRepo) IncrementRoundCount(id string, delta int) error {
	return r.db.Model(&entity.QuizSession{}).
		Where("id = ?", id).
		Update("round_count", gorm.Expr("round_count + ?", delta)).
		Error
}

// Delete удаляет сессию и каскадно её раунды, участия и ответы
func (r *SessionRepo) Delete(tenantID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var session entity.QuizSession
		err := tenantScoped(tx, tenantID).First(&session, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Where("session_id = ?", id).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&entity.SessionParticipation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&entity.Round{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
}
