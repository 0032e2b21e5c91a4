package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create создает нового участника
func (r *ParticipantRepo) Create(participant *entity.Participant) error {
	return r.db.Create(participant).Error
}

// GetByID возвращает участника тенанта по ID
func (r *ParticipantRepo) GetByID(tenantID, id string) (*entity.Participant, error) {
	var participant entity.Participant
	err := tenantScoped(r.db, tenantID).First(&participant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// ListByTenant возвращает участников тенанта
func (r *ParticipantRepo) ListByTenant(tenantID string) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := tenantScoped(r.db, tenantID).Order("created_at").Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// Update обновляет имя и аватар участника
func (r *ParticipantRepo) Update(participant *entity.Participant) error {
	result := r.db.Model(&entity.Participant{}).
		Where("id = ? AND tenant_id = ?", participant.ID, participant.TenantID).
		Updates(map[string]interface{}{
			"name":   participant.Name,
			"avatar": participant.Avatar,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCascade удаляет участника вместе с его участиями и ответами.
// Возвращает количество удаленных ответов (отчет для админа).
func (r *ParticipantRepo) DeleteCascade(tenantID, id string) (int64, error) {
	var answersRemoved int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var participant entity.Participant
		err := tenantScoped(tx, tenantID).First(&participant, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var participationIDs []string
		err = tx.Model(&entity.SessionParticipation{}).
			Where("participant_id = ?", id).
			Pluck("id", &participationIDs).Error
		if err != nil {
			return err
		}

		if len(participationIDs) > 0 {
			result := tx.Where("participation_id IN ?", participationIDs).Delete(&entity.Answer{})
			if result.Error != nil {
				return result.Error
			}
			answersRemoved = result.RowsAffected

			if err := tx.Where("id IN ?", participationIDs).Delete(&entity.SessionParticipation{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&participant).Error
	})
	if err != nil {
		return 0, err
	}
	return answersRemoved, nil
}

// DeleteAllByTenant удаляет всех участников тенанта каскадно.
// Возвращает количество удаленных участников.
func (r *ParticipantRepo) DeleteAllByTenant(tenantID string) (int64, error) {
	var participantsRemoved int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var participationIDs []string
		err := tx.Model(&entity.SessionParticipation{}).
			Where("tenant_id = ?", tenantID).
			Pluck("id", &participationIDs).Error
		if err != nil {
			return err
		}

		if len(participationIDs) > 0 {
			if err := tx.Where("participation_id IN ?", participationIDs).Delete(&entity.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", participationIDs).Delete(&entity.SessionParticipation{}).Error; err != nil {
				return err
			}
		}

		result := tx.Where("tenant_id = ?", tenantID).Delete(&entity.Participant{})
		if result.Error != nil {
			return result.Error
		}
		participantsRemoved = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return participantsRemoved, nil
}
