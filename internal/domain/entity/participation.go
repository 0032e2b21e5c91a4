package entity

import (
	"time"
)

// SessionParticipation представляет связь участник × сессия и хранит
// пер-сессионный счет. Удаляется при удалении любого из родителей.
// JoinedAt участвует в детерминированном порядке таблицы лидеров:
// при равенстве очков выше тот, кто присоединился раньше.
type SessionParticipation struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"participation_id"`
	TenantID       string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SessionID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_participations_session_participant" json:"session_id"`
	ParticipantID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_participations_session_participant" json:"participant_id"`
	TotalPoints    int       `gorm:"not null;default:0" json:"total_points"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	JoinedAt       time.Time `gorm:"not null" json:"joined_at"`
}

// TableName определяет имя таблицы для GORM
func (SessionParticipation) TableName() string {
	return "session_participations"
}
