package entity

import (
	"time"
)

// Participant представляет зарегистрированного участника. Участник глобален
// для своего тенанта (не пересоздается на каждую сессию) и может присоединяться
// к нескольким сессиям, каждая связь фиксируется в SessionParticipation.
type Participant struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"participant_id"`
	TenantID  string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Avatar    string    `gorm:"size:20;not null;default:'😀'" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}
