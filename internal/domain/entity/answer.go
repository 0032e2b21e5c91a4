package entity

import (
	"time"
)

// Answer представляет ответ участника на раунд. На пару (участие, раунд)
// существует максимум одна запись: повторная отправка в активном раунде
// перезаписывает вариант и время, никогда не создает дубликат.
// AwardedPoints фиксирует начисленные при раскрытии очки, чтобы повторное
// раскрытие не начисляло их дважды, а демоция раунда могла их отозвать.
type Answer struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"answer_id"`
	TenantID        string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ParticipationID string    `gorm:"type:uuid;not null;uniqueIndex:idx_answers_participation_round" json:"participation_id"`
	SessionID       string    `gorm:"type:uuid;not null;index" json:"session_id"`
	RoundNumber     int       `gorm:"not null;uniqueIndex:idx_answers_participation_round" json:"round_number"`
	SelectedOption  int       `gorm:"not null;default:-1" json:"selected_option"`
	IsCorrect       bool      `gorm:"not null;default:false" json:"is_correct"`
	AwardedPoints   int       `gorm:"not null;default:0" json:"awarded_points"`
	SubmittedAt     time.Time `gorm:"not null" json:"submitted_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
