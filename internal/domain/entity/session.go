package entity

import (
	"time"
)

// Константы статусов квиз-сессии
const (
	SessionStatusDraft     = "draft"
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Типы медиа-подсказки раунда
const (
	SessionMediaAudio = "audio"
	SessionMediaImage = "image"
	SessionMediaNone  = "none"
)

// MaxRoundsPerSession — максимально допустимое количество раундов в одной сессии
const MaxRoundsPerSession = 30

// QuizSession представляет одно квиз-событие с упорядоченным списком раундов.
// Version — монотонный счетчик, увеличивается при каждом переходе жизненного цикла
// и используется для условных обновлений (оптимистичная блокировка) и для
// обнаружения устаревшего состояния клиентами при поллинге.
type QuizSession struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"session_id"`
	TenantID      string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Title         string    `gorm:"size:100;not null" json:"title"`
	Description   string    `gorm:"size:500;not null;default:''" json:"description"`
	MediaType     string    `gorm:"size:20;not null;default:'audio'" json:"media_type"`
	Status        string    `gorm:"size:20;not null;default:'draft';index" json:"status"`
	CurrentRound  int       `gorm:"not null;default:0" json:"current_round"`
	RoundCount    int       `gorm:"not null;default:0" json:"round_count"`
	Version       int64     `gorm:"not null;default:0" json:"version"`
	JoinQRPayload string    `gorm:"size:500;not null;default:''" json:"join_qr_payload,omitempty"`
	Rounds        []Round   `gorm:"foreignKey:SessionID;references:ID" json:"rounds,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizSession) TableName() string {
	return "quiz_sessions"
}

// IsDraft проверяет, является ли сессия черновиком
func (s *QuizSession) IsDraft() bool {
	return s.Status == SessionStatusDraft
}

// IsActive проверяет, идет ли сессия
func (s *QuizSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsCompleted проверяет, завершена ли сессия. Завершение терминально:
// дальнейшая активация раундов запрещена.
func (s *QuizSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// HasRoundCapacity проверяет, можно ли добавить еще один раунд
func (s *QuizSession) HasRoundCapacity() bool {
	return s.RoundCount < MaxRoundsPerSession
}
