package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Константы статусов раунда
const (
	RoundStatusPending  = "pending"
	RoundStatusActive   = "active"
	RoundStatusRevealed = "revealed"
)

// RoundOptionCount — раунд всегда содержит ровно 4 варианта ответа
const RoundOptionCount = 4

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Round представляет один раунд викторины: медиа-подсказка, 4 варианта ответа
// и индекс правильного варианта. RoundNumber — порядковый номер внутри сессии (1..30).
type Round struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"round_id"`
	SessionID     string      `gorm:"type:uuid;not null;uniqueIndex:idx_rounds_session_number" json:"session_id"`
	TenantID      string      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	RoundNumber   int         `gorm:"not null;uniqueIndex:idx_rounds_session_number" json:"round_number"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption int         `gorm:"not null" json:"-"` // Скрыто от клиента до раскрытия
	Status        string      `gorm:"size:20;not null;default:'pending'" json:"status"`
	AudioURL      string      `gorm:"size:500;not null;default:''" json:"audio_url,omitempty"`
	ImageURL      string      `gorm:"size:500;not null;default:''" json:"image_url,omitempty"`
	RevealedAt    *time.Time  `json:"revealed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Round) TableName() string {
	return "rounds"
}

// IsPending проверяет, что раунд еще не стартовал
func (r *Round) IsPending() bool {
	return r.Status == RoundStatusPending
}

// IsActive проверяет, принимает ли раунд ответы
func (r *Round) IsActive() bool {
	return r.Status == RoundStatusActive
}

// IsRevealed проверяет, раскрыт ли правильный ответ
func (r *Round) IsRevealed() bool {
	return r.Status == RoundStatusRevealed
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (r *Round) IsCorrect(selectedOption int) bool {
	return selectedOption == r.CorrectOption
}

// IsValidOption проверяет, что выбранный вариант в допустимом диапазоне 0..3
func (r *Round) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < RoundOptionCount
}
