package entity

import (
	"time"
)

// Tenant представляет организацию — граница изоляции данных.
// Все дочерние сущности (сессии, админы, участники) ссылаются ровно на один тенант.
type Tenant struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Slug         string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	ContactEmail string    `gorm:"size:100;not null;default:''" json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Tenant) TableName() string {
	return "tenants"
}
