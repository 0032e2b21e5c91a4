package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли администраторов
const (
	AdminRoleTenant = "tenant_admin"
	AdminRoleSuper  = "super_admin"
)

// Admin представляет администратора викторин.
// TenantID пуст только у супер-админа: его токен не ограничен одним тенантом.
type Admin struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"admin_id"`
	TenantID     string    `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:100;not null;default:''" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'tenant_admin'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Admin) TableName() string {
	return "admins"
}

// IsSuperAdmin проверяет, является ли администратор супер-админом
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == AdminRoleSuper
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (a *Admin) BeforeSave(tx *gorm.DB) error {
	if len(a.PasswordHash) > 0 && !strings.HasPrefix(a.PasswordHash, "$2a$") &&
		!strings.HasPrefix(a.PasswordHash, "$2b$") && !strings.HasPrefix(a.PasswordHash, "$2y$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(a.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[Admin.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", a.Email, err)
			return err
		}
		a.PasswordHash = string(hashed)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (a *Admin) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}
