package repository

import "time"

// CacheRepository определяет методы для работы с кешем (Redis).
// Используется для кеширования таблицы лидеров с коротким TTL:
// клиенты поллят scoreboard часто, согласованность в пределах
// нескольких сотен миллисекунд допустима.
type CacheRepository interface {
	// SetJSON сериализует значение в JSON и сохраняет с заданным TTL
	SetJSON(key string, value interface{}, expiration time.Duration) error

	// GetJSON читает значение и десериализует его из JSON.
	// Возвращает ErrNotFound при промахе кеша.
	GetJSON(key string, dest interface{}) error

	// Delete удаляет значение из кеша (инвалидация)
	Delete(key string) error
}
