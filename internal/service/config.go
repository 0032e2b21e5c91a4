package service

import "time"

// Config содержит настройки игровой логики
type Config struct {
	// RoundPointValue — фиксированное количество очков за правильный ответ в раунде
	RoundPointValue int

	// ScoreboardCacheTTL — время жизни кеша таблицы лидеров. Клиенты поллят
	// scoreboard, рассинхронизация между участниками в пределах TTL допустима.
	ScoreboardCacheTTL time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		RoundPointValue:    10,
		ScoreboardCacheTTL: 500 * time.Millisecond,
	}
}
