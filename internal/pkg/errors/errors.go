package errors

import "errors"

// Общие ошибки приложения. Хендлеры сопоставляют их с HTTP-кодами,
// сервисы и репозитории оборачивают через fmt.Errorf("...: %w", err).
var (
	// ErrNotFound используется, когда запись не найдена или принадлежит чужому тенанту
	// (кросс-тенантный доступ маскируется под 404, чтобы не раскрывать существование ресурса).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется, когда учетные данные отсутствуют или невалидны
	// для требуемого вида принципала.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда токен валиден, но роли недостаточно для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных
	// (например, вариант ответа вне диапазона 0..3).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState используется, когда операция недопустима в текущем состоянии
	// жизненного цикла (ответ на раскрытый раунд, старт раунда в завершенной сессии).
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrConflict используется при несовпадении версии в условном обновлении.
	// Вызывающая сторона должна перечитать состояние и повторить запрос сама.
	ErrConflict = errors.New("version conflict")

	// ErrCapacityExceeded используется при превышении лимита раундов на сессию.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrExpiredToken используется, когда токен истек.
	ErrExpiredToken = errors.New("token is expired")
)
