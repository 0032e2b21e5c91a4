package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
	"github.com/yourusername/musicquiz-api/pkg/auth"
)

// PrincipalKey — ключ контекста gin, под которым лежит разрешенный принципал
const PrincipalKey = "principal"

// AuthMiddleware разрешает учетные данные запроса в принципал.
// Одна поверхность API обслуживает два непересекающихся пространства токенов
// (админы и участники); оба токена могут сосуществовать в одном клиенте,
// поэтому отказ всегда называет через error_type ровно то пространство,
// которое не прошло: клиент сбрасывает только его и не трогает второе.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// bearerToken извлекает токен из заголовка Authorization: Bearer {token}.
// Второе возвращаемое значение — false, если заголовок отсутствует или кривой.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Resolve разрешает принципал один раз на запрос и кладет его в контекст.
// Сам по себе ничего не отклоняет — это делают Require*-обертки ниже.
// Невалидный токен дает анонимный принципал (публичные маршруты работают).
func (m *AuthMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := auth.Anonymous()
		if token, ok := bearerToken(c); ok {
			if p, err := m.jwtService.ResolvePrincipal(token); err == nil {
				principal = p
			} else if errors.Is(err, apperrors.ErrExpiredToken) {
				c.Set("token_expired", true)
			}
		}
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// PrincipalFromContext возвращает разрешенный принципал запроса
func PrincipalFromContext(c *gin.Context) auth.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Anonymous()
}

// RequireAdmin пропускает только админское пространство учетных данных.
// error_type всегда начинается с "admin_token_": участниковский токен
// клиента при отказе не сбрасывается.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal.IsAdmin() {
			c.Next()
			return
		}

		errType := "admin_token_missing"
		if _, hasToken := bearerToken(c); hasToken {
			// Токен был, но не разрешился в админа: чужое пространство,
			// просроченный или невалидный — для админского пространства
			// это одно и то же
			errType = "admin_token_invalid"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin authentication required", "error_type": errType})
		c.Abort()
	}
}

// RequireParticipant пропускает только пространство участников.
// error_type всегда начинается с "participant_token_": админский токен
// клиента при отказе не сбрасывается (админ, проверяющий участниковский
// флоу в той же сессии, не разлогинивается как админ).
func (m *AuthMiddleware) RequireParticipant() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal.IsParticipant() {
			c.Next()
			return
		}

		errType := "participant_token_missing"
		if _, hasToken := bearerToken(c); hasToken {
			errType = "participant_token_invalid"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Participant authentication required", "error_type": errType})
		c.Abort()
	}
}

// RequireAuth пропускает любой аутентифицированный принципал (admin или participant)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal.IsAdmin() || principal.IsParticipant() {
			c.Next()
			return
		}

		errType := "token_missing"
		if _, hasToken := bearerToken(c); hasToken {
			errType = "token_invalid"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": errType})
		c.Abort()
	}
}
