package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// Роли, допустимые в claims токена
const (
	TokenRoleTenantAdmin = "tenant_admin"
	TokenRoleSuperAdmin  = "super_admin"
	TokenRoleParticipant = "participant"
)

// QuizClaims содержит пользовательские поля токена. Subject — ID админа или
// участника, Role различает пространства учетных данных, TenantID — тенант
// (пустой у супер-админа).
type QuizClaims struct {
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет токены обоих пространств.
// Оба пространства подписываются одним секретом и различаются claim'ом role:
// админский токен никогда не разрешится в участника и наоборот.
type JWTService struct {
	secret        []byte
	expirationHrs int
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secret string, expirationHrs int) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secret:        []byte(secret),
		expirationHrs: expirationHrs,
	}, nil
}

// GenerateAdminToken выпускает токен админского пространства
func (s *JWTService) GenerateAdminToken(admin *entity.Admin) (string, error) {
	role := TokenRoleTenantAdmin
	if admin.IsSuperAdmin() {
		role = TokenRoleSuperAdmin
	}
	return s.generate(admin.ID, role, admin.TenantID)
}

// GenerateParticipantToken выпускает токен пространства участников
func (s *JWTService) GenerateParticipantToken(participant *entity.Participant) (string, error) {
	return s.generate(participant.ID, TokenRoleParticipant, participant.TenantID)
}

func (s *JWTService) generate(subject, role, tenantID string) (string, error) {
	now := time.Now()
	claims := QuizClaims{
		Role:     role,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expirationHrs) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает claims
func (s *JWTService) ParseToken(tokenString string) (*QuizClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &QuizClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(*QuizClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// ResolvePrincipal разрешает токен в принципал. Порядок разрешения:
// сначала пробуем админское пространство, затем пространство участников;
// токен с неизвестной ролью не разрешается вовсе.
func (s *JWTService) ResolvePrincipal(tokenString string) (Principal, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return Anonymous(), err
	}

	switch claims.Role {
	case TokenRoleTenantAdmin, TokenRoleSuperAdmin:
		return Principal{
			Kind:     PrincipalAdmin,
			AdminID:  claims.Subject,
			TenantID: claims.TenantID,
			Role:     claims.Role,
		}, nil
	case TokenRoleParticipant:
		if claims.TenantID == "" {
			// Токен участника без тенанта невалиден: вся модель данных
			// участников привязана к тенанту.
			return Anonymous(), apperrors.ErrUnauthorized
		}
		return Principal{
			Kind:          PrincipalParticipant,
			ParticipantID: claims.Subject,
			TenantID:      claims.TenantID,
		}, nil
	default:
		return Anonymous(), apperrors.ErrUnauthorized
	}
}
