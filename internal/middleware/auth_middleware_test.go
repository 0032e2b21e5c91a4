package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	"github.com/yourusername/musicquiz-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtService)
	router := gin.New()
	router.Use(m.Resolve())

	router.GET("/public", func(c *gin.Context) {
		p := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"kind": string(p.Kind)})
	})
	router.GET("/admin-only", m.RequireAdmin(), func(c *gin.Context) {
		p := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"admin_id": p.AdminID, "tenant_id": p.TenantID})
	})
	router.GET("/participant-only", m.RequireParticipant(), func(c *gin.Context) {
		p := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"participant_id": p.ParticipantID})
	})
	router.GET("/any", m.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwtService
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	s, _ := body["error_type"].(string)
	return s
}

func adminToken(t *testing.T, jwtService *auth.JWTService) string {
	t.Helper()
	token, err := jwtService.GenerateAdminToken(&entity.Admin{
		ID:       "admin-1",
		TenantID: "tenant-1",
		Role:     entity.AdminRoleTenant,
	})
	require.NoError(t, err)
	return token
}

func participantToken(t *testing.T, jwtService *auth.JWTService) string {
	t.Helper()
	token, err := jwtService.GenerateParticipantToken(&entity.Participant{
		ID:       "player-1",
		TenantID: "tenant-1",
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_PublicRouteWithoutToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "/public", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestAuthMiddleware_PublicRouteWithGarbageToken(t *testing.T) {
	router, _ := newTestRouter(t)

	// Невалидный токен не ломает публичный маршрут — принципал анонимный
	w := doRequest(router, "/public", "not-a-jwt")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestAuthMiddleware_AdminTokenOnAdminRoute(t *testing.T) {
	router, jwtService := newTestRouter(t)

	w := doRequest(router, "/admin-only", adminToken(t, jwtService))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin-1")
	assert.Contains(t, w.Body.String(), "tenant-1")
}

func TestAuthMiddleware_MissingTokenOnAdminRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "/admin-only", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "admin_token_missing", errorType(t, w))
}

func TestAuthMiddleware_ParticipantTokenOnAdminRoute(t *testing.T) {
	router, jwtService := newTestRouter(t)

	// Токен чужого пространства: отказ называет админское пространство,
	// участниковский токен клиента сбрасывать не нужно
	w := doRequest(router, "/admin-only", participantToken(t, jwtService))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "admin_token_invalid", errorType(t, w))
}

func TestAuthMiddleware_AdminTokenOnParticipantRoute(t *testing.T) {
	router, jwtService := newTestRouter(t)

	w := doRequest(router, "/participant-only", adminToken(t, jwtService))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "participant_token_invalid", errorType(t, w))
}

func TestAuthMiddleware_ParticipantTokenOnParticipantRoute(t *testing.T) {
	router, jwtService := newTestRouter(t)

	w := doRequest(router, "/participant-only", participantToken(t, jwtService))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "player-1")
}

func TestAuthMiddleware_RequireAuthAcceptsBothSpaces(t *testing.T) {
	router, jwtService := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(router, "/any", adminToken(t, jwtService)).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "/any", participantToken(t, jwtService)).Code)

	w := doRequest(router, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_missing", errorType(t, w))
}

func TestAuthMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "admin_token_missing", errorType(t, w))
}
