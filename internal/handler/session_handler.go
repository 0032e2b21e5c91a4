package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/musicquiz-api/internal/handler/dto"
	"github.com/yourusername/musicquiz-api/internal/middleware"
	"github.com/yourusername/musicquiz-api/internal/service"
)

// SessionHandler обрабатывает запросы жизненного цикла сессий и раундов
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// roundNumberParam читает номер раунда из path-параметра
func roundNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("roundNumber"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "round number must be a positive integer"})
		return 0, false
	}
	return n, true
}

// CreateSessionRequest представляет запрос на создание сессии
type CreateSessionRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	MediaType   string `json:"media_type" binding:"omitempty,oneof=audio image none"`
}

// CreateSession обрабатывает запрос на создание сессии
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	session, err := h.sessionService.CreateSession(principal, req.Title, req.Description, req.MediaType)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(session, true))
}

// GetSession возвращает сессию с раундами. Для участников и анонимов
// правильные варианты нераскрытых раундов скрыты.
func (h *SessionHandler) GetSession(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	session, err := h.sessionService.GetSession(principal, c.Param("sessionId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session, principal.IsAdmin()))
}

// ListSessions возвращает сессии тенанта администратора
func (h *SessionHandler) ListSessions(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	sessions, err := h.sessionService.ListSessions(principal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSessionResponse(sessions))
}

// UpdateSessionRequest представляет запрос на обновление сессии
type UpdateSessionRequest struct {
	Title       string `json:"title" binding:"omitempty,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateSession обновляет описательные поля сессии
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	session, err := h.sessionService.UpdateSession(principal, c.Param("sessionId"), req.Title, req.Description)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session, true))
}

// DeleteSession удаляет сессию каскадно
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.sessionService.DeleteSession(principal, c.Param("sessionId")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

// AddRoundRequest представляет запрос на добавление раунда
type AddRoundRequest struct {
	Options       []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectOption *int     `json:"correct_option" binding:"required"`
	AudioURL      string   `json:"audio_url" binding:"omitempty,max=500"`
	ImageURL      string   `json:"image_url" binding:"omitempty,max=500"`
}

// AddRound добавляет раунд к сессии
func (h *SessionHandler) AddRound(c *gin.Context) {
	var req AddRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	round, err := h.sessionService.AddRound(principal, c.Param("sessionId"), service.RoundSpec{
		Options:       req.Options,
		CorrectOption: *req.CorrectOption,
		AudioURL:      req.AudioURL,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRoundResponse(round, true))
}

// DeleteRound удаляет раунд сессии
func (h *SessionHandler) DeleteRound(c *gin.Context) {
	n, ok := roundNumberParam(c)
	if !ok {
		return
	}

	principal := middleware.PrincipalFromContext(c)
	if err := h.sessionService.DeleteRound(principal, c.Param("sessionId"), n); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Round deleted successfully"})
}

// changeSetResponse сериализует полный эффект перехода: сессию и все
// затронутые раунды, включая неявно раскрытые и демотированные
func changeSetResponse(cs *service.ChangeSet) gin.H {
	rounds := make([]dto.RoundResponse, 0, len(cs.Rounds))
	for i := range cs.Rounds {
		rounds = append(rounds, dto.NewRoundResponse(&cs.Rounds[i], true))
	}
	return gin.H{
		"session":        dto.NewSessionResponse(cs.Session, true),
		"changed_rounds": rounds,
	}
}

// StartRound активирует раунд
func (h *SessionHandler) StartRound(c *gin.Context) {
	n, ok := roundNumberParam(c)
	if !ok {
		return
	}

	principal := middleware.PrincipalFromContext(c)
	cs, err := h.sessionService.StartRound(principal, c.Param("sessionId"), n)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, changeSetResponse(cs))
}

// RevealRound раскрывает активный раунд (идемпотентно)
func (h *SessionHandler) RevealRound(c *gin.Context) {
	n, ok := roundNumberParam(c)
	if !ok {
		return
	}

	principal := middleware.PrincipalFromContext(c)
	cs, err := h.sessionService.RevealRound(principal, c.Param("sessionId"), n)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, changeSetResponse(cs))
}

// CompleteSession завершает сессию
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	cs, err := h.sessionService.CompleteSession(principal, c.Param("sessionId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, changeSetResponse(cs))
}
