package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/musicquiz-api/internal/handler/dto"
	"github.com/yourusername/musicquiz-api/internal/middleware"
	"github.com/yourusername/musicquiz-api/internal/service"
)

// ParticipantHandler обрабатывает регистрацию участников, присоединение
// к сессиям, отправку ответов и админское управление участниками
type ParticipantHandler struct {
	participantService *service.ParticipantService
	answerService      *service.AnswerService
}

// NewParticipantHandler создает новый обработчик участников
func NewParticipantHandler(
	participantService *service.ParticipantService,
	answerService *service.AnswerService,
) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		answerService:      answerService,
	}
}

// RegisterRequest представляет запрос на регистрацию участника
type RegisterRequest struct {
	TenantID string `json:"tenant_id" binding:"required,uuid"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Avatar   string `json:"avatar" binding:"omitempty,max=20"`
}

// Register регистрирует участника и выпускает токен пространства участников
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, token, err := h.participantService.Register(req.TenantID, req.Name, req.Avatar)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterParticipantResponse{
		Participant: dto.NewParticipantResponse(participant),
		Token:       token,
	})
}

// GetProfile возвращает профиль участника по его токену
func (h *ParticipantHandler) GetProfile(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	participant, err := h.participantService.GetProfile(principal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// UpdateProfileRequest представляет запрос на обновление профиля
type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"omitempty,min=1,max=100"`
	Avatar string `json:"avatar" binding:"omitempty,max=20"`
}

// UpdateProfile обновляет профиль участника по его токену
func (h *ParticipantHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	participant, err := h.participantService.UpdateProfile(principal, req.Name, req.Avatar)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// JoinSession присоединяет участника к сессии
func (h *ParticipantHandler) JoinSession(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	participation, err := h.participantService.JoinSession(principal, c.Param("sessionId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipationResponse(participation))
}

// SubmitAnswerRequest представляет запрос на отправку ответа.
// Указатели отличают отсутствующее поле от нулевого значения.
type SubmitAnswerRequest struct {
	RoundNumber *int `json:"round_number" binding:"required"`
	Answer      *int `json:"answer" binding:"required"`
}

// SubmitAnswer принимает ответ участника на активный раунд
func (h *ParticipantHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	answer, err := h.answerService.SubmitAnswer(principal, c.Param("sessionId"), *req.RoundNumber, *req.Answer)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"answer_id":       answer.ID,
		"round_number":    answer.RoundNumber,
		"selected_option": answer.SelectedOption,
		"submitted_at":    answer.SubmittedAt,
	})
}

// ListParticipants возвращает участников тенанта (админ)
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	participants, err := h.participantService.ListParticipants(principal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListParticipantResponse(participants))
}

// UpdateParticipant обновляет участника (админ)
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.PrincipalFromContext(c)
	participant, err := h.participantService.UpdateParticipant(principal, c.Param("participantId"), req.Name, req.Avatar)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// DeleteParticipant удаляет участника каскадно и сообщает число удаленных ответов
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	answersRemoved, err := h.participantService.DeleteParticipant(principal, c.Param("participantId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Participant deleted successfully",
		"answers_removed": answersRemoved,
	})
}

// ClearParticipants удаляет всех участников тенанта
func (h *ParticipantHandler) ClearParticipants(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	removed, err := h.participantService.ClearParticipants(principal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "Participants cleared successfully",
		"participants_removed": removed,
	})
}
