package dto

import (
	"time"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
)

// ParticipantResponse представляет участника в формате для ответа клиенту
type ParticipantResponse struct {
	ID        string    `json:"participant_id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterParticipantResponse — ответ на регистрацию: профиль + токен
// пространства участников
type RegisterParticipantResponse struct {
	Participant ParticipantResponse `json:"participant"`
	Token       string              `json:"token"`
}

// ParticipationResponse представляет участие в сессии
type ParticipationResponse struct {
	ID             string    `json:"participation_id"`
	SessionID      string    `json:"session_id"`
	ParticipantID  string    `json:"participant_id"`
	TotalPoints    int       `json:"total_points"`
	CorrectAnswers int       `json:"correct_answers"`
	JoinedAt       time.Time `json:"joined_at"`
}

// NewParticipantResponse создает DTO участника
func NewParticipantResponse(p *entity.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		CreatedAt: p.CreatedAt,
	}
}

// NewListParticipantResponse создает список DTO участников
func NewListParticipantResponse(participants []entity.Participant) []ParticipantResponse {
	responses := make([]ParticipantResponse, 0, len(participants))
	for i := range participants {
		responses = append(responses, NewParticipantResponse(&participants[i]))
	}
	return responses
}

// NewParticipationResponse создает DTO участия
func NewParticipationResponse(p *entity.SessionParticipation) ParticipationResponse {
	return ParticipationResponse{
		ID:             p.ID,
		SessionID:      p.SessionID,
		ParticipantID:  p.ParticipantID,
		TotalPoints:    p.TotalPoints,
		CorrectAnswers: p.CorrectAnswers,
		JoinedAt:       p.JoinedAt,
	}
}
