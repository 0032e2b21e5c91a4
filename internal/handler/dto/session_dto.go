package dto

import (
	"time"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
)

// RoundResponse представляет раунд в формате для ответа клиенту.
// CorrectOption присутствует только после раскрытия раунда: до этого
// правильный ответ клиенту не сообщается.
type RoundResponse struct {
	ID            string     `json:"round_id"`
	SessionID     string     `json:"session_id"`
	RoundNumber   int        `json:"round_number"`
	Options       []string   `json:"options"`
	Status        string     `json:"status"`
	CorrectOption *int       `json:"correct_option,omitempty"`
	AudioURL      string     `json:"audio_url,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	RevealedAt    *time.Time `json:"revealed_at,omitempty"`
}

// SessionResponse представляет сессию в формате для ответа клиенту.
// Version позволяет клиентам при поллинге обнаруживать устаревшее состояние.
type SessionResponse struct {
	ID            string          `json:"session_id"`
	TenantID      string          `json:"tenant_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	MediaType     string          `json:"media_type"`
	Status        string          `json:"status"`
	CurrentRound  int             `json:"current_round"`
	RoundCount    int             `json:"round_count"`
	Version       int64           `json:"version"`
	JoinQRPayload string          `json:"join_qr_payload,omitempty"`
	Rounds        []RoundResponse `json:"rounds,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewRoundResponse создает DTO раунда. revealCorrect управляет видимостью
// правильного варианта (true для админа и для раскрытых раундов).
func NewRoundResponse(round *entity.Round, revealCorrect bool) RoundResponse {
	resp := RoundResponse{
		ID:          round.ID,
		SessionID:   round.SessionID,
		RoundNumber: round.RoundNumber,
		Options:     round.Options,
		Status:      round.Status,
		AudioURL:    round.AudioURL,
		ImageURL:    round.ImageURL,
		RevealedAt:  round.RevealedAt,
	}
	if revealCorrect || round.IsRevealed() {
		correct := round.CorrectOption
		resp.CorrectOption = &correct
	}
	return resp
}

// NewSessionResponse создает DTO сессии
func NewSessionResponse(session *entity.QuizSession, revealCorrect bool) SessionResponse {
	resp := SessionResponse{
		ID:            session.ID,
		TenantID:      session.TenantID,
		Title:         session.Title,
		Description:   session.Description,
		MediaType:     session.MediaType,
		Status:        session.Status,
		CurrentRound:  session.CurrentRound,
		RoundCount:    session.RoundCount,
		Version:       session.Version,
		JoinQRPayload: session.JoinQRPayload,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
	for i := range session.Rounds {
		resp.Rounds = append(resp.Rounds, NewRoundResponse(&session.Rounds[i], revealCorrect))
	}
	return resp
}

// NewListSessionResponse создает список DTO сессий
func NewListSessionResponse(sessions []entity.QuizSession) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, NewSessionResponse(&sessions[i], false))
	}
	return responses
}
