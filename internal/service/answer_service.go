package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	"github.com/yourusername/musicquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
	"github.com/yourusername/musicquiz-api/pkg/auth"
)

// AnswerService — граница допуска ответов. Решение принять/отклонить
// принимается по авторитетному состоянию раунда на момент проверки:
// отправка, проигравшая гонку с раскрытием, отклоняется с ErrInvalidState,
// никогда не теряется молча.
type AnswerService struct {
	sessionRepo       repository.SessionRepository
	roundRepo         repository.RoundRepository
	participationRepo repository.ParticipationRepository
	answerRepo        repository.AnswerRepository
}

// NewAnswerService создает новый сервис приема ответов
func NewAnswerService(
	sessionRepo repository.SessionRepository,
	roundRepo repository.RoundRepository,
	participationRepo repository.ParticipationRepository,
	answerRepo repository.AnswerRepository,
) *AnswerService {
	return &AnswerService{
		sessionRepo:       sessionRepo,
		roundRepo:         roundRepo,
		participationRepo: participationRepo,
		answerRepo:        answerRepo,
	}
}

// SubmitAnswer принимает ответ участника на активный раунд. Повторная
// отправка тем же участником в тот же раунд перезаписывает прежний ответ
// (участник передумал до раскрытия) — вторая запись не создается.
func (s *AnswerService) SubmitAnswer(principal auth.Principal, sessionID string, roundNumber, selectedOption int) (*entity.Answer, error) {
	// Только токен пространства участников: админ, тестирующий участника,
	// должен использовать участниковский токен
	if !principal.IsParticipant() {
		return nil, apperrors.ErrUnauthorized
	}

	if selectedOption < 0 || selectedOption >= entity.RoundOptionCount {
		return nil, fmt.Errorf("answer must be between 0 and %d: %w", entity.RoundOptionCount-1, apperrors.ErrValidation)
	}

	session, err := s.sessionRepo.GetByID(principal.TenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("cannot submit answers to a completed session: %w", apperrors.ErrInvalidState)
	}

	participation, err := s.participationRepo.GetBySessionAndParticipant(sessionID, principal.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("participant has not joined this session: %w", err)
	}

	round, err := s.roundRepo.GetBySessionAndNumber(sessionID, roundNumber)
	if err != nil {
		return nil, err
	}
	// Авторитетная проверка состояния на момент допуска: раскрытый раунд
	// не принимает поздние или измененные ответы
	if !round.IsActive() {
		return nil, fmt.Errorf("round %d is not accepting answers: %w", roundNumber, apperrors.ErrInvalidState)
	}

	answer := &entity.Answer{
		ID:              uuid.NewString(),
		TenantID:        participation.TenantID,
		ParticipationID: participation.ID,
		SessionID:       sessionID,
		RoundNumber:     roundNumber,
		SelectedOption:  selectedOption,
		SubmittedAt:     time.Now(),
	}

	if err := s.answerRepo.Upsert(answer); err != nil {
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}
	return answer, nil
}
