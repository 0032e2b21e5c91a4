package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

type answerServiceMocks struct {
	sessionRepo       *MockSessionRepository
	roundRepo         *MockRoundRepository
	participationRepo *MockParticipationRepository
	answerRepo        *MockAnswerRepository
}

func newTestAnswerService() (*AnswerService, *answerServiceMocks) {
	m := &answerServiceMocks{
		sessionRepo:       new(MockSessionRepository),
		roundRepo:         new(MockRoundRepository),
		participationRepo: new(MockParticipationRepository),
		answerRepo:        new(MockAnswerRepository),
	}
	return NewAnswerService(m.sessionRepo, m.roundRepo, m.participationRepo, m.answerRepo), m
}

func testParticipation() *entity.SessionParticipation {
	return &entity.SessionParticipation{
		ID:            "part-1",
		TenantID:      "tenant-1",
		SessionID:     "session-1",
		ParticipantID: "player-1",
		JoinedAt:      time.Now(),
	}
}

func TestAnswerService_SubmitAnswer_Success(t *testing.T) {
	svc, m := newTestAnswerService()
	m.sessionRepo.On("GetByID", "tenant-1", "session-1").
		Return(testSession(entity.SessionStatusActive, 1, 1), nil)
	m.participationRepo.On("GetBySessionAndParticipant", "session-1", "player-1").
		Return(testParticipation(), nil)
	active := testRound(1, entity.RoundStatusActive)
	m.roundRepo.On("GetBySessionAndNumber", "session-1", 1).Return(&active, nil)

	var stored *entity.Answer
	m.answerRepo.On("Upsert", mock.AnythingOfType("*entity.Answer")).
		Run(func(args mock.Arguments) { stored = args.Get(0).(*entity.Answer) }).
		Return(nil)

	answer, err := svc.SubmitAnswer(participantPrincipal("tenant-1", "player-1"), "session-1", 1, 2)

	require.NoError(t, err)
	assert.Equal(t, "part-1", answer.ParticipationID)
	assert.Equal(t, 2, answer.SelectedOption)
	assert.Equal(t, 1, answer.RoundNumber)
	require.NotNil(t, stored)
	// Начисление происходит только при раскрытии, не при отправке
	assert.Zero(t, stored.AwardedPoints)
	assert.False(t, stored.IsCorrect)
}

func TestAnswerService_SubmitAnswer_AdminTokenRejected(t *testing.T) {
	svc, m := newTestAnswerService()

	// Админский токен не допускается к отправке ответов
	_, err := svc.SubmitAnswer(adminPrincipal("tenant-1"), "session-1", 1, 0)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	m.answerRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestAnswerService_SubmitAnswer_OptionOutOfRange(t *testing.T) {
	svc, m := newTestAnswerService()

	_, err := svc.SubmitAnswer(participantPrincipal("tenant-1", "player-1"), "session-1", 1, 4)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.sessionRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAnswerService_SubmitAnswer_RevealedRoundRejected(t *testing.T) {
	svc, m := newTestAnswerService()
	m.sessionRepo.On("GetByID", "tenant-1", "session-1").
		Return(testSession(entity.SessionStatusActive, 1, 2), nil)
	m.participationRepo.On("GetBySessionAndParticipant", "session-1", "player-1").
		Return(testParticipation(), nil)
	revealed := testRound(1, entity.RoundStatusRevealed)
	m.roundRepo.On("GetBySessionAndNumber", "session-1", 1).Return(&revealed, nil)

	_, err := svc.SubmitAnswer(participantPrincipal("tenant-1", "player-1"), "session-1", 1, 2)

	// Опоздавшая отправка отклоняется явно, а не теряется молча
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	m.answerRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestAnswerService_SubmitAnswer_PendingRoundRejected(t *testing.T) {
	svc, m := newTestAnswerService()
	m.sessionRepo.On("GetByID", "tenant-1", "session-1").
		Return(testSession(entity.SessionStatusActive, 1, 1), nil)
	m.participationRepo.On("GetBySessionAndParticipant", "session-1", "player-1").
		Return(testParticipation(), nil)
	pending := testRound(2, entity.RoundStatusPending)
	m.roundRepo.On("GetBySessionAndNumber", "session-1", 2).Return(&pending, nil)

	_, err := svc.SubmitAnswer(participantPrincipal("tenant-1", "player-1"), "session-1", 2, 0)

	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestAnswerService_SubmitAnswer_CompletedSessionRejected(t *testing.T) {
	svc, m := newTestAnswerService()
	m.sessionRepo.On("GetByID", "tenant-1", "session-1").
		Return(testSession(entity.SessionStatusCompleted, 3, 7), nil)

	_, err := svc.SubmitAnswer(participantPrincipal("tenant-1", "player-1"), "session-1", 3, 1)

	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	m.roundRepo.AssertNotCalled(t, "GetBySessionAndNumber", mock.Anything, mock.Anything)
}

func TestAnswerService_SubmitAnswer_NotJoined(t *testing.T) {
	svc, m := newTestAnswerService()
	m.sessionRepo.On("GetByID", "tenant-1", "session-1").
		Return(testSession(entity.SessionStatusActive, 1, 1), nil)
	m.participationRepo.On("GetBySessionAndParticipant", "session-1", "player-1").
		Return(nil, apperrors.ErrNotFound)

	_, err := svc.SubmitAnswer(participantPrincipal("tenant-1", "player-1"), "session-1", 1, 1)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.answerRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}
