package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисов.
// Реализуют интерфейсы из internal/domain/repository.
// ============================================================================

// MockSessionRepository реализует repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(session *entity.QuizSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(tenantID, id string) (*entity.QuizSession, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizSession), args.Error(1)
}

func (m *MockSessionRepository) GetWithRounds(tenantID, id string) (*entity.QuizSession, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizSession), args.Error(1)
}

func (m *MockSessionRepository) ListByTenant(tenantID string) ([]entity.QuizSession, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuizSession), args.Error(1)
}

func (m *MockSessionRepository) UpdateInfo(id string, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateStateVersioned(session *entity.QuizSession, expectedVersion int64) error {
	args := m.Called(session, expectedVersion)
	return args.Error(0)
}

func (m *MockSessionRepository) IncrementRoundCount(id string, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(tenantID, id string) error {
	args := m.Called(tenantID, id)
	return args.Error(0)
}

// MockRoundRepository реализует repository.RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Create(round *entity.Round) error {
	args := m.Called(round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetBySessionAndNumber(sessionID string, roundNumber int) (*entity.Round, error) {
	args := m.Called(sessionID, roundNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Round), args.Error(1)
}

func (m *MockRoundRepository) ListBySession(sessionID string) ([]entity.Round, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Round), args.Error(1)
}

func (m *MockRoundRepository) UpdateStatuses(rounds []entity.Round) error {
	args := m.Called(rounds)
	return args.Error(0)
}

func (m *MockRoundRepository) Delete(sessionID string, roundNumber int) error {
	args := m.Called(sessionID, roundNumber)
	return args.Error(0)
}

// MockTenantRepository реализует repository.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(tenant *entity.Tenant) error {
	args := m.Called(tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(id string) (*entity.Tenant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) List() ([]entity.Tenant, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(tenant *entity.Tenant) error {
	args := m.Called(tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockAdminRepository реализует repository.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(admin *entity.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByID(id string) (*entity.Admin, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(email string) (*entity.Admin, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

func (m *MockAdminRepository) ListByTenant(tenantID string) ([]entity.Admin, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Admin), args.Error(1)
}

func (m *MockAdminRepository) Update(admin *entity.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockParticipantRepository реализует repository.ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) GetByID(tenantID, id string) (*entity.Participant, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListByTenant(tenantID string) ([]entity.Participant, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Update(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) DeleteCascade(tenantID, id string) (int64, error) {
	args := m.Called(tenantID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParticipantRepository) DeleteAllByTenant(tenantID string) (int64, error) {
	args := m.Called(tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockParticipationRepository реализует repository.ParticipationRepository
type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) Create(participation *entity.SessionParticipation) error {
	args := m.Called(participation)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetBySessionAndParticipant(sessionID, participantID string) (*entity.SessionParticipation, error) {
	args := m.Called(sessionID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SessionParticipation), args.Error(1)
}

func (m *MockParticipationRepository) ListBySession(sessionID string) ([]entity.SessionParticipation, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SessionParticipation), args.Error(1)
}

func (m *MockParticipationRepository) ApplyScoreDelta(participationID string, pointsDelta, correctDelta int) error {
	args := m.Called(participationID, pointsDelta, correctDelta)
	return args.Error(0)
}

func (m *MockParticipationRepository) ResetBySession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

// MockAnswerRepository реализует repository.AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Upsert(answer *entity.Answer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetByParticipationAndRound(participationID string, roundNumber int) (*entity.Answer, error) {
	args := m.Called(participationID, roundNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) ListBySessionRound(sessionID string, roundNumber int) ([]entity.Answer, error) {
	args := m.Called(sessionID, roundNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) ListByParticipation(participationID string) ([]entity.Answer, error) {
	args := m.Called(participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) MarkAwarded(answerID string, isCorrect bool, awardedPoints int) error {
	args := m.Called(answerID, isCorrect, awardedPoints)
	return args.Error(0)
}

func (m *MockAnswerRepository) RevokeAwardsBySessionRounds(sessionID string, roundNumbers []int) ([]entity.Answer, error) {
	args := m.Called(sessionID, roundNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) ZeroAwardsBySession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}
