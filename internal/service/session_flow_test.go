package service

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
)

// ============================================================================
// Сценарные тесты: реальная связка SessionService/ScoreService/AnswerService
// поверх общего хранилища в памяти. Мок-тесты проверяют отдельные вызовы,
// здесь проверяются сквозные эффекты последовательностей переходов.
// ============================================================================

type answerKey struct {
	participationID string
	roundNumber     int
}

type memStore struct {
	session        *entity.QuizSession
	rounds         map[int]*entity.Round
	participants   map[string]*entity.Participant
	participations map[string]*entity.SessionParticipation
	answers        map[answerKey]*entity.Answer
}

func newMemStore(session *entity.QuizSession) *memStore {
	return &memStore{
		session:        session,
		rounds:         map[int]*entity.Round{},
		participants:   map[string]*entity.Participant{},
		participations: map[string]*entity.SessionParticipation{},
		answers:        map[answerKey]*entity.Answer{},
	}
}

func (s *memStore) sortedRounds() []entity.Round {
	rounds := make([]entity.Round, 0, len(s.rounds))
	for _, r := range s.rounds {
		rounds = append(rounds, *r)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	return rounds
}

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(session *entity.QuizSession) error {
	copied := *session
	r.store.session = &copied
	return nil
}

func (r *memSessionRepo) GetByID(tenantID, id string) (*entity.QuizSession, error) {
	s := r.store.session
	if s == nil || s.ID != id || (tenantID != "" && s.TenantID != tenantID) {
		return nil, apperrors.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) GetWithRounds(tenantID, id string) (*entity.QuizSession, error) {
	session, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	session.Rounds = r.store.sortedRounds()
	return session, nil
}

func (r *memSessionRepo) ListByTenant(tenantID string) ([]entity.QuizSession, error) {
	if r.store.session == nil {
		return nil, nil
	}
	return []entity.QuizSession{*r.store.session}, nil
}

func (r *memSessionRepo) UpdateInfo(id string, updates map[string]interface{}) error {
	return nil
}

func (r *memSessionRepo) UpdateStateVersioned(session *entity.QuizSession, expectedVersion int64) error {
	s := r.store.session
	if s == nil || s.ID != session.ID {
		return apperrors.ErrNotFound
	}
	if s.Version != expectedVersion {
		return apperrors.ErrConflict
	}
	copied := *session
	r.store.session = &copied
	return nil
}

func (r *memSessionRepo) IncrementRoundCount(id string, delta int) error {
	r.store.session.RoundCount += delta
	return nil
}

func (r *memSessionRepo) Delete(tenantID, id string) error {
	r.store.session = nil
	return nil
}

type memRoundRepo struct{ store *memStore }

func (r *memRoundRepo) Create(round *entity.Round) error {
	copied := *round
	r.store.rounds[round.RoundNumber] = &copied
	return nil
}

func (r *memRoundRepo) GetBySessionAndNumber(sessionID string, roundNumber int) (*entity.Round, error) {
	round, ok := r.store.rounds[roundNumber]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *round
	return &copied, nil
}

func (r *memRoundRepo) ListBySession(sessionID string) ([]entity.Round, error) {
	return r.store.sortedRounds(), nil
}

func (r *memRoundRepo) UpdateStatuses(rounds []entity.Round) error {
	for i := range rounds {
		stored, ok := r.store.rounds[rounds[i].RoundNumber]
		if !ok {
			return apperrors.ErrNotFound
		}
		stored.Status = rounds[i].Status
		stored.RevealedAt = rounds[i].RevealedAt
	}
	return nil
}

func (r *memRoundRepo) Delete(sessionID string, roundNumber int) error {
	if _, ok := r.store.rounds[roundNumber]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.rounds, roundNumber)
	return nil
}

type memParticipantRepo struct{ store *memStore }

func (r *memParticipantRepo) Create(p *entity.Participant) error {
	copied := *p
	r.store.participants[p.ID] = &copied
	return nil
}

func (r *memParticipantRepo) GetByID(tenantID, id string) (*entity.Participant, error) {
	p, ok := r.store.participants[id]
	if !ok || (tenantID != "" && p.TenantID != tenantID) {
		return nil, apperrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memParticipantRepo) ListByTenant(tenantID string) ([]entity.Participant, error) {
	var out []entity.Participant
	for _, p := range r.store.participants {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memParticipantRepo) Update(p *entity.Participant) error {
	copied := *p
	r.store.participants[p.ID] = &copied
	return nil
}

func (r *memParticipantRepo) DeleteCascade(tenantID, id string) (int64, error) {
	delete(r.store.participants, id)
	return 0, nil
}

func (r *memParticipantRepo) DeleteAllByTenant(tenantID string) (int64, error) {
	n := int64(len(r.store.participants))
	r.store.participants = map[string]*entity.Participant{}
	return n, nil
}

type memParticipationRepo struct{ store *memStore }

func (r *memParticipationRepo) Create(p *entity.SessionParticipation) error {
	for _, existing := range r.store.participations {
		if existing.SessionID == p.SessionID && existing.ParticipantID == p.ParticipantID {
			return apperrors.ErrConflict
		}
	}
	copied := *p
	r.store.participations[p.ID] = &copied
	return nil
}

func (r *memParticipationRepo) GetBySessionAndParticipant(sessionID, participantID string) (*entity.SessionParticipation, error) {
	for _, p := range r.store.participations {
		if p.SessionID == sessionID && p.ParticipantID == participantID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memParticipationRepo) ListBySession(sessionID string) ([]entity.SessionParticipation, error) {
	var out []entity.SessionParticipation
	for _, p := range r.store.participations {
		if p.SessionID == sessionID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (r *memParticipationRepo) ApplyScoreDelta(participationID string, pointsDelta, correctDelta int) error {
	p, ok := r.store.participations[participationID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.TotalPoints += pointsDelta
	p.CorrectAnswers += correctDelta
	return nil
}

func (r *memParticipationRepo) ResetBySession(sessionID string) error {
	for _, p := range r.store.participations {
		if p.SessionID == sessionID {
			p.TotalPoints = 0
			p.CorrectAnswers = 0
		}
	}
	return nil
}

type memAnswerRepo struct{ store *memStore }

func (r *memAnswerRepo) Upsert(answer *entity.Answer) error {
	key := answerKey{answer.ParticipationID, answer.RoundNumber}
	if existing, ok := r.store.answers[key]; ok {
		existing.SelectedOption = answer.SelectedOption
		existing.SubmittedAt = answer.SubmittedAt
		existing.IsCorrect = false
		existing.AwardedPoints = 0
		return nil
	}
	copied := *answer
	r.store.answers[key] = &copied
	return nil
}

func (r *memAnswerRepo) GetByParticipationAndRound(participationID string, roundNumber int) (*entity.Answer, error) {
	a, ok := r.store.answers[answerKey{participationID, roundNumber}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memAnswerRepo) ListBySessionRound(sessionID string, roundNumber int) ([]entity.Answer, error) {
	var out []entity.Answer
	for _, a := range r.store.answers {
		if a.SessionID == sessionID && a.RoundNumber == roundNumber {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAnswerRepo) ListByParticipation(participationID string) ([]entity.Answer, error) {
	var out []entity.Answer
	for _, a := range r.store.answers {
		if a.ParticipationID == participationID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAnswerRepo) MarkAwarded(answerID string, isCorrect bool, awardedPoints int) error {
	for _, a := range r.store.answers {
		if a.ID == answerID {
			a.IsCorrect = isCorrect
			a.AwardedPoints = awardedPoints
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *memAnswerRepo) RevokeAwardsBySessionRounds(sessionID string, roundNumbers []int) ([]entity.Answer, error) {
	numbers := map[int]bool{}
	for _, n := range roundNumbers {
		numbers[n] = true
	}
	var revoked []entity.Answer
	for _, a := range r.store.answers {
		if a.SessionID == sessionID && numbers[a.RoundNumber] {
			revoked = append(revoked, *a)
			a.IsCorrect = false
			a.AwardedPoints = 0
		}
	}
	return revoked, nil
}

func (r *memAnswerRepo) ZeroAwardsBySession(sessionID string) error {
	for _, a := range r.store.answers {
		if a.SessionID == sessionID {
			a.IsCorrect = false
			a.AwardedPoints = 0
		}
	}
	return nil
}

type memCacheRepo struct{}

func (r *memCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (r *memCacheRepo) GetJSON(key string, dest interface{}) error { return apperrors.ErrNotFound }

func (r *memCacheRepo) Delete(key string) error { return nil }

type flowFixture struct {
	store          *memStore
	sessionService *SessionService
	answerService  *AnswerService
	scoreService   *ScoreService
}

func newFlowFixture(roundCount int) *flowFixture {
	store := newMemStore(&entity.QuizSession{
		ID:         "session-1",
		TenantID:   "tenant-1",
		Title:      "Угадай мелодию",
		MediaType:  entity.SessionMediaAudio,
		Status:     entity.SessionStatusDraft,
		RoundCount: roundCount,
	})
	for n := 1; n <= roundCount; n++ {
		r := testRound(n, entity.RoundStatusPending)
		store.rounds[n] = &r
	}

	sessionRepo := &memSessionRepo{store}
	roundRepo := &memRoundRepo{store}
	participantRepo := &memParticipantRepo{store}
	participationRepo := &memParticipationRepo{store}
	answerRepo := &memAnswerRepo{store}
	cacheRepo := &memCacheRepo{}

	scoreService := NewScoreService(sessionRepo, participantRepo, participationRepo, answerRepo, cacheRepo, DefaultConfig())
	return &flowFixture{
		store:          store,
		sessionService: NewSessionService(sessionRepo, roundRepo, scoreService),
		answerService:  NewAnswerService(sessionRepo, roundRepo, participationRepo, answerRepo),
		scoreService:   scoreService,
	}
}

func (f *flowFixture) addParticipation(participantID string, joinedAt time.Time) {
	f.store.participants[participantID] = &entity.Participant{
		ID:       participantID,
		TenantID: "tenant-1",
		Name:     "Участник " + participantID,
		Avatar:   "😀",
	}
	f.store.participations["part-"+participantID] = &entity.SessionParticipation{
		ID:            "part-" + participantID,
		TenantID:      "tenant-1",
		SessionID:     "session-1",
		ParticipantID: participantID,
		JoinedAt:      joinedAt,
	}
}

// Сквозной сценарий участника: правильный ответ, неправильный ответ,
// пропущенный раунд. Итог — ровно одно начисление и один правильный ответ.
func TestSessionFlow_CorrectIncorrectSkipScenario(t *testing.T) {
	f := newFlowFixture(3)
	f.addParticipation("p-1", time.Now())
	admin := adminPrincipal("tenant-1")
	player := participantPrincipal("tenant-1", "p-1")

	// Раунд 1: правильный ответ (correct_option = 1)
	_, err := f.sessionService.StartRound(admin, "session-1", 1)
	require.NoError(t, err)
	_, err = f.answerService.SubmitAnswer(player, "session-1", 1, 1)
	require.NoError(t, err)
	_, err = f.sessionService.RevealRound(admin, "session-1", 1)
	require.NoError(t, err)

	// Раунд 2: неправильный ответ
	_, err = f.sessionService.StartRound(admin, "session-1", 2)
	require.NoError(t, err)
	_, err = f.answerService.SubmitAnswer(player, "session-1", 2, 3)
	require.NoError(t, err)
	_, err = f.sessionService.RevealRound(admin, "session-1", 2)
	require.NoError(t, err)

	// Раунд 3: участник не отвечает, сессия завершается с принудительным раскрытием
	_, err = f.sessionService.StartRound(admin, "session-1", 3)
	require.NoError(t, err)
	_, err = f.sessionService.CompleteSession(admin, "session-1")
	require.NoError(t, err)

	board, err := f.scoreService.GetScoreboard(admin, "session-1")
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 10, board.Entries[0].TotalPoints)
	assert.Equal(t, 1, board.Entries[0].CorrectAnswers)
	assert.True(t, board.Entries[0].IsLeader)

	// Повторное раскрытие после завершения ничего не дочисляет
	_, err = f.sessionService.RevealRound(admin, "session-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 10, f.store.participations["part-p-1"].TotalPoints)
}

// Случайная последовательность стартов и раскрытий: после каждой операции
// активен не более чем один раунд, а счет участия равен сумме начислений
// по раскрытым в данный момент раундам.
func TestSessionFlow_RandomizedTransitionsKeepSingleActiveRound(t *testing.T) {
	f := newFlowFixture(5)
	f.addParticipation("p-1", time.Now())
	admin := adminPrincipal("tenant-1")
	player := participantPrincipal("tenant-1", "p-1")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		n := rng.Intn(5) + 1
		switch rng.Intn(3) {
		case 0:
			_, _ = f.sessionService.StartRound(admin, "session-1", n)
		case 1:
			_, _ = f.sessionService.RevealRound(admin, "session-1", n)
		case 2:
			// Правильный ответ принимается только в активном раунде
			_, _ = f.answerService.SubmitAnswer(player, "session-1", n, 1)
		}

		active := 0
		awarded := 0
		for _, r := range f.store.rounds {
			if r.IsActive() {
				active++
			}
			if r.IsRevealed() {
				if a, ok := f.store.answers[answerKey{"part-p-1", r.RoundNumber}]; ok {
					awarded += a.AwardedPoints
				}
			}
		}
		require.LessOrEqual(t, active, 1, "итерация %d: активных раундов больше одного", i)
		require.Equal(t, awarded, f.store.participations["part-p-1"].TotalPoints,
			"итерация %d: счет не равен сумме по раскрытым раундам", i)
	}
}
