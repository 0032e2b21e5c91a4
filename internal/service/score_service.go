package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	"github.com/yourusername/musicquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
	"github.com/yourusername/musicquiz-api/pkg/auth"
)

// ScoreboardEntry — одна строка таблицы лидеров
type ScoreboardEntry struct {
	ParticipationID string    `json:"participation_id"`
	ParticipantID   string    `json:"participant_id"`
	Name            string    `json:"name"`
	Avatar          string    `json:"avatar"`
	TotalPoints     int       `json:"total_points"`
	CorrectAnswers  int       `json:"correct_answers"`
	Rank            int       `json:"rank"`
	IsLeader        bool      `json:"is_leader"`
	JoinedAt        time.Time `json:"joined_at"`
}

// Scoreboard — упорядоченная таблица лидеров сессии
type Scoreboard struct {
	SessionID      string            `json:"session_id"`
	SessionVersion int64             `json:"session_version"`
	Entries        []ScoreboardEntry `json:"entries"`
}

// ScoreService начисляет очки при раскрытии раунда и строит таблицу лидеров.
// Начисление выполняется ровно один раз на переход active → revealed;
// повторные раскрытия и демоции учитываются через awarded_points на ответах.
type ScoreService struct {
	sessionRepo       repository.SessionRepository
	participantRepo   repository.ParticipantRepository
	participationRepo repository.ParticipationRepository
	answerRepo        repository.AnswerRepository
	cacheRepo         repository.CacheRepository
	config            *Config
}

// NewScoreService создает новый сервис подсчета очков
func NewScoreService(
	sessionRepo repository.SessionRepository,
	participantRepo repository.ParticipantRepository,
	participationRepo repository.ParticipationRepository,
	answerRepo repository.AnswerRepository,
	cacheRepo repository.CacheRepository,
	config *Config,
) *ScoreService {
	if config == nil {
		config = DefaultConfig()
	}
	return &ScoreService{
		sessionRepo:       sessionRepo,
		participantRepo:   participantRepo,
		participationRepo: participationRepo,
		answerRepo:        answerRepo,
		cacheRepo:         cacheRepo,
		config:            config,
	}
}

func scoreboardCacheKey(sessionID string) string {
	return "scoreboard:" + sessionID
}

// ScoreRound начисляет очки за раскрытый раунд: каждому участию, чей
// сохраненный ответ совпал с правильным вариантом, — фиксированная прибавка
// и инкремент счетчика правильных ответов. Участники без ответа не штрафуются.
// Инкременты по разным участиям коммутативны и применяются независимо.
func (s *ScoreService) ScoreRound(session *entity.QuizSession, round *entity.Round) error {
	answers, err := s.answerRepo.ListBySessionRound(session.ID, round.RoundNumber)
	if err != nil {
		return fmt.Errorf("failed to load answers for round %d: %w", round.RoundNumber, err)
	}

	points := s.config.RoundPointValue
	for i := range answers {
		a := answers[i]
		if a.AwardedPoints > 0 {
			// Уже начислено — защита от повторного начисления
			continue
		}
		if !round.IsCorrect(a.SelectedOption) {
			continue
		}
		if err := s.participationRepo.ApplyScoreDelta(a.ParticipationID, points, 1); err != nil {
			return fmt.Errorf("failed to award points to participation %s: %w", a.ParticipationID, err)
		}
		if err := s.answerRepo.MarkAwarded(a.ID, true, points); err != nil {
			return fmt.Errorf("failed to mark answer %s awarded: %w", a.ID, err)
		}
	}

	s.InvalidateScoreboard(session.ID)
	return nil
}

// RevokeRounds отзывает начисления по демотированным раундам: сумма очков
// участия всегда равна сумме по раскрытым в данный момент раундам.
func (s *ScoreService) RevokeRounds(sessionID string, roundNumbers []int) error {
	revoked, err := s.answerRepo.RevokeAwardsBySessionRounds(sessionID, roundNumbers)
	if err != nil {
		return fmt.Errorf("failed to revoke awards: %w", err)
	}

	for i := range revoked {
		a := revoked[i]
		if a.AwardedPoints <= 0 {
			continue
		}
		if err := s.participationRepo.ApplyScoreDelta(a.ParticipationID, -a.AwardedPoints, -1); err != nil {
			return fmt.Errorf("failed to deduct points from participation %s: %w", a.ParticipationID, err)
		}
	}

	s.InvalidateScoreboard(sessionID)
	return nil
}

// GetScoreboard возвращает таблицу лидеров сессии. Порядок детерминирован:
// очки по убыванию, при равенстве — раньше присоединившийся выше; первая
// строка помечена лидером. Результат кешируется с коротким TTL.
func (s *ScoreService) GetScoreboard(principal auth.Principal, sessionID string) (*Scoreboard, error) {
	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return nil, err
	}

	var cached Scoreboard
	if err := s.cacheRepo.GetJSON(scoreboardCacheKey(sessionID), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		// Redis недоступен — строим из базы, кеш не критичен
		log.Printf("[ScoreService] Ошибка чтения кеша scoreboard для сессии %s: %v", sessionID, err)
	}

	participations, err := s.participationRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	board := &Scoreboard{
		SessionID:      sessionID,
		SessionVersion: session.Version,
		Entries:        make([]ScoreboardEntry, 0, len(participations)),
	}

	for i := range participations {
		p := participations[i]
		entry := ScoreboardEntry{
			ParticipationID: p.ID,
			ParticipantID:   p.ParticipantID,
			Name:            "Unknown",
			Avatar:          "😀",
			TotalPoints:     p.TotalPoints,
			CorrectAnswers:  p.CorrectAnswers,
			Rank:            i + 1,
			IsLeader:        i == 0,
			JoinedAt:        p.JoinedAt,
		}
		participant, err := s.participantRepo.GetByID(session.TenantID, p.ParticipantID)
		if err == nil {
			entry.Name = participant.Name
			entry.Avatar = participant.Avatar
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		board.Entries = append(board.Entries, entry)
	}

	if err := s.cacheRepo.SetJSON(scoreboardCacheKey(sessionID), board, s.config.ScoreboardCacheTTL); err != nil {
		log.Printf("[ScoreService] Ошибка записи кеша scoreboard для сессии %s: %v", sessionID, err)
	}
	return board, nil
}

// ResetPoints обнуляет очки и счетчики правильных ответов всех участий сессии,
// не удаляя ни ответы, ни участников (повторное судейство после исправления).
func (s *ScoreService) ResetPoints(principal auth.Principal, sessionID string) error {
	if !principal.IsAdmin() {
		return apperrors.ErrUnauthorized
	}

	if _, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID); err != nil {
		return err
	}

	if err := s.participationRepo.ResetBySession(sessionID); err != nil {
		return fmt.Errorf("failed to reset participation scores: %w", err)
	}
	if err := s.answerRepo.ZeroAwardsBySession(sessionID); err != nil {
		return fmt.Errorf("failed to zero answer awards: %w", err)
	}

	s.InvalidateScoreboard(sessionID)
	return nil
}

// InvalidateScoreboard сбрасывает кеш таблицы лидеров сессии
func (s *ScoreService) InvalidateScoreboard(sessionID string) {
	if err := s.cacheRepo.Delete(scoreboardCacheKey(sessionID)); err != nil {
		log.Printf("[ScoreService] Ошибка инвалидации кеша scoreboard для сессии %s: %v", sessionID, err)
	}
}
