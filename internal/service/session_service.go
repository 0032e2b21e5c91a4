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

// ChangeSet — полный набор сущностей, измененных одним переходом состояния.
// Неявные переходы (авто-раскрытие при старте следующего раунда, демоция
// поздних раундов при возврате к раннему) попадают сюда же, чтобы вызывающая
// сторона видела весь эффект одного вызова.
type ChangeSet struct {
	Session *entity.QuizSession
	Rounds  []entity.Round
}

// RoundSpec описывает добавляемый раунд
type RoundSpec struct {
	Options       []string
	CorrectOption int
	AudioURL      string
	ImageURL      string
}

// SessionService реализует жизненный цикл сессий и раундов.
// Все переходы идут через условное обновление версии сессии: проигравший
// гонку вызов получает ErrConflict и должен перечитать состояние —
// сервис не повторяет попытку сам.
type SessionService struct {
	sessionRepo  repository.SessionRepository
	roundRepo    repository.RoundRepository
	scoreService *ScoreService
}

// NewSessionService создает новый сервис сессий
func NewSessionService(
	sessionRepo repository.SessionRepository,
	roundRepo repository.RoundRepository,
	scoreService *ScoreService,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		roundRepo:    roundRepo,
		scoreService: scoreService,
	}
}

// CreateSession создает новую сессию в статусе draft
func (s *SessionService) CreateSession(principal auth.Principal, title, description, mediaType string) (*entity.QuizSession, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}
	if principal.TenantID == "" {
		// Супер-админ создает сессии от имени конкретного тенанта,
		// для этого он логинится под tenant_admin нужного тенанта.
		return nil, fmt.Errorf("tenant is required to create a session: %w", apperrors.ErrValidation)
	}

	switch mediaType {
	case "":
		mediaType = entity.SessionMediaAudio
	case entity.SessionMediaAudio, entity.SessionMediaImage, entity.SessionMediaNone:
	default:
		return nil, fmt.Errorf("unknown media type %q: %w", mediaType, apperrors.ErrValidation)
	}

	session := &entity.QuizSession{
		ID:          uuid.NewString(),
		TenantID:    principal.TenantID,
		Title:       title,
		Description: description,
		MediaType:   mediaType,
		Status:      entity.SessionStatusDraft,
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession возвращает сессию с раундами в пределах тенанта принципала
func (s *SessionService) GetSession(principal auth.Principal, sessionID string) (*entity.QuizSession, error) {
	return s.sessionRepo.GetWithRounds(principal.TenantScope(), sessionID)
}

// ListSessions возвращает сессии тенанта принципала
func (s *SessionService) ListSessions(principal auth.Principal) ([]entity.QuizSession, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}
	return s.sessionRepo.ListByTenant(principal.TenantScope())
}

// UpdateSession обновляет описательные поля сессии
func (s *SessionService) UpdateSession(principal auth.Principal, sessionID, title, description string) (*entity.QuizSession, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if description != "" {
		updates["description"] = description
	}
	if len(updates) == 0 {
		return session, nil
	}

	if err := s.sessionRepo.UpdateInfo(sessionID, updates); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
}

// DeleteSession удаляет сессию из любого состояния, каскадно с раундами,
// участиями и ответами
func (s *SessionService) DeleteSession(principal auth.Principal, sessionID string) error {
	if !principal.IsAdmin() {
		return apperrors.ErrUnauthorized
	}
	if err := s.sessionRepo.Delete(principal.TenantScope(), sessionID); err != nil {
		return err
	}
	s.scoreService.InvalidateScoreboard(sessionID)
	return nil
}

// AddRound добавляет раунд со следующим порядковым номером.
// Ровно 4 варианта ответа; при 30 уже существующих раундах — ErrCapacityExceeded.
func (s *SessionService) AddRound(principal auth.Principal, sessionID string, spec RoundSpec) (*entity.Round, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	if len(spec.Options) != entity.RoundOptionCount {
		return nil, fmt.Errorf("exactly %d answer options are required: %w", entity.RoundOptionCount, apperrors.ErrValidation)
	}
	if spec.CorrectOption < 0 || spec.CorrectOption >= entity.RoundOptionCount {
		return nil, fmt.Errorf("correct option must be between 0 and %d: %w", entity.RoundOptionCount-1, apperrors.ErrValidation)
	}

	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("cannot add rounds to a completed session: %w", apperrors.ErrInvalidState)
	}
	if !session.HasRoundCapacity() {
		return nil, fmt.Errorf("session already holds %d rounds: %w", entity.MaxRoundsPerSession, apperrors.ErrCapacityExceeded)
	}

	// Следующий номер — за последним существующим, удаления могли оставить
	// round_count меньше максимального номера
	existing, err := s.roundRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	nextNumber := 1
	if len(existing) > 0 {
		nextNumber = existing[len(existing)-1].RoundNumber + 1
	}
	if nextNumber > entity.MaxRoundsPerSession {
		// Удаления сдвинули старший номер к пределу: занимаем наименьший
		// свободный номер, чтобы не выйти за диапазон 1..MaxRoundsPerSession
		used := make(map[int]bool, len(existing))
		for i := range existing {
			used[existing[i].RoundNumber] = true
		}
		nextNumber = 1
		for used[nextNumber] {
			nextNumber++
		}
	}

	round := &entity.Round{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		TenantID:      session.TenantID,
		RoundNumber:   nextNumber,
		Options:       spec.Options,
		CorrectOption: spec.CorrectOption,
		Status:        entity.RoundStatusPending,
		AudioURL:      spec.AudioURL,
		ImageURL:      spec.ImageURL,
	}

	if err := s.roundRepo.Create(round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	// Ошибка счетчика не глотается: на нем держится проверка вместимости
	if err := s.sessionRepo.IncrementRoundCount(session.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to update round count of session %s: %w", session.ID, err)
	}
	return round, nil
}

// DeleteRound удаляет раунд сессии
func (s *SessionService) DeleteRound(principal auth.Principal, sessionID string, roundNumber int) error {
	if !principal.IsAdmin() {
		return apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return err
	}

	round, err := s.roundRepo.GetBySessionAndNumber(sessionID, roundNumber)
	if err != nil {
		return err
	}
	if round.IsActive() {
		return fmt.Errorf("cannot delete the active round: %w", apperrors.ErrInvalidState)
	}

	if err := s.roundRepo.Delete(sessionID, roundNumber); err != nil {
		return err
	}
	if err := s.sessionRepo.IncrementRoundCount(session.ID, -1); err != nil {
		return fmt.Errorf("failed to update round count of session %s: %w", session.ID, err)
	}
	return nil
}

// StartRound активирует раунд roundNumber. Допустимые цели: следующий по
// порядку раунд либо любой более ранний (явный возврат админа). Старт
// следующего раунда неявно раскрывает текущий активный (с начислением очков);
// возврат к раннему раунду демотирует все более поздние раунды в pending
// и отзывает их начисления — суммарный счет всегда равен сумме по
// раскрытым в данный момент раундам.
func (s *SessionService) StartRound(principal auth.Principal, sessionID string, roundNumber int) (*ChangeSet, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("cannot start a round on a completed session: %w", apperrors.ErrInvalidState)
	}

	rounds, err := s.roundRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	var target *entity.Round
	for i := range rounds {
		if rounds[i].RoundNumber == roundNumber {
			target = &rounds[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("round %d: %w", roundNumber, apperrors.ErrNotFound)
	}

	// Активация идет строго по порядку существующих раундов: пропуск запрещен.
	// Удаления могли оставить пропуски в нумерации, поэтому "следующий"
	// определяется по фактическому списку, а не по current_round+1
	if roundNumber > session.CurrentRound {
		nextExisting := 0
		for i := range rounds {
			if rounds[i].RoundNumber > session.CurrentRound {
				nextExisting = rounds[i].RoundNumber
				break
			}
		}
		if roundNumber != nextExisting {
			return nil, fmt.Errorf("rounds must be started in order, next is %d: %w",
				nextExisting, apperrors.ErrInvalidState)
		}
	}

	now := time.Now()
	changed := make([]entity.Round, 0, len(rounds))
	var implicitlyRevealed []entity.Round
	var demotedNumbers []int

	for i := range rounds {
		r := rounds[i]
		switch {
		case r.RoundNumber == roundNumber:
			if r.IsRevealed() {
				// Возврат к уже раскрытому раунду отзывает и его начисления
				demotedNumbers = append(demotedNumbers, r.RoundNumber)
			}
			r.Status = entity.RoundStatusActive
			r.RevealedAt = nil
			changed = append(changed, r)
		case r.RoundNumber < roundNumber && r.IsActive():
			// Неявное раскрытие предыдущего активного раунда
			r.Status = entity.RoundStatusRevealed
			revealedAt := now
			r.RevealedAt = &revealedAt
			changed = append(changed, r)
			implicitlyRevealed = append(implicitlyRevealed, r)
		case r.RoundNumber > roundNumber && !r.IsPending():
			if r.IsRevealed() {
				demotedNumbers = append(demotedNumbers, r.RoundNumber)
			}
			r.Status = entity.RoundStatusPending
			r.RevealedAt = nil
			changed = append(changed, r)
		}
	}

	// Условное обновление версии — арбитр конкурентных переходов.
	// Проигравший не должен трогать ни раунды, ни счет.
	expectedVersion := session.Version
	session.Status = entity.SessionStatusActive
	session.CurrentRound = roundNumber
	session.Version = expectedVersion + 1
	if err := s.sessionRepo.UpdateStateVersioned(session, expectedVersion); err != nil {
		return nil, err
	}

	if err := s.roundRepo.UpdateStatuses(changed); err != nil {
		return nil, fmt.Errorf("failed to persist round transitions: %w", err)
	}

	for i := range implicitlyRevealed {
		if err := s.scoreService.ScoreRound(session, &implicitlyRevealed[i]); err != nil {
			return nil, fmt.Errorf("failed to score implicitly revealed round %d: %w",
				implicitlyRevealed[i].RoundNumber, err)
		}
	}
	if len(demotedNumbers) > 0 {
		if err := s.scoreService.RevokeRounds(sessionID, demotedNumbers); err != nil {
			return nil, fmt.Errorf("failed to revoke awards of demoted rounds: %w", err)
		}
	}

	return &ChangeSet{Session: session, Rounds: changed}, nil
}

// RevealRound раскрывает активный раунд и запускает начисление очков.
// Повторное раскрытие уже раскрытого раунда идемпотентно: состояние не
// меняется, а начисление перезапускается и дочисляет только те ответы,
// по которым очки еще не были зафиксированы.
func (s *SessionService) RevealRound(principal auth.Principal, sessionID string, roundNumber int) (*ChangeSet, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return nil, err
	}

	round, err := s.roundRepo.GetBySessionAndNumber(sessionID, roundNumber)
	if err != nil {
		return nil, err
	}

	if round.IsRevealed() {
		// Состояние не меняется, но начисление перезапускается: если прошлое
		// раскрытие оборвалось на полпути, повтор дочисляет пропущенные ответы.
		// Уже начисленные защищены awarded_points и не начисляются второй раз.
		if err := s.scoreService.ScoreRound(session, round); err != nil {
			return nil, fmt.Errorf("failed to score round %d: %w", roundNumber, err)
		}
		return &ChangeSet{Session: session}, nil
	}
	if !round.IsActive() {
		return nil, fmt.Errorf("only the active round can be revealed: %w", apperrors.ErrInvalidState)
	}

	expectedVersion := session.Version
	session.Version = expectedVersion + 1
	if err := s.sessionRepo.UpdateStateVersioned(session, expectedVersion); err != nil {
		return nil, err
	}

	now := time.Now()
	round.Status = entity.RoundStatusRevealed
	round.RevealedAt = &now
	if err := s.roundRepo.UpdateStatuses([]entity.Round{*round}); err != nil {
		return nil, fmt.Errorf("failed to persist reveal: %w", err)
	}

	if err := s.scoreService.ScoreRound(session, round); err != nil {
		return nil, fmt.Errorf("failed to score round %d: %w", roundNumber, err)
	}

	return &ChangeSet{Session: session, Rounds: []entity.Round{*round}}, nil
}

// CompleteSession завершает активную сессию. Активный раунд принудительно
// раскрывается (с начислением). Завершение терминально; повторный вызов
// на завершенной сессии — no-op.
func (s *SessionService) CompleteSession(principal auth.Principal, sessionID string) (*ChangeSet, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByID(principal.TenantScope(), sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return &ChangeSet{Session: session}, nil
	}
	if !session.IsActive() {
		return nil, fmt.Errorf("only an active session can be completed: %w", apperrors.ErrInvalidState)
	}

	rounds, err := s.roundRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var changed []entity.Round
	var toScore []entity.Round
	for i := range rounds {
		if rounds[i].IsActive() {
			r := rounds[i]
			r.Status = entity.RoundStatusRevealed
			revealedAt := now
			r.RevealedAt = &revealedAt
			changed = append(changed, r)
			toScore = append(toScore, r)
		}
	}

	expectedVersion := session.Version
	session.Status = entity.SessionStatusCompleted
	session.Version = expectedVersion + 1
	if err := s.sessionRepo.UpdateStateVersioned(session, expectedVersion); err != nil {
		return nil, err
	}

	if err := s.roundRepo.UpdateStatuses(changed); err != nil {
		return nil, fmt.Errorf("failed to persist forced reveal: %w", err)
	}
	for i := range toScore {
		if err := s.scoreService.ScoreRound(session, &toScore[i]); err != nil {
			return nil, fmt.Errorf("failed to score round %d on completion: %w", toScore[i].RoundNumber, err)
		}
	}

	return &ChangeSet{Session: session, Rounds: changed}, nil
}
