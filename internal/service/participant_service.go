package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/musicquiz-api/internal/domain/entity"
	"github.com/yourusername/musicquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/musicquiz-api/internal/pkg/errors"
	"github.com/yourusername/musicquiz-api/pkg/auth"
)

// ParticipantService управляет участниками и их присоединением к сессиям
type ParticipantService struct {
	tenantRepo        repository.TenantRepository
	sessionRepo       repository.SessionRepository
	participantRepo   repository.ParticipantRepository
	participationRepo repository.ParticipationRepository
	scoreService      *ScoreService
	jwtService        *auth.JWTService
}

// NewParticipantService создает новый сервис участников
func NewParticipantService(
	tenantRepo repository.TenantRepository,
	sessionRepo repository.SessionRepository,
	participantRepo repository.ParticipantRepository,
	participationRepo repository.ParticipationRepository,
	scoreService *ScoreService,
	jwtService *auth.JWTService,
) *ParticipantService {
	return &ParticipantService{
		tenantRepo:        tenantRepo,
		sessionRepo:       sessionRepo,
		participantRepo:   participantRepo,
		participationRepo: participationRepo,
		scoreService:      scoreService,
		jwtService:        jwtService,
	}
}

// Register регистрирует нового участника тенанта и выпускает токен
// пространства участников. Регистрация публична: tenantID приходит из
// QR-пейлоада сессии на устройство участника.
func (s *ParticipantService) Register(tenantID, name, avatar string) (*entity.Participant, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("participant name is required: %w", apperrors.ErrValidation)
	}
	if avatar == "" {
		avatar = "😀"
	}

	if _, err := s.tenantRepo.GetByID(tenantID); err != nil {
		return nil, "", err
	}

	participant := &entity.Participant{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     name,
		Avatar:   avatar,
	}
	if err := s.participantRepo.Create(participant); err != nil {
		return nil, "", fmt.Errorf("failed to create participant: %w", err)
	}

	token, err := s.jwtService.GenerateParticipantToken(participant)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue participant token: %w", err)
	}
	return participant, token, nil
}

// GetProfile возвращает профиль участника по его собственному токену
func (s *ParticipantService) GetProfile(principal auth.Principal) (*entity.Participant, error) {
	if !principal.IsParticipant() {
		return nil, apperrors.ErrUnauthorized
	}
	return s.participantRepo.GetByID(principal.TenantID, principal.ParticipantID)
}

// UpdateProfile обновляет имя и аватар участника по его собственному токену
func (s *ParticipantService) UpdateProfile(principal auth.Principal, name, avatar string) (*entity.Participant, error) {
	if !principal.IsParticipant() {
		return nil, apperrors.ErrUnauthorized
	}

	participant, err := s.participantRepo.GetByID(principal.TenantID, principal.ParticipantID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		participant.Name = name
	}
	if avatar != "" {
		participant.Avatar = avatar
	}
	if err := s.participantRepo.Update(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// JoinSession присоединяет участника к сессии своего тенанта.
// Повторное присоединение идемпотентно: возвращается существующее участие.
func (s *ParticipantService) JoinSession(principal auth.Principal, sessionID string) (*entity.SessionParticipation, error) {
	if !principal.IsParticipant() {
		return nil, apperrors.ErrUnauthorized
	}

	// Сессия чужого тенанта неотличима от несуществующей
	session, err := s.sessionRepo.GetByID(principal.TenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("cannot join a completed session: %w", apperrors.ErrInvalidState)
	}

	participation := &entity.SessionParticipation{
		ID:            uuid.NewString(),
		TenantID:      session.TenantID,
		SessionID:     session.ID,
		ParticipantID: principal.ParticipantID,
		JoinedAt:      time.Now(),
	}
	err = s.participationRepo.Create(participation)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return s.participationRepo.GetBySessionAndParticipant(sessionID, principal.ParticipantID)
		}
		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	s.scoreService.InvalidateScoreboard(sessionID)
	return participation, nil
}

// ListParticipants возвращает участников тенанта (админ)
func (s *ParticipantService) ListParticipants(principal auth.Principal) ([]entity.Participant, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}
	return s.participantRepo.ListByTenant(principal.TenantScope())
}

// UpdateParticipant обновляет имя и аватар участника (админ)
func (s *ParticipantService) UpdateParticipant(principal auth.Principal, participantID, name, avatar string) (*entity.Participant, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	participant, err := s.participantRepo.GetByID(principal.TenantScope(), participantID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		participant.Name = name
	}
	if avatar != "" {
		participant.Avatar = avatar
	}
	if err := s.participantRepo.Update(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// DeleteParticipant удаляет участника каскадно с его участиями и ответами.
// Возвращает количество удаленных ответов.
func (s *ParticipantService) DeleteParticipant(principal auth.Principal, participantID string) (int64, error) {
	if !principal.IsAdmin() {
		return 0, apperrors.ErrUnauthorized
	}
	return s.participantRepo.DeleteCascade(principal.TenantScope(), participantID)
}

// ClearParticipants удаляет всех участников тенанта каскадно.
// Возвращает количество удаленных участников.
func (s *ParticipantService) ClearParticipants(principal auth.Principal) (int64, error) {
	if !principal.IsAdmin() {
		return 0, apperrors.ErrUnauthorized
	}
	if principal.TenantID == "" {
		return 0, fmt.Errorf("clear participants requires a tenant-scoped admin: %w", apperrors.ErrForbidden)
	}
	return s.participantRepo.DeleteAllByTenant(principal.TenantID)
}
