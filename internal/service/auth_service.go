package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/config"
	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/security"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgAuthRequired       = "Authentication required"
)

type AuthService struct {
	users        repository.UserStore
	sessions     repository.SessionStore
	cfg          config.SecurityConfig
	hashPassword func(string) ([]byte, error)
	now          func() time.Time
	log          zerolog.Logger
}

type AuthOption func(*AuthService)

// WithPasswordParams overrides the argon2 cost parameters.
func WithPasswordParams(params security.Argon2Params) AuthOption {
	return func(s *AuthService) {
		s.hashPassword = func(password string) ([]byte, error) {
			return security.HashPasswordWithParams(password, params)
		}
	}
}

func NewAuthService(
	users repository.UserStore,
	sessions repository.SessionStore,
	cfg config.SecurityConfig,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:        users,
		sessions:     sessions,
		cfg:          cfg,
		hashPassword: security.HashPassword,
		now:          systemClock,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	FullName       string
	College        string
	Role           models.UserRole
	GraduationYear *int
	Department     *string
	Company        *string
	Position       *string
	Location       *string
	Bio            *string
	IPAddress      string
	UserAgent      string
}

// AuthResult carries the signed cookie value for a freshly created session.
type AuthResult struct {
	Token   string
	Session models.Session
	User    models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return AuthResult{}, apperrors.Validation("username, email and password are required")
	}
	if input.Role == "" {
		input.Role = models.UserRoleStudent
	}

	if err := s.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return AuthResult{}, err
	}

	passwordHash, err := s.hashPassword(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := models.User{
		ID:             ids.New(),
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		Role:           input.Role,
		FullName:       strings.TrimSpace(input.FullName),
		College:        strings.TrimSpace(input.College),
		GraduationYear: input.GraduationYear,
		Department:     trimOptional(input.Department),
		Company:        trimOptional(input.Company),
		Position:       trimOptional(input.Position),
		Location:       trimOptional(input.Location),
		Bio:            trimOptional(input.Bio),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return AuthResult{}, apperrors.Wrap(apperrors.KindValidation, err, msgUserExists)
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return s.createSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return apperrors.Validation(msgUserExists)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("find user by username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return apperrors.Validation(msgUserExists)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("find user by email: %w", err)
	}
	return nil
}

type LoginInput struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, apperrors.Unauthenticated(msgInvalidCredentials)
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
	}
	if err != nil || !ok {
		return AuthResult{}, apperrors.Unauthenticated(msgInvalidCredentials)
	}

	return s.createSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) createSession(ctx context.Context, user models.User, ipAddress, userAgent string) (AuthResult, error) {
	now := s.now()
	session := models.Session{
		ID:         ids.New(),
		UserID:     user.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.cfg.SessionTTL),
	}

	token, err := security.IssueSessionToken(s.cfg.SessionSecret, user.ID, session.ID, now, s.cfg.SessionTTL)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	if err := s.enforceSessionLimit(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("enforce session limit failed")
	}

	return AuthResult{Token: token, Session: session, User: user}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, userID string) error {
	if s.cfg.MaxSessions <= 0 {
		return nil
	}
	count, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= s.cfg.MaxSessions {
		return nil
	}
	return s.sessions.DeleteOldestSessions(ctx, userID, s.cfg.MaxSessions)
}

// Authenticate resolves a cookie token to its live session and user.
func (s *AuthService) Authenticate(ctx context.Context, token, ipAddress, userAgent string) (models.User, models.Session, error) {
	claims, err := security.ParseSessionToken(token, s.cfg.SessionSecret)
	if err != nil {
		return models.User{}, models.Session{}, apperrors.Wrap(apperrors.KindUnauthenticated, err, msgAuthRequired)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, models.Session{}, apperrors.Wrap(apperrors.KindUnauthenticated, err, msgAuthRequired)
		}
		return models.User{}, models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != claims.UserID {
		return models.User{}, models.Session{}, apperrors.Unauthenticated(msgAuthRequired)
	}
	if session.Expired(s.now()) {
		if err := s.sessions.DeleteByID(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
			s.log.Warn().Err(err).Str("session_id", session.ID).Msg("delete expired session failed")
		}
		return models.User{}, models.Session{}, apperrors.Unauthenticated("Session expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, models.Session{}, apperrors.Wrap(apperrors.KindUnauthenticated, err, msgAuthRequired)
		}
		return models.User{}, models.Session{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.sessions.Touch(ctx, session.ID, ipAddress, userAgent); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.ID).Msg("touch session failed")
	}
	return user, session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) Sessions(ctx context.Context, userID string) ([]models.Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *AuthService) RevokeSession(ctx context.Context, userID, currentSessionID, targetID string) error {
	if targetID == currentSessionID {
		return apperrors.Validation("Use logout to end the current session")
	}
	if err := s.sessions.DeleteForUser(ctx, userID, targetID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperrors.Wrap(apperrors.KindNotFound, err, "Session not found")
		}
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
