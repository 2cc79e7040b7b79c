package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/pkg/apperrors"
	"github.com/esisa/student-records/internal/pkg/auth"
	"github.com/esisa/student-records/internal/app/repositories"
	"github.com/esisa/student-records/internal/pkg/dberrors"
	"github.com/esisa/student-records/internal/pkg/logger"
	"github.com/esisa/student-records/internal/pkg/validation"
)

// AuthService handles self-registration and login
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	audit      *auditRecorder
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserStore, jwtService *auth.JWTService, logs SecurityLogStore) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		audit:      newAuditRecorder(logs),
	}
}

// Register creates a new user account. The role is always 'user' and the
// account starts active regardless of anything the caller sent.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, meta RequestMeta) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	verr := apperrors.NewValidationError()
	if !validation.IsValidEmail(email) {
		verr.Add("email", "must be a valid email address")
	}
	if reason, ok := validation.CheckPassword(req.Password); !ok {
		verr.Add("password", reason)
	}
	if reason, ok := validation.CheckName(req.FirstName); !ok {
		verr.Add("firstName", reason)
	}
	if reason, ok := validation.CheckName(req.LastName); !ok {
		verr.Add("lastName", reason)
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      models.RoleUser,
		IsActive:  true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// constraint is the authority.
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info().Int64("userId", user.ID).Str("email", user.Email).Msg("New user registered")
	s.audit.record(ctx, models.ActionUserRegistered, &user.ID, meta,
		fmt.Sprintf("New user registered: %s", user.Email))

	return user, nil
}

// Login verifies credentials and issues a session token. Lookup failure and
// password mismatch are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, meta RequestMeta) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.audit.record(ctx, models.ActionUserLogin, &user.ID, meta,
		fmt.Sprintf("User logged in: %s", user.Email))

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        dto.NewUserResponse(user),
	}, nil
}
