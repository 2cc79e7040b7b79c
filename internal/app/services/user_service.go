package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/repositories"
	"github.com/esisa/student-records/internal/pkg/apperrors"
	"github.com/esisa/student-records/internal/pkg/auth"
	"github.com/esisa/student-records/internal/pkg/dberrors"
	"github.com/esisa/student-records/internal/pkg/validation"
)

// UserService handles account reads, updates and deletion. Every operation
// takes the acting user explicitly; authorization is decided here, not in
// the HTTP layer.
type UserService struct {
	users    UserStore
	students StudentStore
	audit    *auditRecorder
}

// NewUserService creates a new user service
func NewUserService(users UserStore, students StudentStore, logs SecurityLogStore) *UserService {
	return &UserService{
		users:    users,
		students: students,
		audit:    newAuditRecorder(logs),
	}
}

// GetByID returns a user account together with the number of student records
// it created. Regular users may only read their own account.
func (s *UserService) GetByID(ctx context.Context, id int64, actor models.Actor) (*dto.UserDetailResponse, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	created, err := s.students.CountByCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count created students: %w", err)
	}

	return &dto.UserDetailResponse{
		UserResponse:    dto.NewUserResponse(user),
		CreatedStudents: created,
	}, nil
}

// UpdateProfile applies a self-service profile patch. Only first and last
// name can change this way; the patch type carries nothing else.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, actor models.Actor, patch *dto.SelfProfilePatch, meta RequestMeta) (*models.User, error) {
	if actor.ID != id {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := apperrors.NewValidationError()
	if patch.FirstName != nil {
		if reason, ok := validation.CheckName(*patch.FirstName); !ok {
			verr.Add("firstName", reason)
		} else {
			user.FirstName = strings.TrimSpace(*patch.FirstName)
		}
	}
	if patch.LastName != nil {
		if reason, ok := validation.CheckName(*patch.LastName); !ok {
			verr.Add("lastName", reason)
		} else {
			user.LastName = strings.TrimSpace(*patch.LastName)
		}
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.audit.record(ctx, models.ActionUpdateUser, &actor.ID, meta,
		fmt.Sprintf("User %d updated own profile", id))
	return user, nil
}

// AdminUpdate applies an administrative patch. Admins may change email,
// password, names, role and active flag on any account.
func (s *UserService) AdminUpdate(ctx context.Context, id int64, actor models.Actor, patch *dto.AdminUserPatch, meta RequestMeta) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := apperrors.NewValidationError()

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !validation.IsValidEmail(email) {
			verr.Add("email", "must be a valid email address")
		} else if email != user.Email {
			taken, err := s.users.EmailExistsForOther(ctx, email, id)
			if err != nil {
				return nil, fmt.Errorf("failed to check email availability: %w", err)
			}
			if taken {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if patch.Password != nil {
		if reason, ok := validation.CheckPassword(*patch.Password); !ok {
			verr.Add("password", reason)
		} else {
			hashed, err := auth.HashPassword(*patch.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			user.Password = hashed
		}
	}
	if patch.FirstName != nil {
		if reason, ok := validation.CheckName(*patch.FirstName); !ok {
			verr.Add("firstName", reason)
		} else {
			user.FirstName = strings.TrimSpace(*patch.FirstName)
		}
	}
	if patch.LastName != nil {
		if reason, ok := validation.CheckName(*patch.LastName); !ok {
			verr.Add("lastName", reason)
		} else {
			user.LastName = strings.TrimSpace(*patch.LastName)
		}
	}
	if patch.Role != nil {
		role := models.Role(*patch.Role)
		if !role.IsValid() {
			verr.Add("role", "must be either 'admin' or 'user'")
		} else {
			user.Role = role
		}
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.audit.record(ctx, models.ActionUpdateUser, &actor.ID, meta,
		fmt.Sprintf("Admin updated user %d", id))
	return user, nil
}

// Delete removes a user account. Admin only, and never the admin's own
// account: self-deletion is rejected outright, before any lookup.
func (s *UserService) Delete(ctx context.Context, id int64, actor models.Actor, meta RequestMeta) error {
	if !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if actor.ID == id {
		return apperrors.ErrSelfDeletion
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.record(ctx, models.ActionDeleteUser, &actor.ID, meta,
		fmt.Sprintf("Admin deleted user %d", id))
	return nil
}

func (s *UserService) loadUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) saveUser(ctx context.Context, user *models.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
