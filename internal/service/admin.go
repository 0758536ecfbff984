package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
	"github.com/teamflow/teamflow-api/internal/validation"
)

const newUserWindow = 7 * 24 * time.Hour

// UpdateUserRequest carries the admin-editable fields. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Role  *models.Role `json:"role"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest, caller models.Caller) (*models.User, error)
	ResetPassword(ctx context.Context, id int64, password string, caller models.Caller) error
	DeleteUser(ctx context.Context, id int64, caller models.Caller) error
	Stats(ctx context.Context) (*models.UserStats, error)
}

type adminService struct {
	userRepo  repository.UserRepository
	passwords PasswordVerifier
	activity  ActivityLogger
	now       func() time.Time
}

func NewAdminService(userRepo repository.UserRepository, passwords PasswordVerifier, activity ActivityLogger) AdminService {
	return &adminService{
		userRepo:  userRepo,
		passwords: passwords,
		activity:  activity,
		now:       time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *adminService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateUser applies the changed fields and records an old -> new summary.
func (s *adminService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest, caller models.Caller) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		update  repository.UserUpdate
		changes []string
	)

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > 100 {
			return nil, apperror.Validation("name must be at most 100 characters")
		}
		if name != user.Name {
			update.Name = &name
			changes = append(changes, fmt.Sprintf("name: %s -> %s", user.Name, name))
		}
	}

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if !validation.Var(email, "required,email") {
			return nil, apperror.Validation("email must be a valid email address")
		}
		if email != user.Email {
			taken, err := s.userRepo.EmailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperror.Conflict("email already in use")
			}
			update.Email = &email
			changes = append(changes, fmt.Sprintf("email: %s -> %s", user.Email, email))
		}
	}

	if req.Role != nil {
		role := *req.Role
		if !role.Valid() {
			return nil, apperror.Validation("role must be one of: admin, user")
		}
		if id == caller.ID && role != models.RoleAdmin {
			return nil, apperror.Validation("you cannot demote your own account")
		}
		if role != user.Role {
			update.Role = &role
			changes = append(changes, fmt.Sprintf("role: %s -> %s", user.Role, role))
		}
	}

	if len(changes) == 0 {
		return user, nil
	}

	if err := s.userRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &caller.ID, "",
		fmt.Sprintf("Admin updated user #%d (%s)", id, strings.Join(changes, ", ")))

	return s.userRepo.FindByID(ctx, id)
}

func (s *adminService) ResetPassword(ctx context.Context, id int64, password string, caller models.Caller) error {
	if utf8.RuneCountInString(password) < validation.MinPasswordLength {
		return apperror.Validation("password must be at least %d characters", validation.MinPasswordLength)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Admin reset password for %s", user.Email))
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, id int64, caller models.Caller) error {
	if id == caller.ID {
		return apperror.Validation("you cannot delete your own account")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "",
		fmt.Sprintf("Admin deleted user: %s (%s)", user.Name, user.Email))
	return nil
}

// Stats counts users, with newThisWeek covering the last seven days.
func (s *adminService) Stats(ctx context.Context) (*models.UserStats, error) {
	return s.userRepo.Stats(ctx, s.now().Add(-newUserWindow))
}
