// Package service implements the TeamFlow business rules.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
	"github.com/teamflow/teamflow-api/internal/validation"
)

const invalidCredentialsMessage = "invalid email or password"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,accountemail"`
	Password string `json:"password" binding:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	CurrentUser(ctx context.Context, caller models.Caller) (*models.User, error)
	Refresh(ctx context.Context, caller models.Caller) (*AuthResponse, error)
	Logout(ctx context.Context, caller models.Caller) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	passwords  PasswordVerifier
	guard      LoginGuard
	activity   ActivityLogger
	logger     logrus.FieldLogger
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtService JWTService,
	passwords PasswordVerifier,
	guard LoginGuard,
	activity ActivityLogger,
	logger logrus.FieldLogger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		passwords:  passwords,
		guard:      guard,
		activity:   activity,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}

	taken, err := s.userRepo.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("user with this email already exists")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &user.ID, user.Name, fmt.Sprintf("New user registered: %s (%s)", user.Name, user.Email))
	return resp, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	if !s.guard.Allowed(ctx, email) {
		return nil, apperror.RateLimited("too many failed login attempts, please try again later")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if apperror.IsKind(err, apperror.KindNotFound) {
		s.guard.RecordFailure(ctx, email)
		return nil, apperror.Authentication(invalidCredentialsMessage)
	}
	if err != nil {
		return nil, err
	}

	result, err := s.passwords.Verify(req.Password, user.Password)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to prepare password rehash")
	}
	if !result.Matched {
		s.guard.RecordFailure(ctx, email)
		return nil, apperror.Authentication(invalidCredentialsMessage)
	}

	if result.Migration != "" {
		s.migratePassword(ctx, user, result)
	}
	s.guard.Reset(ctx, email)

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &user.ID, user.Name, fmt.Sprintf("User logged in: %s", user.Email))
	return resp, nil
}

// migratePassword persists a repaired or upgraded hash. Failures never block
// the login.
func (s *authService) migratePassword(ctx context.Context, user *models.User, result Verification) {
	log := s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"format":  result.Format,
	})

	swapped, err := s.userRepo.ReplacePassword(ctx, user.ID, user.Password, result.Migration)
	if err != nil {
		log.WithError(err).Warn("Failed to persist password migration")
		return
	}
	if !swapped {
		log.Info("Password changed concurrently, skipping migration")
		return
	}

	user.Password = result.Migration
	log.Info("Migrated stored password hash")
}

func (s *authService) CurrentUser(ctx context.Context, caller models.Caller) (*models.User, error) {
	return s.userRepo.FindByID(ctx, caller.ID)
}

// Refresh re-issues a token from the stored user so role changes apply.
func (s *authService) Refresh(ctx context.Context, caller models.Caller) (*AuthResponse, error) {
	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, apperror.Authentication("user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Logout only records the event; tokens are stateless.
func (s *authService) Logout(ctx context.Context, caller models.Caller) error {
	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("User logged out: %s", caller.Email))
	return nil
}

func (s *authService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}
