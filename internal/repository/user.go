// Package repository provides the data access layer for the TeamFlow API.
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
)

// UserUpdate carries the admin-editable user fields. Nil fields are left
// unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *models.Role
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, update UserUpdate) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	ReplacePassword(ctx context.Context, id int64, oldHash, newHash string) (bool, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, since time.Time) (*models.UserStats, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", models.NormalizeEmail(email)).First(&user).Error
	if isNotFound(err) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if isNotFound(err) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id %d: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", models.NormalizeEmail(email))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Conflict("user with this email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, update UserUpdate) error {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Email != nil {
		fields["email"] = models.NormalizeEmail(*update.Email)
	}
	if update.Role != nil {
		fields["role"] = *update.Role
	}
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return apperror.Conflict("email already in use")
		}
		return fmt.Errorf("failed to update user id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password for user id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

// ReplacePassword swaps the stored hash only if it still equals oldHash. It
// reports whether a row was changed.
func (r *userRepository) ReplacePassword(ctx context.Context, id int64, oldHash, newHash string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND password = ?", id, oldHash).
		Update("password", newHash)
	if result.Error != nil {
		return false, fmt.Errorf("failed to migrate password for user id %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) Stats(ctx context.Context, since time.Time) (*models.UserStats, error) {
	var stats models.UserStats
	db := r.db.WithContext(ctx).Model(&models.User{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("role = ?", models.RoleAdmin).Count(&stats.Admins).Error; err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("role = ?", models.RoleUser).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count regular users: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("created_at >= ?", since).Count(&stats.NewThisWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}
	return &stats, nil
}
