package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/teamflow/teamflow-api/internal/models"
)

// ActivityRepository appends audit rows.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository instance.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create inserts the entry. When it names a user but carries no name
// snapshot, the user's current name is copied in so the feed still shows
// it after the account is deleted.
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.UserID != nil && activity.UserName == nil {
		var name string
		err := r.db.WithContext(ctx).Model(&models.User{}).
			Select("name").Where("id = ?", *activity.UserID).Limit(1).Scan(&name).Error
		if err != nil {
			return fmt.Errorf("failed to resolve activity user name: %w", err)
		}
		if name != "" {
			activity.UserName = &name
		}
	}

	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}
