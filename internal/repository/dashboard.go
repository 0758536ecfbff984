package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/teamflow/teamflow-api/internal/models"
)

// DashboardRepository reads process-wide rollups. Results are not scoped to
// the caller's teams.
type DashboardRepository interface {
	TaskStats(ctx context.Context) (*models.TaskStats, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityView, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new DashboardRepository instance.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) TaskStats(ctx context.Context) (*models.TaskStats, error) {
	var stats models.TaskStats
	counts := []struct {
		status *models.TaskStatus
		dest   *int64
	}{
		{nil, &stats.TotalTasks},
		{ptr(models.StatusTodo), &stats.Todo},
		{ptr(models.StatusInProgress), &stats.InProgress},
		{ptr(models.StatusDone), &stats.Completed},
	}

	for _, c := range counts {
		query := r.db.WithContext(ctx).Model(&models.Task{})
		if c.status != nil {
			query = query.Where("status = ?", *c.status)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
	}
	return &stats, nil
}

func (r *dashboardRepository) RecentActivity(ctx context.Context, limit int) ([]models.ActivityView, error) {
	views := []models.ActivityView{}
	err := r.db.WithContext(ctx).
		Table("activities AS a").
		Select("a.id, a.action, a.user_id, COALESCE(u.name, a.user_name, ?) AS user_name, u.email AS user_email, a.created_at",
			models.UnknownUserName).
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Order("a.created_at DESC").
		Order("a.id DESC").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	return views, nil
}

func ptr[T any](v T) *T {
	return &v
}
