package service

import (
	"context"

	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
)

const (
	DefaultActivityLimit = 5
	MaxActivityLimit     = 50
)

// QuickTaskRequest is the reduced task form used by the dashboard.
type QuickTaskRequest struct {
	Title    string              `json:"title"`
	Status   models.TaskStatus   `json:"status"`
	Priority models.TaskPriority `json:"priority"`
	TeamID   models.NullableID   `json:"team_id"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*models.TaskStats, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityView, error)
	QuickTask(ctx context.Context, req QuickTaskRequest, caller models.Caller) (int64, error)
}

type dashboardService struct {
	repo  repository.DashboardRepository
	tasks TaskService
}

func NewDashboardService(repo repository.DashboardRepository, tasks TaskService) DashboardService {
	return &dashboardService{repo: repo, tasks: tasks}
}

func (s *dashboardService) Stats(ctx context.Context) (*models.TaskStats, error) {
	return s.repo.TaskStats(ctx)
}

// RecentActivity defaults non-positive limits and caps large ones.
func (s *dashboardService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityView, error) {
	return s.repo.RecentActivity(ctx, ClampActivityLimit(limit))
}

func (s *dashboardService) QuickTask(ctx context.Context, req QuickTaskRequest, caller models.Caller) (int64, error) {
	return s.tasks.Create(ctx, CreateTaskRequest{
		Title:    req.Title,
		Status:   req.Status,
		Priority: req.Priority,
		TeamID:   req.TeamID,
	}, caller)
}

func ClampActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	default:
		return limit
	}
}
