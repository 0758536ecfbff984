package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
)

// TaskRepository defines the interface for task data operations. Every
// operation taking a caller applies the team visibility rule for non-admins.
type TaskRepository interface {
	List(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, id int64, fields map[string]any, caller models.Caller) error
	Delete(ctx context.Context, id int64, caller models.Caller) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository instance.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// taskRow is the scan target for the joined task listing.
type taskRow struct {
	ID           int64
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	TeamID       *int64
	AssigneeID   *int64
	Tags         string
	DueDate      *string
	IsCompleted  bool
	CreatedAt    time.Time
	AssigneeName *string
	TeamName     *string
}

func (row taskRow) view() models.TaskView {
	return models.TaskView{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Status:       row.Status,
		Priority:     row.Priority,
		TeamID:       row.TeamID,
		AssigneeID:   row.AssigneeID,
		Tags:         models.DecodeTags(row.Tags),
		DueDate:      row.DueDate,
		IsCompleted:  row.IsCompleted,
		CreatedAt:    row.CreatedAt,
		AssigneeName: row.AssigneeName,
		TeamName:     row.TeamName,
	}
}

func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error) {
	query := r.db.WithContext(ctx).
		Table("tasks AS t").
		Select(`t.id, t.title, t.description, t.status, t.priority, t.team_id, t.assignee_id,
			t.tags, t.due_date, t.is_completed, t.created_at,
			u.name AS assignee_name, tm.team_name AS team_name`).
		Joins("LEFT JOIN users u ON u.id = t.assignee_id").
		Joins("LEFT JOIN teams tm ON tm.team_id = t.team_id")

	if !caller.IsAdmin() {
		query = query.
			Joins("LEFT JOIN team_members m ON m.team_id = t.team_id AND m.user_id = ?", caller.ID).
			Where("(m.user_id IS NOT NULL OR t.assignee_id = ? OR t.team_id IS NULL)", caller.ID)
	}

	if filter.TeamID != nil {
		query = query.Where("t.team_id = ?", *filter.TeamID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("t.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Status != nil {
		query = query.Where("t.status = ?", *filter.Status)
	}

	var rows []taskRow
	if err := query.Order("t.created_at DESC").Order("t.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]models.TaskView, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.view())
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperror.Validation("team or assignee does not exist")
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, id int64, fields map[string]any, caller models.Caller) error {
	if len(fields) == 0 {
		return apperror.Validation("no fields to update")
	}

	result := r.visible(r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id), caller).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return apperror.Validation("team or assignee does not exist")
		}
		return fmt.Errorf("failed to update task id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("task not found")
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64, caller models.Caller) error {
	result := r.visible(r.db.WithContext(ctx).Where("id = ?", id), caller).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("task not found")
	}
	return nil
}

// visible restricts a single-table task statement to rows the caller may see.
func (r *taskRepository) visible(query *gorm.DB, caller models.Caller) *gorm.DB {
	if caller.IsAdmin() {
		return query
	}
	memberships := r.db.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", caller.ID)
	return query.Where("(team_id IS NULL OR assignee_id = ? OR team_id IN (?))", caller.ID, memberships)
}
