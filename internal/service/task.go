package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
)

type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	TeamID      models.NullableID   `json:"team_id"`
	AssigneeID  models.NullableID   `json:"assignee_id"`
	Tags        []string            `json:"tags"`
	DueDate     *string             `json:"due_date"`
	IsCompleted bool                `json:"is_completed"`
}

// UpdateTaskRequest carries a partial update. Absent fields are untouched;
// an explicit null clears team_id, assignee_id or due_date.
type UpdateTaskRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *models.TaskStatus    `json:"status"`
	Priority    *models.TaskPriority  `json:"priority"`
	TeamID      models.NullableID     `json:"team_id"`
	AssigneeID  models.NullableID     `json:"assignee_id"`
	Tags        *[]string             `json:"tags"`
	DueDate     models.NullableString `json:"due_date"`
	IsCompleted *bool                 `json:"is_completed"`
}

type TaskService interface {
	List(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error)
	Create(ctx context.Context, req CreateTaskRequest, caller models.Caller) (int64, error)
	Update(ctx context.Context, id int64, req UpdateTaskRequest, caller models.Caller) error
	Delete(ctx context.Context, id int64, caller models.Caller) error
}

type taskService struct {
	taskRepo repository.TaskRepository
	activity ActivityLogger
}

func NewTaskService(taskRepo repository.TaskRepository, activity ActivityLogger) TaskService {
	return &taskService{taskRepo: taskRepo, activity: activity}
}

func (s *taskService) List(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid status %q", *filter.Status)
	}
	return s.taskRepo.List(ctx, filter, caller)
}

func (s *taskService) Create(ctx context.Context, req CreateTaskRequest, caller models.Caller) (int64, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return 0, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return 0, apperror.Validation("invalid status %q", status)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return 0, apperror.Validation("invalid priority %q", priority)
	}

	task := &models.Task{
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		TeamID:      req.TeamID.Ptr(),
		AssigneeID:  req.AssigneeID.Ptr(),
		Tags:        models.EncodeTags(req.Tags),
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return 0, err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Created task: %s", task.Title))
	return task.ID, nil
}

func (s *taskService) Update(ctx context.Context, id int64, req UpdateTaskRequest, caller models.Caller) error {
	fields, err := updateFields(req)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return apperror.Validation("no fields to update")
	}

	if err := s.taskRepo.Update(ctx, id, fields, caller); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Updated task #%d", id))
	return nil
}

func (s *taskService) Delete(ctx context.Context, id int64, caller models.Caller) error {
	if err := s.taskRepo.Delete(ctx, id, caller); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Deleted task #%d", id))
	return nil
}

// updateFields maps the present request fields to column updates.
func updateFields(req UpdateTaskRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperror.Validation("invalid status %q", *req.Status)
		}
		fields["status"] = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, apperror.Validation("invalid priority %q", *req.Priority)
		}
		fields["priority"] = *req.Priority
	}
	if req.TeamID.Set {
		fields["team_id"] = req.TeamID.Ptr()
	}
	if req.AssigneeID.Set {
		fields["assignee_id"] = req.AssigneeID.Ptr()
	}
	if req.Tags != nil {
		fields["tags"] = models.EncodeTags(*req.Tags)
	}
	if req.DueDate.Set {
		fields["due_date"] = req.DueDate.Ptr()
	}
	if req.IsCompleted != nil {
		fields["is_completed"] = *req.IsCompleted
	}

	return fields, nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apperror.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return "", apperror.Validation("title must be at most %d characters", models.MaxTitleLength)
	}
	return title, nil
}
