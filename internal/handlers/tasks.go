package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
	logger      logrus.FieldLogger
}

func NewTaskHandler(taskService service.TaskService, logger logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// List godoc
// @Summary List tasks
// @Description Tasks visible to the caller, newest first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param team_id query int false "Team filter"
// @Param assignee_id query int false "Assignee filter"
// @Param status query string false "Status filter" Enums(TODO, IN_PROGRESS, DONE)
// @Success 200 {array} models.TaskView
// @Failure 400 {object} ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	var filter models.TaskFilter
	if filter.TeamID, ok = queryID(c, "team_id"); !ok {
		return
	}
	if filter.AssigneeID, ok = queryID(c, "assignee_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		filter.Status = &status
	}

	tasks, err := h.taskService.List(c.Request.Context(), filter, who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTaskRequest true "Task"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	var req service.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.taskService.Create(c.Request.Context(), req, who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{ID: id, Message: "task created successfully"})
}

// Update godoc
// @Summary Update a task
// @Description Partial update; explicit null clears team_id, assignee_id or due_date
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body service.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.taskService.Update(c.Request.Context(), id, req, who); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "task updated successfully"})
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id, who); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "task deleted successfully"})
}

// queryID parses an optional integer query parameter.
func queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &id, true
}
