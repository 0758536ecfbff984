package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           logrus.FieldLogger
}

func NewDashboardHandler(dashboardService service.DashboardService, logger logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// Stats godoc
// @Summary Task status counts
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TaskStats
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Activity godoc
// @Summary Recent activity
// @Description Newest entries first; limit defaults to 5 and is capped at 50
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries"
// @Success 200 {array} models.ActivityView
// @Router /dashboard/activity [get]
func (h *DashboardHandler) Activity(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = service.DefaultActivityLimit
	}

	entries, err := h.dashboardService.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// QuickTask godoc
// @Summary Quick task
// @Description Create a task from the dashboard with title, status, priority and team only
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.QuickTaskRequest true "Task"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /dashboard/task [post]
func (h *DashboardHandler) QuickTask(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	var req service.QuickTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.dashboardService.QuickTask(c.Request.Context(), req, who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{ID: id, Message: "task created successfully"})
}
