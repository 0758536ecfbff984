package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/service"
)

type TeamHandler struct {
	teamService service.TeamService
	logger      logrus.FieldLogger
}

func NewTeamHandler(teamService service.TeamService, logger logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{teamService: teamService, logger: logger}
}

// List godoc
// @Summary List the caller's teams
// @Description Teams the caller belongs to, each with its members
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.TeamView
// @Router /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	teams, err := h.teamService.List(c.Request.Context(), who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

// Create godoc
// @Summary Create a team
// @Description The caller becomes the team owner. The name may be sent as team_name, title or name.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTeamRequest true "Team"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	var req service.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.teamService.Create(c.Request.Context(), req, who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{ID: id, Message: "team created successfully"})
}

// Delete godoc
// @Summary Delete a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), teamID, who); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "team deleted successfully"})
}

// AddMember godoc
// @Summary Add a team member
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body service.AddMemberRequest true "Member email and role"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.teamService.AddMember(c.Request.Context(), teamID, req, who); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "member added successfully"})
}

// RemoveMember godoc
// @Summary Remove a team member
// @Description Removing an absent member succeeds; the last owner cannot be removed
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param userId path int true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /teams/{id}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, userID, who); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "member removed successfully"})
}
