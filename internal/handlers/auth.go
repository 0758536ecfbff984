package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/service"
)

// AuthHandler handles the portal authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user with role "user" and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Account details"
// @Success 201 {object} service.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /portal/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /portal/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CurrentUser godoc
// @Summary Current user
// @Description Return the authenticated user's record
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /portal/user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Refresh godoc
// @Summary Refresh token
// @Description Re-issue a token from the user's current record so role changes apply
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /portal/refresh [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), who)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary User logout
// @Description Record the logout; tokens are stateless and expire on their own
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /portal/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), who); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
