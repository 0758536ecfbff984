// Package handlers contains the HTTP request handlers for the TeamFlow API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/logger"
	"github.com/teamflow/teamflow-api/internal/middleware"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/validation"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the body of mutations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse is returned when a resource is created.
type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

// handleError maps service errors to a status and message. Unclassified
// errors are logged, reported and hidden behind a generic 500.
func handleError(c *gin.Context, log logrus.FieldLogger, err error) {
	if appErr, ok := apperror.As(err); ok && appErr.Kind != apperror.KindInternal {
		respondError(c, appErr.Status(), appErr.Message)
		return
	}

	_ = c.Error(err)
	logger.CaptureError(log, err, "Unhandled request error", logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.FullPath(),
		"method":     c.Request.Method,
	})
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, validation.Message(err))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter and answers 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// caller returns the authenticated caller, answering 401 when absent.
func caller(c *gin.Context) (models.Caller, bool) {
	who, ok := middleware.GetCaller(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return who, ok
}
