package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
)

const activityTimeout = 5 * time.Second

// ActivityLogger records audit entries without blocking the caller.
type ActivityLogger interface {
	Record(ctx context.Context, userID *int64, userName, action string)
	Wait()
}

type activityLogger struct {
	repo   repository.ActivityRepository
	logger logrus.FieldLogger
	wg     sync.WaitGroup
}

// NewActivityLogger creates an ActivityLogger writing through repo.
func NewActivityLogger(repo repository.ActivityRepository, logger logrus.FieldLogger) ActivityLogger {
	return &activityLogger{repo: repo, logger: logger}
}

// Record inserts the entry in the background. The insert outlives the
// request context; failures are logged and dropped. An empty userName is
// filled from the user's current name at insert time.
func (a *activityLogger) Record(ctx context.Context, userID *int64, userName, action string) {
	entry := &models.Activity{Action: action}
	if userID != nil {
		id := *userID
		entry.UserID = &id
	}
	if userName != "" {
		entry.UserName = &userName
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityTimeout)
		defer cancel()

		if err := a.repo.Create(insertCtx, entry); err != nil {
			a.logger.WithError(err).WithField("action", action).Warn("Failed to record activity")
		}
	}()
}

// Wait blocks until in-flight inserts finish.
func (a *activityLogger) Wait() {
	a.wg.Wait()
}
