package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/teamflow/teamflow-api/internal/models"
)

func TestActivityLogger_Record(t *testing.T) {
	var (
		mu    sync.Mutex
		saved []*models.Activity
	)
	repo := &mockActivityRepository{
		createFunc: func(ctx context.Context, activity *models.Activity) error {
			mu.Lock()
			defer mu.Unlock()
			saved = append(saved, activity)
			return nil
		},
	}
	logger := NewActivityLogger(repo, discardLogger())

	userID := int64(4)
	logger.Record(context.Background(), &userID, "Ann", "Created task: Ship")
	logger.Record(context.Background(), nil, "", "System event")
	userID = 99
	logger.Wait()

	if len(saved) != 2 {
		t.Fatalf("saved %d activities, want 2", len(saved))
	}

	for _, a := range saved {
		switch a.Action {
		case "Created task: Ship":
			if a.UserID == nil || *a.UserID != 4 {
				t.Errorf("UserID = %v, want 4", a.UserID)
			}
			if a.UserName == nil || *a.UserName != "Ann" {
				t.Errorf("UserName = %v, want Ann", a.UserName)
			}
		case "System event":
			if a.UserID != nil || a.UserName != nil {
				t.Errorf("expected anonymous entry, got %v / %v", a.UserID, a.UserName)
			}
		default:
			t.Errorf("unexpected action %q", a.Action)
		}
	}
}

func TestActivityLogger_OutlivesRequestContext(t *testing.T) {
	var ctxErr error
	repo := &mockActivityRepository{
		createFunc: func(ctx context.Context, activity *models.Activity) error {
			ctxErr = ctx.Err()
			return nil
		},
	}
	logger := NewActivityLogger(repo, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger.Record(ctx, nil, "", "Deleted task #1")
	logger.Wait()

	if ctxErr != nil {
		t.Errorf("insert context error = %v, want nil", ctxErr)
	}
}

func TestActivityLogger_FailureIsSwallowed(t *testing.T) {
	calls := 0
	repo := &mockActivityRepository{
		createFunc: func(ctx context.Context, activity *models.Activity) error {
			calls++
			return errors.New("insert failed")
		},
	}
	logger := NewActivityLogger(repo, discardLogger())

	logger.Record(context.Background(), nil, "", "Deleted task #1")
	logger.Wait()

	if calls != 1 {
		t.Errorf("Create() calls = %d, want 1", calls)
	}
}
