package repository

import (
	"context"
	"testing"

	"github.com/teamflow/teamflow-api/internal/models"
)

func TestDashboardRepository_TaskStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDashboardRepository(db)

	seedTask(t, db, "a", nil, nil)
	seedTask(t, db, "b", nil, nil)
	progress := seedTask(t, db, "c", nil, nil)
	done := seedTask(t, db, "d", nil, nil)
	db.Model(progress).Update("status", models.StatusInProgress)
	db.Model(done).Update("status", models.StatusDone)

	stats, err := repo.TaskStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.TaskStats{TotalTasks: 4, Todo: 2, InProgress: 1, Completed: 1}
	if *stats != want {
		t.Errorf("expected %+v, got %+v", want, *stats)
	}
}

func TestDashboardRepository_RecentActivity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDashboardRepository(db)
	activities := NewActivityRepository(db)
	ctx := context.Background()

	ann := seedUser(t, db, "Ann", "ann@example.com", models.RoleUser)
	snapshot := "Former User"

	entries := []*models.Activity{
		{Action: "anonymous event"},
		{Action: "snapshot only", UserName: &snapshot},
		{Action: "joined user", UserID: &ann.ID, UserName: &snapshot},
	}
	for _, entry := range entries {
		if err := activities.Create(ctx, entry); err != nil {
			t.Fatalf("failed to record activity: %v", err)
		}
	}

	views, err := repo.RecentActivity(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(views))
	}

	tests := []struct {
		action    string
		wantName  string
		wantEmail bool
	}{
		{"joined user", "Ann", true},
		{"snapshot only", "Former User", false},
		{"anonymous event", models.UnknownUserName, false},
	}
	for i, tt := range tests {
		got := views[i]
		if got.Action != tt.action {
			t.Errorf("position %d: expected action %q, got %q", i, tt.action, got.Action)
		}
		if got.UserName != tt.wantName {
			t.Errorf("position %d: expected user name %q, got %q", i, tt.wantName, got.UserName)
		}
		if (got.UserEmail != nil) != tt.wantEmail {
			t.Errorf("position %d: unexpected email %v", i, got.UserEmail)
		}
	}

	limited, err := repo.RecentActivity(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}
