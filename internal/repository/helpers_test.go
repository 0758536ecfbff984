package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/database"
	"github.com/teamflow/teamflow-api/internal/models"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Password: "hash", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func seedTeam(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Team {
	t.Helper()
	team := &models.Team{TeamName: name}
	if err := NewTeamRepository(db).Create(context.Background(), team, owner.ID); err != nil {
		t.Fatalf("failed to seed team %s: %v", name, err)
	}
	return team
}

func seedMember(t *testing.T, db *gorm.DB, team *models.Team, user *models.User, role models.TeamRole) {
	t.Helper()
	member := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: role}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to seed membership: %v", err)
	}
}

func seedTask(t *testing.T, db *gorm.DB, title string, teamID, assigneeID *int64) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:      title,
		Status:     models.StatusTodo,
		Priority:   models.PriorityMedium,
		TeamID:     teamID,
		AssigneeID: assigneeID,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to seed task %s: %v", title, err)
	}
	return task
}

func callerFor(user *models.User) models.Caller {
	return models.Caller{ID: user.ID, Email: user.Email, Role: user.Role}
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	if !apperror.IsKind(err, kind) {
		t.Fatalf("expected error of kind %v, got %v", kind, err)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
