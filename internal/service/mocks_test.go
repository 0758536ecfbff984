package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	findByIDFunc        func(ctx context.Context, id int64) (*models.User, error)
	emailTakenFunc      func(ctx context.Context, email string, excludeID int64) (bool, error)
	createFunc          func(ctx context.Context, user *models.User) error
	listFunc            func(ctx context.Context) ([]models.User, error)
	updateFunc          func(ctx context.Context, id int64, update repository.UserUpdate) error
	updatePasswordFunc  func(ctx context.Context, id int64, hash string) error
	replacePasswordFunc func(ctx context.Context, id int64, oldHash, newHash string) (bool, error)
	deleteFunc          func(ctx context.Context, id int64) error
	statsFunc           func(ctx context.Context, since time.Time) (*models.UserStats, error)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	if m.emailTakenFunc != nil {
		return m.emailTakenFunc(ctx, email, excludeID)
	}
	return false, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context) ([]models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, id int64, update repository.UserUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) ReplacePassword(ctx context.Context, id int64, oldHash, newHash string) (bool, error) {
	if m.replacePasswordFunc != nil {
		return m.replacePasswordFunc(ctx, id, oldHash, newHash)
	}
	return false, errors.New("not implemented")
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Stats(ctx context.Context, since time.Time) (*models.UserStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, since)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Mock TaskRepository
// =============================================================================

type mockTaskRepository struct {
	listFunc   func(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error)
	createFunc func(ctx context.Context, task *models.Task) error
	updateFunc func(ctx context.Context, id int64, fields map[string]any, caller models.Caller) error
	deleteFunc func(ctx context.Context, id int64, caller models.Caller) error
}

func (m *mockTaskRepository) List(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, caller)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	return errors.New("not implemented")
}

func (m *mockTaskRepository) Update(ctx context.Context, id int64, fields map[string]any, caller models.Caller) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields, caller)
	}
	return errors.New("not implemented")
}

func (m *mockTaskRepository) Delete(ctx context.Context, id int64, caller models.Caller) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, caller)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock TeamRepository
// =============================================================================

type mockTeamRepository struct {
	listForUserFunc  func(ctx context.Context, userID int64) ([]models.TeamView, error)
	findByIDFunc     func(ctx context.Context, id int64) (*models.Team, error)
	createFunc       func(ctx context.Context, team *models.Team, ownerID int64) error
	deleteFunc       func(ctx context.Context, id int64) error
	memberRoleFunc   func(ctx context.Context, teamID, userID int64) (models.TeamRole, bool, error)
	addMemberFunc    func(ctx context.Context, member *models.TeamMember) error
	removeMemberFunc func(ctx context.Context, teamID, userID int64) error
}

func (m *mockTeamRepository) ListForUser(ctx context.Context, userID int64) ([]models.TeamView, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTeamRepository) FindByID(ctx context.Context, id int64) (*models.Team, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTeamRepository) Create(ctx context.Context, team *models.Team, ownerID int64) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, team, ownerID)
	}
	return errors.New("not implemented")
}

func (m *mockTeamRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockTeamRepository) MemberRole(ctx context.Context, teamID, userID int64) (models.TeamRole, bool, error) {
	if m.memberRoleFunc != nil {
		return m.memberRoleFunc(ctx, teamID, userID)
	}
	return "", false, errors.New("not implemented")
}

func (m *mockTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	if m.addMemberFunc != nil {
		return m.addMemberFunc(ctx, member)
	}
	return errors.New("not implemented")
}

func (m *mockTeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	if m.removeMemberFunc != nil {
		return m.removeMemberFunc(ctx, teamID, userID)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock DashboardRepository
// =============================================================================

type mockDashboardRepository struct {
	taskStatsFunc      func(ctx context.Context) (*models.TaskStats, error)
	recentActivityFunc func(ctx context.Context, limit int) ([]models.ActivityView, error)
}

func (m *mockDashboardRepository) TaskStats(ctx context.Context) (*models.TaskStats, error) {
	if m.taskStatsFunc != nil {
		return m.taskStatsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDashboardRepository) RecentActivity(ctx context.Context, limit int) ([]models.ActivityView, error) {
	if m.recentActivityFunc != nil {
		return m.recentActivityFunc(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Mock ActivityRepository
// =============================================================================

type mockActivityRepository struct {
	createFunc func(ctx context.Context, activity *models.Activity) error
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, activity)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Recording ActivityLogger
// =============================================================================

type recordedActivity struct {
	UserID   *int64
	UserName string
	Action   string
}

// recordingActivity captures entries synchronously.
type recordingActivity struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (r *recordingActivity) Record(_ context.Context, userID *int64, userName, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, recordedActivity{UserID: userID, UserName: userName, Action: action})
}

func (r *recordingActivity) Wait() {}

func (r *recordingActivity) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, len(r.entries))
	for i, e := range r.entries {
		actions[i] = e.Action
	}
	return actions
}

// =============================================================================
// Mock LoginGuard
// =============================================================================

type mockLoginGuard struct {
	allowed  bool
	failures int
	resets   int
}

func (g *mockLoginGuard) Allowed(context.Context, string) bool { return g.allowed }

func (g *mockLoginGuard) RecordFailure(context.Context, string) { g.failures++ }

func (g *mockLoginGuard) Reset(context.Context, string) { g.resets++ }

// =============================================================================
// Helpers
// =============================================================================

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func userCaller(id int64) models.Caller {
	return models.Caller{ID: id, Email: "user@example.com", Role: models.RoleUser}
}

func adminCaller(id int64) models.Caller {
	return models.Caller{ID: id, Email: "admin@example.com", Role: models.RoleAdmin}
}
