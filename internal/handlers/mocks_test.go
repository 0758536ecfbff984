package handlers

import (
	"context"
	"errors"

	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/service"
)

// =============================================================================
// Mock Services
// =============================================================================

type mockAuthService struct {
	registerFunc    func(ctx context.Context, req service.RegisterRequest) (*service.AuthResponse, error)
	loginFunc       func(ctx context.Context, req service.LoginRequest) (*service.AuthResponse, error)
	currentUserFunc func(ctx context.Context, caller models.Caller) (*models.User, error)
	refreshFunc     func(ctx context.Context, caller models.Caller) (*service.AuthResponse, error)
	logoutFunc      func(ctx context.Context, caller models.Caller) error
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.AuthResponse, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.AuthResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) CurrentUser(ctx context.Context, caller models.Caller) (*models.User, error) {
	if m.currentUserFunc != nil {
		return m.currentUserFunc(ctx, caller)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Refresh(ctx context.Context, caller models.Caller) (*service.AuthResponse, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, caller)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, caller models.Caller) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, caller)
	}
	return errors.New("not implemented")
}

type mockTaskService struct {
	listFunc   func(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error)
	createFunc func(ctx context.Context, req service.CreateTaskRequest, caller models.Caller) (int64, error)
	updateFunc func(ctx context.Context, id int64, req service.UpdateTaskRequest, caller models.Caller) error
	deleteFunc func(ctx context.Context, id int64, caller models.Caller) error
}

func (m *mockTaskService) List(ctx context.Context, filter models.TaskFilter, caller models.Caller) ([]models.TaskView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, caller)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskService) Create(ctx context.Context, req service.CreateTaskRequest, caller models.Caller) (int64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req, caller)
	}
	return 0, errors.New("not implemented")
}

func (m *mockTaskService) Update(ctx context.Context, id int64, req service.UpdateTaskRequest, caller models.Caller) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req, caller)
	}
	return errors.New("not implemented")
}

func (m *mockTaskService) Delete(ctx context.Context, id int64, caller models.Caller) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, caller)
	}
	return errors.New("not implemented")
}

type mockTeamService struct {
	listFunc         func(ctx context.Context, caller models.Caller) ([]models.TeamView, error)
	createFunc       func(ctx context.Context, req service.CreateTeamRequest, caller models.Caller) (int64, error)
	deleteFunc       func(ctx context.Context, teamID int64, caller models.Caller) error
	addMemberFunc    func(ctx context.Context, teamID int64, req service.AddMemberRequest, caller models.Caller) error
	removeMemberFunc func(ctx context.Context, teamID, userID int64, caller models.Caller) error
}

func (m *mockTeamService) List(ctx context.Context, caller models.Caller) ([]models.TeamView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, caller)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTeamService) Create(ctx context.Context, req service.CreateTeamRequest, caller models.Caller) (int64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req, caller)
	}
	return 0, errors.New("not implemented")
}

func (m *mockTeamService) Delete(ctx context.Context, teamID int64, caller models.Caller) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, teamID, caller)
	}
	return errors.New("not implemented")
}

func (m *mockTeamService) AddMember(ctx context.Context, teamID int64, req service.AddMemberRequest, caller models.Caller) error {
	if m.addMemberFunc != nil {
		return m.addMemberFunc(ctx, teamID, req, caller)
	}
	return errors.New("not implemented")
}

func (m *mockTeamService) RemoveMember(ctx context.Context, teamID, userID int64, caller models.Caller) error {
	if m.removeMemberFunc != nil {
		return m.removeMemberFunc(ctx, teamID, userID, caller)
	}
	return errors.New("not implemented")
}

type mockDashboardService struct {
	statsFunc          func(ctx context.Context) (*models.TaskStats, error)
	recentActivityFunc func(ctx context.Context, limit int) ([]models.ActivityView, error)
	quickTaskFunc      func(ctx context.Context, req service.QuickTaskRequest, caller models.Caller) (int64, error)
}

func (m *mockDashboardService) Stats(ctx context.Context) (*models.TaskStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDashboardService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityView, error) {
	if m.recentActivityFunc != nil {
		return m.recentActivityFunc(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDashboardService) QuickTask(ctx context.Context, req service.QuickTaskRequest, caller models.Caller) (int64, error) {
	if m.quickTaskFunc != nil {
		return m.quickTaskFunc(ctx, req, caller)
	}
	return 0, errors.New("not implemented")
}

type mockAdminService struct {
	listUsersFunc     func(ctx context.Context) ([]models.User, error)
	getUserFunc       func(ctx context.Context, id int64) (*models.User, error)
	updateUserFunc    func(ctx context.Context, id int64, req service.UpdateUserRequest, caller models.Caller) (*models.User, error)
	resetPasswordFunc func(ctx context.Context, id int64, password string, caller models.Caller) error
	deleteUserFunc    func(ctx context.Context, id int64, caller models.Caller) error
	statsFunc         func(ctx context.Context) (*models.UserStats, error)
}

func (m *mockAdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) UpdateUser(ctx context.Context, id int64, req service.UpdateUserRequest, caller models.Caller) (*models.User, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, id, req, caller)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) ResetPassword(ctx context.Context, id int64, password string, caller models.Caller) error {
	if m.resetPasswordFunc != nil {
		return m.resetPasswordFunc(ctx, id, password, caller)
	}
	return errors.New("not implemented")
}

func (m *mockAdminService) DeleteUser(ctx context.Context, id int64, caller models.Caller) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, id, caller)
	}
	return errors.New("not implemented")
}

func (m *mockAdminService) Stats(ctx context.Context) (*models.UserStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}
