package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/service"
)

func TestAdminListUsers(t *testing.T) {
	mockService := &mockAdminService{
		listUsersFunc: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: 1, Name: "Root", Password: "hash"}}, nil
		},
	}

	handler := NewAdminHandler(mockService, testLogger())
	w, c := authedContext(http.MethodGet, "/api/admin/users", nil)

	handler.ListUsers(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var users []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if _, ok := users[0]["password"]; ok {
		t.Error("password must not be serialized")
	}
}

func TestAdminUpdateUser(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"updated", nil, http.StatusOK},
		{"self demotion", apperror.Validation("you cannot demote your own account"), http.StatusBadRequest},
		{"email taken", apperror.Conflict("email already in use"), http.StatusConflict},
		{"unknown", apperror.NotFound("user not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockAdminService{
				updateUserFunc: func(ctx context.Context, id int64, req service.UpdateUserRequest, caller models.Caller) (*models.User, error) {
					if req.Role == nil || *req.Role != models.RoleAdmin {
						t.Errorf("expected role admin, got %v", req.Role)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.User{ID: id, Role: *req.Role}, nil
				},
			}

			handler := NewAdminHandler(mockService, testLogger())
			w, c := authedContext(http.MethodPut, "/api/admin/users/2", map[string]string{"role": "admin"})
			withParams(c, "id", "2")

			handler.UpdateUser(c)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAdminResetPassword(t *testing.T) {
	var gotPassword string
	mockService := &mockAdminService{
		resetPasswordFunc: func(ctx context.Context, id int64, password string, caller models.Caller) error {
			gotPassword = password
			return nil
		},
	}

	handler := NewAdminHandler(mockService, testLogger())
	w, c := authedContext(http.MethodPut, "/api/admin/users/2/reset-password", map[string]string{"password": "longenough"})
	withParams(c, "id", "2")

	handler.ResetPassword(c)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if gotPassword != "longenough" {
		t.Errorf("expected password forwarded, got %q", gotPassword)
	}
}

func TestAdminDeleteUser_Self(t *testing.T) {
	mockService := &mockAdminService{
		deleteUserFunc: func(ctx context.Context, id int64, caller models.Caller) error {
			if id == caller.ID {
				return apperror.Validation("you cannot delete your own account")
			}
			return nil
		},
	}

	handler := NewAdminHandler(mockService, testLogger())
	w, c := authedContext(http.MethodDelete, "/api/admin/users/7", nil)
	withParams(c, "id", "7")

	handler.DeleteUser(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAdminStats(t *testing.T) {
	mockService := &mockAdminService{
		statsFunc: func(ctx context.Context) (*models.UserStats, error) {
			return &models.UserStats{TotalUsers: 4, Admins: 1, Users: 3, NewThisWeek: 2}, nil
		},
	}

	handler := NewAdminHandler(mockService, testLogger())
	w, c := authedContext(http.MethodGet, "/api/admin/users/stats", nil)

	handler.Stats(c)

	want := `{"totalUsers":4,"admins":1,"users":3,"newThisWeek":2}`
	if w.Body.String() != want {
		t.Errorf("expected body %s, got %s", want, w.Body.String())
	}
}
