package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/service"
)

func setupAuthHandler(mockService *mockAuthService) *AuthHandler {
	return NewAuthHandler(mockService, testLogger())
}

func authResponse() *service.AuthResponse {
	return &service.AuthResponse{
		Token: "token_123",
		User:  &models.User{ID: 7, Name: "Ann", Email: "ann@example.com", Password: "secret-hash", Role: models.RoleUser},
	}
}

// =============================================================================
// Register Handler Tests
// =============================================================================

func TestRegister_Success(t *testing.T) {
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.AuthResponse, error) {
			if req.Email != "ann@example.com" {
				t.Errorf("expected email ann@example.com, got %s", req.Email)
			}
			return authResponse(), nil
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := createTestContext(http.MethodPost, "/api/portal/register", map[string]string{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "Passw0rd!",
	})

	handler.Register(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if strings.Contains(w.Body.String(), "secret-hash") {
		t.Error("response must not expose the password hash")
	}

	var response service.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Token != "token_123" {
		t.Errorf("expected token token_123, got %s", response.Token)
	}
}

func TestRegister_BindingErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		wantMessage string
	}{
		{"malformed JSON", `{"name":}`, "invalid JSON body"},
		{"missing fields", map[string]string{}, "name is required"},
		{"weak password", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "password"}, "password must be at least 8 characters"},
		{"bad email", map[string]string{"name": "Ann", "email": "ann", "password": "Passw0rd!"}, "email must be a valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupAuthHandler(&mockAuthService{})
			w, c := createTestContext(http.MethodPost, "/api/portal/register", tt.body)

			handler.Register(c)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			if got := decodeMessage(t, w); !strings.Contains(got, tt.wantMessage) {
				t.Errorf("expected message containing %q, got %q", tt.wantMessage, got)
			}
		})
	}
}

func TestRegister_PaddedEmailPassesBinding(t *testing.T) {
	var got string
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.AuthResponse, error) {
			got = req.Email
			return nil, apperror.Conflict("user with this email already exists")
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := createTestContext(http.MethodPost, "/api/portal/register", map[string]string{
		"name": "Ann", "email": "  ANN@Example.com ", "password": "Passw0rd!",
	})

	handler.Register(c)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	if got != "  ANN@Example.com " {
		t.Errorf("expected raw email to reach the service, got %q", got)
	}
}

func TestRegister_Conflict(t *testing.T) {
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.AuthResponse, error) {
			return nil, apperror.Conflict("user with this email already exists")
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := createTestContext(http.MethodPost, "/api/portal/register", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "Passw0rd!",
	})

	handler.Register(c)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

// =============================================================================
// Login Handler Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	mockService := &mockAuthService{
		loginFunc: func(ctx context.Context, req service.LoginRequest) (*service.AuthResponse, error) {
			return authResponse(), nil
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := createTestContext(http.MethodPost, "/api/portal/login", service.LoginRequest{
		Email:    "ann@example.com",
		Password: "Passw0rd!",
	})

	handler.Login(c)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
	}{
		{"missing password", map[string]string{"email": "ann@example.com"}, nil, http.StatusBadRequest},
		{"invalid credentials", service.LoginRequest{Email: "ann@example.com", Password: "x"}, apperror.Authentication("invalid email or password"), http.StatusUnauthorized},
		{"throttled", service.LoginRequest{Email: "ann@example.com", Password: "x"}, apperror.RateLimited("too many failed login attempts"), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockAuthService{
				loginFunc: func(ctx context.Context, req service.LoginRequest) (*service.AuthResponse, error) {
					return nil, tt.err
				},
			}

			handler := setupAuthHandler(mockService)
			w, c := createTestContext(http.MethodPost, "/api/portal/login", tt.body)

			handler.Login(c)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

// =============================================================================
// Session Handler Tests
// =============================================================================

func TestCurrentUser(t *testing.T) {
	mockService := &mockAuthService{
		currentUserFunc: func(ctx context.Context, caller models.Caller) (*models.User, error) {
			if caller.ID != 7 {
				t.Errorf("expected caller 7, got %d", caller.ID)
			}
			return authResponse().User, nil
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := authedContext(http.MethodGet, "/api/portal/user", nil)

	handler.CurrentUser(c)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	handler := setupAuthHandler(&mockAuthService{})
	w, c := createTestContext(http.MethodGet, "/api/portal/user", nil)

	handler.CurrentUser(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRefresh(t *testing.T) {
	mockService := &mockAuthService{
		refreshFunc: func(ctx context.Context, caller models.Caller) (*service.AuthResponse, error) {
			return authResponse(), nil
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := authedContext(http.MethodGet, "/api/portal/refresh", nil)

	handler.Refresh(c)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestLogout(t *testing.T) {
	called := false
	mockService := &mockAuthService{
		logoutFunc: func(ctx context.Context, caller models.Caller) error {
			called = true
			return nil
		},
	}

	handler := setupAuthHandler(mockService)
	w, c := authedContext(http.MethodPost, "/api/portal/logout", nil)

	handler.Logout(c)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !called {
		t.Error("expected Logout to be called")
	}
}
