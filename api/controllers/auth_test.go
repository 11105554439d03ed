package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/api/middleware"
	"github.com/totalawareness/backend/internal/auth"
	"github.com/totalawareness/backend/internal/users"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
)

type stubAuthService struct {
	registerResp *auth.RegisterResponse
	loginResp    *auth.LoginResponse
	refreshResp  *auth.TokenPairResponse
	loggedOut    []string
	err          error
}

func (s *stubAuthService) Register(_ context.Context, _ auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return s.registerResp, s.err
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResp, s.err
}

func (s *stubAuthService) Refresh(_ context.Context, _ auth.RefreshRequest) (*auth.TokenPairResponse, error) {
	return s.refreshResp, s.err
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return s.err
}

func TestAuthRegisterCreated(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{registerResp: &auth.RegisterResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: userID, Name: "jo", Email: "jo@example.com"},
	}}
	handler := AuthRegister(svc, nil)

	payload := []byte(`{"name":"jo","email":"jo@example.com","password":"secret-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.RegisterResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User == nil || envelope.Data.User.ID != userID {
		t.Fatal("expected registered user in response")
	}
}

func TestAuthRegisterRejectsUnknownFields(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	payload := []byte(`{"name":"jo","email":"jo@example.com","password":"secret-pass","admin":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	payload := []byte(`{"identifier":"jo","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLogoutUsesSessionID(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "jti-123" {
		t.Fatalf("expected logout with jti-123, got %v", svc.loggedOut)
	}
}
