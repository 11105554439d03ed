package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/internal/users"
	pkgAuth "github.com/totalawareness/backend/pkg/auth"
	"github.com/totalawareness/backend/pkg/auth/session"
	"github.com/totalawareness/backend/pkg/config"
	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "totalawareness",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 120,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

type stubUserRepo struct {
	byIdentifier map[string]*models.User
	created      []users.CreateUserDTO
	createErr    error
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, dto)
	return &models.User{
		ID:           uuid.New(),
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
	}, nil
}

func (s *stubUserRepo) FindByNameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	if user, ok := s.byIdentifier[identifier]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	repo := &stubUserRepo{byIdentifier: map[string]*models.User{}}
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "nicolas",
		Email:    "Nicolas@Example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(repo.created))
	}
	if repo.created[0].Email != "nicolas@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created[0].Email)
	}
	if repo.created[0].PasswordHash == "hunter2hunter2" {
		t.Fatal("password must be hashed before storage")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair on register")
	}
	if resp.User == nil || resp.User.Name != "nicolas" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one refresh session, got %d", len(sessions.generated))
	}
}

func TestRegisterDuplicateNameConflicts(t *testing.T) {
	repo := &stubUserRepo{
		createErr: errors.New(`ERROR: duplicate key value violates unique constraint "users_name_key"`),
	}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "taken",
		Email:    "taken@example.com",
		Password: "hunter2hunter2",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(typed.Message(), "name") {
		t.Fatalf("expected name conflict message, got %q", typed.Message())
	}
}

func TestLoginByNameAndByEmail(t *testing.T) {
	hash, err := security.HashPassword("correct-horse", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{ID: uuid.New(), Name: "ana", Email: "ana@example.com", PasswordHash: hash}
	repo := &stubUserRepo{byIdentifier: map[string]*models.User{
		"ana":             user,
		"ana@example.com": user,
	}}
	svc := newTestService(t, repo, &stubSessions{})

	for _, identifier := range []string{"ana", "ana@example.com"} {
		resp, err := svc.Login(context.Background(), LoginRequest{Identifier: identifier, Password: "correct-horse"})
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if resp.User.ID != user.ID {
			t.Fatalf("unexpected user for %q", identifier)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("correct-horse", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &stubUserRepo{byIdentifier: map[string]*models.User{
		"ana": {ID: uuid.New(), Name: "ana", Email: "ana@example.com", PasswordHash: hash},
	}}
	svc := newTestService(t, repo, &stubSessions{})

	_, err = svc.Login(context.Background(), LoginRequest{Identifier: "ana", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	repo := &stubUserRepo{byIdentifier: map[string]*models.User{}}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Identifier: "ghost", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginTemporalSentinel(t *testing.T) {
	repo := &stubUserRepo{byIdentifier: map[string]*models.User{
		"legacy": {ID: uuid.New(), Name: "legacy", Email: "legacy@example.com", PasswordHash: security.TempPasswordSentinel},
	}}
	svc := newTestService(t, repo, &stubSessions{})

	if _, err := svc.Login(context.Background(), LoginRequest{Identifier: "legacy", Password: security.TempPasswordSentinel}); err != nil {
		t.Fatalf("expected sentinel login to succeed: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Identifier: "legacy", Password: "other"}); err == nil {
		t.Fatal("expected non-sentinel password to fail")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserRepo{}, sessions)

	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		UserName: "ana",
		JTI:      accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  token,
		RefreshToken: "refresh-" + accessID,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected new token pair")
	}
	if resp.AccessToken == token {
		t.Fatal("expected a fresh access token")
	}
}

func TestRefreshInvalidRefreshToken(t *testing.T) {
	sessions := &stubSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, &stubUserRepo{}, sessions)

	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: token, RefreshToken: "bogus"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoked access-1, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
