package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = user.Email
	}
	r.users[clone.Email] = &clone
	out := clone
	return &out, nil
}

func addUser(t *testing.T, repo *stubAuthRepo, email, password string, role domain.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.users[email] = &domain.User{
		ID:           "usr-" + email,
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	addUser(t, repo, "manager@fleetflow.com", "manager123", domain.RoleManager)
	svc := NewAuthService(repo, "secret", time.Hour)

	result, err := svc.Login(context.Background(), "manager@fleetflow.com", "manager123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.ExpiresIn != 3600 {
		t.Fatalf("expected expiresIn 3600, got %d", result.ExpiresIn)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims["role"] != "manager" || claims["email"] != "manager@fleetflow.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("token missing expiry")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	addUser(t, repo, "manager@fleetflow.com", "manager123", domain.RoleManager)
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Login(context.Background(), "manager@fleetflow.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserIsIndistinguishable(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Login(context.Background(), "nobody@fleetflow.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSeedDemoUsers_Idempotent(t *testing.T) {
	repo := newStubAuthRepo()

	if err := SeedDemoUsers(context.Background(), repo); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if len(repo.users) != 4 {
		t.Fatalf("expected 4 demo users, got %d", len(repo.users))
	}
	if err := SeedDemoUsers(context.Background(), repo); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if len(repo.users) != 4 {
		t.Fatalf("seed is not idempotent: %d users", len(repo.users))
	}
}
