package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAuthRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byID: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) List(_ context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, u := range r.byID {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (r *stubAuthRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	u.Email = email
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubAuthRepo) SetAdmin(_ context.Context, id string, isAdmin bool) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	clone := *u
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testSecret = "test-secret"

func newAuthService(adminEmail string) (*AuthService, *stubAuthRepo) {
	repo := newStubAuthRepo()
	return NewAuthService(repo, testSecret, adminEmail, time.Hour, discardLogger), repo
}

func registerUser(t *testing.T, svc *AuthService, email string) *domain.User {
	t.Helper()
	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc, repo := newAuthService("")

	user := registerUser(t, svc, "alice@example.com")

	stored := repo.byID[user.ID]
	if stored.PasswordHash == "secret123" {
		t.Fatalf("password must never be stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("stored hash does not verify against the original password")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService("")
	registerUser(t, svc, "alice@example.com")

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Other",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, repo := newAuthService("")

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "abc",
	})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("no user should be persisted")
	}
}

func TestAuthService_Register_AdminNotSelfGranted(t *testing.T) {
	svc, _ := newAuthService("boss@example.com")

	regular := registerUser(t, svc, "alice@example.com")
	if regular.IsAdmin {
		t.Fatalf("regular registration must not yield admin")
	}

	boss := registerUser(t, svc, "boss@example.com")
	if !boss.IsAdmin {
		t.Fatalf("bootstrap admin email should yield admin")
	}
}

func TestAuthService_Register_IssuesValidToken(t *testing.T) {
	svc, _ := newAuthService("")

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims := parseClaims(t, token)
	if claims["sub"] != user.ID {
		t.Fatalf("token subject %v does not match user id %s", claims["sub"], user.ID)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService("")

	_, _, err := svc.Login(context.Background(), "missing@x.com", "anything")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAuthService("")
	registerUser(t, svc, "alice@example.com")

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newAuthService("boss@example.com")
	registerUser(t, svc, "boss@example.com")

	token, user, err := svc.Login(context.Background(), "boss@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "boss@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := parseClaims(t, token)
	if claims["sub"] != user.ID {
		t.Fatalf("token subject mismatch")
	}
	if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
		t.Fatalf("token should carry the admin flag")
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		t.Fatalf("token expiry missing or already past: %v", claims["exp"])
	}
}

func TestAuthService_Login_NormalizesEmailCase(t *testing.T) {
	svc, _ := newAuthService("")
	registerUser(t, svc, "Alice@Example.com")

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "secret123"); err != nil {
		t.Fatalf("login with lowercased email: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Password update
// ---------------------------------------------------------------------------

func TestAuthService_UpdatePassword_VerifiesCurrent(t *testing.T) {
	svc, _ := newAuthService("")
	user := registerUser(t, svc, "alice@example.com")
	ctx := context.Background()

	err := svc.UpdatePassword(ctx, user.ID, "wrong-current", "newsecret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.UpdatePassword(ctx, user.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
}

func TestAuthService_UpdatePassword_MinLength(t *testing.T) {
	svc, _ := newAuthService("")
	user := registerUser(t, svc, "alice@example.com")

	err := svc.UpdatePassword(context.Background(), user.ID, "secret123", "short")
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Admin grant
// ---------------------------------------------------------------------------

func TestAuthService_SetAdmin(t *testing.T) {
	svc, _ := newAuthService("")
	user := registerUser(t, svc, "alice@example.com")

	promoted, err := svc.SetAdmin(context.Background(), user.ID, true)
	if err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if !promoted.IsAdmin {
		t.Fatalf("user should be admin after grant")
	}

	if _, err := svc.SetAdmin(context.Background(), "nope", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tkn *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	return claims
}
