package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	listUsersFn      func(ctx context.Context) ([]*domain.User, error)
	updateProfileFn  func(ctx context.Context, userID, name, email string) (*domain.User, error)
	updatePasswordFn func(ctx context.Context, userID, currentPassword, newPassword string) error
	setAdminFn       func(ctx context.Context, userID string, isAdmin bool) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, name, email)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return s.updatePasswordFn(ctx, userID, currentPassword, newPassword)
}

func (s *stubAuthService) SetAdmin(ctx context.Context, userID string, isAdmin bool) (*domain.User, error) {
	return s.setAdminFn(ctx, userID, isAdmin)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			if input.Name != "alice" || input.Email != "a@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return "token123", &domain.User{ID: "u1", Name: input.Name, Email: input.Email}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"alice","email":"a@example.com","password":"secret123"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "a@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must never appear in responses")
	}
}

func TestAuthHandler_Register_IgnoresClientAdminFlag(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			return "t", &domain.User{ID: "u1", Email: input.Email}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	// A legacy client sending isAdmin:true gets a regular account.
	req := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"mallory","email":"m@example.com","password":"secret123","isAdmin":true}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user := resp["user"].(map[string]any)
	if user["isAdmin"] != false {
		t.Fatalf("client-supplied isAdmin must be ignored, got %+v", user)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"bob","email":"b@example.com","password":"secret123"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("service should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"bob"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@example.com" || password != "secret123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"secret123"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["user"] == nil {
		t.Fatalf("expected token and user, got %+v", resp)
	}
}

// Unknown email and wrong password must be indistinguishable to clients.
func TestAuthHandler_Login_GenericFailureMessage(t *testing.T) {
	e := newEcho()

	for name, loginErr := range map[string]error{
		"unknown email":  domain.ErrUserNotFound,
		"wrong password": domain.ErrInvalidCredentials,
	} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
				return "", nil, loginErr
			},
		}
		handler := NewAuthHandler(stub, zerolog.Nop())

		req := jsonRequest(http.MethodPost, "/api/auth/login",
			`{"email":"a@example.com","password":"whatever"}`)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = handler.Login(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", name, err)
		}
		if resp["error"] != "invalid email or password" {
			t.Fatalf("%s: expected generic message, got %q", name, resp["error"])
		}
	}
}

func TestAuthHandler_UpdatePassword_WrongCurrent(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		updatePasswordFn: func(ctx context.Context, userID, currentPassword, newPassword string) error {
			return domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPut, "/api/auth/password",
		`{"currentPassword":"wrong","newPassword":"newsecret"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("is_admin", false)

	_ = handler.UpdatePassword(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdateProfile_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		updateProfileFn: func(ctx context.Context, userID, name, email string) (*domain.User, error) {
			if userID != "u1" {
				t.Fatalf("expected identity from context, got %s", userID)
			}
			return &domain.User{ID: userID, Name: name, Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPut, "/api/auth/profile",
		`{"name":"Alice B","email":"ab@example.com"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("is_admin", false)

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_SetAdmin(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		setAdminFn: func(ctx context.Context, userID string, isAdmin bool) (*domain.User, error) {
			if userID != "u2" || !isAdmin {
				t.Fatalf("unexpected args: %s %v", userID, isAdmin)
			}
			return &domain.User{ID: userID, IsAdmin: isAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	req := jsonRequest(http.MethodPut, "/api/auth/users/u2/admin", `{"isAdmin":true}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("u2")

	if err := handler.SetAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
