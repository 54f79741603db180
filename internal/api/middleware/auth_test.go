package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret)(next)(c)
	return c, err
}

func TestAuth_ValidToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":      "u1",
		"is_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if got, _ := c.Get("user_id").(string); got != "u1" {
		t.Fatalf("user_id not set, got %v", c.Get("user_id"))
	}
	if got, _ := c.Get("is_admin").(bool); !got {
		t.Fatalf("is_admin not set")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	assertUnauthorized(t, err)
}

func TestAuth_BadScheme(t *testing.T) {
	_, err := runAuth(t, "Basic dXNlcjpwYXNz")
	assertUnauthorized(t, err)
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signedToken(t, "other-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := runAuth(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := runAuth(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestAuth_MissingSubject(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := runAuth(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
