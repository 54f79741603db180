package ports

import (
	"context"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Admin status is
// deliberately absent: it is granted by an existing admin or at bootstrap,
// never self-supplied.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService defines identity and credential use cases.
type AuthService interface {
	// Register creates a user and returns it along with a fresh token.
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	// Login verifies credentials and issues a signed bearer token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	// UpdatePassword re-verifies the current password before accepting the new one.
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) (*domain.User, error)
}
