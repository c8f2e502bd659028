package auth

import (
	"context"
	"errors"

	"github.com/sweethut/storefront/internal/domain"
)

// IdentityProvider wraps the hosted identity backend. Consumers define
// this interface, not the HTTP implementation.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignOut(ctx context.Context) error
	// Session returns the user behind the current session, or
	// ErrNoSession when nobody is signed in.
	Session(ctx context.Context) (*domain.User, error)
}

// ProfileStore is the side table holding per-user roles.
type ProfileStore interface {
	Role(ctx context.Context, userID string) (domain.Role, error)
	CreateProfile(ctx context.Context, userID, email string, role domain.Role) error
}

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileNotFound    = errors.New("profile not found")
)
