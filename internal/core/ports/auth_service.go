package ports

import (
	"context"

	"github.com/sups/practice-server/internal/core/domain"
)

// AuthService handles registration, login and session-backed authentication.
type AuthService interface {
	// Register stores a new user and returns it with an accessToken field.
	Register(ctx context.Context, body domain.Document) (domain.Document, error)
	Login(ctx context.Context, identity, password string) (domain.Document, error)
	Logout(ctx context.Context, actor domain.Actor) error
	// Authenticate resolves an access token into the user it belongs to.
	Authenticate(ctx context.Context, token string) (domain.Document, error)
	Me(ctx context.Context, actor domain.Actor) (domain.Document, error)
}

// PasswordHasher hashes and verifies user secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
