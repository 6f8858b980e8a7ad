package ports

import (
	"context"

	"github.com/sups/practice-server/internal/core/domain"
)

// SessionRepository persists login sessions.
type SessionRepository interface {
	// Save opens a session for userID; issue builds the access token from the
	// new session's id.
	Save(ctx context.Context, userID string, issue func(sessionID string) (string, error)) (*domain.Session, error)
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Session, error)
	Delete(ctx context.Context, session *domain.Session) error
}
