// Package memory keeps login sessions in the protected document store.
package memory

import (
	"context"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// SessionRepository stores sessions in the protected namespace's sessions
// collection.
type SessionRepository struct {
	store ports.DocumentStore
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(store ports.DocumentStore) *SessionRepository {
	return &SessionRepository{store: store}
}

// Save adds the session first so its id can be signed into the token, then
// writes the token back onto the record.
func (r *SessionRepository) Save(_ context.Context, userID string, issue func(sessionID string) (string, error)) (*domain.Session, error) {
	created, err := r.store.Add(domain.CollectionSessions, domain.Document{"userId": userID})
	if err != nil {
		return nil, err
	}
	token, err := issue(created.ID())
	if err != nil {
		_, _ = r.store.Delete(domain.CollectionSessions, created.ID())
		return nil, err
	}
	stored, err := r.store.Set(domain.CollectionSessions, created.ID(), domain.Document{
		"userId":      userID,
		"accessToken": token,
	})
	if err != nil {
		return nil, err
	}
	return toSession(stored), nil
}

func (r *SessionRepository) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	return r.findOne(domain.Document{"accessToken": token})
}

func (r *SessionRepository) FindByUserID(_ context.Context, userID string) (*domain.Session, error) {
	return r.findOne(domain.Document{"userId": userID})
}

func (r *SessionRepository) Delete(_ context.Context, session *domain.Session) error {
	_, err := r.store.Delete(domain.CollectionSessions, session.ID)
	return err
}

func (r *SessionRepository) findOne(filter domain.Document) (*domain.Session, error) {
	matches, err := r.store.Query(domain.CollectionSessions, filter)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.NotFound("Session does not exist")
	}
	return toSession(matches[0]), nil
}

func toSession(doc domain.Document) *domain.Session {
	userID, _ := doc["userId"].(string)
	token, _ := doc["accessToken"].(string)
	return &domain.Session{ID: doc.ID(), UserID: userID, AccessToken: token}
}
