package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// SessionRepository keeps sessions in Redis.
// Key format:
//
//	session:<id>             JSON-encoded domain.Session
//	session:token:<token>    session id
//	session:user:<user id>   session id of the user's latest login
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository wraps client. Sessions expire after ttl; zero keeps
// them until logout.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, userID string, issue func(sessionID string) (string, error)) (*domain.Session, error) {
	id := uuid.NewString()
	token, err := issue(id)
	if err != nil {
		return nil, err
	}
	session := &domain.Session{ID: id, UserID: userID, AccessToken: token}
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(id), payload, r.ttl)
		p.Set(ctx, tokenKey(token), id, r.ttl)
		p.Set(ctx, userKey(userID), id, r.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	return r.findVia(ctx, tokenKey(token))
}

func (r *SessionRepository) FindByUserID(ctx context.Context, userID string) (*domain.Session, error) {
	return r.findVia(ctx, userKey(userID))
}

func (r *SessionRepository) Delete(ctx context.Context, session *domain.Session) error {
	keys := []string{sessionKey(session.ID), tokenKey(session.AccessToken)}
	// Only drop the user index when it still points at this session.
	if current, err := r.client.Get(ctx, userKey(session.UserID)).Result(); err == nil && current == session.ID {
		keys = append(keys, userKey(session.UserID))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// findVia resolves an index key to the session it points at.
func (r *SessionRepository) findVia(ctx context.Context, indexKey string) (*domain.Session, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NotFound("Session does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NotFound("Session does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func sessionKey(id string) string  { return "session:" + id }
func tokenKey(token string) string { return "session:token:" + token }
func userKey(userID string) string { return "session:user:" + userID }
