package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

const (
	msgMissingFields  = "Missing fields"
	msgBadCredentials = "Login or password don't match"
	msgInvalidToken   = "Invalid access token"
	msgNoSession      = "User session does not exist"
)

// BcryptHasher implements ports.PasswordHasher with bcrypt.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthConfig holds the token and identity settings of an AuthService.
type AuthConfig struct {
	// Identity is the user field that identifies an account, e.g. "email".
	Identity  string
	JWTSecret string
	TokenTTL  time.Duration
}

// AuthService implements registration, login and session-backed token
// authentication over the protected users collection.
type AuthService struct {
	users    ports.DocumentStore
	sessions ports.SessionRepository
	hasher   ports.PasswordHasher
	cfg      AuthConfig
	metrics  ports.Metrics
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.DocumentStore, sessions ports.SessionRepository, hasher ports.PasswordHasher, cfg AuthConfig, m ports.Metrics, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Identity == "" {
		cfg.Identity = "email"
	}
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if m == nil {
		m = ports.NopMetrics{}
	}
	return &AuthService{users: users, sessions: sessions, hasher: hasher, cfg: cfg, metrics: m, log: log}
}

// Register stores every field of body except the password, which is kept only
// as a hash, and opens a session for the new user.
func (s *AuthService) Register(ctx context.Context, body domain.Document) (domain.Document, error) {
	identity, _ := body[s.cfg.Identity].(string)
	password, _ := body["password"].(string)
	if identity == "" || password == "" {
		return nil, domain.RequestErr(msgMissingFields)
	}

	existing, err := s.findUser(identity)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict(fmt.Sprintf("A user with the same %s already exists", s.cfg.Identity))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	record := body.Without("password", domain.FieldOwnerID)
	record[domain.FieldHashedPassword] = hash

	user, err := s.users.Add(domain.CollectionUsers, record)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID()).Str(s.cfg.Identity, identity).Msg("user registered")
	return s.openSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, identity, password string) (domain.Document, error) {
	if identity == "" || password == "" {
		return nil, domain.Forbidden(msgBadCredentials)
	}
	user, err := s.findUser(identity)
	if err != nil {
		return nil, err
	}
	hash, _ := user[domain.FieldHashedPassword].(string)
	if user == nil || !s.hasher.Compare(hash, password) {
		s.log.Warn().Str(s.cfg.Identity, identity).Msg("login rejected")
		return nil, domain.Forbidden(msgBadCredentials)
	}
	s.log.Info().Str("user_id", user.ID()).Msg("user logged in")
	return s.openSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, actor domain.Actor) error {
	if !actor.Authenticated() {
		return domain.Forbidden(msgNoSession)
	}
	session, err := s.sessions.FindByUserID(ctx, actor.ID())
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session); err != nil {
		return err
	}
	s.metrics.SessionClosed()
	s.log.Info().Str("user_id", actor.ID()).Msg("user logged out")
	return nil
}

// Authenticate accepts a token only when its signature verifies and the
// session it names is still open.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Document, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, domain.Forbidden(msgInvalidToken)
	}
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Forbidden(msgInvalidToken)
		}
		return nil, err
	}
	if sid, _ := claims["sid"].(string); sid != session.ID {
		return nil, domain.Forbidden(msgInvalidToken)
	}
	user, err := s.users.Get(domain.CollectionUsers, session.UserID)
	if err != nil {
		return nil, domain.Forbidden(msgInvalidToken)
	}
	return user, nil
}

func (s *AuthService) Me(_ context.Context, actor domain.Actor) (domain.Document, error) {
	if !actor.Authenticated() {
		return nil, domain.Unauthorized("")
	}
	return domain.PublicUser(actor.User), nil
}

// findUser returns nil when no account matches identity.
func (s *AuthService) findUser(identity string) (domain.Document, error) {
	matches, err := s.users.Query(domain.CollectionUsers, domain.Document{s.cfg.Identity: identity})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (s *AuthService) openSession(ctx context.Context, user domain.Document) (domain.Document, error) {
	session, err := s.sessions.Save(ctx, user.ID(), func(sessionID string) (string, error) {
		return s.generateToken(sessionID, user.ID())
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID()).Msg("failed to open session")
		return nil, err
	}
	s.metrics.SessionOpened()

	result := domain.PublicUser(user)
	result["accessToken"] = session.AccessToken
	return result, nil
}

func (s *AuthService) generateToken(sessionID, userID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
