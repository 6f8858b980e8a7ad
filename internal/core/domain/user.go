package domain

// Protected namespace collections.
const (
	CollectionUsers    = "users"
	CollectionSessions = "sessions"
)

// Actor is the party performing a request. User is nil for anonymous callers;
// Admin is set when the request carries the admin override signal.
type Actor struct {
	User  Document
	Admin bool
}

// Authenticated reports whether a user is attached to the actor.
func (a Actor) Authenticated() bool {
	return a.User != nil
}

// ID returns the user identifier, or "" for anonymous actors.
func (a Actor) ID() string {
	if a.User == nil {
		return ""
	}
	return a.User.ID()
}

// Session links an access token to a user.
type Session struct {
	ID          string `json:"_id"`
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

// PublicUser returns a copy of the stored user without its hashed secret.
func PublicUser(user Document) Document {
	return user.Without(FieldHashedPassword)
}
