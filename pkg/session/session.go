// Package session manages the console's authentication state: the Session
// value produced by a credential exchange, its durable persistence across
// runs, and the Anonymous/Authenticated state cell that every protected
// view consults.
package session

import "slices"

// Known capability actions granted by the backend at credential-exchange
// time. Unknown action strings are tolerated in a session; they simply
// never match a recognized capability.
const (
	ActionUserRead   = "user:read"
	ActionUserWrite  = "user:write"
	ActionTweetRead  = "tweet:read"
	ActionTweetWrite = "tweet:write"
)

// Session is an established authentication context. Token and Username are
// non-empty whenever a Session exists; Actions may be empty.
type Session struct {
	Token    string
	Actions  []string
	Username string
}

// Can reports whether the session was granted the given action.
func (s *Session) Can(action string) bool {
	return slices.Contains(s.Actions, action)
}

// clone returns a copy that shares no mutable state with the receiver.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{
		Token:    s.Token,
		Actions:  slices.Clone(s.Actions),
		Username: s.Username,
	}
}

// Store persists a session across console runs.
type Store interface {
	// Load returns the persisted session, or nil when nothing is stored.
	// Missing or malformed entries load as nil rather than a partially
	// populated session; malformed data is never an error.
	Load() (*Session, error)

	// Save persists all session entries. A read never observes a partial
	// write.
	Save(*Session) error

	// Clear removes every persisted entry. Clearing an empty store is not
	// an error.
	Clear() error
}
