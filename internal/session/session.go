// Package session tracks the authentication state of one connection
// and guards every vault operation behind it. A session starts out
// anonymous, becomes authenticated through register or login, and
// returns to anonymous on disconnect. Vault access always uses the
// username bound at login, never a client-supplied one, so a session
// can never address another user's vault.
package session

import (
	"github.com/passsecure/passsecure/internal/protocol"
)

// Vault defines the persistence operations the session delegates to.
type Vault interface {
	Read(user, name string) (string, error)
	Write(user, name, content string, overwrite bool) error
	Remove(user, name string) error
	Register(user, passwordHash string) error
	Verify(user, passwordHash string) error
}

// Hasher produces the credential digest stored at registration and
// compared at login.
type Hasher interface {
	Hash(secret string) string
}

// Session is the per-connection authentication state machine. It is
// owned exclusively by its connection's worker and needs no locking of
// its own; cross-session uniqueness is the Registry's job.
type Session struct {
	vault    Vault
	hasher   Hasher
	registry *Registry

	loggedIn bool
	username string
}

// New constructs an anonymous session. registry may be nil, in which
// case no cross-session uniqueness is enforced.
func New(vault Vault, hasher Hasher, registry *Registry) *Session {
	return &Session{vault: vault, hasher: hasher, registry: registry}
}

// Authenticated reports whether the session holds a logged-in user.
func (s *Session) Authenticated() bool {
	return s.loggedIn
}

// Username returns the bound username, or "" while anonymous.
func (s *Session) Username() string {
	return s.username
}

// Register creates the credential record for a new user and performs
// the login transition.
func (s *Session) Register(username, password string) error {
	if username == "" || password == "" {
		return protocol.ErrInvalidArgument
	}
	if s.loggedIn {
		return protocol.ErrUserAlreadyConnected
	}

	if err := s.vault.Register(username, s.hasher.Hash(password)); err != nil {
		return err
	}
	return s.authenticate(username)
}

// Login verifies credentials and binds the session to the user. A login
// repeated for the username this session already holds re-verifies the
// credentials and succeeds; a login for any other username while
// authenticated, or for a username held by another session, fails with
// user_already_connected.
func (s *Session) Login(username, password string) error {
	if username == "" || password == "" {
		return protocol.ErrInvalidArgument
	}
	if s.loggedIn && s.username != username {
		return protocol.ErrUserAlreadyConnected
	}

	if err := s.vault.Verify(username, s.hasher.Hash(password)); err != nil {
		return err
	}
	if s.loggedIn {
		return nil
	}
	return s.authenticate(username)
}

// authenticate claims the username in the registry and flips the
// session to authenticated.
func (s *Session) authenticate(username string) error {
	if s.registry != nil {
		if !s.registry.acquire(username, s) {
			return protocol.ErrUserAlreadyConnected
		}
	}
	s.loggedIn = true
	s.username = username
	return nil
}

// Disconnect returns the session to anonymous. Idempotent; also called
// when the connection closes.
func (s *Session) Disconnect() {
	if !s.loggedIn {
		return
	}
	if s.registry != nil {
		s.registry.release(s.username, s)
	}
	s.loggedIn = false
	s.username = ""
}

// Add stores a password entry in the authenticated user's vault.
func (s *Session) Add(name, password string, overwrite bool) error {
	if !s.loggedIn {
		return protocol.ErrUnauthorized
	}
	if name == "" || password == "" {
		return protocol.ErrInvalidArgument
	}
	return s.vault.Write(s.username, name, password, overwrite)
}

// Get retrieves a password entry from the authenticated user's vault.
func (s *Session) Get(name string) (string, error) {
	if !s.loggedIn {
		return "", protocol.ErrUnauthorized
	}
	if name == "" {
		return "", protocol.ErrInvalidArgument
	}
	return s.vault.Read(s.username, name)
}

// Remove deletes a password entry from the authenticated user's vault.
func (s *Session) Remove(name string) error {
	if !s.loggedIn {
		return protocol.ErrUnauthorized
	}
	if name == "" {
		return protocol.ErrInvalidArgument
	}
	return s.vault.Remove(s.username, name)
}
