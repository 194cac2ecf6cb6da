package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ignacio/twitter-console/pkg/api"
)

// Manager is the process-wide authentication state cell. It is either
// Anonymous (no session) or Authenticated (one session), and it is the
// only writer of that state: consumers read the current session and report
// authorization loss back by calling Logout.
type Manager struct {
	store  Store
	client *api.Client
	logger *slog.Logger

	mu      sync.RWMutex
	current *Session
}

// NewManager creates a manager bound to a store and API client. The store
// is consulted once at construction; a persisted session starts the
// manager Authenticated, anything else starts it Anonymous.
func NewManager(store Store, client *api.Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: store, client: client, logger: logger}

	sess, err := store.Load()
	if err != nil {
		logger.Warn("loading persisted session", "error", err)
	}
	if sess != nil {
		m.current = sess
		logger.Info("session restored", "username", sess.Username)
	}
	return m
}

// Current returns a copy of the active session, or nil when Anonymous.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Token returns the active session's token, or "" when Anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Login exchanges credentials for a token, persists the resulting session
// and transitions to Authenticated. On failure the state is left untouched
// and the classified error propagates to the caller; login never retries.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	resp, err := m.client.RequestToken(ctx, api.TokenRequest{Username: username, Password: password})
	if err != nil {
		return err
	}

	sess := &Session{
		Token:    resp.AccessToken,
		Actions:  resp.Actions,
		Username: username,
	}
	if err := m.store.Save(sess); err != nil {
		// The in-memory session is authoritative for this process; a
		// persistence failure only costs the next run its restore.
		m.logger.Warn("persisting session", "error", err)
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.logger.Info("session established", "username", username, "actions", len(resp.Actions))
	return nil
}

// Logout clears the persisted entries and transitions to Anonymous. It is
// idempotent and always completes the state transition.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing persisted session", "error", err)
	}

	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()

	if had {
		m.logger.Info("session cleared")
	}
}
