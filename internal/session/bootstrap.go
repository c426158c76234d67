package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splittab/splittab/internal/api"
	"github.com/splittab/splittab/internal/models"
)

// Manager owns the process-wide session. Bootstrap runs once at startup;
// afterwards login and logout are plain transitions that never re-enter the
// bootstrap states.
type Manager struct {
	client  *api.Client
	store   *Store
	session *models.Session
}

// NewManager wires the session manager to the transport and the persisted
// store. The session starts anonymous until Bootstrap or Login resolves it.
func NewManager(client *api.Client, store *Store) *Manager {
	return &Manager{
		client:  client,
		store:   store,
		session: &models.Session{},
	}
}

// Current returns the session. Never nil; anonymous when unauthenticated.
func (m *Manager) Current() *models.Session {
	return m.session
}

// Bootstrap reconciles the persisted token, an incoming OAuth callback
// token, and the authoritative current-user fetch.
//
// Precedence: a callback token wins over any stored token and is persisted
// in its place. Any hydration failure clears the stored session entirely and
// resolves to anonymous; a half-authenticated state is never left behind.
func (m *Manager) Bootstrap(ctx context.Context, callbackToken string) *models.Session {
	if callbackToken != "" {
		slog.Info("Bootstrapping session from callback token")
		if err := m.hydrate(ctx, callbackToken); err != nil {
			slog.Warn("Callback token hydration failed, resolving anonymous", "error", err)
			m.reset(ctx)
		}
		return m.session
	}

	storedToken, cachedUser, err := m.store.Load(ctx)
	if err != nil {
		slog.Warn("Could not load persisted session, resolving anonymous", "error", err)
		return m.session
	}
	if storedToken == "" {
		slog.Debug("No persisted session, resolving anonymous")
		return m.session
	}

	if tokenExpired(storedToken) {
		slog.Info("Persisted token is expired, resolving anonymous")
		m.reset(ctx)
		return m.session
	}

	if cachedUser != nil {
		slog.Debug("Found cached user", "user_id", cachedUser.ID)
	}
	if err := m.hydrate(ctx, storedToken); err != nil {
		slog.Warn("Stored token hydration failed, resolving anonymous", "error", err)
		m.reset(ctx)
	}
	return m.session
}

// hydrate installs the token, fetches the authoritative current user, and
// persists both together.
func (m *Manager) hydrate(ctx context.Context, token string) error {
	m.client.SetToken(token)
	user, err := m.client.GetCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("hydrate current user: %w", err)
	}
	if err := m.store.Save(ctx, token, user); err != nil {
		// Persistence failure does not block this run's identity.
		slog.Warn("Could not persist session", "error", err)
	}
	m.session = &models.Session{User: user, Token: token}
	slog.Info("Session ready", "user_id", user.ID, "username", user.Username)
	return nil
}

// Login authenticates with email and password, then hydrates the identity
// from the service the same way bootstrap does.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	auth, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := m.hydrate(ctx, auth.AccessToken); err != nil {
		m.reset(ctx)
		return nil, err
	}
	return m.session, nil
}

// Register creates an account and immediately logs it in.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (*models.Session, error) {
	if _, err := m.client.Register(ctx, req); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return m.Login(ctx, req.Email, req.Password)
}

// Logout clears the token and cached user together and returns the session
// to anonymous.
func (m *Manager) Logout(ctx context.Context) {
	m.reset(ctx)
	slog.Info("Logged out")
}

// UpdateUser replaces the cached current user after a profile edit. The
// token is untouched; this is the one partial session update allowed.
func (m *Manager) UpdateUser(ctx context.Context, user *models.User) {
	m.session.User = user
	if m.session.Token != "" {
		if err := m.store.Save(ctx, m.session.Token, user); err != nil {
			slog.Warn("Could not persist updated user", "error", err)
		}
	}
}

func (m *Manager) reset(ctx context.Context) {
	m.client.SetToken("")
	m.session = &models.Session{}
	if err := m.store.Clear(ctx); err != nil {
		slog.Warn("Could not clear persisted session", "error", err)
	}
}
