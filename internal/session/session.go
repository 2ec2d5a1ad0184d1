package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "smartmart-admin/internal/errors"
)

// Session is the signed-in admin for one browser.
type Session struct {
	ID       string
	Username string
}

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

type Manager struct {
	dir    Directory
	ttl    time.Duration
	logger *slog.Logger
}

func NewManager(dir Directory, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dir: dir, ttl: ttl, logger: logger}
}

// Login starts a session for an already authenticated username.
func (m *Manager) Login(ctx context.Context, store Store, username string) (Session, error) {
	s := Session{ID: uuid.NewString(), Username: username}
	if err := m.dir.Put(ctx, s.ID, username, m.ttl); err != nil {
		return Session{}, err
	}

	store.Set(CookieUsername, username, m.ttl)
	store.Set(CookieSession, s.ID, m.ttl)
	m.logger.InfoContext(ctx, "admin signed in", "username", username, "session_id", s.ID)
	return s, nil
}

// Current returns the session named by the store's cookies, provided the
// directory still knows it under the same username.
func (m *Manager) Current(ctx context.Context, store Store) (Session, error) {
	username, okUser := store.Get(CookieUsername)
	id, okID := store.Get(CookieSession)
	if !okUser || !okID {
		return Session{}, ErrUnknownSession
	}

	owner, err := m.dir.Lookup(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if owner != username {
		m.logger.WarnContext(ctx, "session cookie username mismatch", "session_id", id)
		return Session{}, ErrUnknownSession
	}
	return Session{ID: id, Username: username}, nil
}

// Logout ends the store's session, if any, and clears both cookies.
func (m *Manager) Logout(ctx context.Context, store Store) (Session, error) {
	s, err := m.Current(ctx, store)
	store.Delete(CookieUsername)
	store.Delete(CookieSession)

	if err != nil {
		if errors.Is(err, ErrUnknownSession) {
			return Session{}, nil
		}
		return Session{}, err
	}
	if err := m.dir.Remove(ctx, s.ID); err != nil {
		return s, err
	}
	m.logger.InfoContext(ctx, "admin signed out", "username", s.Username, "session_id", s.ID)
	return s, nil
}

// IsUnauthenticated reports whether err means "no valid session" rather than
// a directory failure.
func IsUnauthenticated(err error) bool {
	return apperrors.Is(err, apperrors.CodeUnauthorized)
}
