// Package session holds the authenticated client state: the bearer token, the
// cached current user and a few view flags that must survive a restart.
package session

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/models"
)

const (
	KeyToken  = "token"
	KeyUser   = "user"
	KeyUserID = "userId"
)

// Session wraps a Storage with typed accessors. Write failures are logged and
// otherwise ignored; the in-memory view of the storage stays authoritative.
type Session struct {
	store Storage
	log   *zap.Logger
}

func New(store Storage, logger *zap.Logger) *Session {
	if store == nil {
		store = NewMemoryStorage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, log: logger}
}

// Storage exposes the backing store for views that persist their own keys.
func (s *Session) Storage() Storage { return s.store }

func (s *Session) Token() string {
	t, _ := s.store.Get(KeyToken)
	return t
}

func (s *Session) LoggedIn() bool { return s.Token() != "" }

func (s *Session) SetToken(token string) {
	s.set(KeyToken, token)
}

func (s *Session) ClearToken() {
	s.del(KeyToken)
}

// UserID returns the cached user's id, falling back to the bare id stored at
// login when the user record could not be fetched.
func (s *Session) UserID() string {
	if u, ok := s.User(); ok && u.ID != "" {
		return u.ID
	}
	id, _ := s.store.Get(KeyUserID)
	return id
}

func (s *Session) SetUserID(id string) {
	s.set(KeyUserID, id)
}

// User returns the cached current user.
func (s *Session) User() (models.User, bool) {
	raw, ok := s.store.Get(KeyUser)
	if !ok || raw == "" {
		return models.User{}, false
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn("discarding unreadable cached user", zap.Error(err))
		return models.User{}, false
	}
	return u, true
}

func (s *Session) SetUser(u models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		s.log.Warn("encode cached user", zap.Error(err))
		return
	}
	s.set(KeyUser, string(data))
	if u.ID != "" {
		s.set(KeyUserID, u.ID)
	}
}

// MergeUser overlays the non-empty fields of u onto the cached user.
func (s *Session) MergeUser(u models.User) models.User {
	cur, _ := s.User()
	if u.ID != "" {
		cur.ID = u.ID
	}
	if u.Name != "" {
		cur.Name = u.Name
	}
	if u.Email != "" {
		cur.Email = u.Email
	}
	if !u.CreatedAt.IsZero() {
		cur.CreatedAt = u.CreatedAt
	}
	if !u.UpdatedAt.IsZero() {
		cur.UpdatedAt = u.UpdatedAt
	}
	s.SetUser(cur)
	return cur
}

// Clear drops the token and every cached user key.
func (s *Session) Clear() {
	s.del(KeyToken, KeyUser, KeyUserID)
}

func (s *Session) set(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		s.log.Warn("session write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Session) del(keys ...string) {
	if err := s.store.Delete(keys...); err != nil {
		s.log.Warn("session delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
