package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
)

var (
	ErrPasswordTooShort        = errors.New("password must be at least 8 characters")
	ErrPasswordUnchanged       = errors.New("new password must differ from the current one")
	ErrCurrentPasswordRequired = errors.New("current password is required")
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 8

type UsersService struct {
	c   *client.Client
	log *zap.Logger
}

func NewUsersService(c *client.Client, logger *zap.Logger) *UsersService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersService{c: c, log: logger}
}

// selfAliases name the logged in user in a user path.
var selfAliases = map[string]bool{"": true, "me": true, "current": true, "profile": true}

// ResolveID maps the self aliases onto the cached user id.
func (s *UsersService) ResolveID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !selfAliases[strings.ToLower(id)] {
		return id, nil
	}
	uid := s.c.Session().UserID()
	if uid == "" {
		return "", ErrNotLoggedIn
	}
	return uid, nil
}

func (s *UsersService) isSelf(id string) bool {
	return id != "" && id == s.c.Session().UserID()
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.c.Get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (models.User, error) {
	uid, err := s.ResolveID(id)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := s.c.Get(ctx, userPath(uid), &u); err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", uid, err)
	}
	return u, nil
}

// Me fetches the logged in user and refreshes the cache. When the request
// fails and a cached user exists, the cached copy is returned with stale set.
func (s *UsersService) Me(ctx context.Context) (u models.User, stale bool, err error) {
	u, err = s.Get(ctx, "me")
	if err == nil {
		s.c.Session().SetUser(u)
		return u, false, nil
	}
	if cached, ok := s.c.Session().User(); ok {
		s.log.Warn("using cached user", zap.Error(err))
		return cached, true, nil
	}
	return models.User{}, false, err
}

type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Update patches a user; updating yourself merges the result into the cache.
func (s *UsersService) Update(ctx context.Context, id string, patch UserUpdate) (models.User, error) {
	uid, err := s.ResolveID(id)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := s.c.Patch(ctx, userPath(uid), patch, &u); err != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", uid, err)
	}
	if s.isSelf(uid) {
		if u.ID == "" {
			u.ID = uid
			if patch.Name != nil {
				u.Name = *patch.Name
			}
			if patch.Email != nil {
				u.Email = *patch.Email
			}
		}
		u = s.c.Session().MergeUser(u)
	}
	return u, nil
}

// ChangePassword updates the logged in user's password. The token is cleared
// afterwards so the user signs in again.
func (s *UsersService) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" {
		return ErrCurrentPasswordRequired
	}
	if len(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if next == current {
		return ErrPasswordUnchanged
	}
	uid, err := s.ResolveID("me")
	if err != nil {
		return err
	}
	body := map[string]string{"password": next, "currentPassword": current}
	if err := s.c.Patch(ctx, userPath(uid), body, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.c.Session().ClearToken()
	return nil
}

// Delete removes a user; deleting yourself clears the session.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	uid, err := s.ResolveID(id)
	if err != nil {
		return err
	}
	self := s.isSelf(uid)
	if err := s.c.Delete(ctx, userPath(uid), nil); err != nil {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	if self {
		s.c.Session().Clear()
	}
	return nil
}
