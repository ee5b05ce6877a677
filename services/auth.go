// Package services wraps the REST resources of the forms backend in typed
// calls. Every call takes the caller's context and is attempted exactly once.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
)

// AuthCode is the typed classification of an authentication failure.
type AuthCode string

const (
	CodeInvalidCredentials AuthCode = models.CodeInvalidCredentials
	CodeValidationFailed   AuthCode = "VALIDATION_FAILED"
	CodeConflict           AuthCode = "CONFLICT"
	CodeNetwork            AuthCode = "NETWORK"
	CodeServer             AuthCode = "SERVER"
)

// InvalidCredentialsMarker is embedded in a backend message to signal a
// wrong email or password.
const InvalidCredentialsMarker = models.InvalidCredentialsMarker

// AuthError is returned by Login and Register.
type AuthError struct {
	Code    AuthCode
	Field   string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// AuthCodeOf returns the code of the *AuthError in err's chain.
func AuthCodeOf(err error) (AuthCode, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}

var ErrNotLoggedIn = errors.New("not logged in")

// classifyAuth turns a gateway error into an *AuthError. onLogin treats
// 401/403 as invalid credentials.
func classifyAuth(err error, onLogin bool) *AuthError {
	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		return &AuthError{Code: CodeServer, Err: err}
	}
	msg := strings.TrimSpace(strings.ReplaceAll(apiErr.Message, InvalidCredentialsMarker, ""))
	ae := &AuthError{Field: apiErr.Field, Message: msg, Err: err}
	switch {
	case apiErr.Code == string(CodeInvalidCredentials),
		strings.Contains(apiErr.Message, InvalidCredentialsMarker),
		onLogin && apiErr.Kind == client.KindAuth:
		ae.Code = CodeInvalidCredentials
	case apiErr.Kind == client.KindValidation:
		ae.Code = CodeValidationFailed
		if ae.Field == "" {
			ae.Field = fieldInMessage(msg)
		}
	case apiErr.Kind == client.KindConflict:
		ae.Code = CodeConflict
	case apiErr.Kind == client.KindNetwork:
		ae.Code = CodeNetwork
	default:
		ae.Code = CodeServer
	}
	return ae
}

// fieldInMessage names the credential field a free-text backend message is
// about, or "" when it mentions neither. Email wins when both appear.
func fieldInMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "email"), strings.Contains(lower, "e-post"):
		return "email"
	case strings.Contains(lower, "password"), strings.Contains(lower, "parool"):
		return "password"
	}
	return ""
}

type AuthService struct {
	c     *client.Client
	users *UsersService
	log   *zap.Logger
}

func NewAuthService(c *client.Client, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{c: c, users: NewUsersService(c, logger), log: logger}
}

type LoginResult struct {
	Token  string       `json:"token"`
	UserID string       `json:"userId"`
	User   *models.User `json:"user,omitempty"`
}

// Login exchanges credentials for a token and caches the current user. When
// the response carries no user it is fetched best effort.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	if err := s.c.Post(ctx, "/sessions", body, &res); err != nil {
		return LoginResult{}, classifyAuth(err, true)
	}
	if res.Token == "" {
		return LoginResult{}, &AuthError{Code: CodeInvalidCredentials, Message: "no token in login response"}
	}

	sess := s.c.Session()
	sess.SetToken(res.Token)
	if res.UserID == "" && res.User != nil {
		res.UserID = res.User.ID
	}
	if res.UserID != "" {
		sess.SetUserID(res.UserID)
	}
	if res.User == nil && res.UserID != "" {
		u, err := s.users.Get(ctx, res.UserID)
		if err != nil {
			s.log.Warn("fetch user after login", zap.String("userId", res.UserID), zap.Error(err))
		} else {
			res.User = &u
		}
	}
	if res.User != nil {
		sess.SetUser(*res.User)
	}
	return res, nil
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	Token string
	User  models.User
}

// Register creates an account. The backend may answer {token, user} or the
// bare user; a token is stored when present.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	var raw json.RawMessage
	if err := s.c.Post(ctx, "/users", req, &raw); err != nil {
		return RegisterResult{}, classifyAuth(err, false)
	}

	var res RegisterResult
	doc := gjson.ParseBytes(raw)
	res.Token = doc.Get("token").String()
	userJSON := raw
	if u := doc.Get("user"); u.IsObject() {
		userJSON = json.RawMessage(u.Raw)
	}
	if len(userJSON) > 0 {
		if err := json.Unmarshal(userJSON, &res.User); err != nil {
			return RegisterResult{}, fmt.Errorf("decode registered user: %w", err)
		}
	}

	if res.Token != "" {
		sess := s.c.Session()
		sess.SetToken(res.Token)
		if res.User.ID != "" {
			sess.SetUser(res.User)
		}
	}
	return res, nil
}

// Logout ends the server session best effort and always clears the local one.
func (s *AuthService) Logout(ctx context.Context) {
	sess := s.c.Session()
	if sess.LoggedIn() {
		if err := s.c.Delete(ctx, "/sessions", nil); err != nil {
			s.log.Debug("logout request failed", zap.Error(err))
		}
	}
	sess.Clear()
}

// CurrentUser returns the cached user without a network round trip.
func (s *AuthService) CurrentUser() (models.User, bool) {
	return s.c.Session().User()
}
