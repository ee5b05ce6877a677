package views

import (
	"context"
	"errors"
	"strings"

	"github.com/vnkhanh/forms-app/services"
	"github.com/vnkhanh/forms-app/session"
)

// Storage keys of the persisted login error state.
const (
	KeyLoginError         = "loginError"
	KeyLoginEmailError    = "loginEmailError"
	KeyLoginPasswordError = "loginPasswordError"
	KeyLoginAttempted     = "loginAttempted"
	KeyHasAuthError       = "hasAuthError"
)

var loginKeys = []string{KeyLoginError, KeyLoginEmailError, KeyLoginPasswordError, KeyLoginAttempted, KeyHasAuthError}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (services.LoginResult, error)
}

// Login is the sign-in screen. Its error state outlives the process: a new
// Login over the same storage shows the errors of the last failed attempt.
type Login struct {
	Email    string
	Password string

	Error         string
	EmailError    string
	PasswordError string
	Attempted     bool
	HasAuthError  bool

	auth  Authenticator
	store session.Storage
	nav   Navigator
	msg   *Messages
}

func NewLogin(auth Authenticator, store session.Storage, nav Navigator, msg *Messages) *Login {
	if store == nil {
		store = session.NewMemoryStorage()
	}
	l := &Login{auth: auth, store: store, nav: navOrNop(nav), msg: msgOrDefault(msg)}
	l.restore()
	return l
}

func (l *Login) restore() {
	l.Error, _ = l.store.Get(KeyLoginError)
	l.EmailError, _ = l.store.Get(KeyLoginEmailError)
	l.PasswordError, _ = l.store.Get(KeyLoginPasswordError)
	attempted, _ := l.store.Get(KeyLoginAttempted)
	l.Attempted = attempted == "true"
	authErr, _ := l.store.Get(KeyHasAuthError)
	l.HasAuthError = authErr == "true"
}

func (l *Login) persist() {
	values := map[string]string{
		KeyLoginError:         l.Error,
		KeyLoginEmailError:    l.EmailError,
		KeyLoginPasswordError: l.PasswordError,
		KeyLoginAttempted:     boolString(l.Attempted),
		KeyHasAuthError:       boolString(l.HasAuthError),
	}
	for _, k := range loginKeys {
		if values[k] == "" || values[k] == "false" {
			_ = l.store.Delete(k)
			continue
		}
		_ = l.store.Set(k, values[k])
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// SetEmail and SetPassword edit the fields; existing errors stay visible.
func (l *Login) SetEmail(v string)    { l.Email = v }
func (l *Login) SetPassword(v string) { l.Password = v }

// Submit runs the local checks, then the login call, and routes any failure
// into the field and banner errors. It reports whether the user is signed in.
func (l *Login) Submit(ctx context.Context) bool {
	l.Attempted = true
	l.Error, l.EmailError, l.PasswordError = "", "", ""
	l.HasAuthError = false

	if strings.TrimSpace(l.Email) == "" {
		l.EmailError = l.msg.T(MsgEmailRequired)
	}
	if l.Password == "" {
		l.PasswordError = l.msg.T(MsgPasswordRequired)
	}
	if l.EmailError != "" || l.PasswordError != "" {
		l.persist()
		return false
	}

	_, err := l.auth.Login(ctx, l.Email, l.Password)
	if err != nil {
		l.applyError(err)
		l.persist()
		return false
	}

	l.clearErrors()
	l.nav.Navigate(RouteForms)
	return true
}

func (l *Login) applyError(err error) {
	var ae *services.AuthError
	if !errors.As(err, &ae) {
		l.Error = l.msg.errorText(err, MsgLoginFailed)
		return
	}
	msg := ae.Message
	if msg == "" {
		msg = l.msg.T(MsgLoginFailed)
	}
	switch {
	case ae.Code == services.CodeInvalidCredentials:
		text := l.msg.T(MsgInvalidCredentials)
		l.EmailError, l.PasswordError, l.Error = text, text, text
		l.HasAuthError = true
	case ae.Code == services.CodeValidationFailed && ae.Field == "email":
		l.EmailError, l.Error = msg, msg
	case ae.Code == services.CodeValidationFailed && ae.Field == "password":
		l.PasswordError, l.Error = msg, msg
	case ae.Code == services.CodeNetwork:
		l.Error = l.msg.T(MsgNetwork)
	default:
		l.Error = msg
	}
}

func (l *Login) clearErrors() {
	l.Error, l.EmailError, l.PasswordError = "", "", ""
	l.Attempted, l.HasAuthError = false, false
	_ = l.store.Delete(loginKeys...)
}

// ClearForm resets the fields and every persisted error.
func (l *Login) ClearForm() {
	l.Email, l.Password = "", ""
	l.clearErrors()
}

// GoToRegister leaves the screen for registration.
func (l *Login) GoToRegister() { l.nav.Navigate(RouteRegister) }
