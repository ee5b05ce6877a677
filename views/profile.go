package views

import (
	"context"
	"errors"
	"strings"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/services"
)

type ProfileStore interface {
	Me(ctx context.Context) (models.User, bool, error)
	Update(ctx context.Context, id string, patch services.UserUpdate) (models.User, error)
	ChangePassword(ctx context.Context, current, next string) error
	Delete(ctx context.Context, id string) error
}

// Profile shows and edits the signed in user's account.
type Profile struct {
	User  models.User
	Stale bool

	Name  string
	Email string

	CurrentPassword string
	NewPassword     string
	ConfirmPassword string

	Errors  map[string]string
	Error   string
	Success string

	store ProfileStore
	nav   Navigator
	msg   *Messages
}

func NewProfile(store ProfileStore, nav Navigator, msg *Messages) *Profile {
	return &Profile{store: store, nav: navOrNop(nav), msg: msgOrDefault(msg), Errors: map[string]string{}}
}

// Load fetches the current user; a cached copy is shown when the fetch fails.
func (p *Profile) Load(ctx context.Context) error {
	u, stale, err := p.store.Me(ctx)
	if err != nil {
		p.Error = p.msg.errorText(err, MsgLoadFailed)
		return err
	}
	p.User, p.Stale = u, stale
	p.Name, p.Email = u.Name, u.Email
	p.Error = ""
	return nil
}

func (p *Profile) SaveProfile(ctx context.Context) bool {
	p.Errors = map[string]string{}
	p.Error, p.Success = "", ""
	name, email := strings.TrimSpace(p.Name), strings.TrimSpace(p.Email)
	if name == "" {
		p.Errors["name"] = p.msg.T(MsgNameRequired)
	}
	switch {
	case email == "":
		p.Errors["email"] = p.msg.T(MsgEmailRequired)
	case !validEmail(email):
		p.Errors["email"] = p.msg.T(MsgEmailInvalid)
	}
	if len(p.Errors) > 0 {
		return false
	}
	u, err := p.store.Update(ctx, "me", services.UserUpdate{Name: &name, Email: &email})
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			p.Errors["email"] = p.msg.T(MsgEmailInUse)
		}
		p.Error = p.msg.errorText(err, MsgLoadFailed)
		return false
	}
	p.User = u
	p.Name, p.Email = u.Name, u.Email
	p.Stale = false
	p.Success = p.msg.T(MsgProfileSaved)
	return true
}

// ChangePassword checks the three password fields, sends the change and sends
// the user to the login screen.
func (p *Profile) ChangePassword(ctx context.Context) bool {
	p.Errors = map[string]string{}
	p.Error, p.Success = "", ""
	if p.CurrentPassword == "" {
		p.Errors["currentPassword"] = p.msg.T(MsgCurrentPassword)
	}
	switch {
	case p.NewPassword == "":
		p.Errors["newPassword"] = p.msg.T(MsgPasswordRequired)
	case len(p.NewPassword) < services.MinPasswordLength:
		p.Errors["newPassword"] = p.msg.T(MsgPasswordTooShort, services.MinPasswordLength)
	case p.NewPassword == p.CurrentPassword:
		p.Errors["newPassword"] = p.msg.T(MsgPasswordUnchanged)
	}
	if p.ConfirmPassword != p.NewPassword {
		p.Errors["confirmPassword"] = p.msg.T(MsgPasswordMismatch)
	}
	if len(p.Errors) > 0 {
		return false
	}
	if err := p.store.ChangePassword(ctx, p.CurrentPassword, p.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooShort):
			p.Errors["newPassword"] = p.msg.T(MsgPasswordTooShort, services.MinPasswordLength)
		case errors.Is(err, services.ErrPasswordUnchanged):
			p.Errors["newPassword"] = p.msg.T(MsgPasswordUnchanged)
		}
		p.Error = p.msg.errorText(err, MsgLoadFailed)
		return false
	}
	p.CurrentPassword, p.NewPassword, p.ConfirmPassword = "", "", ""
	p.Success = p.msg.T(MsgPasswordChanged)
	p.nav.Navigate(RouteLogin)
	return true
}

func (p *Profile) DeleteAccount(ctx context.Context) bool {
	p.Error, p.Success = "", ""
	if err := p.store.Delete(ctx, "me"); err != nil {
		p.Error = p.msg.errorText(err, MsgLoadFailed)
		return false
	}
	p.User = models.User{}
	p.Success = p.msg.T(MsgAccountDeleted)
	p.nav.Navigate(RouteLogin)
	return true
}
