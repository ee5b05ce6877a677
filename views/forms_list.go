package views

import (
	"context"
	"strings"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/services"
)

type FormStore interface {
	List(ctx context.Context) ([]models.Form, error)
	Create(ctx context.Context, in services.FormInput) (models.Form, error)
	Delete(ctx context.Context, id string) error
}

// Identity tells views who is signed in. *session.Session implements it.
type Identity interface {
	UserID() string
}

// FormsList shows every form, split into the user's own and everybody else's.
type FormsList struct {
	Forms []models.Form

	NewTitle       string
	NewDescription string

	Error   string
	Success string

	store FormStore
	who   Identity
	nav   Navigator
	msg   *Messages
}

func NewFormsList(store FormStore, who Identity, nav Navigator, msg *Messages) *FormsList {
	return &FormsList{store: store, who: who, nav: navOrNop(nav), msg: msgOrDefault(msg)}
}

func (v *FormsList) userID() string {
	if v.who == nil {
		return ""
	}
	return v.who.UserID()
}

func (v *FormsList) Load(ctx context.Context) error {
	forms, err := v.store.List(ctx)
	if err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return err
	}
	v.Error = ""
	v.Forms = forms
	return nil
}

// MyForms returns the forms owned by the signed in user.
func (v *FormsList) MyForms() []models.Form {
	uid := v.userID()
	var out []models.Form
	for _, f := range v.Forms {
		if f.OwnedBy(uid) {
			out = append(out, f)
		}
	}
	return out
}

// OtherForms returns every form the signed in user does not own.
func (v *FormsList) OtherForms() []models.Form {
	uid := v.userID()
	var out []models.Form
	for _, f := range v.Forms {
		if !f.OwnedBy(uid) {
			out = append(out, f)
		}
	}
	return out
}

// Create adds a form from NewTitle and NewDescription and prepends it.
func (v *FormsList) Create(ctx context.Context) (models.Form, bool) {
	v.Error, v.Success = "", ""
	if strings.TrimSpace(v.NewTitle) == "" {
		v.Error = v.msg.T(MsgTitleRequired)
		return models.Form{}, false
	}
	f, err := v.store.Create(ctx, services.FormInput{
		Title:       v.NewTitle,
		Description: v.NewDescription,
		UserID:      v.userID(),
	})
	if err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return models.Form{}, false
	}
	if f.OwnerID == "" {
		f.OwnerID = v.userID()
	}
	v.Forms = append([]models.Form{f}, v.Forms...)
	v.NewTitle, v.NewDescription = "", ""
	v.Success = v.msg.T(MsgFormCreated)
	return f, true
}

func (v *FormsList) Delete(ctx context.Context, id string) bool {
	v.Error, v.Success = "", ""
	if err := v.store.Delete(ctx, id); err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return false
	}
	kept := v.Forms[:0]
	for _, f := range v.Forms {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	v.Forms = kept
	v.Success = v.msg.T(MsgFormDeleted)
	return true
}

func (v *FormsList) Open(id string)          { v.nav.Navigate(FormRoute(id)) }
func (v *FormsList) Edit(id string)          { v.nav.Navigate(FormEditRoute(id)) }
func (v *FormsList) ShowResponses(id string) { v.nav.Navigate(FormResponsesRoute(id)) }
