package views

import (
	"context"
	"errors"
	"slices"

	"github.com/vnkhanh/forms-app/models"
)

// RowsPerPageOptions are the page sizes the responses table offers.
var RowsPerPageOptions = []int{5, 10, 25}

var ErrRowsPerPage = errors.New("unsupported rows per page")

type ResponseStore interface {
	List(ctx context.Context, formID string) ([]models.Response, error)
	Delete(ctx context.Context, formID, responseID string) error
}

// Responses lists the submissions of a form with paging and a detail pane.
type Responses struct {
	Form      models.Form
	Questions []models.Question
	Responses []models.Response

	Page        int
	RowsPerPage int
	SelectedID  string

	Error   string
	Success string

	forms     FormReader
	questions QuestionReader
	store     ResponseStore
	nav       Navigator
	msg       *Messages
}

func NewResponses(forms FormReader, questions QuestionReader, store ResponseStore, nav Navigator, msg *Messages) *Responses {
	return &Responses{
		forms:       forms,
		questions:   questions,
		store:       store,
		nav:         navOrNop(nav),
		msg:         msgOrDefault(msg),
		RowsPerPage: RowsPerPageOptions[0],
	}
}

func (v *Responses) Load(ctx context.Context, formID string) error {
	f, err := v.forms.Get(ctx, formID)
	if err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return err
	}
	qs, err := v.questions.List(ctx, formID)
	if err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return err
	}
	rs, err := v.store.List(ctx, formID)
	if err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return err
	}
	v.Form, v.Questions, v.Responses = f, qs, rs
	v.Page, v.SelectedID, v.Error = 0, "", ""
	return nil
}

func (v *Responses) SetRowsPerPage(n int) error {
	if !slices.Contains(RowsPerPageOptions, n) {
		return ErrRowsPerPage
	}
	v.RowsPerPage = n
	v.Page = 0
	return nil
}

func (v *Responses) PageCount() int {
	if len(v.Responses) == 0 {
		return 1
	}
	return (len(v.Responses) + v.RowsPerPage - 1) / v.RowsPerPage
}

// SetPage clamps p into the valid range.
func (v *Responses) SetPage(p int) {
	v.Page = max(0, min(p, v.PageCount()-1))
}

func (v *Responses) NextPage() { v.SetPage(v.Page + 1) }
func (v *Responses) PrevPage() { v.SetPage(v.Page - 1) }

// PageRows returns the responses on the current page.
func (v *Responses) PageRows() []models.Response {
	start := v.Page * v.RowsPerPage
	if start >= len(v.Responses) {
		return nil
	}
	end := min(start+v.RowsPerPage, len(v.Responses))
	return v.Responses[start:end]
}

func (v *Responses) Select(id string) bool {
	for _, r := range v.Responses {
		if r.ID == id {
			v.SelectedID = id
			return true
		}
	}
	return false
}

func (v *Responses) Selected() (models.Response, bool) {
	for _, r := range v.Responses {
		if r.ID == v.SelectedID {
			return r, true
		}
	}
	return models.Response{}, false
}

func (v *Responses) ClearSelection() { v.SelectedID = "" }

// QuestionText looks up a question by id, falling back to a placeholder for
// questions deleted after the response was sent.
func (v *Responses) QuestionText(id string) string {
	for _, q := range v.Questions {
		if q.ID == id {
			return q.Text
		}
	}
	return v.msg.T(MsgQuestionMissing)
}

func (v *Responses) Respondent(r models.Response) string {
	switch {
	case r.RespondentName != "":
		return r.RespondentName
	case r.RespondentEmail != "":
		return r.RespondentEmail
	}
	return v.msg.T(MsgAnonymous)
}

func (v *Responses) Delete(ctx context.Context, id string) bool {
	v.Error, v.Success = "", ""
	if err := v.store.Delete(ctx, v.Form.ID, id); err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return false
	}
	v.Responses = slices.DeleteFunc(v.Responses, func(r models.Response) bool { return r.ID == id })
	if v.SelectedID == id {
		v.SelectedID = ""
	}
	v.SetPage(v.Page)
	v.Success = v.msg.T(MsgResponseDeleted)
	return true
}

func (v *Responses) Back() { v.nav.Navigate(FormRoute(v.Form.ID)) }
