package views

import (
	"context"
	"errors"
	"strings"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/services"
)

var ErrNotOwner = errors.New("only the owner can edit this form")

type FormReader interface {
	Get(ctx context.Context, id string) (models.Form, error)
}

type FormWriter interface {
	FormReader
	Update(ctx context.Context, id string, patch services.FormPatch) (models.Form, error)
}

type QuestionStore interface {
	List(ctx context.Context, formID string) ([]models.Question, error)
	Create(ctx context.Context, formID string, q models.Question) (models.Question, error)
	Update(ctx context.Context, formID string, q models.Question) (models.Question, error)
	Delete(ctx context.Context, formID, questionID string) error
}

// QuestionDraft is the state of the question dialog.
type QuestionDraft struct {
	ID        string
	Text      string
	Type      models.QuestionType
	Required  bool
	Options   models.OptionList
	NewOption string
	Errors    map[string]string
}

func (d *QuestionDraft) IsNew() bool { return d.ID == "" }

func (d *QuestionDraft) question() models.Question {
	q := models.Question{
		ID:       d.ID,
		Text:     d.Text,
		Type:     d.Type,
		Required: d.Required,
		Options:  append([]string(nil), d.Options...),
	}
	q.Normalize()
	return q
}

// FormEditor edits a form's title, description and questions.
type FormEditor struct {
	Form      models.Form
	Questions []models.Question

	Title       string
	Description string

	Dialog        *QuestionDraft
	PendingDelete string

	Error   string
	Success string

	forms     FormWriter
	questions QuestionStore
	who       Identity
	nav       Navigator
	msg       *Messages
}

func NewFormEditor(forms FormWriter, questions QuestionStore, who Identity, nav Navigator, msg *Messages) *FormEditor {
	return &FormEditor{forms: forms, questions: questions, who: who, nav: navOrNop(nav), msg: msgOrDefault(msg)}
}

// Load fetches the form and its questions. A user who does not own the form
// is sent back to the forms list.
func (e *FormEditor) Load(ctx context.Context, formID string) error {
	e.Error = ""
	f, err := e.forms.Get(ctx, formID)
	if err != nil {
		e.Error = e.msg.errorText(err, MsgLoadFailed)
		return err
	}
	uid := ""
	if e.who != nil {
		uid = e.who.UserID()
	}
	if !f.OwnedBy(uid) {
		e.Error = e.msg.T(MsgNotOwner)
		e.nav.Navigate(RouteForms)
		return ErrNotOwner
	}
	qs, err := e.questions.List(ctx, formID)
	if err != nil {
		e.Error = e.msg.errorText(err, MsgLoadFailed)
		return err
	}
	e.Form, e.Questions = f, qs
	e.Title, e.Description = f.Title, f.Description
	return nil
}

// SaveForm patches the title and description.
func (e *FormEditor) SaveForm(ctx context.Context) bool {
	e.Error, e.Success = "", ""
	if strings.TrimSpace(e.Title) == "" {
		e.Error = e.msg.T(MsgTitleRequired)
		return false
	}
	title, desc := strings.TrimSpace(e.Title), e.Description
	f, err := e.forms.Update(ctx, e.Form.ID, services.FormPatch{Title: &title, Description: &desc})
	if err != nil {
		e.Error = e.msg.errorText(err, MsgLoadFailed)
		return false
	}
	if f.ID == "" {
		f = e.Form
		f.Title, f.Description = title, desc
	}
	e.Form = f
	e.Success = e.msg.T(MsgFormSaved)
	return true
}

// OpenNewQuestion starts a blank short-text draft.
func (e *FormEditor) OpenNewQuestion() {
	e.Dialog = &QuestionDraft{Type: models.QuestionShortText, Errors: map[string]string{}}
}

// OpenEditQuestion loads an existing question into the dialog.
func (e *FormEditor) OpenEditQuestion(id string) bool {
	for _, q := range e.Questions {
		if q.ID == id {
			e.Dialog = &QuestionDraft{
				ID:       q.ID,
				Text:     q.Text,
				Type:     q.Type,
				Required: q.Required,
				Options:  append(models.OptionList(nil), q.Options...),
				Errors:   map[string]string{},
			}
			return true
		}
	}
	return false
}

func (e *FormEditor) CloseDialog() { e.Dialog = nil }

// SetDraftType changes the draft's type. Switching to a selection type with
// no options seeds one default option.
func (e *FormEditor) SetDraftType(t models.QuestionType) {
	if e.Dialog == nil {
		return
	}
	e.Dialog.Type = t
	if t.RequiresOptions() && len(e.Dialog.Options) == 0 {
		e.Dialog.Options = models.OptionList{models.DefaultOption}
	}
	delete(e.Dialog.Errors, "options")
}

// AddOption appends the NewOption buffer to the draft.
func (e *FormEditor) AddOption() bool {
	if e.Dialog == nil {
		return false
	}
	opts, err := e.Dialog.Options.Add(e.Dialog.NewOption)
	if err != nil {
		e.Dialog.Errors["newOption"] = e.msg.T(MsgOptionEmpty)
		return false
	}
	e.Dialog.Options = opts
	e.Dialog.NewOption = ""
	delete(e.Dialog.Errors, "newOption")
	delete(e.Dialog.Errors, "options")
	return true
}

func (e *FormEditor) UpdateOption(i int, text string) bool {
	if e.Dialog == nil {
		return false
	}
	opts, err := e.Dialog.Options.Update(i, text)
	if err != nil {
		return false
	}
	e.Dialog.Options = opts
	return true
}

// RemoveOption deletes option i unless it is the last one of a selection type.
func (e *FormEditor) RemoveOption(i int) bool {
	if e.Dialog == nil {
		return false
	}
	opts, err := e.Dialog.Options.Remove(i, e.Dialog.Type)
	if errors.Is(err, models.ErrLastOption) {
		e.Dialog.Errors["options"] = e.msg.T(MsgLastOption)
		return false
	}
	if err != nil {
		return false
	}
	e.Dialog.Options = opts
	return true
}

// ValidateDraft fills the draft's errors and reports whether it can be saved.
func (e *FormEditor) ValidateDraft() bool {
	if e.Dialog == nil {
		return false
	}
	d := e.Dialog
	d.Errors = map[string]string{}
	if strings.TrimSpace(d.Text) == "" {
		d.Errors["text"] = e.msg.T(MsgQuestionText)
	}
	if d.Type.RequiresOptions() {
		nonBlank := 0
		for _, o := range d.Options {
			if strings.TrimSpace(o) != "" {
				nonBlank++
			}
		}
		if nonBlank == 0 {
			d.Errors["options"] = e.msg.T(MsgOptionsRequired)
		}
	}
	return len(d.Errors) == 0
}

// SaveQuestion creates or updates the drafted question in place.
func (e *FormEditor) SaveQuestion(ctx context.Context) bool {
	e.Error, e.Success = "", ""
	if !e.ValidateDraft() {
		return false
	}
	d := e.Dialog
	q := d.question()
	var cleaned []string
	for _, o := range q.Options {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if q.Type.RequiresOptions() {
		q.Options = cleaned
	}

	if d.IsNew() {
		created, err := e.questions.Create(ctx, e.Form.ID, q)
		if err != nil {
			e.Error = e.msg.errorText(err, MsgLoadFailed)
			return false
		}
		e.Questions = append(e.Questions, created)
	} else {
		updated, err := e.questions.Update(ctx, e.Form.ID, q)
		if err != nil {
			e.Error = e.msg.errorText(err, MsgLoadFailed)
			return false
		}
		if updated.ID == "" {
			updated = q
		}
		for i := range e.Questions {
			if e.Questions[i].ID == updated.ID {
				e.Questions[i] = updated
			}
		}
	}
	e.Dialog = nil
	e.Success = e.msg.T(MsgQuestionSaved)
	return true
}

// RequestDeleteQuestion asks for confirmation before deleting.
func (e *FormEditor) RequestDeleteQuestion(id string) { e.PendingDelete = id }

func (e *FormEditor) CancelDelete() { e.PendingDelete = "" }

func (e *FormEditor) ConfirmDeleteQuestion(ctx context.Context) bool {
	id := e.PendingDelete
	if id == "" {
		return false
	}
	e.PendingDelete = ""
	e.Error, e.Success = "", ""
	if err := e.questions.Delete(ctx, e.Form.ID, id); err != nil {
		e.Error = e.msg.errorText(err, MsgLoadFailed)
		return false
	}
	kept := e.Questions[:0]
	for _, q := range e.Questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	e.Questions = kept
	e.Success = e.msg.T(MsgQuestionDeleted)
	return true
}
