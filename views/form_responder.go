package views

import (
	"context"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/services"
	"github.com/vnkhanh/forms-app/session"
)

type QuestionReader interface {
	List(ctx context.Context, formID string) ([]models.Question, error)
}

type ResponseSubmitter interface {
	Submit(ctx context.Context, formID string, sub services.Submission) (models.Response, error)
}

// Respondent is the signed in user as seen by the responder. *session.Session
// implements it.
type Respondent interface {
	Identity
	User() (models.User, bool)
}

var _ Respondent = (*session.Session)(nil)

// FormResponder is the fill-in screen of a form.
type FormResponder struct {
	Form      models.Form
	Questions []models.Question
	Answers   models.Answers
	Errors    map[string]string

	Error   string
	Success string

	forms     FormReader
	questions QuestionReader
	responses ResponseSubmitter
	who       Respondent
	nav       Navigator
	msg       *Messages
}

func NewFormResponder(forms FormReader, questions QuestionReader, responses ResponseSubmitter, who Respondent, nav Navigator, msg *Messages) *FormResponder {
	return &FormResponder{
		forms:     forms,
		questions: questions,
		responses: responses,
		who:       who,
		nav:       navOrNop(nav),
		msg:       msgOrDefault(msg),
		Answers:   models.Answers{},
		Errors:    map[string]string{},
	}
}

func (v *FormResponder) Load(ctx context.Context, formID string) error {
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
	v.Form, v.Questions = f, qs
	v.Answers = models.InitializeAnswers(qs)
	v.Errors = map[string]string{}
	v.Error = ""
	return nil
}

// IsOwner reports whether the edit and responses links apply.
func (v *FormResponder) IsOwner() bool {
	return v.who != nil && v.Form.OwnedBy(v.who.UserID())
}

func (v *FormResponder) SetAnswer(questionID, value string) {
	v.Answers.Set(questionID, value)
	delete(v.Errors, questionID)
}

func (v *FormResponder) ToggleOption(questionID, option string) {
	v.Answers.Toggle(questionID, option)
	delete(v.Errors, questionID)
}

// Submit validates the answers and posts them. On success answers are reset
// and the user returns to the forms list.
func (v *FormResponder) Submit(ctx context.Context) bool {
	v.Error, v.Success = "", ""
	v.Errors = models.Validate(v.Questions, v.Answers)
	if len(v.Errors) > 0 {
		v.Error = v.msg.T(MsgFillRequired)
		return false
	}

	sub := services.Submission{Answers: models.ToSubmission(v.Questions, v.Answers)}
	if v.who != nil {
		if u, ok := v.who.User(); ok {
			sub.RespondentName = u.Name
			sub.RespondentEmail = u.Email
		}
	}
	if _, err := v.responses.Submit(ctx, v.Form.ID, sub); err != nil {
		v.Error = v.msg.errorText(err, MsgLoadFailed)
		return false
	}
	v.Answers = models.InitializeAnswers(v.Questions)
	v.Success = v.msg.T(MsgResponseSent)
	v.nav.Navigate(RouteForms)
	return true
}
