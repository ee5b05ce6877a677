package views

import (
	"context"
	"strconv"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/services"
)

type fakeAuth struct {
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (services.LoginResult, error) {
	f.calls++
	if f.err != nil {
		return services.LoginResult{}, f.err
	}
	return services.LoginResult{Token: "tok", UserID: "u1"}, nil
}

type fakeRegistrar struct {
	res services.RegisterResult
	err error
	got services.RegisterRequest
}

func (f *fakeRegistrar) Register(ctx context.Context, req services.RegisterRequest) (services.RegisterResult, error) {
	f.got = req
	return f.res, f.err
}

type staticIdentity struct {
	id   string
	user *models.User
}

func (s staticIdentity) UserID() string { return s.id }

func (s staticIdentity) User() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// fakeBackend serves forms, questions and responses from memory.
type fakeBackend struct {
	forms     map[string]models.Form
	questions map[string][]models.Question
	responses map[string][]models.Response

	submitted []services.Submission
	patches   []services.FormPatch
	err       error
	seq       int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		forms:     map[string]models.Form{},
		questions: map[string][]models.Question{},
		responses: map[string][]models.Response{},
	}
}

func (b *fakeBackend) nextID(prefix string) string {
	b.seq++
	return prefix + strconv.Itoa(b.seq)
}

// forms

type fakeForms struct{ b *fakeBackend }

func (f fakeForms) List(ctx context.Context) ([]models.Form, error) {
	if f.b.err != nil {
		return nil, f.b.err
	}
	var out []models.Form
	for _, id := range []string{"f1", "f2", "f3", "f4"} {
		if form, ok := f.b.forms[id]; ok {
			out = append(out, form)
		}
	}
	return out, nil
}

func (f fakeForms) Get(ctx context.Context, id string) (models.Form, error) {
	if f.b.err != nil {
		return models.Form{}, f.b.err
	}
	return f.b.forms[id], nil
}

func (f fakeForms) Create(ctx context.Context, in services.FormInput) (models.Form, error) {
	if f.b.err != nil {
		return models.Form{}, f.b.err
	}
	form := models.Form{ID: f.b.nextID("n"), Title: in.Title, Description: in.Description}
	f.b.forms[form.ID] = form
	return form, nil
}

func (f fakeForms) Update(ctx context.Context, id string, patch services.FormPatch) (models.Form, error) {
	if f.b.err != nil {
		return models.Form{}, f.b.err
	}
	f.b.patches = append(f.b.patches, patch)
	form := f.b.forms[id]
	if patch.Title != nil {
		form.Title = *patch.Title
	}
	if patch.Description != nil {
		form.Description = *patch.Description
	}
	f.b.forms[id] = form
	return form, nil
}

func (f fakeForms) Delete(ctx context.Context, id string) error {
	if f.b.err != nil {
		return f.b.err
	}
	delete(f.b.forms, id)
	return nil
}

// questions

type fakeQuestions struct{ b *fakeBackend }

func (f fakeQuestions) List(ctx context.Context, formID string) ([]models.Question, error) {
	return append([]models.Question(nil), f.b.questions[formID]...), nil
}

func (f fakeQuestions) Create(ctx context.Context, formID string, q models.Question) (models.Question, error) {
	if f.b.err != nil {
		return models.Question{}, f.b.err
	}
	q.ID = f.b.nextID("q")
	q.FormID = formID
	f.b.questions[formID] = append(f.b.questions[formID], q)
	return q, nil
}

func (f fakeQuestions) Update(ctx context.Context, formID string, q models.Question) (models.Question, error) {
	if f.b.err != nil {
		return models.Question{}, f.b.err
	}
	for i, cur := range f.b.questions[formID] {
		if cur.ID == q.ID {
			f.b.questions[formID][i] = q
		}
	}
	return q, nil
}

func (f fakeQuestions) Delete(ctx context.Context, formID, questionID string) error {
	if f.b.err != nil {
		return f.b.err
	}
	var kept []models.Question
	for _, q := range f.b.questions[formID] {
		if q.ID != questionID {
			kept = append(kept, q)
		}
	}
	f.b.questions[formID] = kept
	return nil
}

// responses

type fakeResponses struct{ b *fakeBackend }

func (f fakeResponses) List(ctx context.Context, formID string) ([]models.Response, error) {
	return append([]models.Response(nil), f.b.responses[formID]...), nil
}

func (f fakeResponses) Submit(ctx context.Context, formID string, sub services.Submission) (models.Response, error) {
	if f.b.err != nil {
		return models.Response{}, f.b.err
	}
	f.b.submitted = append(f.b.submitted, sub)
	r := models.Response{ID: f.b.nextID("r"), FormID: formID, Answers: sub.Answers}
	f.b.responses[formID] = append(f.b.responses[formID], r)
	return r, nil
}

func (f fakeResponses) Delete(ctx context.Context, formID, responseID string) error {
	if f.b.err != nil {
		return f.b.err
	}
	var kept []models.Response
	for _, r := range f.b.responses[formID] {
		if r.ID != responseID {
			kept = append(kept, r)
		}
	}
	f.b.responses[formID] = kept
	return nil
}

// profile

type fakeProfile struct {
	user      models.User
	stale     bool
	err       error
	updates   []services.UserUpdate
	passwords [][2]string
	deleted   bool
}

func (f *fakeProfile) Me(ctx context.Context) (models.User, bool, error) {
	return f.user, f.stale, f.err
}

func (f *fakeProfile) Update(ctx context.Context, id string, patch services.UserUpdate) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	f.updates = append(f.updates, patch)
	if patch.Name != nil {
		f.user.Name = *patch.Name
	}
	if patch.Email != nil {
		f.user.Email = *patch.Email
	}
	return f.user, nil
}

func (f *fakeProfile) ChangePassword(ctx context.Context, current, next string) error {
	if f.err != nil {
		return f.err
	}
	f.passwords = append(f.passwords, [2]string{current, next})
	return nil
}

func (f *fakeProfile) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = true
	return nil
}
