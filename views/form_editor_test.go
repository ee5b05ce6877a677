package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forms-app/models"
)

func newLoadedEditor(t *testing.T) (*FormEditor, *fakeBackend) {
	t.Helper()
	b := seededBackend()
	b.questions["f1"] = []models.Question{
		{ID: "qa", FormID: "f1", Text: "Name", Type: models.QuestionShortText},
		{ID: "qb", FormID: "f1", Text: "Size", Type: models.QuestionDropdown, Options: []string{"S"}},
	}
	e := NewFormEditor(fakeForms{b}, fakeQuestions{b}, staticIdentity{id: "u1"}, nil, nil)
	require.NoError(t, e.Load(context.Background(), "f1"))
	return e, b
}

func TestFormEditorRedirectsNonOwner(t *testing.T) {
	b := seededBackend()
	nav := &History{}
	e := NewFormEditor(fakeForms{b}, fakeQuestions{b}, staticIdentity{id: "u1"}, nav, nil)

	err := e.Load(context.Background(), "f2")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, RouteForms, nav.Current())
	assert.Empty(t, e.Form.ID)
}

func TestFormEditorSaveForm(t *testing.T) {
	e, b := newLoadedEditor(t)

	e.Title = "  "
	assert.False(t, e.SaveForm(context.Background()))
	assert.Equal(t, "Title is required", e.Error)

	e.Title = "Renamed"
	e.Description = "New text"
	require.True(t, e.SaveForm(context.Background()))
	assert.Equal(t, "Renamed", b.forms["f1"].Title)
	assert.Equal(t, "Renamed", e.Form.Title)
}

func TestFormEditorSwitchToSelectionSeedsOption(t *testing.T) {
	e, _ := newLoadedEditor(t)
	e.OpenNewQuestion()
	e.SetDraftType(models.QuestionCheckbox)

	assert.Equal(t, models.OptionList{models.DefaultOption}, e.Dialog.Options)
}

func TestFormEditorOptionEditing(t *testing.T) {
	e, _ := newLoadedEditor(t)
	require.True(t, e.OpenEditQuestion("qb"))

	assert.False(t, e.RemoveOption(0), "last option must stay")
	assert.Len(t, e.Dialog.Options, 1)
	assert.Equal(t, "A question must keep at least one option", e.Dialog.Errors["options"])

	e.Dialog.NewOption = "   "
	assert.False(t, e.AddOption())
	e.Dialog.NewOption = "M"
	require.True(t, e.AddOption())
	assert.Empty(t, e.Dialog.NewOption)
	require.True(t, e.UpdateOption(1, "L"))
	require.True(t, e.RemoveOption(0))
	assert.Equal(t, models.OptionList{"L"}, e.Dialog.Options)
}

func TestFormEditorValidateDraft(t *testing.T) {
	e, _ := newLoadedEditor(t)
	e.OpenNewQuestion()
	e.Dialog.Type = models.QuestionMultipleChoice

	assert.False(t, e.ValidateDraft())
	assert.Contains(t, e.Dialog.Errors, "text")
	assert.Contains(t, e.Dialog.Errors, "options")
}

func TestFormEditorCreateQuestion(t *testing.T) {
	e, b := newLoadedEditor(t)
	e.OpenNewQuestion()
	e.Dialog.Text = "Colour"
	e.SetDraftType(models.QuestionMultipleChoice)
	e.Dialog.NewOption = "Blue"
	e.AddOption()

	require.True(t, e.SaveQuestion(context.Background()))
	assert.Nil(t, e.Dialog)
	require.Len(t, e.Questions, 3)
	created := e.Questions[2]
	assert.Equal(t, "Colour", created.Text)
	assert.Equal(t, []string{models.DefaultOption, "Blue"}, created.Options)
	assert.Len(t, b.questions["f1"], 3)
}

func TestFormEditorUpdateQuestionInPlace(t *testing.T) {
	e, _ := newLoadedEditor(t)
	require.True(t, e.OpenEditQuestion("qa"))
	e.Dialog.Text = "Full name"
	e.Dialog.Required = true

	require.True(t, e.SaveQuestion(context.Background()))
	assert.Equal(t, "Full name", e.Questions[0].Text)
	assert.True(t, e.Questions[0].Required)
	assert.Len(t, e.Questions, 2)
}

func TestFormEditorTextTypeDropsOptions(t *testing.T) {
	e, _ := newLoadedEditor(t)
	require.True(t, e.OpenEditQuestion("qb"))
	e.SetDraftType(models.QuestionParagraph)

	require.True(t, e.SaveQuestion(context.Background()))
	assert.Nil(t, e.Questions[1].Options)
}

func TestFormEditorDeleteNeedsConfirmation(t *testing.T) {
	e, b := newLoadedEditor(t)

	assert.False(t, e.ConfirmDeleteQuestion(context.Background()))
	e.RequestDeleteQuestion("qa")
	e.CancelDelete()
	assert.False(t, e.ConfirmDeleteQuestion(context.Background()))
	assert.Len(t, e.Questions, 2)

	e.RequestDeleteQuestion("qa")
	require.True(t, e.ConfirmDeleteQuestion(context.Background()))
	require.Len(t, e.Questions, 1)
	assert.Equal(t, "qb", e.Questions[0].ID)
	assert.Len(t, b.questions["f1"], 1)
}
