package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
)

func seededBackend() *fakeBackend {
	b := newFakeBackend()
	b.forms["f1"] = models.Form{ID: "f1", Title: "Mine", OwnerID: "u1"}
	b.forms["f2"] = models.Form{ID: "f2", Title: "Theirs", OwnerID: "u2"}
	b.forms["f3"] = models.Form{ID: "f3", Title: "Also mine", OwnerID: "u1"}
	return b
}

func TestFormsListSplit(t *testing.T) {
	v := NewFormsList(fakeForms{seededBackend()}, staticIdentity{id: "u1"}, nil, nil)
	require.NoError(t, v.Load(context.Background()))

	mine := v.MyForms()
	require.Len(t, mine, 2)
	assert.Equal(t, "f1", mine[0].ID)
	assert.Equal(t, "f3", mine[1].ID)
	others := v.OtherForms()
	require.Len(t, others, 1)
	assert.Equal(t, "f2", others[0].ID)
}

func TestFormsListAnonymousOwnsNothing(t *testing.T) {
	v := NewFormsList(fakeForms{seededBackend()}, staticIdentity{}, nil, nil)
	require.NoError(t, v.Load(context.Background()))
	assert.Empty(t, v.MyForms())
	assert.Len(t, v.OtherForms(), 3)
}

func TestFormsListCreatePrependsStampedForm(t *testing.T) {
	v := NewFormsList(fakeForms{seededBackend()}, staticIdentity{id: "u1"}, nil, nil)
	require.NoError(t, v.Load(context.Background()))

	v.NewTitle = "Fresh"
	f, ok := v.Create(context.Background())
	require.True(t, ok)
	assert.Equal(t, "u1", f.OwnerID)
	assert.Equal(t, f.ID, v.Forms[0].ID)
	assert.Empty(t, v.NewTitle)
	assert.Equal(t, "Form created", v.Success)
}

func TestFormsListCreateRequiresTitle(t *testing.T) {
	v := NewFormsList(fakeForms{seededBackend()}, staticIdentity{id: "u1"}, nil, nil)
	_, ok := v.Create(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "Title is required", v.Error)
}

func TestFormsListDelete(t *testing.T) {
	v := NewFormsList(fakeForms{seededBackend()}, staticIdentity{id: "u1"}, nil, nil)
	require.NoError(t, v.Load(context.Background()))

	assert.True(t, v.Delete(context.Background(), "f1"))
	assert.Len(t, v.Forms, 2)
	for _, f := range v.Forms {
		assert.NotEqual(t, "f1", f.ID)
	}
}

func TestFormsListLoadError(t *testing.T) {
	b := seededBackend()
	b.err = &client.Error{Kind: client.KindServer, Message: "db down"}
	v := NewFormsList(fakeForms{b}, staticIdentity{id: "u1"}, nil, nil)

	err := v.Load(context.Background())
	assert.True(t, errors.Is(err, client.ErrServer))
	assert.Equal(t, "db down", v.Error)
}

func TestFormsListNavigation(t *testing.T) {
	nav := &History{}
	v := NewFormsList(fakeForms{seededBackend()}, staticIdentity{id: "u1"}, nav, nil)
	v.Open("f1")
	v.Edit("f1")
	v.ShowResponses("f1")
	assert.Equal(t, []string{"/forms/f1", "/forms/f1/edit", "/forms/f1/responses"}, nav.Paths)
}
