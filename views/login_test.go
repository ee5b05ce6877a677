package views

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/services"
	"github.com/vnkhanh/forms-app/session"
)

func TestLoginLocalChecks(t *testing.T) {
	auth := &fakeAuth{}
	l := NewLogin(auth, nil, nil, nil)

	assert.False(t, l.Submit(context.Background()))
	assert.Equal(t, "Email is required", l.EmailError)
	assert.Equal(t, "Password is required", l.PasswordError)
	assert.True(t, l.Attempted)
	assert.Zero(t, auth.calls)
}

func TestLoginInvalidCredentials(t *testing.T) {
	auth := &fakeAuth{err: &services.AuthError{Code: services.CodeInvalidCredentials}}
	l := NewLogin(auth, nil, nil, NewMessages("en"))
	l.SetEmail("ada@example.com")
	l.SetPassword("wrong")

	assert.False(t, l.Submit(context.Background()))
	assert.Equal(t, "Wrong email or password", l.EmailError)
	assert.Equal(t, "Wrong email or password", l.PasswordError)
	assert.Equal(t, "Wrong email or password", l.Error)
	assert.True(t, l.HasAuthError)
}

func TestLoginFieldRouting(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantEmail     string
		wantPassword  string
		wantPageError string
	}{
		{
			name:          "email field",
			err:           &services.AuthError{Code: services.CodeValidationFailed, Field: "email", Message: "bad email"},
			wantEmail:     "bad email",
			wantPageError: "bad email",
		},
		{
			name:          "password field",
			err:           &services.AuthError{Code: services.CodeValidationFailed, Field: "password", Message: "bad password"},
			wantPassword:  "bad password",
			wantPageError: "bad password",
		},
		{
			name:          "server",
			err:           &services.AuthError{Code: services.CodeServer, Message: "db down"},
			wantPageError: "db down",
		},
		{
			name:          "network",
			err:           &services.AuthError{Code: services.CodeNetwork},
			wantPageError: "Cannot reach the server",
		},
		{
			name:          "untyped",
			err:           errors.New("boom"),
			wantPageError: "Login failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogin(&fakeAuth{err: tt.err}, nil, nil, nil)
			l.SetEmail("a@b.c")
			l.SetPassword("x")
			l.Submit(context.Background())

			assert.Equal(t, tt.wantEmail, l.EmailError)
			assert.Equal(t, tt.wantPassword, l.PasswordError)
			assert.Equal(t, tt.wantPageError, l.Error)
			assert.False(t, l.HasAuthError)
		})
	}
}

func TestLoginErrorsSurviveNewView(t *testing.T) {
	store := session.NewMemoryStorage()
	auth := &fakeAuth{err: &services.AuthError{Code: services.CodeInvalidCredentials}}
	l := NewLogin(auth, store, nil, nil)
	l.SetEmail("a@b.c")
	l.SetPassword("x")
	l.Submit(context.Background())

	restored := NewLogin(auth, store, nil, nil)
	assert.Equal(t, l.Error, restored.Error)
	assert.Equal(t, l.EmailError, restored.EmailError)
	assert.Equal(t, l.PasswordError, restored.PasswordError)
	assert.True(t, restored.Attempted)
	assert.True(t, restored.HasAuthError)
}

func TestLoginEditingKeepsErrors(t *testing.T) {
	l := NewLogin(&fakeAuth{err: &services.AuthError{Code: services.CodeInvalidCredentials}}, nil, nil, nil)
	l.SetEmail("a@b.c")
	l.SetPassword("x")
	l.Submit(context.Background())

	l.SetEmail("other@b.c")
	l.SetPassword("y")
	assert.NotEmpty(t, l.EmailError)
	assert.NotEmpty(t, l.Error)
}

func TestLoginClearForm(t *testing.T) {
	store := session.NewMemoryStorage()
	l := NewLogin(&fakeAuth{err: &services.AuthError{Code: services.CodeInvalidCredentials}}, store, nil, nil)
	l.SetEmail("a@b.c")
	l.SetPassword("x")
	l.Submit(context.Background())

	l.ClearForm()
	assert.Empty(t, l.Email)
	assert.Empty(t, l.Error)
	assert.False(t, l.HasAuthError)
	for _, k := range loginKeys {
		_, ok := store.Get(k)
		assert.False(t, ok, "key %s should be gone", k)
	}
}

func TestLoginSuccessClearsStateAndNavigates(t *testing.T) {
	store := session.NewMemoryStorage()
	require.NoError(t, store.Set(KeyLoginError, "old"))
	require.NoError(t, store.Set(KeyHasAuthError, "true"))
	nav := &History{}

	l := NewLogin(&fakeAuth{}, store, nav, nil)
	assert.Equal(t, "old", l.Error)
	l.SetEmail("a@b.c")
	l.SetPassword("x")

	assert.True(t, l.Submit(context.Background()))
	assert.Empty(t, l.Error)
	assert.False(t, l.HasAuthError)
	assert.Equal(t, RouteForms, nav.Current())
	_, ok := store.Get(KeyLoginError)
	assert.False(t, ok)
}

func TestLoginMarkerThroughGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": services.InvalidCredentialsMarker + " Invalid email or password"})
	}))
	defer srv.Close()

	sess := session.New(nil, nil)
	auth := services.NewAuthService(client.New(client.Config{BaseURL: srv.URL, Session: sess}), nil)
	l := NewLogin(auth, sess.Storage(), nil, NewMessages("et"))
	l.SetEmail("ada@example.com")
	l.SetPassword("wrong")

	assert.False(t, l.Submit(context.Background()))
	assert.Equal(t, "Vale e-post või parool", l.EmailError)
	assert.Equal(t, "Vale e-post või parool", l.PasswordError)
	assert.True(t, l.HasAuthError)
	assert.False(t, sess.LoggedIn())
}

func TestLoginFieldFromMessageThroughGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email format"})
	}))
	defer srv.Close()

	sess := session.New(nil, nil)
	auth := services.NewAuthService(client.New(client.Config{BaseURL: srv.URL, Session: sess}), nil)
	l := NewLogin(auth, sess.Storage(), nil, nil)
	l.SetEmail("not-an-email")
	l.SetPassword("whatever")

	assert.False(t, l.Submit(context.Background()))
	assert.Equal(t, "Invalid email format", l.EmailError)
	assert.Empty(t, l.PasswordError)
	assert.Equal(t, "Invalid email format", l.Error)
	assert.False(t, l.HasAuthError)
}
