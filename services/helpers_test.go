package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/session"
)

func newTestServices(t *testing.T, mux *http.ServeMux) (*Services, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	sess := session.New(nil, nil)
	c := client.New(client.Config{BaseURL: srv.URL, Session: sess})
	return New(c, nil), sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}
