package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/sessions"
	"github.com/stretchr/testify/require"
)

const testAccessToken = "admin-access"

func newClient(t *testing.T, mux *http.ServeMux) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store, err := sessions.NewStore(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Login(sessions.Session{AccessToken: testAccessToken, RefreshToken: "admin-refresh"}))

	client, err := apiclient.New(server.URL+"/api", store)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}
