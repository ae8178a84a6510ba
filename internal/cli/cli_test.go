package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/labit-client/internal/cli"
	"github.com/jrsteele09/labit-client/internal/config"
	"github.com/jrsteele09/labit-client/sessions"
	fakesessionrepo "github.com/jrsteele09/labit-client/sessions/repofakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	mux       *http.ServeMux
	persister *closingPersister
	cfg       config.Config
}

// closingPersister counts how often the App releases it
type closingPersister struct {
	*fakesessionrepo.FakePersister
	closed int
}

func (p *closingPersister) Close() error {
	p.closed++
	return nil
}

func newFixture(t *testing.T, persister *fakesessionrepo.FakePersister) *testFixture {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("LABIT_API_URL", server.URL+"/api")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENV", "TEST")
	t.Setenv("REDIS_ADDR", "")
	return &testFixture{
		mux:       mux,
		persister: &closingPersister{FakePersister: persister},
		cfg:       config.New(filepath.Join(t.TempDir(), "missing.env")),
	}
}

func (f *testFixture) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	root := cli.NewRootCommand(f.cfg, cli.WithPersister(f.persister))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--quiet"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func accessToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   7,
		"nickname": "kim",
		"role":     "ROLE_ADMIN",
		"exp":      exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_PrintsAuthURLWithoutCode(t *testing.T) {
	f := newFixture(t, fakesessionrepo.NewFakePersister())
	f.mux.HandleFunc("GET /api/auth/kakao/path", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "https://kauth.kakao.com/oauth/authorize?client_id=abc")
	})

	out, err := f.run("login")
	require.NoError(t, err)
	require.Contains(t, out, "https://kauth.kakao.com/oauth/authorize?client_id=abc")
}

func TestLogin_WithCodePersistsSession(t *testing.T) {
	f := newFixture(t, fakesessionrepo.NewFakePersister())
	token := accessToken(t, time.Now().Add(time.Hour))
	f.mux.HandleFunc("POST /api/auth/kakao/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kakao-code", r.URL.Query().Get("code"))
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken":  token,
			"refreshToken": "refresh-1",
			"user":         map[string]any{"id": 7, "nickname": "kim", "role": "ROLE_ADMIN"},
		})
	})

	out, err := f.run("login", "--code", "kakao-code")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as kim")

	persisted := f.persister.Persisted()
	require.NotNil(t, persisted)
	require.Equal(t, token, persisted.AccessToken)
	require.Equal(t, "refresh-1", persisted.RefreshToken)
}

func TestMe_RestoresSession(t *testing.T) {
	token := accessToken(t, time.Now().Add(time.Hour))
	f := newFixture(t, fakesessionrepo.NewFakePersisterWith(sessions.Session{AccessToken: token, RefreshToken: "refresh-1"}))
	f.mux.HandleFunc("GET /api/auth/token/validate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, true)
	})
	f.mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "nickname": "kim", "email": "kim@labit.kr", "role": "ROLE_ADMIN"})
	})

	out, err := f.run("me")
	require.NoError(t, err)
	require.Contains(t, out, "nickname: kim")
	require.Contains(t, out, "kim@labit.kr")
}

func TestMe_NotLoggedIn(t *testing.T) {
	f := newFixture(t, fakesessionrepo.NewFakePersister())

	_, err := f.run("me")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not logged in")
}

func TestLogout_ClearsPersistedSession(t *testing.T) {
	token := accessToken(t, time.Now().Add(time.Hour))
	f := newFixture(t, fakesessionrepo.NewFakePersisterWith(sessions.Session{AccessToken: token, RefreshToken: "refresh-1"}))
	f.mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	out, err := f.run("logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out")
	require.Nil(t, f.persister.Persisted())
}

func TestPostsAndComments(t *testing.T) {
	f := newFixture(t, fakesessionrepo.NewFakePersister())
	f.mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		writeJSON(w, http.StatusOK, map[string]any{
			"content":       []map[string]any{{"id": 12, "title": "Hello LABit", "author": map[string]any{"nickname": "kim"}, "viewCount": 40}},
			"totalElements": 1,
			"totalPages":    1,
			"last":          true,
		})
	})
	f.mux.HandleFunc("GET /api/comments/post/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12", r.PathValue("id"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "postId": 12, "content": "first", "author": map[string]any{"nickname": "lee"}, "depth": 0, "replies": []map[string]any{
				{"id": 2, "postId": 12, "content": "reply", "author": map[string]any{"nickname": "kim"}, "parentId": 1, "depth": 1},
			}},
			{"id": 3, "postId": 12, "depth": 0, "isDeleted": true},
		})
	})

	out, err := f.run("posts", "list", "--size", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Hello LABit")
	require.Contains(t, out, "page 1 of 1 (1 posts)")

	out, err = f.run("comments", "12")
	require.NoError(t, err)
	require.Contains(t, out, "2 comments")
	require.Contains(t, out, "lee: first\n  kim: reply\n[deleted]")

	_, err = f.run("posts", "get", "abc")
	require.Error(t, err)
}

func TestNav(t *testing.T) {
	f := newFixture(t, fakesessionrepo.NewFakePersister())
	f.mux.HandleFunc("GET /api/navigation/tree", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "label": "Dev", "href": "/dev", "depth": 0, "children": []map[string]any{
				{"id": 2, "label": "Go", "href": "/dev/go", "depth": 1},
			}},
		})
	})

	out, err := f.run("nav")
	require.NoError(t, err)
	require.Equal(t, "Dev  /dev\n  Go  /dev/go\n", out)
}

func TestApp_ClosedWhenCommandFails(t *testing.T) {
	t.Run("run error", func(t *testing.T) {
		f := newFixture(t, fakesessionrepo.NewFakePersister())
		f.mux.HandleFunc("GET /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
		})

		_, err := f.run("posts", "get", "99")
		require.Error(t, err)
		require.Contains(t, err.Error(), "post 99 not found")
		require.Equal(t, 1, f.persister.closed)
	})

	t.Run("session restore error", func(t *testing.T) {
		f := newFixture(t, fakesessionrepo.NewFakePersister())

		_, err := f.run("me")
		require.Error(t, err)
		require.Equal(t, 1, f.persister.closed)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t, fakesessionrepo.NewFakePersister())
		f.mux.HandleFunc("GET /api/navigation/tree", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []any{})
		})

		_, err := f.run("nav")
		require.NoError(t, err)
		require.Equal(t, 1, f.persister.closed)
	})
}
