package admin_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/labit-client/admin"
	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestUploadService_Routes(t *testing.T) {
	testCases := []struct {
		name     string
		route    string
		wantType string
		upload   func(us *admin.UploadService, path string) (*admin.UploadResult, error)
	}{
		{
			name:     "image",
			route:    "/api/upload/image",
			wantType: "profile",
			upload: func(us *admin.UploadService, path string) (*admin.UploadResult, error) {
				return us.Image(context.Background(), path)
			},
		},
		{
			name:  "file",
			route: "/api/upload/file",
			upload: func(us *admin.UploadService, path string) (*admin.UploadResult, error) {
				return us.File(context.Background(), path)
			},
		},
		{
			name:     "thumbnail",
			route:    "/api/upload/thumbnail",
			wantType: "thumbnail",
			upload: func(us *admin.UploadService, path string) (*admin.UploadResult, error) {
				return us.Thumbnail(context.Background(), path)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST "+tc.route, func(w http.ResponseWriter, r *http.Request) {
				if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				assert.Equal(t, tc.wantType, r.FormValue("type"))
				_, header, err := r.FormFile("file")
				if !assert.NoError(t, err) {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				writeJSON(w, http.StatusOK, admin.UploadResult{Success: true, FileURL: "/files/" + header.Filename, FileName: header.Filename})
			})
			us, err := admin.NewUploadService(newClient(t, mux))
			require.NoError(t, err)

			res, err := tc.upload(us, writeTempFile(t, "pic.png", []byte("\x89PNG\r\n\x1a\n")))
			require.NoError(t, err)
			require.Equal(t, "/files/pic.png", res.FileURL)
		})
	}
}

func TestUploadService_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload/file", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, admin.UploadResult{Success: false, Message: "file too large"})
	})
	us, err := admin.NewUploadService(newClient(t, mux))
	require.NoError(t, err)

	res, err := us.File(context.Background(), writeTempFile(t, "big.bin", []byte{1, 2, 3}))
	require.ErrorIs(t, err, admin.ErrUploadRejected)
	require.Contains(t, err.Error(), "file too large")
	require.NotNil(t, res)
}

func TestUploadService_ValidateURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/upload/validate-url", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com/a.png?x=1", r.URL.Query().Get("url"))
		writeJSON(w, http.StatusOK, admin.URLCheck{Valid: true, ContentType: "image/png"})
	})
	us, err := admin.NewUploadService(newClient(t, mux))
	require.NoError(t, err)

	check, err := us.ValidateURL(context.Background(), "https://example.com/a.png?x=1")
	require.NoError(t, err)
	require.True(t, check.Valid)

	for _, bad := range []string{"", "ftp://example.com/a.png", "not a url", "https://"} {
		_, err := us.ValidateURL(context.Background(), bad)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest, bad)
	}
}
