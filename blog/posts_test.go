package blog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/labit-client/blog"
	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postJSON = `{
	"id": 12,
	"title": "Hello LABit",
	"content": "<p>body</p>",
	"tags": ["go", "blog"],
	"category": {"id": 3, "label": "Dev", "href": "/dev"},
	"author": {"id": 1, "nickname": "kim"},
	"status": "PUBLISHED",
	"viewCount": 40,
	"likeCount": 2,
	"commentCount": 1,
	"isFeatured": true,
	"publishedDate": "2025-06-01T09:00:00",
	"createdDate": "2025-05-31T20:15:00.5",
	"modifiedDate": null
}`

func TestPostService_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[` + postJSON + `],"totalElements":11,"totalPages":2,"number":0,"size":10,"first":true,"last":false}`))
	})
	ps, err := blog.NewPostService(newClient(t, mux))
	require.NoError(t, err)

	page, err := ps.List(context.Background(), blog.PageRequest{})
	require.NoError(t, err)
	require.True(t, page.HasNext())
	require.Len(t, page.Content, 1)

	post := page.Content[0]
	require.Equal(t, "Hello LABit", post.Title)
	require.Equal(t, blog.StatusPublished, post.Status)
	require.Equal(t, "Dev", post.Category.Label)
	require.True(t, post.Featured())
	require.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), post.PublishedDate.Time)
	require.True(t, post.ModifiedDate.IsZero())
}

func TestPostService_Queries(t *testing.T) {
	mux := http.NewServeMux()
	var paths []string
	record := func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		writeJSON(w, http.StatusOK, map[string]any{"content": []any{}, "last": true})
	}
	list := func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []any{})
	}
	mux.HandleFunc("GET /api/posts/category/{id}", record)
	mux.HandleFunc("GET /api/posts/tag/{tag}", record)
	mux.HandleFunc("GET /api/posts/author/{id}", record)
	mux.HandleFunc("GET /api/posts/search", record)
	mux.HandleFunc("GET /api/posts/featured", list)
	mux.HandleFunc("GET /api/posts/popular", list)
	mux.HandleFunc("GET /api/posts/recent", list)

	ps, err := blog.NewPostService(newClient(t, mux))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ps.ByCategory(ctx, 3, blog.PageRequest{Page: 1, Size: 5})
	require.NoError(t, err)
	_, err = ps.ByTag(ctx, "go lang", blog.PageRequest{})
	require.NoError(t, err)
	_, err = ps.ByAuthor(ctx, 9, blog.PageRequest{})
	require.NoError(t, err)
	_, err = ps.Search(ctx, " kakao ", blog.PageRequest{})
	require.NoError(t, err)
	_, err = ps.Featured(ctx)
	require.NoError(t, err)
	_, err = ps.Popular(ctx, 0)
	require.NoError(t, err)
	_, err = ps.Recent(ctx, 3)
	require.NoError(t, err)

	require.Equal(t, []string{
		"/api/posts/category/3?page=1&size=5",
		"/api/posts/tag/go lang?page=0&size=10",
		"/api/posts/author/9?page=0&size=10",
		"/api/posts/search?keyword=kakao&page=0&size=10",
		"/api/posts/featured?",
		"/api/posts/popular?limit=10",
		"/api/posts/recent?limit=3",
	}, paths)
}

func TestPostService_ByTagKeepsSlashInSegment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/tag/{tag}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/tag/CI%2FCD", r.URL.EscapedPath())
		assert.Equal(t, "CI/CD", r.PathValue("tag"))
		writeJSON(w, http.StatusOK, map[string]any{"content": []any{}, "last": true})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected path %s", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	})
	ps, err := blog.NewPostService(newClient(t, mux))
	require.NoError(t, err)

	_, err = ps.ByTag(context.Background(), "CI/CD", blog.PageRequest{})
	require.NoError(t, err)
}

func TestPostService_CreateValidates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		var req blog.PostRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(3), utils.Value(req.CategoryID))
		writeJSON(w, http.StatusOK, blog.Post{ID: 99, Title: req.Title, Status: req.Status})
	})
	ps, err := blog.NewPostService(newClient(t, mux))
	require.NoError(t, err)

	_, err = ps.Create(context.Background(), blog.PostRequest{Content: "no title"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = ps.Create(context.Background(), blog.PostRequest{Title: "t", Content: "c", Status: "ARCHIVED"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	post, err := ps.Create(context.Background(), blog.PostRequest{
		Title:      "New",
		Content:    "body",
		Tags:       []string{"go"},
		CategoryID: utils.Ptr(int64(3)),
		Status:     blog.StatusDraft,
	})
	require.NoError(t, err)
	require.Equal(t, int64(99), post.ID)
}

func TestPostService_GetUpdateDeleteLike(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/12", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(postJSON))
	})
	mux.HandleFunc("GET /api/posts/404", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "post not found"})
	})
	mux.HandleFunc("PUT /api/posts/12", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, blog.Post{ID: 12, Title: "Edited"})
	})
	mux.HandleFunc("DELETE /api/posts/12", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/posts/12/like", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, blog.Post{ID: 12, LikeCount: 3})
	})
	ps, err := blog.NewPostService(newClient(t, mux))
	require.NoError(t, err)
	ctx := context.Background()

	post, err := ps.Get(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, []string{"go", "blog"}, post.Tags)

	_, err = ps.Get(ctx, 404)
	require.True(t, blog.IsNotFound(err))

	_, err = ps.Get(ctx, 0)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	post, err = ps.Update(ctx, 12, blog.PostRequest{Title: "Edited", Content: "body"})
	require.NoError(t, err)
	require.Equal(t, "Edited", post.Title)

	require.NoError(t, ps.Delete(ctx, 12))

	post, err = ps.ToggleLike(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, int64(3), post.LikeCount)
}

func TestPostService_RequiresKeywordAndTag(t *testing.T) {
	ps, err := blog.NewPostService(newClient(t, http.NewServeMux()))
	require.NoError(t, err)

	_, err = ps.Search(context.Background(), "  ", blog.PageRequest{})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	_, err = ps.ByTag(context.Background(), "", blog.PageRequest{})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = blog.NewPostService(nil)
	require.Error(t, err)
}
