// Package blog reads and writes LABit posts and comments through the authenticated API client.
package blog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/labit-client/apiclient"
	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/internal/validation"
	"github.com/pkg/errors"
)

const pathPosts = "/posts"

// PostService provides the post endpoints
type PostService struct {
	client    *apiclient.Client
	validator *validation.Validator
}

func NewPostService(client *apiclient.Client) (*PostService, error) {
	if client == nil {
		return nil, errors.New("[NewPostService] client is required")
	}
	return &PostService{client: client, validator: validation.NewValidator()}, nil
}

// List returns published posts, newest first
func (ps *PostService) List(ctx context.Context, page PageRequest) (*Page[Post], error) {
	var out Page[Post]
	if err := ps.client.Get(ctx, pathPosts, &out, page.option()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ps *PostService) Get(ctx context.Context, id int64) (*Post, error) {
	if err := ps.validator.ID("postId", id); err != nil {
		return nil, err
	}
	var out Post
	if err := ps.client.Get(ctx, postPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ps *PostService) Create(ctx context.Context, req PostRequest) (*Post, error) {
	if err := ps.validator.Struct(req); err != nil {
		return nil, err
	}
	var out Post
	if err := ps.client.Post(ctx, pathPosts, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ps *PostService) Update(ctx context.Context, id int64, req PostRequest) (*Post, error) {
	if err := ps.validator.ID("postId", id); err != nil {
		return nil, err
	}
	if err := ps.validator.Struct(req); err != nil {
		return nil, err
	}
	var out Post
	if err := ps.client.Put(ctx, postPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ps *PostService) Delete(ctx context.Context, id int64) error {
	if err := ps.validator.ID("postId", id); err != nil {
		return err
	}
	return ps.client.Delete(ctx, postPath(id), nil)
}

func (ps *PostService) ByCategory(ctx context.Context, categoryID int64, page PageRequest) (*Page[Post], error) {
	if err := ps.validator.ID("categoryId", categoryID); err != nil {
		return nil, err
	}
	return ps.page(ctx, fmt.Sprintf("%s/category/%d", pathPosts, categoryID), page)
}

func (ps *PostService) ByTag(ctx context.Context, tag string, page PageRequest) (*Page[Post], error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, validation.Errors{"tag": {"tag is required"}}
	}
	return ps.page(ctx, pathPosts+"/tag/"+url.PathEscape(tag), page)
}

func (ps *PostService) ByAuthor(ctx context.Context, authorID int64, page PageRequest) (*Page[Post], error) {
	if err := ps.validator.ID("authorId", authorID); err != nil {
		return nil, err
	}
	return ps.page(ctx, fmt.Sprintf("%s/author/%d", pathPosts, authorID), page)
}

// Search matches keyword against titles and content
func (ps *PostService) Search(ctx context.Context, keyword string, page PageRequest) (*Page[Post], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, validation.Errors{"keyword": {"keyword is required"}}
	}
	return ps.page(ctx, pathPosts+"/search", page, apiclient.WithParam("keyword", keyword))
}

func (ps *PostService) Featured(ctx context.Context) ([]Post, error) {
	return ps.list(ctx, pathPosts+"/featured")
}

// Popular returns up to limit posts by view count; limit <= 0 uses DefaultLimit
func (ps *PostService) Popular(ctx context.Context, limit int) ([]Post, error) {
	return ps.list(ctx, pathPosts+"/popular", limitOption(limit))
}

func (ps *PostService) Recent(ctx context.Context, limit int) ([]Post, error) {
	return ps.list(ctx, pathPosts+"/recent", limitOption(limit))
}

// ToggleLike adds or removes the current user's like and returns the updated post
func (ps *PostService) ToggleLike(ctx context.Context, id int64) (*Post, error) {
	if err := ps.validator.ID("postId", id); err != nil {
		return nil, err
	}
	var out Post
	if err := ps.client.Post(ctx, postPath(id)+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ps *PostService) page(ctx context.Context, path string, page PageRequest, options ...apiclient.RequestOption) (*Page[Post], error) {
	var out Page[Post]
	if err := ps.client.Get(ctx, path, &out, append(options, page.option())...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ps *PostService) list(ctx context.Context, path string, options ...apiclient.RequestOption) ([]Post, error) {
	var out []Post
	if err := ps.client.Get(ctx, path, &out, options...); err != nil {
		return nil, err
	}
	return out, nil
}

func postPath(id int64) string {
	return pathPosts + "/" + strconv.FormatInt(id, 10)
}

func (p PageRequest) option() apiclient.RequestOption {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(p.Page, 0)
	return apiclient.WithQuery(url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	})
}

func limitOption(limit int) apiclient.RequestOption {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return apiclient.WithParam("limit", strconv.Itoa(limit))
}

// IsNotFound reports whether err is the API's 404 for a missing post or comment
func IsNotFound(err error) bool {
	var apiErr *apiclient.Error
	return apperrors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
