package blog

import (
	"github.com/jrsteele09/labit-client/internal/utils"
	"github.com/jrsteele09/labit-client/oauthmodel"
)

// PostStatus is the publication state of a post
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
)

const (
	DefaultPageSize = 10
	DefaultLimit    = 10
	// MaxCommentDepth is the deepest reply level the backend accepts (replies to top level comments only)
	MaxCommentDepth = 1
)

type Author struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Category is the navigation entry a post is filed under
type Category struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Post struct {
	ID            int64                `json:"id"`
	Title         string               `json:"title"`
	Content       string               `json:"content"`
	Summary       string               `json:"summary,omitempty"`
	ThumbnailURL  string               `json:"thumbnailUrl,omitempty"`
	Tags          []string             `json:"tags,omitempty"`
	Category      *Category            `json:"category,omitempty"`
	Author        Author               `json:"author"`
	Status        PostStatus           `json:"status"`
	ViewCount     int64                `json:"viewCount"`
	LikeCount     int64                `json:"likeCount"`
	CommentCount  int64                `json:"commentCount"`
	IsFeatured    *bool                `json:"isFeatured,omitempty"`
	PublishedDate oauthmodel.Timestamp `json:"publishedDate"`
	CreatedDate   oauthmodel.Timestamp `json:"createdDate"`
	ModifiedDate  oauthmodel.Timestamp `json:"modifiedDate"`
}

func (p *Post) Featured() bool {
	return utils.Value(p.IsFeatured)
}

// PostRequest is the body for creating or updating a post
type PostRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Content      string     `json:"content" validate:"required"`
	Summary      string     `json:"summary,omitempty" validate:"max=500"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	Tags         []string   `json:"tags,omitempty" validate:"max=20,dive,required,max=30"`
	CategoryID   *int64     `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Status       PostStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	IsFeatured   *bool      `json:"isFeatured,omitempty"`
}

type Comment struct {
	ID           int64                `json:"id"`
	PostID       int64                `json:"postId"`
	Content      string               `json:"content"`
	Author       Author               `json:"author"`
	ParentID     *int64               `json:"parentId,omitempty"`
	Depth        int                  `json:"depth"`
	IsDeleted    bool                 `json:"isDeleted"`
	LikeCount    int64                `json:"likeCount"`
	CreatedDate  oauthmodel.Timestamp `json:"createdDate"`
	ModifiedDate oauthmodel.Timestamp `json:"modifiedDate"`
	Replies      []*Comment           `json:"replies,omitempty"`
}

// CanReply mirrors the backend rule that replies nest one level deep
func (c *Comment) CanReply() bool {
	return !c.IsDeleted && c.Depth < MaxCommentDepth
}

type CommentRequest struct {
	PostID   int64  `json:"postId" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,max=1000"`
	ParentID *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
}

type CommentUpdateRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// Page is a Spring Data page of results
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// HasNext reports whether another page follows this one
func (p *Page[T]) HasNext() bool {
	return !p.Last && p.Number+1 < p.TotalPages
}

// PageRequest selects a page; the zero value is the first page of DefaultPageSize
type PageRequest struct {
	Page int
	Size int
}
