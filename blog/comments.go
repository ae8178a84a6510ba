package blog

import (
	"context"
	"fmt"

	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/internal/validation"
	"github.com/pkg/errors"
)

const pathComments = "/comments"

// CommentService provides the comment endpoints
type CommentService struct {
	client    *apiclient.Client
	validator *validation.Validator
}

func NewCommentService(client *apiclient.Client) (*CommentService, error) {
	if client == nil {
		return nil, errors.New("[NewCommentService] client is required")
	}
	return &CommentService{client: client, validator: validation.NewValidator()}, nil
}

// ByPost returns the comment tree of a post; replies hang off their parent's Replies
func (cs *CommentService) ByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	if err := cs.validator.ID("postId", postID); err != nil {
		return nil, err
	}
	var out []*Comment
	if err := cs.client.Get(ctx, fmt.Sprintf("%s/post/%d", pathComments, postID), &out); err != nil {
		return nil, err
	}
	// Older backends return the comments flat
	for _, c := range out {
		if c.ParentID != nil {
			return BuildCommentTree(out), nil
		}
	}
	return out, nil
}

// Create posts a comment, or a reply when ParentID is set
func (cs *CommentService) Create(ctx context.Context, req CommentRequest) (*Comment, error) {
	if err := cs.validator.Struct(req); err != nil {
		return nil, err
	}
	var out Comment
	if err := cs.client.Post(ctx, pathComments, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cs *CommentService) Update(ctx context.Context, id int64, req CommentUpdateRequest) (*Comment, error) {
	if err := cs.validator.ID("commentId", id); err != nil {
		return nil, err
	}
	if err := cs.validator.Struct(req); err != nil {
		return nil, err
	}
	var out Comment
	if err := cs.client.Put(ctx, commentPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete soft deletes a comment; it stays in the tree with IsDeleted set while it has replies
func (cs *CommentService) Delete(ctx context.Context, id int64) error {
	if err := cs.validator.ID("commentId", id); err != nil {
		return err
	}
	return cs.client.Delete(ctx, commentPath(id), nil)
}

func (cs *CommentService) ToggleLike(ctx context.Context, id int64) (*Comment, error) {
	if err := cs.validator.ID("commentId", id); err != nil {
		return nil, err
	}
	var out Comment
	if err := cs.client.Post(ctx, commentPath(id)+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cs *CommentService) ByAuthor(ctx context.Context, authorID int64, page PageRequest) (*Page[Comment], error) {
	if err := cs.validator.ID("authorId", authorID); err != nil {
		return nil, err
	}
	var out Page[Comment]
	if err := cs.client.Get(ctx, fmt.Sprintf("%s/author/%d", pathComments, authorID), &out, page.option()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cs *CommentService) Recent(ctx context.Context, limit int) ([]Comment, error) {
	var out []Comment
	if err := cs.client.Get(ctx, pathComments+"/recent", &out, limitOption(limit)); err != nil {
		return nil, err
	}
	return out, nil
}

func commentPath(id int64) string {
	return fmt.Sprintf("%s/%d", pathComments, id)
}
