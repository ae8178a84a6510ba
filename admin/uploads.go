package admin

import (
	"context"
	"net/url"
	"strings"

	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/internal/validation"
	"github.com/pkg/errors"
)

const (
	pathUpload = "/upload"

	uploadTypeProfile   = "profile"
	uploadTypeThumbnail = "thumbnail"
)

// UploadService sends standalone files such as profile images and post thumbnails
type UploadService struct {
	client *apiclient.Client
}

func NewUploadService(client *apiclient.Client) (*UploadService, error) {
	if client == nil {
		return nil, errors.New("[NewUploadService] client is required")
	}
	return &UploadService{client: client}, nil
}

// Image uploads a profile image
func (us *UploadService) Image(ctx context.Context, path string) (*UploadResult, error) {
	return us.upload(ctx, pathUpload+"/image", path, uploadTypeProfile)
}

func (us *UploadService) File(ctx context.Context, path string) (*UploadResult, error) {
	return us.upload(ctx, pathUpload+"/file", path, "")
}

func (us *UploadService) Thumbnail(ctx context.Context, path string) (*UploadResult, error) {
	return us.upload(ctx, pathUpload+"/thumbnail", path, uploadTypeThumbnail)
}

// ValidateURL asks the server whether rawURL points at a usable image
func (us *UploadService) ValidateURL(ctx context.Context, rawURL string) (*URLCheck, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, validation.Errors{"url": {"url must be a valid http or https URL"}}
	}
	var out URLCheck
	if err := us.client.Get(ctx, pathUpload+"/validate-url", &out, apiclient.WithParam("url", rawURL)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (us *UploadService) upload(ctx context.Context, route, path, kind string) (*UploadResult, error) {
	form := apiclient.NewMultipartForm()
	if err := form.AddFileFromPath("file", path); err != nil {
		return nil, err
	}
	if kind != "" {
		form.AddField("type", kind)
	}
	var out UploadResult
	if err := us.client.Post(ctx, route, form, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.FileURL == "" {
		return &out, errors.Wrapf(ErrUploadRejected, "[UploadService upload] %s", out.Message)
	}
	return &out, nil
}

// ErrUploadRejected is returned when the server answers 2xx but reports the upload as failed
var ErrUploadRejected = errors.New("upload rejected")
