package admin

import (
	"context"
	"strconv"

	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/internal/utils"
	"github.com/jrsteele09/labit-client/internal/validation"
	"github.com/pkg/errors"
)

const pathAssets = "/assets"

// AssetService manages the folder tree and files of the asset library
type AssetService struct {
	client    *apiclient.Client
	validator *validation.Validator
}

func NewAssetService(client *apiclient.Client) (*AssetService, error) {
	if client == nil {
		return nil, errors.New("[NewAssetService] client is required")
	}
	return &AssetService{client: client, validator: validation.NewValidator()}, nil
}

// All returns the root folders and files with their children populated
func (as *AssetService) All(ctx context.Context) ([]*Asset, error) {
	var out []*Asset
	if err := as.client.Get(ctx, pathAssets+"/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (as *AssetService) CreateFolder(ctx context.Context, req FolderRequest) (*Asset, error) {
	if err := as.validator.Struct(req); err != nil {
		return nil, err
	}
	var out Asset
	if err := as.client.Post(ctx, pathAssets+"/folder", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (as *AssetService) UpdateFolder(ctx context.Context, id int64, req FolderRequest) (*Asset, error) {
	if err := as.validator.ID("folderId", id); err != nil {
		return nil, err
	}
	if err := as.validator.Struct(req); err != nil {
		return nil, err
	}
	var out Asset
	if err := as.client.Put(ctx, folderPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFolder removes a folder together with its contents
func (as *AssetService) DeleteFolder(ctx context.Context, id int64) error {
	if err := as.validator.ID("folderId", id); err != nil {
		return err
	}
	return as.client.Delete(ctx, folderPath(id), nil)
}

// Move places an asset in targetFolderID; zero moves it to the root
func (as *AssetService) Move(ctx context.Context, id, targetFolderID int64) (*Asset, error) {
	if err := as.validator.ID("assetId", id); err != nil {
		return nil, err
	}
	if targetFolderID < 0 {
		return nil, validation.Errors{"targetFolderId": {"targetFolderId must not be negative"}}
	}
	var out Asset
	body := moveRequest{TargetFolderID: utils.NilIfZero(targetFolderID)}
	if err := as.client.Patch(ctx, assetPath(id)+"/move", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (as *AssetService) UpdateOrder(ctx context.Context, orders []AssetOrder) error {
	if err := as.validator.Slice(orders); err != nil {
		return err
	}
	return as.client.Put(ctx, pathAssets+"/order", orders, nil)
}

// Upload sends the file at path into folderID; zero uploads to the root
func (as *AssetService) Upload(ctx context.Context, path string, folderID int64) (*Asset, error) {
	form := apiclient.NewMultipartForm()
	if err := form.AddFileFromPath("file", path); err != nil {
		return nil, err
	}
	return as.upload(ctx, form, folderID)
}

// UploadBytes is Upload for in-memory content; an empty contentType is sniffed
func (as *AssetService) UploadBytes(ctx context.Context, filename, contentType string, data []byte, folderID int64) (*Asset, error) {
	if filename == "" {
		return nil, validation.Errors{"file": {"file name is required"}}
	}
	form := apiclient.NewMultipartForm().AddFile("file", filename, contentType, data)
	return as.upload(ctx, form, folderID)
}

func (as *AssetService) upload(ctx context.Context, form *apiclient.MultipartForm, folderID int64) (*Asset, error) {
	if folderID < 0 {
		return nil, validation.Errors{"folderId": {"folderId must not be negative"}}
	}
	if folderID > 0 {
		form.AddField("folderId", strconv.FormatInt(folderID, 10))
	}
	var out Asset
	if err := as.client.Post(ctx, pathAssets+"/upload", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (as *AssetService) DeleteFile(ctx context.Context, id int64) error {
	if err := as.validator.ID("fileId", id); err != nil {
		return err
	}
	return as.client.Delete(ctx, pathAssets+"/file/"+strconv.FormatInt(id, 10), nil)
}

func folderPath(id int64) string {
	return pathAssets + "/folder/" + strconv.FormatInt(id, 10)
}

func assetPath(id int64) string {
	return pathAssets + "/" + strconv.FormatInt(id, 10)
}

// WalkAssets visits every asset depth-first until fn returns false
func WalkAssets(items []*Asset, fn func(*Asset) bool) bool {
	for _, a := range items {
		if a == nil {
			continue
		}
		if !fn(a) || !WalkAssets(a.Children, fn) {
			return false
		}
	}
	return true
}
