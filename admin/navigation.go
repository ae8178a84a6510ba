// Package admin wraps the LABit administration endpoints: navigation, dashboard, assets and uploads.
package admin

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/internal/validation"
	"github.com/pkg/errors"
)

const pathNavigation = "/navigation"

// NavigationService manages the site navigation tree
type NavigationService struct {
	client    *apiclient.Client
	validator *validation.Validator
}

func NewNavigationService(client *apiclient.Client) (*NavigationService, error) {
	if client == nil {
		return nil, errors.New("[NewNavigationService] client is required")
	}
	return &NavigationService{client: client, validator: validation.NewValidator()}, nil
}

// Tree returns the root navigation items with their children populated
func (ns *NavigationService) Tree(ctx context.Context) ([]*NavItem, error) {
	var out []*NavItem
	if err := ns.client.Get(ctx, pathNavigation+"/tree", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Path returns the breadcrumb from the root to the item whose href matches
func (ns *NavigationService) Path(ctx context.Context, href string) ([]*NavItem, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, validation.Errors{"href": {"href is required"}}
	}
	var out []*NavItem
	if err := ns.client.Get(ctx, pathNavigation+"/path", &out, apiclient.WithParam("href", href)); err != nil {
		return nil, err
	}
	return out, nil
}

func (ns *NavigationService) Create(ctx context.Context, req NavRequest) (*NavItem, error) {
	if err := ns.validator.Struct(req); err != nil {
		return nil, err
	}
	var out NavItem
	if err := ns.client.Post(ctx, pathNavigation+"/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ns *NavigationService) Update(ctx context.Context, id int64, req NavRequest) (*NavItem, error) {
	if err := ns.validator.ID("navigationId", id); err != nil {
		return nil, err
	}
	if err := ns.validator.Struct(req); err != nil {
		return nil, err
	}
	var out NavItem
	if err := ns.client.Put(ctx, navPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an item; the server rejects items that still have children
func (ns *NavigationService) Delete(ctx context.Context, id int64) error {
	if err := ns.validator.ID("navigationId", id); err != nil {
		return err
	}
	return ns.client.Delete(ctx, navPath(id), nil)
}

// UpdateOrder rewrites sort order and parents for the given items in one call
func (ns *NavigationService) UpdateOrder(ctx context.Context, orders []NavOrder) error {
	if err := ns.validator.Slice(orders); err != nil {
		return err
	}
	return ns.client.Put(ctx, pathNavigation+"/order", orders, nil)
}

// ToggleStatus flips the item's active flag and returns the updated item
func (ns *NavigationService) ToggleStatus(ctx context.Context, id int64) (*NavItem, error) {
	if err := ns.validator.ID("navigationId", id); err != nil {
		return nil, err
	}
	var out NavItem
	if err := ns.client.Patch(ctx, navPath(id)+"/toggle-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateParent moves an item under parentID; a nil parentID makes it a root item
func (ns *NavigationService) UpdateParent(ctx context.Context, id int64, parentID *int64) (*NavItem, error) {
	if err := ns.validator.ID("navigationId", id); err != nil {
		return nil, err
	}
	if parentID != nil {
		if err := ns.validator.ID("parentId", *parentID); err != nil {
			return nil, err
		}
		if *parentID == id {
			return nil, validation.Errors{"parentId": {"parentId must differ from the item id"}}
		}
	}
	var out NavItem
	if err := ns.client.Patch(ctx, navPath(id)+"/parent", parentUpdate{ParentID: parentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EvictCache drops the server's cached navigation tree
func (ns *NavigationService) EvictCache(ctx context.Context) error {
	_, err := ns.client.Do(ctx, http.MethodPost, pathNavigation+"/cache/evict", nil)
	return err
}

func navPath(id int64) string {
	return pathNavigation + "/" + strconv.FormatInt(id, 10)
}

// FindNav searches the tree depth-first for the item with the given href
func FindNav(items []*NavItem, href string) *NavItem {
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.Href == href {
			return item
		}
		if found := FindNav(item.Children, href); found != nil {
			return found
		}
	}
	return nil
}
