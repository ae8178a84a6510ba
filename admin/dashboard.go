package admin

import (
	"context"
	"strconv"

	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/pkg/errors"
)

const (
	pathDashboard = "/admin/dashboard"

	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

// DashboardService reads the admin dashboard summaries; all routes require the ADMIN role
type DashboardService struct {
	client *apiclient.Client
}

func NewDashboardService(client *apiclient.Client) (*DashboardService, error) {
	if client == nil {
		return nil, errors.New("[NewDashboardService] client is required")
	}
	return &DashboardService{client: client}, nil
}

func (ds *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := ds.client.Get(ctx, pathDashboard+"/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ds *DashboardService) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := ds.client.Get(ctx, pathDashboard+"/system-status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivityLogs returns the most recent admin actions. limit <= 0 uses DefaultActivityLimit and is capped at MaxActivityLimit.
func (ds *DashboardService) ActivityLogs(ctx context.Context, limit int) ([]ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	limit = min(limit, MaxActivityLimit)

	var out []ActivityLog
	if err := ds.client.Get(ctx, pathDashboard+"/activity-logs", &out, apiclient.WithParam("limit", strconv.Itoa(limit))); err != nil {
		return nil, err
	}
	return out, nil
}
