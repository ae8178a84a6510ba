package admin_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/labit-client/admin"
	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"users": {"total": 120, "growth": 12.5, "newToday": 3, "activeToday": 40},
			"posts": {"total": 58, "growth": -4, "newToday": 1, "publishedToday": 1},
			"assets": {"total": 300, "growth": 0, "totalSize": 1048576, "uploadedToday": 7},
			"views": {"total": 9000, "growth": 30.1, "today": 210, "uniqueToday": 150}
		}`))
	})
	ds, err := admin.NewDashboardService(newClient(t, mux))
	require.NoError(t, err)

	stats, err := ds.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(120), stats.Users.Total)
	require.InDelta(t, 12.5, stats.Users.Growth, 0.001)
	require.Equal(t, int64(1), stats.Posts.PublishedToday)
	require.Equal(t, int64(1048576), stats.Assets.TotalSize)
	require.Equal(t, int64(150), stats.Views.UniqueToday)
}

func TestDashboardService_SystemStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/dashboard/system-status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "warning",
			"services": []map[string]any{
				{"name": "Database", "status": "healthy", "uptime": "3d"},
				{"name": "Storage", "status": "warning", "errorMessage": "disk 91%"},
			},
			"resources": map[string]any{"cpu": 20, "memory": 65, "disk": 91, "network": 5},
			"database":  map[string]any{"status": "healthy", "connectionCount": 4, "maxConnections": 20, "responseTime": 1.5, "version": "MySQL 8.0"},
		})
	})
	ds, err := admin.NewDashboardService(newClient(t, mux))
	require.NoError(t, err)

	status, err := ds.SystemStatus(context.Background())
	require.NoError(t, err)
	require.False(t, status.Healthy())
	require.Len(t, status.Services, 2)
	require.Equal(t, "disk 91%", status.Services[1].ErrorMessage)
	require.Equal(t, 91, status.Resources.Disk)
	require.Equal(t, 20, status.Database.MaxConnections)
}

func TestDashboardService_ActivityLogs(t *testing.T) {
	testCases := []struct {
		name  string
		limit int
		want  string
	}{
		{name: "default", limit: 0, want: "10"},
		{name: "explicit", limit: 25, want: "25"},
		{name: "capped", limit: 5000, want: "100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/admin/dashboard/activity-logs", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tc.want, r.URL.Query().Get("limit"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"id": 7, "user": "kim", "action": "POST_CREATE", "status": "SUCCESS",
					"resourceType": "POST", "resourceId": 12, "createdDate": "2025-06-01T10:30:00"}]`))
			})
			ds, err := admin.NewDashboardService(newClient(t, mux))
			require.NoError(t, err)

			logs, err := ds.ActivityLogs(context.Background(), tc.limit)
			require.NoError(t, err)
			require.Len(t, logs, 1)
			require.Equal(t, "POST_CREATE", logs[0].Action)
			require.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), logs[0].CreatedDate.Time)
		})
	}
}

func TestDashboardService_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	client := newClient(t, mux)
	ds, err := admin.NewDashboardService(client)
	require.NoError(t, err)

	_, err = ds.Stats(context.Background())
	require.True(t, apiclient.IsKind(err, apiclient.KindClient))
	require.Equal(t, sessions.Authenticated, client.Store().Get().State())
}
