package admin

import "github.com/jrsteele09/labit-client/oauthmodel"

// NavItem is a node of the site navigation tree; posts are filed under navigation items as categories
type NavItem struct {
	ID          int64      `json:"id"`
	Label       string     `json:"label"`
	Href        string     `json:"href"`
	ParentID    *int64     `json:"parentId,omitempty"`
	SortOrder   int        `json:"sortOrder"`
	Depth       int        `json:"depth"`
	Icon        string     `json:"icon,omitempty"`
	Description string     `json:"description,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	Children    []*NavItem `json:"children,omitempty"`
}

type NavRequest struct {
	Label       string `json:"label" validate:"required,max=50"`
	Href        string `json:"href" validate:"required,startswith=/,max=200"`
	ParentID    *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
	Icon        string `json:"icon,omitempty" validate:"max=50"`
	Description string `json:"description,omitempty" validate:"max=200"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// NavOrder places one item; a reorder sends the whole affected level
type NavOrder struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
	ParentID  *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
}

type parentUpdate struct {
	ParentID *int64 `json:"parentId"`
}

type DashboardStats struct {
	Users  UserStats  `json:"users"`
	Posts  PostStats  `json:"posts"`
	Assets AssetStats `json:"assets"`
	Views  ViewStats  `json:"views"`
}

type UserStats struct {
	Total       int64   `json:"total"`
	Growth      float64 `json:"growth"` // Percent change against last month
	NewToday    int64   `json:"newToday"`
	ActiveToday int64   `json:"activeToday"`
}

type PostStats struct {
	Total          int64   `json:"total"`
	Growth         float64 `json:"growth"`
	NewToday       int64   `json:"newToday"`
	PublishedToday int64   `json:"publishedToday"`
}

type AssetStats struct {
	Total         int64   `json:"total"`
	Growth        float64 `json:"growth"`
	TotalSize     int64   `json:"totalSize"` // Bytes
	UploadedToday int64   `json:"uploadedToday"`
}

type ViewStats struct {
	Total       int64   `json:"total"`
	Growth      float64 `json:"growth"`
	Today       int64   `json:"today"`
	UniqueToday int64   `json:"uniqueToday"`
}

// SystemStatus is the backend health summary; Status is "healthy", "warning" or "error"
type SystemStatus struct {
	Status    string          `json:"status"`
	Services  []ServiceStatus `json:"services"`
	Resources ResourceUsage   `json:"resources"`
	Database  DatabaseStatus  `json:"database"`
}

func (s *SystemStatus) Healthy() bool {
	return s.Status == "healthy"
}

type ServiceStatus struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	Uptime       string `json:"uptime,omitempty"`
	LastChecked  string `json:"lastChecked,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ResourceUsage percentages range 0-100
type ResourceUsage struct {
	CPU         int    `json:"cpu"`
	Memory      int    `json:"memory"`
	Disk        int    `json:"disk"`
	Network     int    `json:"network"`
	DiskSpace   string `json:"diskSpace,omitempty"`
	MemoryUsage string `json:"memoryUsage,omitempty"`
}

type DatabaseStatus struct {
	Status          string  `json:"status"`
	ConnectionCount int     `json:"connectionCount"`
	MaxConnections  int     `json:"maxConnections"`
	ResponseTime    float64 `json:"responseTime"` // Milliseconds
	Version         string  `json:"version,omitempty"`
}

type ActivityLog struct {
	ID           int64                `json:"id"`
	User         string               `json:"user,omitempty"`
	Action       string               `json:"action"`
	Description  string               `json:"description,omitempty"`
	Status       string               `json:"status"`
	ResourceType string               `json:"resourceType,omitempty"`
	ResourceID   *int64               `json:"resourceId,omitempty"`
	CreatedDate  oauthmodel.Timestamp `json:"createdDate"`
}

const AssetTypeFolder = "folder"

// Asset is a folder or an uploaded file in the asset library
type Asset struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	OriginalName string               `json:"originalName,omitempty"`
	Type         string               `json:"type"`
	URL          string               `json:"url,omitempty"`
	MimeType     string               `json:"mimeType,omitempty"`
	Size         int64                `json:"size,omitempty"`
	FolderID     *int64               `json:"folderId,omitempty"`
	ParentID     *int64               `json:"parentId,omitempty"`
	SortOrder    int                  `json:"sortOrder"`
	Depth        int                  `json:"depth"`
	Description  string               `json:"description,omitempty"`
	IsPublic     *bool                `json:"isPublic,omitempty"`
	FileCount    int                  `json:"fileCount,omitempty"`
	CreatedDate  oauthmodel.Timestamp `json:"createdDate"`
	ModifiedDate oauthmodel.Timestamp `json:"modifiedDate"`
	Children     []*Asset             `json:"children,omitempty"`
}

func (a *Asset) IsFolder() bool {
	return a.Type == AssetTypeFolder
}

type FolderRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=200"`
	ParentID    *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
}

type AssetOrder struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
	ParentID  *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
}

type moveRequest struct {
	TargetFolderID *int64 `json:"targetFolderId"`
}

// UploadResult is the body of the /upload endpoints
type UploadResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName,omitempty"`
}

// URLCheck is the result of validating a remote image URL
type URLCheck struct {
	Valid       bool   `json:"valid"`
	Message     string `json:"message,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}
