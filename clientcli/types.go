package clientcli

import (
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	Name        string // name declared to the broker, defaults to the base name of LocalPath
	Title       string
	Description string
	Tags        []string
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath   string            `json:"local_path"`
	FileID      string            `json:"file_id"`
	Name        string            `json:"filename"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"file_size"`
	Status      mediastore.Status `json:"status"`
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	FileID    string
	LocalPath string // empty = use the stored file name, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	FileID      string              `json:"file_id"`
	LocalPath   string              `json:"local_path"`
	Name        string              `json:"filename"`
	Category    mediastore.Category `json:"file_type"`
	ContentType string              `json:"content_type"`
	Title       string              `json:"title"`
	Size        int64               `json:"file_size"`
}

// ListOptions configures a list operation.
type ListOptions struct {
	Status mediastore.Status
	Limit  int
	Cursor string
	All    bool // auto-paginate through all results
}

// ListResult contains paginated list results.
type ListResult struct {
	Items      []mediastore.FileRecord `json:"items"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// TotalSize calculates the total declared size of all items in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for i := range r.Items {
		total += r.Items[i].DeclaredSize
	}
	return total
}

// apiRequest is the body of every POST /api/upload call.
type apiRequest struct {
	Operation string        `json:"operation"`
	FileInfo  *fileInfoBody `json:"file_info,omitempty"`
	Metadata  *metadataBody `json:"metadata,omitempty"`
	FileID    string        `json:"file_id,omitempty"`
	Status    string        `json:"status,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Cursor    string        `json:"cursor,omitempty"`
}

type fileInfoBody struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type,omitempty"`
}

type metadataBody struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type uploadTicket struct {
	UploadURL string `json:"upload_url"`
	FileID    string `json:"file_id"`
	ExpiresIn int64  `json:"expires_in"`
}

type confirmResponse struct {
	Message string            `json:"message"`
	FileID  string            `json:"file_id"`
	Status  mediastore.Status `json:"status"`
}

type downloadTicket struct {
	DownloadURL string `json:"download_url"`
	FileInfo    struct {
		Filename    string              `json:"filename"`
		FileType    mediastore.Category `json:"file_type"`
		FileSize    int64               `json:"file_size"`
		ContentType string              `json:"content_type"`
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Tags        []string            `json:"tags"`
	} `json:"file_info"`
	ExpiresIn int64 `json:"expires_in"`
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// HealthStatus is the broker's health probe response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
