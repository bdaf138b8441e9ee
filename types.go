package mediastore

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Status is the lifecycle state of a FileRecord.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUploading, StatusCompleted:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s (valid statuses: uploading, completed)", s)
	}
	return status, nil
}

// Category is the coarse media class of a file, derived from its extension.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryOther    Category = "other"
)

// Operation scopes a capability URL to reading or writing one object.
type Operation string

const (
	OperationRead  Operation = "read"
	OperationWrite Operation = "write"
)

// FileRecord is the authoritative metadata entry for one uploaded object.
// FileID, OwnerID, Category and ObjectKey never change after creation.
type FileRecord struct {
	FileID              string    `json:"file_id"`
	OwnerID             string    `json:"owner_id"`
	DeclaredName        string    `json:"filename"`
	Category            Category  `json:"file_type"`
	DeclaredSize        int64     `json:"file_size"`
	DeclaredContentType string    `json:"content_type"`
	ObjectKey           string    `json:"object_key"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Tags                []string  `json:"tags"`
	Status              Status    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	LastModified        time.Time `json:"last_modified"`
	Version             int       `json:"version"`
}

// FileInfo is what a client declares about a file before uploading it.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// DisplayMetadata is caller-supplied presentation data stored with a record.
type DisplayMetadata struct {
	Title       string
	Description string
	Tags        []string
}

type UploadRequest struct {
	File     FileInfo
	Metadata DisplayMetadata
}

// UploadTicket is returned by a successful request-upload.
type UploadTicket struct {
	UploadURL string
	FileID    string
	ExpiresIn time.Duration
}

// DownloadTicket is returned by a successful request-download.
type DownloadTicket struct {
	DownloadURL string
	File        FileRecord
	ExpiresIn   time.Duration
}

// ConfirmResult reports the record after confirm-upload. Changed is false when
// the record was already completed by an earlier confirm.
type ConfirmResult struct {
	Record  FileRecord
	Changed bool
}

// CapabilityRequest describes the single object and operation a capability
// URL grants access to.
type CapabilityRequest struct {
	ObjectKey    string
	ContentType  string
	DownloadName string
	Operation    Operation
}

// Capability is a time-bounded URL issued by the object store.
type Capability struct {
	URL       string
	ExpiresIn time.Duration
}

type ListQuery struct {
	Status Status
	Limit  int
	Cursor string
}

type StaleQuery struct {
	Before time.Time
	Limit  int
	Cursor string
}

type ListResult struct {
	Items      []FileRecord `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Principal is the verified identity behind a request.
type Principal struct {
	OwnerID   string
	Username  string
	ExpiresAt time.Time
}

// Tables holds configurable table names for metadata storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Files string `mapstructure:"files"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Files == "" {
		return errors.New("validate tables: files table name cannot be empty")
	}

	if !IsValidTableName(t.Files) {
		return fmt.Errorf("validate tables: invalid files table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Files)
	}

	return nil
}
