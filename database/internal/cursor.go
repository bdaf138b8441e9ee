// Package internal holds helpers shared by the metadata store backends.
package internal

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// Cursor is the keyset position of the last record on a page.
type Cursor struct {
	CreatedAt time.Time
	FileID    string
}

// EncodeCursor returns an opaque, URL-safe cursor for (createdAt, fileID).
func EncodeCursor(createdAt time.Time, fileID string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + fileID
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor. An empty string
// decodes to the zero Cursor. Malformed cursors are reported as
// mediastore.ErrInvalidInput.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}

	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w: invalid encoding", mediastore.ErrInvalidInput)
	}

	ts, fileID, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Cursor{}, fmt.Errorf("decode cursor: %w: invalid format", mediastore.ErrInvalidInput)
	}

	if fileID == "" {
		return Cursor{}, fmt.Errorf("decode cursor: %w: empty file id", mediastore.ErrInvalidInput)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w: invalid timestamp", mediastore.ErrInvalidInput)
	}

	return Cursor{CreatedAt: createdAt, FileID: fileID}, nil
}
