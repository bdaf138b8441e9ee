package mediastore_test

import (
	"strings"
	"testing"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status mediastore.Status
		valid  bool
	}{
		{name: "uploading is valid", status: mediastore.StatusUploading, valid: true},
		{name: "completed is valid", status: mediastore.StatusCompleted, valid: true},
		{name: "empty is invalid", status: "", valid: false},
		{name: "uppercase is invalid", status: "COMPLETED", valid: false},
		{name: "unknown is invalid", status: "deleted", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}

func TestParseStatus(t *testing.T) {
	status, err := mediastore.ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, mediastore.StatusCompleted, status)

	_, err = mediastore.ParseStatus("archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestTables_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tables  mediastore.Tables
		wantErr string
	}{
		{name: "valid", tables: mediastore.Tables{Files: "media_files"}},
		{name: "leading underscore", tables: mediastore.Tables{Files: "_files"}},
		{name: "empty", tables: mediastore.Tables{}, wantErr: "cannot be empty"},
		{name: "uppercase", tables: mediastore.Tables{Files: "Files"}, wantErr: "invalid files table name"},
		{name: "sql injection", tables: mediastore.Tables{Files: "files; DROP TABLE x"}, wantErr: "invalid files table name"},
		{name: "leading digit", tables: mediastore.Tables{Files: "1files"}, wantErr: "invalid files table name"},
		{name: "too long", tables: mediastore.Tables{Files: strings.Repeat("a", 64)}, wantErr: "invalid files table name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tables.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &mediastore.ValidationError{Violations: []mediastore.Violation{
		{Code: mediastore.ViolationSizeExceeded, Message: "too big"},
		{Code: mediastore.ViolationTypeNotAllowed, Message: "bad type"},
	}}

	assert.ErrorIs(t, err, mediastore.ErrInvalidInput)
	assert.NotErrorIs(t, err, mediastore.ErrNotFound)
	assert.Equal(t, []string{"too big", "bad type"}, err.Messages())
	assert.Equal(t, "file validation failed: too big; bad type", err.Error())
}
