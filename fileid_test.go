package mediastore_test

import (
	"regexp"
	"testing"
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/stretchr/testify/assert"
)

var fileIDPattern = regexp.MustCompile(`^user-1_[0-9a-f]{12}$`)

func TestNewFileID_Format(t *testing.T) {
	id := mediastore.NewFileID("user-1", "photo.jpg", time.Now())
	assert.Regexp(t, fileIDPattern, id)
}

func TestNewFileID_Unique(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	seen := make(map[string]struct{})
	for i := range 1000 {
		// same owner, name and instant on purpose
		id := mediastore.NewFileID("user-1", "photo.jpg", now)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id at iteration %d", i)
		seen[id] = struct{}{}
	}

	other := mediastore.NewFileID("user-1", "photo.jpg", now.Add(time.Nanosecond))
	assert.NotContains(t, seen, other)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t,
		"uploads/user-1/user-1_abcdef012345/photo.jpg",
		mediastore.ObjectKey("user-1", "user-1_abcdef012345", "photo.jpg"),
	)
}
