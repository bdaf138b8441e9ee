package sqlite_test

import (
	"testing"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database/internal/storetest"
	"github.com/YamesYamerson/secure-multimedia-storage/database/sqlite"
	"github.com/stretchr/testify/assert"
)

var _ mediastore.MetadataStore = (*sqlite.Repo)(nil)

func TestRepo_Contract(t *testing.T) {
	storetest.Run(t, setupTestRepo)
}

func TestNewRepo_InvalidTables(t *testing.T) {
	_, err := sqlite.NewRepo(nil, mediastore.Tables{Files: "Bad-Name"})
	assert.Error(t, err)
}
