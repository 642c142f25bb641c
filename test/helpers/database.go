package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/database"
)

// NewTestDB returns an empty session store that is closed with the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "open in-memory session store")
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
