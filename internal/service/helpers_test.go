package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"focus-tracker/internal/repository"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := repository.NewDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewStore(db)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
