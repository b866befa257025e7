// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"library-desk/internal/platform/config"
	"library-desk/internal/platform/db"
	"library-desk/internal/schema"
)

// Open returns a fresh, schema-initialised database under t.TempDir().
func Open(t *testing.T) *db.DB {
	t.Helper()

	conn := OpenEmpty(t)
	require.NoError(t, schema.Ensure(context.Background(), conn))
	return conn
}

// OpenEmpty returns a fresh database without any tables.
func OpenEmpty(t *testing.T) *db.DB {
	t.Helper()

	conn, err := db.Connect(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "library.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
