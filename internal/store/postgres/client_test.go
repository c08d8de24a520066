package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:p@db:5432/scans?sslmode=disable",
		DSN(ClientConfig{Host: "db", Database: "scans", User: "u", Password: "p"}))
	assert.Equal(t, "postgres://u:p@db:6543/scans?sslmode=require",
		DSN(ClientConfig{Host: "db", Port: 6543, Database: "scans", User: "u", Password: "p", SSLMode: "require"}))
	assert.Equal(t, "postgres://explicit", DSN(ClientConfig{DSN: "postgres://explicit", Host: "ignored"}))
}

func TestMigrationFilesEmbedded(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_scan_history.sql"}, names)
}
