package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Cause Codes", "cause code table")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_cause_codes.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_cause_codes.down.sql"))
	assert.Len(t, mf.Version, 14)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "cause code table")

	_, err = os.Stat(mf.DownPath)
	require.NoError(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "initial schema")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "AddCompanies", "addcompanies"},
		{"spaces to underscores", "add cause codes", "add_cause_codes"},
		{"collapses separators", "add - cause  codes", "add_cause_codes"},
		{"strips punctuation", "add: codes!", "add_codes"},
		{"trailing separator", "add codes ", "add_codes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"002_counterparties.up.sql",
		"002_counterparties.down.sql",
		"001_companies.up.sql",
		"001_companies.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_companies", "002_counterparties"}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
