package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nexus/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"ADD_USERS_TABLE", "add_users_table"},
		{"add__users__table", "add_users_table"},
		{"Add Users 123", "add_users_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	cf, err := CreateMigration(dir, "add records ttl", "Expire stale records")
	require.NoError(t, err)
	assert.Equal(t, uint(1), cf.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_records_ttl.up.sql"), cf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_records_ttl.down.sql"), cf.DownPath)

	up, err := os.ReadFile(cf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_records_ttl")
	assert.Contains(t, string(up), "-- Expire stale records")

	down, err := os.ReadFile(cf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback of add_records_ttl")

	second, err := CreateMigration(dir, "index keys", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, "000002_index_keys", second.String())
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	source := fstest.MapFS{
		"000003_add_products.up.sql":   {Data: []byte("--")},
		"000003_add_products.down.sql": {Data: []byte("--")},
		"000001_init_schema.up.sql":    {Data: []byte("--")},
		"000001_init_schema.down.sql":  {Data: []byte("--")},
		"000002_add_users.up.sql":      {Data: []byte("--")},
		"README.md":                    {Data: []byte("docs")},
		"subdir.up.sql/file":           {Data: []byte("--")},
	}

	got, err := ListMigrations(source)
	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: 1, Name: "init_schema"},
		{Version: 2, Name: "add_users"},
		{Version: 3, Name: "add_products"},
	}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMigrations_Embedded(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "000001_create_records", got[0].String())
}
