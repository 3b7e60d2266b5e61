package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/config"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAppliesDefaultsAndValidates(t *testing.T) {
	path := writeTempFile(t, "bifrostql.yaml", `
database:
  type: postgres
  dsn: "postgres://localhost/app"
`)

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "public", c.Database.Schema)
	assert.Equal(t, 10, c.Database.MaxOpenConns)
	assert.Equal(t, 3, c.TreeSync.MaxDepth)
	assert.True(t, c.TreeSync.DeleteOrphans)
	assert.Equal(t, 500, c.CacheSize)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadRejectsUnsupportedDBType(t *testing.T) {
	path := writeTempFile(t, "bifrostql.yaml", `
database:
  type: oracle
  dsn: "whatever"
`)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	path := writeTempFile(t, "bifrostql.yaml", `
database:
  type: postgres
`)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadMetadataFileDecodesRawMetadata(t *testing.T) {
	path := writeTempFile(t, "metadata.yaml", `
model:
  tenant-context-key: tenant_id
tables:
  orders:
    values:
      soft-delete: "true"
    columns:
      deleted_at:
        populate: deleted-on
`)

	raw, err := config.LoadMetadataFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tenant_id", raw.Model["tenant-context-key"])
	assert.Equal(t, "true", raw.Tables["orders"].Values["soft-delete"])
	assert.Equal(t, "deleted-on", raw.Tables["orders"].Columns["deleted_at"]["populate"])
}

func TestLoadMetadataFileEmptyPathReturnsZeroValue(t *testing.T) {
	raw, err := config.LoadMetadataFile("")
	require.NoError(t, err)
	assert.Nil(t, raw.Model)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	c := &config.Config{
		Database: config.Database{Type: "postgres", DSN: "x"},
		LogLevel: "verbose",
	}
	assert.Error(t, c.Validate())
}
