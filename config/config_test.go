package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
schemaFile: /tmp/schema.yml
dialect: postgres
`), 0644))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/schema.yml", cfg.SchemaFile)
	assert.Equal(t, "postgres", cfg.Dialect)
}

func TestReadMissingExplicitPath(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestReadBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	_, err := Read(path)
	require.Error(t, err)
}
