package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(`
database: /var/data/app.db
pool_size: 5
migrations: priv/migrations
`))
	require.NoError(t, err)
	assert.Equal(t, "/var/data/app.db", cfg.Database)
	assert.Equal(t, 5, cfg.PoolSize)
	assert.Equal(t, "priv/migrations", cfg.Migrations)
}

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse([]byte(`database: app.db`))
	require.NoError(t, err)
	assert.Equal(t, "app.db", cfg.Database)
	assert.Equal(t, 0, cfg.PoolSize, "pool_size defaults to the toolkit default")
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse([]byte(``))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Database)
}

func TestParse_RejectsBadPoolSize(t *testing.T) {
	_, err := Parse([]byte(`
database: app.db
pool_size: 0
`))
	require.Error(t, err)
	var ce *ConfigError
	assert.True(t, errors.As(err, &ce), "got %v", err)
}

func TestParse_RejectsWrongType(t *testing.T) {
	_, err := Parse([]byte(`pool_size: many`))
	require.Error(t, err)
	var ce *ConfigError
	assert.True(t, errors.As(err, &ce), "got %v", err)
}

func TestParse_RejectsEmptyDatabase(t *testing.T) {
	_, err := Parse([]byte(`database: ""`))
	require.Error(t, err)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("database: [unclosed"))
	require.Error(t, err)
	var ce *ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litecast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: app.db\npool_size: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "app.db", cfg.Database)
	assert.Equal(t, 2, cfg.PoolSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Path, "nope.yaml")
}
