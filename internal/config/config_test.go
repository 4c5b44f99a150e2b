package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PUBGCOACH_API_KEY", "")
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultDB, cfg.DBPath)
	assert.Equal(t, DefaultShard, cfg.Shard)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.False(t, cfg.Verbose)
	assert.Error(t, cfg.RequireAPIKey())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /tmp/x.db\nshard: kakao\napi_key: from-file\n"), 0o644))
	t.Setenv("PUBGCOACH_API_KEY", "from-env")

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "kakao", cfg.Shard)
	assert.Equal(t, "from-env", cfg.APIKey, "environment overrides the file")
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyDB(t *testing.T) {
	v := viper.New()
	v.Set(KeyDB, "")
	_, err := Load(v)
	assert.Error(t, err)
}
