package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "incident-center", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "Current User", cfg.App.DefaultActor)
	assert.True(t, cfg.Store.SeedDemo)
	assert.Equal(t, BackendMemory, cfg.Roster.Source)
	assert.Equal(t, BackendMemory, cfg.Blob.Backend)
	assert.Zero(t, cfg.Blob.TTL())
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORE_SEED_DEMO", "false")
	t.Setenv("BLOB_BACKEND", "REDIS")
	t.Setenv("BLOB_TTL_HOURS", "48")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.False(t, cfg.Store.SeedDemo)
	assert.Equal(t, BackendRedis, cfg.Blob.Backend)
	assert.Equal(t, 48*time.Hour, cfg.Blob.TTL())
	assert.Zero(t, cfg.App.RequestTimeout())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_DEFAULT_ACTOR=On-call Bot\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("APP_DEFAULT_ACTOR")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "On-call Bot", cfg.App.DefaultActor)
	assert.Equal(t, "debug", cfg.Logger.Level)

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestLoadRejectsBadBackends(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROSTER_SOURCE", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")

	t.Setenv("ROSTER_SOURCE", "memory")
	t.Setenv("BLOB_BACKEND", "s3")
	_, err = Load()
	assert.ErrorContains(t, err, "BLOB_BACKEND")

	t.Setenv("BLOB_BACKEND", "memory")
	t.Setenv("REDIS_DB", "x")
	_, err = Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}

func TestBlobBodyLimit(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(10<<20), cfg.Blob.MaxBytes)
	assert.Equal(t, 11<<20, cfg.Blob.BodyLimit())

	t.Setenv("BLOB_MAX_BYTES", "0")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Blob.MaxBytes)
	assert.Equal(t, math.MaxInt32, cfg.Blob.BodyLimit())

	assert.Equal(t, math.MaxInt32, BlobConfig{MaxBytes: -1}.BodyLimit())
	assert.Equal(t, math.MaxInt32, BlobConfig{MaxBytes: math.MaxInt64}.BodyLimit())
	assert.Equal(t, 1<<20+512, BlobConfig{MaxBytes: 512}.BodyLimit())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the original one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
