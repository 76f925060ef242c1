package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-center/internal/config"
)

func TestRosterSchemaSkipsWithoutPool(t *testing.T) {
	assert.NoError(t, ApplyRosterSchema(context.Background(), nil, "does-not-exist", zap.NewNop()))
}

func TestRosterSchemaFilesOnlySQLInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_roles.sql", "README.md", "001_members.SQL", "003_seed.sql.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "004_nested.sql"), 0o700))

	files, err := RosterSchemaFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_members.SQL", "002_roles.sql"}, files)

	_, err = RosterSchemaFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRepositoryRosterSchemaIsListed(t *testing.T) {
	files, err := RosterSchemaFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Contains(t, files, "001_roster_members.sql")
}

func TestPostgresWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()

	var missing *Postgres
	assert.Nil(t, missing.PoolHandle())
	assert.Error(t, missing.Ping(context.Background()))
}

func TestNilRedisPing(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
	assert.Error(t, (&Redis{}).Ping(context.Background()))
}
