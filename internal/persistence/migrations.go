package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RosterSchemaFiles returns the .sql files in dir sorted by name.
func RosterSchemaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read roster schema dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ApplyRosterSchema runs the roster schema files from dir in one transaction. A nil pool
// means the roster is not backed by postgres and nothing is applied.
func ApplyRosterSchema(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("roster schema not applied; no postgres pool")
		return nil
	}
	files, err := RosterSchemaFiles(dir)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin roster schema: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read roster schema %s: %w", name, err)
		}
		logger.Debug("applying roster schema", zap.String("file", name))
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply roster schema %s: %w", name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit roster schema: %w", err)
	}

	logger.Info("roster schema ready", zap.String("dir", dir), zap.Int("files", len(files)))
	return nil
}
