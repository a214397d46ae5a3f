// Package migrations применяет встроенные SQL миграции схемы
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

var (
	// ErrRead возвращается, если не удалось прочитать встроенные файлы
	ErrRead = errors.New("migrations: failed to read embedded files")

	// ErrApply возвращается при ошибке применения миграции
	ErrApply = errors.New("migrations: failed to apply")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

// Migrate применяет еще не примененные миграции по порядку имени файла
// Каждая миграция выполняется в собственной транзакции вместе с записью версии
func Migrate(ctx context.Context, db *sql.DB, logger Logger) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return fmt.Errorf("%w: create schema_migrations: %v", ErrApply, err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range pending(names, applied) {
		body, err := migrationsFS.ReadFile("sql/" + name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrRead, name, err)
		}

		if err := apply(ctx, db, name, string(body)); err != nil {
			return err
		}
		logger.Info("Migrate: applied %s", name)
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, name, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s - begin: %v", ErrApply, name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrApply, name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		return fmt.Errorf("%w: %s - record version: %v", ErrApply, name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s - commit: %v", ErrApply, name, err)
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("%w: read schema_migrations: %v", ErrApply, err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrApply, err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// migrationNames имена встроенных .sql файлов по возрастанию
func migrationNames() ([]string, error) {
	entries, err := migrationsFS.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func pending(names []string, applied map[string]bool) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !applied[name] {
			out = append(out, name)
		}
	}
	return out
}
