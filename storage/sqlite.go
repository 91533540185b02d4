package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/CreativeUnicorns/prefseditor"
)

const (
	sqliteCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS preference_values (
			profile TEXT NOT NULL,
			name TEXT NOT NULL,
			module TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			value TEXT NOT NULL,
			encrypted INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, name)
		);

		CREATE INDEX IF NOT EXISTS idx_preference_values_module
		ON preference_values(profile, module);
	`

	sqliteInsertSQL = `
		INSERT INTO preference_values (profile, name, module, type, value, encrypted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile, name)
		DO UPDATE SET module = excluded.module, type = excluded.type, value = excluded.value,
			encrypted = excluded.encrypted, updated_at = excluded.updated_at
	`

	sqliteSelectSQL = `
		SELECT profile, name, module, type, value, encrypted, updated_at
		FROM preference_values
		WHERE profile = ? AND name = ?
	`

	sqliteSelectByModuleSQL = `
		SELECT profile, name, module, type, value, encrypted, updated_at
		FROM preference_values
		WHERE profile = ? AND module = ?
	`

	sqliteSelectAllSQL = `
		SELECT profile, name, module, type, value, encrypted, updated_at
		FROM preference_values
		WHERE profile = ?
	`

	sqliteDeleteSQL = `
		DELETE FROM preference_values
		WHERE profile = ? AND name = ?
	`
)

// SQLiteStorage implements prefseditor.Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the database at dbPath and creates the table if needed.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to run migrations: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) migrate() error {
	_, err := s.db.Exec(sqliteCreateTableSQL)
	return err
}

// Get returns prefseditor.ErrNotFound when no value is saved.
func (s *SQLiteStorage) Get(ctx context.Context, profile, name string) (*prefseditor.StoredValue, error) {
	var sv prefseditor.StoredValue
	err := s.db.QueryRowContext(ctx, sqliteSelectSQL, profile, name).Scan(
		&sv.Profile,
		&sv.Name,
		&sv.Module,
		&sv.Type,
		&sv.Value,
		&sv.Encrypted,
		&sv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prefseditor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get %q: %w", name, err)
	}
	return &sv, nil
}

// Set inserts or replaces a saved value.
func (s *SQLiteStorage) Set(ctx context.Context, v *prefseditor.StoredValue) error {
	_, err := s.db.ExecContext(ctx, sqliteInsertSQL,
		v.Profile,
		v.Name,
		v.Module,
		v.Type,
		v.Value,
		v.Encrypted,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to set %q: %w", v.Name, err)
	}
	return nil
}

// GetByModule returns the values saved for entries of one module.
func (s *SQLiteStorage) GetByModule(ctx context.Context, profile, module string) (map[string]*prefseditor.StoredValue, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectByModuleSQL, profile, module)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query module %q: %w", module, err)
	}
	return scanStoredValues(rows)
}

// GetAll returns every value saved for profile.
func (s *SQLiteStorage) GetAll(ctx context.Context, profile string) (map[string]*prefseditor.StoredValue, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectAllSQL, profile)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query profile %q: %w", profile, err)
	}
	return scanStoredValues(rows)
}

// Delete returns prefseditor.ErrNotFound when no value was saved.
func (s *SQLiteStorage) Delete(ctx context.Context, profile, name string) error {
	result, err := s.db.ExecContext(ctx, sqliteDeleteSQL, profile, name)
	if err != nil {
		return fmt.Errorf("sqlite: failed to delete %q: %w", name, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to get affected rows: %w", err)
	}
	if n == 0 {
		return prefseditor.ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanStoredValues reads every row and closes rows.
func scanStoredValues(rows *sql.Rows) (map[string]*prefseditor.StoredValue, error) {
	defer rows.Close()

	out := make(map[string]*prefseditor.StoredValue)
	for rows.Next() {
		var sv prefseditor.StoredValue
		if err := rows.Scan(
			&sv.Profile,
			&sv.Name,
			&sv.Module,
			&sv.Type,
			&sv.Value,
			&sv.Encrypted,
			&sv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan preference value: %w", err)
		}
		out[sv.Name] = &sv
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preference values: %w", err)
	}
	return out, nil
}
