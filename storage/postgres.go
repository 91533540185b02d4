package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/CreativeUnicorns/prefseditor"
)

// sqlOpenFunc can be overridden in tests.
var sqlOpenFunc = sql.Open

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS preference_values (
			profile TEXT NOT NULL,
			name TEXT NOT NULL,
			module TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			value TEXT NOT NULL,
			encrypted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, name)
		);

		CREATE INDEX IF NOT EXISTS idx_preference_values_module
		ON preference_values(profile, module);
	`

	insertSQL = `
		INSERT INTO preference_values (profile, name, module, type, value, encrypted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (profile, name)
		DO UPDATE SET module = $3, type = $4, value = $5, encrypted = $6, updated_at = $7
	`

	selectSQL = `
		SELECT profile, name, module, type, value, encrypted, updated_at
		FROM preference_values
		WHERE profile = $1 AND name = $2
	`

	selectByModuleSQL = `
		SELECT profile, name, module, type, value, encrypted, updated_at
		FROM preference_values
		WHERE profile = $1 AND module = $2
	`

	selectAllSQL = `
		SELECT profile, name, module, type, value, encrypted, updated_at
		FROM preference_values
		WHERE profile = $1
	`

	deleteSQL = `
		DELETE FROM preference_values
		WHERE profile = $1 AND name = $2
	`
)

// PostgresStorage implements prefseditor.Storage using PostgreSQL.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage connects with connString and creates the table if needed.
func NewPostgresStorage(connString string) (*PostgresStorage, error) {
	db, err := sqlOpenFunc("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to run migrations: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) migrate() error {
	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("postgres: failed to execute create table statement: %w", err)
	}
	return nil
}

// Get returns prefseditor.ErrNotFound when no value is saved.
func (s *PostgresStorage) Get(ctx context.Context, profile, name string) (*prefseditor.StoredValue, error) {
	var sv prefseditor.StoredValue
	err := s.db.QueryRowContext(ctx, selectSQL, profile, name).Scan(
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
		return nil, fmt.Errorf("postgres: failed to scan value for profile '%s', name '%s': %w", profile, name, err)
	}
	return &sv, nil
}

// Set inserts or replaces a saved value.
func (s *PostgresStorage) Set(ctx context.Context, v *prefseditor.StoredValue) error {
	_, err := s.db.ExecContext(ctx, insertSQL,
		v.Profile,
		v.Name,
		v.Module,
		v.Type,
		v.Value,
		v.Encrypted,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to execute insert/update for profile '%s', name '%s': %w", v.Profile, v.Name, err)
	}
	return nil
}

// GetByModule returns the values saved for entries of one module.
func (s *PostgresStorage) GetByModule(ctx context.Context, profile, module string) (map[string]*prefseditor.StoredValue, error) {
	rows, err := s.db.QueryContext(ctx, selectByModuleSQL, profile, module)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query values for profile '%s', module '%s': %w", profile, module, err)
	}
	return scanStoredValues(rows)
}

// GetAll returns every value saved for profile.
func (s *PostgresStorage) GetAll(ctx context.Context, profile string) (map[string]*prefseditor.StoredValue, error) {
	rows, err := s.db.QueryContext(ctx, selectAllSQL, profile)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query all values for profile '%s': %w", profile, err)
	}
	return scanStoredValues(rows)
}

// Delete returns prefseditor.ErrNotFound when no value was saved.
func (s *PostgresStorage) Delete(ctx context.Context, profile, name string) error {
	result, err := s.db.ExecContext(ctx, deleteSQL, profile, name)
	if err != nil {
		return fmt.Errorf("postgres: failed to execute delete for profile '%s', name '%s': %w", profile, name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: failed to get affected rows for delete profile '%s', name '%s': %w", profile, name, err)
	}
	if rowsAffected == 0 {
		return prefseditor.ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
