package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/stixnav/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Store is the SQLite bundle library.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.BundleStore = (*Store)(nil)

// NewStore creates a store in the specified data directory.
// If dataDir is empty, defaults to ~/.stixnav/data/library.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".stixnav", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "library.db")

	// WAL lets the TUI read while an import writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending up migrations in version order and records each.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// Save stores or replaces a bundle.
func (s *Store) Save(ctx context.Context, record domain.BundleRecord) error {
	if record.VersionID == "" {
		return fmt.Errorf("saving bundle: missing version id: %w", domain.ErrInvalidInput)
	}
	if record.ImportedAt.IsZero() {
		record.ImportedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bundles (version_id, name, version, source_path, data, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(version_id) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			source_path = excluded.source_path,
			data = excluded.data,
			imported_at = excluded.imported_at
	`, record.VersionID, record.Name, record.Version, record.SourcePath,
		record.Data, record.ImportedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving bundle: %w", err)
	}
	return nil
}

// Get retrieves a bundle by domain version ID.
func (s *Store) Get(ctx context.Context, versionID string) (*domain.BundleRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version_id, name, version, source_path, data, imported_at
		FROM bundles WHERE version_id = ?
	`, versionID)

	var record domain.BundleRecord
	if err := row.Scan(&record.VersionID, &record.Name, &record.Version,
		&record.SourcePath, &record.Data, &record.ImportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning bundle: %w", err)
	}
	return &record, nil
}

// List returns summaries of every stored bundle, ordered by version ID.
func (s *Store) List(ctx context.Context) ([]domain.DomainSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version_id, name, version, source_path, imported_at
		FROM bundles ORDER BY version_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bundles: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DomainSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var summary domain.DomainSummary
		if err := rows.Scan(&summary.VersionID, &summary.Name, &summary.Version,
			&summary.Source, &summary.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning bundle: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bundles: %w", err)
	}

	return summaries, nil
}

// Delete removes a bundle. Returns domain.ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, versionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bundles WHERE version_id = ?", versionID)
	if err != nil {
		return fmt.Errorf("deleting bundle: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting bundle: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
