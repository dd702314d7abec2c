package metastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Chunks table. IDs are assigned by the external chunk producer and
-- stable across re-runs for unchanged content.
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    content TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    token_count INTEGER DEFAULT 0,
    symbol_name TEXT,
    symbol_type TEXT,
    language TEXT,
    imports TEXT,
    signature TEXT,
    summary TEXT,
    purpose TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chunks_file ON chunks(file_path);
CREATE INDEX IF NOT EXISTS idx_chunks_hash ON chunks(content_hash);

-- File summaries, one row per source file, superseded wholesale on
-- re-indexing.
CREATE TABLE IF NOT EXISTS file_summaries (
    file_path TEXT PRIMARY KEY,
    summary TEXT,
    responsibility TEXT,
    exports TEXT,
    imports TEXT,
    chunk_ids TEXT,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Symbols table. chunk_id is nullable: deleting a chunk does not
-- cascade here, callers clean up explicitly.
CREATE TABLE IF NOT EXISTS symbols (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    qualified_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    file_path TEXT NOT NULL,
    start_line INTEGER,
    end_line INTEGER,
    signature TEXT,
    doc_comment TEXT,
    visibility TEXT,
    is_exported BOOLEAN DEFAULT 0,
    is_async BOOLEAN DEFAULT 0,
    is_static BOOLEAN DEFAULT 0,
    parent_name TEXT,
    chunk_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_path);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);
CREATE UNIQUE INDEX IF NOT EXISTS idx_symbols_unique ON symbols(file_path, qualified_name, start_line);

-- Typed relationship edges, used only for graph traversal
CREATE TABLE IF NOT EXISTS relationships (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    from_kind TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_kind TEXT NOT NULL,
    to_id TEXT NOT NULL,
    rel_type TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rel_from ON relationships(from_kind, from_id);
CREATE INDEX IF NOT EXISTS idx_rel_to ON relationships(to_kind, to_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_rel_unique ON relationships(from_kind, from_id, to_kind, to_id, rel_type);

-- File dependency edges, unique per (from, to) pair
CREATE TABLE IF NOT EXISTS file_dependencies (
    from_path TEXT NOT NULL,
    to_path TEXT NOT NULL,
    import_kind TEXT NOT NULL,
    symbols TEXT,
    is_external BOOLEAN DEFAULT 0,
    PRIMARY KEY (from_path, to_path)
);

CREATE INDEX IF NOT EXISTS idx_filedeps_to ON file_dependencies(to_path);

-- Singleton index status record
CREATE TABLE IF NOT EXISTS index_status (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    project_path TEXT,
    project_hash TEXT,
    embedding_model TEXT,
    dimensions INTEGER DEFAULT 0,
    state TEXT NOT NULL DEFAULT 'idle',
    file_count INTEGER DEFAULT 0,
    chunk_count INTEGER DEFAULT 0,
    vector_count INTEGER DEFAULT 0,
    storage_bytes INTEGER DEFAULT 0,
    last_indexed_at TIMESTAMP
);

INSERT OR IGNORE INTO index_status (id, state) VALUES (1, 'idle');
`

const migrationV1Down = `
DROP TABLE IF EXISTS index_status;
DROP TABLE IF EXISTS file_dependencies;
DROP TABLE IF EXISTS relationships;
DROP TABLE IF EXISTS symbols;
DROP TABLE IF EXISTS file_summaries;
DROP TABLE IF EXISTS chunks;
DROP TABLE IF EXISTS schema_version;
`

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	// Check if schema_version table exists
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)

	var currentVersion *semver.Version
	if err == sql.ErrNoRows {
		currentVersion = semver.MustParse("0.0.0")
	} else if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	} else {
		var currentVersionStr string
		err = db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&currentVersionStr)
		if err == sql.ErrNoRows || currentVersionStr == "" {
			currentVersion = semver.MustParse("0.0.0")
		} else if err != nil {
			return fmt.Errorf("failed to read schema_version: %w", err)
		} else {
			currentVersion, err = semver.NewVersion(currentVersionStr)
			if err != nil {
				return fmt.Errorf("invalid current schema version %s: %w", currentVersionStr, err)
			}
		}
	}

	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		if _, err := db.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}
