package metastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/semsearch-dev/semsearch/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore creates a new SQLite metadata store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// JSON column helpers

func marshalJSON(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalStrings(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil
	}
	return out
}

func unmarshalImports(raw sql.NullString) []types.ImportRef {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []types.ImportRef
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil
	}
	return out
}

// Chunk operations

func (s *SQLiteStore) UpsertChunk(ctx context.Context, chunk *types.Chunk) error {
	imports, err := marshalJSON(chunk.Imports)
	if err != nil {
		return fmt.Errorf("failed to encode chunk imports: %w", err)
	}

	query := `
		INSERT INTO chunks (
			id, file_path, start_line, end_line, content, content_hash,
			token_count, symbol_name, symbol_type, language, imports,
			signature, summary, purpose, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			content = excluded.content,
			content_hash = excluded.content_hash,
			token_count = excluded.token_count,
			symbol_name = excluded.symbol_name,
			symbol_type = excluded.symbol_type,
			language = excluded.language,
			imports = excluded.imports,
			signature = excluded.signature,
			summary = excluded.summary,
			purpose = excluded.purpose
	`
	now := time.Now()
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = now
	}
	_, err = s.db.ExecContext(ctx, query,
		chunk.ID, chunk.FilePath, chunk.StartLine, chunk.EndLine,
		chunk.Content, chunk.ContentHash, chunk.TokenCount,
		chunk.SymbolName, chunk.SymbolType, chunk.Language, imports,
		chunk.Signature, chunk.Summary, chunk.Purpose, chunk.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert chunk: %w", err)
	}
	return nil
}

const chunkColumns = `id, file_path, start_line, end_line, content, content_hash,
       token_count, symbol_name, symbol_type, language, imports,
       signature, summary, purpose, created_at`

func scanChunk(row interface {
	Scan(dest ...interface{}) error
}) (*types.Chunk, error) {
	var chunk types.Chunk
	var symbolName, symbolType, language, imports, signature, summary, purpose sql.NullString
	err := row.Scan(
		&chunk.ID, &chunk.FilePath, &chunk.StartLine, &chunk.EndLine,
		&chunk.Content, &chunk.ContentHash, &chunk.TokenCount,
		&symbolName, &symbolType, &language, &imports,
		&signature, &summary, &purpose, &chunk.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	chunk.SymbolName = symbolName.String
	chunk.SymbolType = symbolType.String
	chunk.Language = language.String
	chunk.Imports = unmarshalStrings(imports)
	chunk.Signature = signature.String
	chunk.Summary = summary.String
	chunk.Purpose = purpose.String
	return &chunk, nil
}

func (s *SQLiteStore) GetChunk(ctx context.Context, chunkID string) (*types.Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE id = ?`
	chunk, err := scanChunk(s.db.QueryRowContext(ctx, query, chunkID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

func (s *SQLiteStore) GetChunks(ctx context.Context, chunkIDs []string) ([]*types.Chunk, error) {
	if len(chunkIDs) == 0 {
		return []*types.Chunk{}, nil
	}

	placeholders := make([]string, len(chunkIDs))
	args := make([]interface{}, len(chunkIDs))
	for i, id := range chunkIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[string]*types.Chunk, len(chunkIDs))
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		byID[chunk.ID] = chunk
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's ordering; missing IDs are skipped.
	chunks := make([]*types.Chunk, 0, len(chunkIDs))
	for _, id := range chunkIDs {
		if chunk, ok := byID[id]; ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func (s *SQLiteStore) ChunksByFile(ctx context.Context, filePath string) ([]*types.Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE file_path = ? ORDER BY start_line`
	rows, err := s.db.QueryContext(ctx, query, filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*types.Chunk, 0)
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) DeleteChunk(ctx context.Context, chunkID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE id = ?`, chunkID)
	return err
}

func (s *SQLiteStore) DeleteChunksByFile(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE file_path = ?`, filePath)
	return err
}

func (s *SQLiteStore) CountFiles(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT file_path) FROM chunks`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// File summary operations

func (s *SQLiteStore) UpsertFileSummary(ctx context.Context, summary *types.FileSummary) error {
	exports, err := marshalJSON(summary.Exports)
	if err != nil {
		return fmt.Errorf("failed to encode exports: %w", err)
	}
	imports, err := marshalJSON(summary.Imports)
	if err != nil {
		return fmt.Errorf("failed to encode imports: %w", err)
	}
	chunkIDs, err := marshalJSON(summary.ChunkIDs)
	if err != nil {
		return fmt.Errorf("failed to encode chunk IDs: %w", err)
	}

	query := `
		INSERT INTO file_summaries (file_path, summary, responsibility, exports, imports, chunk_ids, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			summary = excluded.summary,
			responsibility = excluded.responsibility,
			exports = excluded.exports,
			imports = excluded.imports,
			chunk_ids = excluded.chunk_ids,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	_, err = s.db.ExecContext(ctx, query,
		summary.FilePath, summary.Summary, summary.Responsibility,
		exports, imports, chunkIDs, now)
	if err != nil {
		return fmt.Errorf("failed to upsert file summary: %w", err)
	}
	summary.UpdatedAt = now
	return nil
}

const summaryColumns = `file_path, summary, responsibility, exports, imports, chunk_ids, updated_at`

func scanFileSummary(row interface {
	Scan(dest ...interface{}) error
}) (*types.FileSummary, error) {
	var fs types.FileSummary
	var summary, responsibility, exports, imports, chunkIDs sql.NullString
	err := row.Scan(&fs.FilePath, &summary, &responsibility, &exports, &imports, &chunkIDs, &fs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fs.Summary = summary.String
	fs.Responsibility = responsibility.String
	fs.Exports = unmarshalStrings(exports)
	fs.Imports = unmarshalImports(imports)
	fs.ChunkIDs = unmarshalStrings(chunkIDs)
	return &fs, nil
}

func (s *SQLiteStore) GetFileSummary(ctx context.Context, filePath string) (*types.FileSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM file_summaries WHERE file_path = ?`
	fs, err := scanFileSummary(s.db.QueryRowContext(ctx, query, filePath))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *SQLiteStore) DeleteFileSummary(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM file_summaries WHERE file_path = ?`, filePath)
	return err
}

func (s *SQLiteStore) MatchFileSummaries(ctx context.Context, terms []string, limit int) ([]*types.FileSummary, error) {
	if len(terms) == 0 {
		return []*types.FileSummary{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	conditions := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms)*2+1)
	for _, term := range terms {
		pattern := "%" + term + "%"
		conditions = append(conditions, "(file_path LIKE ? OR exports LIKE ?)")
		args = append(args, pattern, pattern)
	}
	args = append(args, limit)

	query := `SELECT ` + summaryColumns + ` FROM file_summaries WHERE ` +
		strings.Join(conditions, " OR ") + ` ORDER BY file_path LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]*types.FileSummary, 0)
	for rows.Next() {
		fs, err := scanFileSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, fs)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) FileInterface(ctx context.Context, filePath string) (*types.FileInterface, error) {
	fs, err := s.GetFileSummary(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return &types.FileInterface{
		FilePath: fs.FilePath,
		Exports:  fs.Exports,
		Imports:  fs.Imports,
	}, nil
}

// Symbol operations

func (s *SQLiteStore) UpsertSymbol(ctx context.Context, symbol *types.Symbol) error {
	query := `
		INSERT INTO symbols (
			name, qualified_name, kind, file_path, start_line, end_line,
			signature, doc_comment, visibility, is_exported, is_async,
			is_static, parent_name, chunk_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path, qualified_name, start_line) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			end_line = excluded.end_line,
			signature = excluded.signature,
			doc_comment = excluded.doc_comment,
			visibility = excluded.visibility,
			is_exported = excluded.is_exported,
			is_async = excluded.is_async,
			is_static = excluded.is_static,
			parent_name = excluded.parent_name,
			chunk_id = excluded.chunk_id
	`
	_, err := s.db.ExecContext(ctx, query,
		symbol.Name, symbol.QualifiedName, symbol.Kind, symbol.FilePath,
		symbol.StartLine, symbol.EndLine, symbol.Signature, symbol.DocComment,
		symbol.Visibility, symbol.IsExported, symbol.IsAsync, symbol.IsStatic,
		symbol.ParentName, symbol.ChunkID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert symbol: %w", err)
	}
	return nil
}

const symbolColumns = `name, qualified_name, kind, file_path, start_line, end_line,
       signature, doc_comment, visibility, is_exported, is_async, is_static,
       parent_name, chunk_id`

func scanSymbol(row interface {
	Scan(dest ...interface{}) error
}) (*types.Symbol, error) {
	var sym types.Symbol
	var signature, docComment, visibility, parentName, chunkID sql.NullString
	err := row.Scan(
		&sym.Name, &sym.QualifiedName, &sym.Kind, &sym.FilePath,
		&sym.StartLine, &sym.EndLine, &signature, &docComment,
		&visibility, &sym.IsExported, &sym.IsAsync, &sym.IsStatic,
		&parentName, &chunkID,
	)
	if err != nil {
		return nil, err
	}
	sym.Signature = signature.String
	sym.DocComment = docComment.String
	sym.Visibility = types.SymbolVisibility(visibility.String)
	sym.ParentName = parentName.String
	sym.ChunkID = chunkID.String
	return &sym, nil
}

func (s *SQLiteStore) querySymbols(ctx context.Context, query string, args ...interface{}) ([]*types.Symbol, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	symbols := make([]*types.Symbol, 0)
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func (s *SQLiteStore) SymbolsByFile(ctx context.Context, filePath string) ([]*types.Symbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM symbols WHERE file_path = ? ORDER BY start_line`
	return s.querySymbols(ctx, query, filePath)
}

func (s *SQLiteStore) SearchSymbols(ctx context.Context, filter SymbolFilter) ([]*types.Symbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM symbols WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.Name != "" {
		pattern := "%" + filter.Name + "%"
		query += ` AND (name LIKE ? OR qualified_name LIKE ?)`
		args = append(args, pattern, pattern)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.ExportedOnly {
		query += ` AND is_exported = 1`
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY name, file_path LIMIT ?`
	args = append(args, limit)

	return s.querySymbols(ctx, query, args...)
}

func (s *SQLiteStore) DeleteSymbolsByFile(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM symbols WHERE file_path = ?`, filePath)
	return err
}

func (s *SQLiteStore) CallersOf(ctx context.Context, symbolName string) ([]*types.Symbol, error) {
	// Callers are symbols with an outgoing calls/references edge whose
	// target is the named symbol.
	query := `
		SELECT ` + qualifiedSymbolColumns("sym") + `
		FROM symbols sym
		JOIN relationships rel
		  ON rel.from_kind = 'symbol' AND rel.from_id = sym.qualified_name
		WHERE rel.to_kind = 'symbol'
		  AND rel.to_id = ?
		  AND rel.rel_type IN ('calls', 'references')
		ORDER BY sym.qualified_name
	`
	return s.querySymbols(ctx, query, symbolName)
}

// qualifiedSymbolColumns prefixes symbolColumns with a table alias
func qualifiedSymbolColumns(alias string) string {
	cols := strings.Split(symbolColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

// Relationship operations

func (s *SQLiteStore) AddRelationship(ctx context.Context, rel *types.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO relationships (from_kind, from_id, to_kind, to_id, rel_type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(from_kind, from_id, to_kind, to_id, rel_type) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		string(rel.From.Kind), rel.From.ID, string(rel.To.Kind), rel.To.ID, string(rel.Type))
	if err != nil {
		return fmt.Errorf("failed to add relationship: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryRelationships(ctx context.Context, query string, args ...interface{}) ([]*types.Relationship, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	rels := make([]*types.Relationship, 0)
	for rows.Next() {
		var rel types.Relationship
		var fromKind, toKind, relType string
		if err := rows.Scan(&fromKind, &rel.From.ID, &toKind, &rel.To.ID, &relType); err != nil {
			return nil, err
		}
		rel.From.Kind = types.EntityKind(fromKind)
		rel.To.Kind = types.EntityKind(toKind)
		rel.Type = types.RelationType(relType)
		rels = append(rels, &rel)
	}
	return rels, rows.Err()
}

func (s *SQLiteStore) RelationsFrom(ctx context.Context, from types.EntityRef) ([]*types.Relationship, error) {
	query := `
		SELECT from_kind, from_id, to_kind, to_id, rel_type
		FROM relationships
		WHERE from_kind = ? AND from_id = ?
		ORDER BY to_id, rel_type
	`
	return s.queryRelationships(ctx, query, string(from.Kind), from.ID)
}

func (s *SQLiteStore) RelationsTo(ctx context.Context, to types.EntityRef) ([]*types.Relationship, error) {
	query := `
		SELECT from_kind, from_id, to_kind, to_id, rel_type
		FROM relationships
		WHERE to_kind = ? AND to_id = ?
		ORDER BY from_id, rel_type
	`
	return s.queryRelationships(ctx, query, string(to.Kind), to.ID)
}

// File dependency operations

func (s *SQLiteStore) UpsertFileDependency(ctx context.Context, dep *types.FileDependency) error {
	symbols, err := marshalJSON(dep.Symbols)
	if err != nil {
		return fmt.Errorf("failed to encode dependency symbols: %w", err)
	}

	query := `
		INSERT INTO file_dependencies (from_path, to_path, import_kind, symbols, is_external)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(from_path, to_path) DO UPDATE SET
			import_kind = excluded.import_kind,
			symbols = excluded.symbols,
			is_external = excluded.is_external
	`
	_, err = s.db.ExecContext(ctx, query,
		dep.FromPath, dep.ToPath, string(dep.Kind), symbols, dep.IsExternal)
	if err != nil {
		return fmt.Errorf("failed to upsert file dependency: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryFileDependencies(ctx context.Context, query string, args ...interface{}) ([]*types.FileDependency, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	deps := make([]*types.FileDependency, 0)
	for rows.Next() {
		var dep types.FileDependency
		var kind string
		var symbols sql.NullString
		if err := rows.Scan(&dep.FromPath, &dep.ToPath, &kind, &symbols, &dep.IsExternal); err != nil {
			return nil, err
		}
		dep.Kind = types.ImportKind(kind)
		dep.Symbols = unmarshalStrings(symbols)
		deps = append(deps, &dep)
	}
	return deps, rows.Err()
}

func (s *SQLiteStore) DependenciesOf(ctx context.Context, fromPath string) ([]*types.FileDependency, error) {
	query := `
		SELECT from_path, to_path, import_kind, symbols, is_external
		FROM file_dependencies
		WHERE from_path = ?
		ORDER BY to_path
	`
	return s.queryFileDependencies(ctx, query, fromPath)
}

func (s *SQLiteStore) DependentsOf(ctx context.Context, toPath string) ([]*types.FileDependency, error) {
	query := `
		SELECT from_path, to_path, import_kind, symbols, is_external
		FROM file_dependencies
		WHERE to_path = ?
		ORDER BY from_path
	`
	return s.queryFileDependencies(ctx, query, toPath)
}

func (s *SQLiteStore) DeleteFileDependencies(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM file_dependencies WHERE from_path = ? OR to_path = ?`,
		filePath, filePath)
	return err
}

// Status operations

func (s *SQLiteStore) GetIndexStatus(ctx context.Context) (*types.IndexStatus, error) {
	query := `
		SELECT project_path, project_hash, embedding_model, dimensions, state,
		       file_count, chunk_count, vector_count, storage_bytes, last_indexed_at
		FROM index_status
		WHERE id = 1
	`
	var status types.IndexStatus
	var projectPath, projectHash, model, state sql.NullString
	var lastIndexedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query).Scan(
		&projectPath, &projectHash, &model, &status.Dimensions, &state,
		&status.FileCount, &status.ChunkCount, &status.VectorCount,
		&status.StorageBytes, &lastIndexedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	status.ProjectPath = projectPath.String
	status.ProjectHash = projectHash.String
	status.EmbeddingModel = model.String
	status.State = types.IndexState(state.String)
	if lastIndexedAt.Valid {
		status.LastIndexedAt = lastIndexedAt.Time
	}
	return &status, nil
}

func (s *SQLiteStore) UpdateIndexStatus(ctx context.Context, status *types.IndexStatus) error {
	query := `
		UPDATE index_status
		SET project_path = ?, project_hash = ?, embedding_model = ?, dimensions = ?,
		    state = ?, file_count = ?, chunk_count = ?, vector_count = ?,
		    storage_bytes = ?, last_indexed_at = ?
		WHERE id = 1
	`
	_, err := s.db.ExecContext(ctx, query,
		status.ProjectPath, status.ProjectHash, status.EmbeddingModel,
		status.Dimensions, string(status.State), status.FileCount,
		status.ChunkCount, status.VectorCount, status.StorageBytes,
		status.LastIndexedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update index status: %w", err)
	}
	return nil
}

// ClearAll empties every table atomically so a rebuild starts clean
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`DELETE FROM chunks`,
		`DELETE FROM file_summaries`,
		`DELETE FROM symbols`,
		`DELETE FROM relationships`,
		`DELETE FROM file_dependencies`,
		`UPDATE index_status SET project_path = NULL, project_hash = NULL,
		 embedding_model = NULL, dimensions = 0, state = 'idle',
		 file_count = 0, chunk_count = 0, vector_count = 0,
		 storage_bytes = 0, last_indexed_at = NULL WHERE id = 1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}

	return tx.Commit()
}
