package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/terrafusion/chunkgrader/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
)

// chunkColumns are the catalog columns exposed to equality filters.
// Anything outside this set is rejected rather than interpolated.
var chunkColumns = map[string]bool{
	"chunk_uuid":      true,
	"source":          true,
	"chunk_number":    true,
	"chunking_run_id": true,
}

// reviewColumns are the review-log columns exposed to equality filters.
var reviewColumns = map[string]bool{
	"chunk_uuid": true,
	"name":       true,
}

// Store is a unified SQLite-based storage that provides access to the
// chunk catalog and the review log through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.chunkgrader/data/reviews.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chunkgrader", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reviews.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// ReviewStore returns a ReviewStore interface backed by this store.
func (s *Store) ReviewStore() driven.ReviewStore {
	return &reviewStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// whereClause renders equality filters as an ANDed WHERE clause with
// placeholder args. Column names are checked against the whitelist so
// filter keys never reach the SQL text unvalidated.
func whereClause(filters domain.Filters, allowed map[string]bool) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	// Deterministic clause order keeps queries cache-friendly.
	keys := make([]string, 0, len(filters))
	for key := range filters {
		if !allowed[key] {
			return "", nil, fmt.Errorf("%w: unknown filter column %q", domain.ErrInvalidInput, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		clauses = append(clauses, key+" = ?")
		args = append(args, filters[key])
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// CountChunks returns the exact number of catalog rows matching the filters.
func (s *chunkStore) CountChunks(ctx context.Context, filters domain.Filters) (int, error) {
	where, args, err := whereClause(filters, chunkColumns)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// CountDistinctSources returns the number of distinct source values
// among rows matching the filters.
func (s *chunkStore) CountDistinctSources(ctx context.Context, filters domain.Filters) (int, error) {
	where, args, err := whereClause(filters, chunkColumns)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT source) FROM chunks"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting distinct sources: %w", err)
	}
	return count, nil
}

// PageChunkRefs returns the identifying projection of up to limit rows
// matching the filters, starting at offset.
func (s *chunkStore) PageChunkRefs(
	ctx context.Context,
	filters domain.Filters,
	offset, limit int,
) ([]domain.ChunkRef, error) {
	where, args, err := whereClause(filters, chunkColumns)
	if err != nil {
		return nil, err
	}
	args = append(args, limit, offset)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_uuid, source, chunk_number FROM chunks`+where+`
		ORDER BY source, chunk_number, chunk_uuid
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunk refs: %w", err)
	}
	defer rows.Close()

	var refs []domain.ChunkRef //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ref domain.ChunkRef
		if err := rows.Scan(&ref.UUID, &ref.Source, &ref.ChunkNumber); err != nil {
			return nil, fmt.Errorf("scanning chunk ref: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk refs: %w", err)
	}

	return refs, nil
}

// GetChunk retrieves the full row for a chunk uuid under the filters.
func (s *chunkStore) GetChunk(ctx context.Context, filters domain.Filters, uuid string) (*domain.Chunk, error) {
	merged := filters.Merge(domain.Filters{"chunk_uuid": uuid})
	where, args, err := whereClause(merged, chunkColumns)
	if err != nil {
		return nil, err
	}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT chunk_uuid, source, chunk_number, chunking_run_id, text, metadata
		FROM chunks`+where+` LIMIT 1
	`, args...)

	return scanChunk(row)
}

// GetChunkBySequence retrieves the full row with the given source and
// chunk number under the filters.
func (s *chunkStore) GetChunkBySequence(
	ctx context.Context,
	filters domain.Filters,
	source string,
	number int,
) (*domain.Chunk, error) {
	where, args, err := whereClause(filters, chunkColumns)
	if err != nil {
		return nil, err
	}
	if where == "" {
		where = " WHERE source = ? AND chunk_number = ?"
	} else {
		where += " AND source = ? AND chunk_number = ?"
	}
	args = append(args, source, number)

	row := s.store.db.QueryRowContext(ctx, `
		SELECT chunk_uuid, source, chunk_number, chunking_run_id, text, metadata
		FROM chunks`+where+` LIMIT 1
	`, args...)

	return scanChunk(row)
}

// ChunkAt retrieves the full row at the given offset within the
// filtered catalog.
func (s *chunkStore) ChunkAt(ctx context.Context, filters domain.Filters, offset int) (*domain.Chunk, error) {
	where, args, err := whereClause(filters, chunkColumns)
	if err != nil {
		return nil, err
	}
	args = append(args, offset)

	row := s.store.db.QueryRowContext(ctx, `
		SELECT chunk_uuid, source, chunk_number, chunking_run_id, text, metadata
		FROM chunks`+where+`
		ORDER BY source, chunk_number, chunk_uuid
		LIMIT 1 OFFSET ?
	`, args...)

	return scanChunk(row)
}

// SaveChunks stores a batch of imported chunks.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_uuid, source, chunk_number, chunking_run_id, text, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_uuid) DO UPDATE SET
			source = excluded.source,
			chunk_number = excluded.chunk_number,
			chunking_run_id = excluded.chunking_run_id,
			text = excluded.text,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.UUID, chunk.Source, chunk.ChunkNumber,
			chunk.ChunkingRunID, chunk.Text, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanChunk scans a single chunk row.
func scanChunk(row *sql.Row) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var metadataJSON string

	if err := row.Scan(&chunk.UUID, &chunk.Source, &chunk.ChunkNumber,
		&chunk.ChunkingRunID, &chunk.Text, &metadataJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

// ==================== Review Store ====================

// reviewStore implements driven.ReviewStore.
type reviewStore struct {
	store *Store
}

var _ driven.ReviewStore = (*reviewStore)(nil)

// PageReviewChunkIDs returns the chunk uuid of up to limit review rows
// starting at offset, optionally restricted by equality filters.
func (s *reviewStore) PageReviewChunkIDs(
	ctx context.Context,
	filters domain.Filters,
	offset, limit int,
) ([]string, error) {
	where, args, err := whereClause(filters, reviewColumns)
	if err != nil {
		return nil, err
	}
	args = append(args, limit, offset)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_uuid FROM chunk_reviews`+where+`
		ORDER BY inserted_at, id
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying review chunk ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning review chunk id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating review chunk ids: %w", err)
	}

	return ids, nil
}

// ReviewedChunkIDs returns the distinct members of chunkIDs that have
// at least one review.
func (s *reviewStore) ReviewedChunkIDs(ctx context.Context, chunkIDs []string) ([]string, error) {
	if len(chunkIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(chunkIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(chunkIDs))
	for i, id := range chunkIDs {
		args[i] = id
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT chunk_uuid FROM chunk_reviews WHERE chunk_uuid IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying reviewed chunk ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning reviewed chunk id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviewed chunk ids: %w", err)
	}

	return ids, nil
}

// Insert appends one review and returns the stored row with
// server-assigned fields populated.
func (s *reviewStore) Insert(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if review.ChunkUUID == "" {
		return nil, domain.ErrChunkUUIDRequired
	}

	assignment := review.WellAssignment
	if assignment == nil {
		assignment = []string{}
	}
	assignmentJSON, err := json.Marshal(assignment)
	if err != nil {
		return nil, fmt.Errorf("marshalling well assignment: %w", err)
	}

	var diagram any
	if text := review.HasWellDiagram.String(); text != "" {
		diagram = text
	}

	insertedAt := time.Now().UTC()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chunk_reviews
			(id, chunk_uuid, name, chunk_size, chunk_info, has_well_diagram,
			 comment, observation, well_assignment, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, review.ID, review.ChunkUUID, review.Name, review.ChunkSize, review.ChunkInfo,
		diagram, review.Comment, review.Observation, string(assignmentJSON), insertedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting review: %w", err)
	}

	// Read the row back so callers see exactly what was stored.
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, chunk_uuid, name, chunk_size, chunk_info, has_well_diagram,
		       comment, observation, well_assignment, inserted_at
		FROM chunk_reviews WHERE id = ?
	`, review.ID)

	stored, err := scanReview(row)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrEmptyInsertResult
		}
		return nil, err
	}
	return stored, nil
}

// scanReview scans a single review row.
func scanReview(row *sql.Row) (*domain.Review, error) {
	var review domain.Review
	var diagram sql.NullString
	var assignmentJSON string
	var insertedAt sql.NullTime

	if err := row.Scan(&review.ID, &review.ChunkUUID, &review.Name, &review.ChunkSize,
		&review.ChunkInfo, &diagram, &review.Comment, &review.Observation,
		&assignmentJSON, &insertedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning review: %w", err)
	}

	if diagram.Valid {
		review.HasWellDiagram = domain.ParseTriBool(diagram.String)
	}
	if err := json.Unmarshal([]byte(assignmentJSON), &review.WellAssignment); err != nil {
		return nil, fmt.Errorf("unmarshaling well assignment: %w", err)
	}
	if review.WellAssignment == nil {
		review.WellAssignment = []string{}
	}
	if insertedAt.Valid {
		review.InsertedAt = insertedAt.Time
	}

	return &review, nil
}
