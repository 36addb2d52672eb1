// Package journal persists terminal job outcomes in a local SQLite database.
//
// The journal exists for idempotency: message brokers redeliver, and a job
// that already ran to completion must not be dubbed twice. Before starting
// work the pipeline consults the journal; a recorded outcome is re-reported
// to the tracking API and the message is acknowledged without processing.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dubber/internal/config"
	"dubber/internal/job"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rejected rather than migrated in place.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry is a recorded terminal outcome for a job.
type Entry struct {
	JobID          string
	Status         job.Status
	TargetLanguage string
	OutputKey      string
	ErrorMessage   string
	CompletedAt    time.Time
}

// Journal provides outcome persistence backed by SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Journal, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "journal.db"))
}

// OpenPath opens the journal database at an explicit path.
func OpenPath(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	j := &Journal{db: db, path: dbPath}
	if err := j.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) initSchema(ctx context.Context) error {
	var tableExists int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return j.createSchema(ctx)
	}

	var version int
	err = j.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, j.path)
	}
	return nil
}

func (j *Journal) createSchema(ctx context.Context) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record stores or replaces the terminal outcome for a job.
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if !entry.Status.Terminal() {
		return fmt.Errorf("journal only records terminal outcomes, got %q", entry.Status)
	}
	completedAt := entry.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO job_outcomes (job_id, status, target_language, output_object_key, error_message, completed_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(job_id) DO UPDATE SET
             status = excluded.status,
             target_language = excluded.target_language,
             output_object_key = excluded.output_object_key,
             error_message = excluded.error_message,
             completed_at = excluded.completed_at`,
		entry.JobID,
		string(entry.Status),
		entry.TargetLanguage,
		nullableString(entry.OutputKey),
		nullableString(entry.ErrorMessage),
		completedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// Lookup returns the stored outcome for a job, or nil when none exists.
func (j *Journal) Lookup(ctx context.Context, jobID string) (*Entry, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT job_id, status, target_language, output_object_key, error_message, completed_at
         FROM job_outcomes WHERE job_id = ?`, jobID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup outcome: %w", err)
	}
	return entry, nil
}

// List returns recent outcomes, newest first, up to limit. A non-positive
// limit returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT job_id, status, target_language, output_object_key, error_message, completed_at
              FROM job_outcomes ORDER BY completed_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry       Entry
		status      string
		outputKey   sql.NullString
		errMessage  sql.NullString
		completedAt string
	)
	if err := row.Scan(&entry.JobID, &status, &entry.TargetLanguage, &outputKey, &errMessage, &completedAt); err != nil {
		return nil, err
	}
	entry.Status = job.Status(status)
	entry.OutputKey = outputKey.String
	entry.ErrorMessage = errMessage.String
	if ts, err := time.Parse(time.RFC3339Nano, completedAt); err == nil {
		entry.CompletedAt = ts
	}
	return &entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
