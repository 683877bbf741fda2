package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stashsweep/internal/report"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users need to delete the database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Record captures everything persisted for one completed run.
type Record struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Stats      *report.Stats
}

// Run is one stored sweep. Stats is populated by GetRun and left nil in
// listings, where the counter columns suffice.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	DryRun      bool
	TotalScenes int
	WebPFound   int
	Replaced    int
	ErrorCount  int
	Stats       *report.Stats
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// SaveRun persists one completed run.
func (s *Store) SaveRun(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("run id required")
	}
	if rec.Stats == nil {
		return errors.New("run stats required")
	}

	statsJSON, err := json.Marshal(rec.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, dry_run,
            total_scenes, webp_found, replaced, error_count, stats_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(rec.DryRun),
		rec.Stats.TotalScenes,
		rec.Stats.WebPScreenshotsFound,
		rec.Stats.SuccessfullyReplaced,
		len(rec.Stats.Errors),
		string(statsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// falls back to 50.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, dry_run,
            total_scenes, webp_found, replaced, error_count
        FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches a stored run with its full stats. Returns nil when the id
// is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, dry_run,
            total_scenes, webp_found, replaced, error_count, stats_json
        FROM runs WHERE id = ?`, id)
	run, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }, withStats bool) (*Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt string
		dryRun     int
		statsJSON  sql.NullString
	)

	dest := []any{&run.ID, &startedAt, &finishedAt, &dryRun,
		&run.TotalScenes, &run.WebPFound, &run.Replaced, &run.ErrorCount}
	if withStats {
		dest = append(dest, &statsJSON)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseTimeString(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTimeString(finishedAt); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	run.DryRun = dryRun != 0

	if withStats && statsJSON.Valid {
		stats := &report.Stats{}
		if err := json.Unmarshal([]byte(statsJSON.String), stats); err != nil {
			return nil, fmt.Errorf("unmarshal stats: %w", err)
		}
		run.Stats = stats
	}
	return &run, nil
}

func parseTimeString(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
