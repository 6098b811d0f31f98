package stores

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

var _ Store = (*SQLiteStore)(nil)

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == MemoryPath {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	return &SQLiteStore{cfg: cfg}, nil
}

// Init opens the database connection. File databases use WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_txlock=immediate",
	}
	if s.cfg.Path != MemoryPath {
		params = append(params, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
	}
	dsn := s.cfg.Path + "?" + strings.Join(params, "&")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// Create migration source from embedded FS
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

const runColumns = `id, problem, domain, strategy, step, source, status,
	nodes_explored, max_depth, solutions, duration_ms, error,
	started_at, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	err := row.Scan(
		&run.ID,
		&run.Problem,
		&run.Domain,
		&run.Strategy,
		&run.Step,
		&run.Source,
		&run.Status,
		&run.NodesExplored,
		&run.MaxDepth,
		&run.Solutions,
		&run.DurationMS,
		&run.Error,
		&run.StartedAt,
		&run.CompletedAt,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	return run, err
}

// CreateRun creates a new run record. Zero timestamps and status are filled in.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *Run) error {
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now
	if run.Status == "" {
		run.Status = RunStatusRunning
	}

	query := `INSERT INTO search_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Problem,
		run.Domain,
		run.Strategy,
		run.Step,
		run.Source,
		run.Status,
		run.NodesExplored,
		run.MaxDepth,
		run.Solutions,
		run.DurationMS,
		run.Error,
		run.StartedAt.UTC(),
		run.CompletedAt,
		run.CreatedAt.UTC(),
		run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID. Unknown IDs yield ErrNotFound.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM search_runs WHERE id = ?`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// FinishRun records the final status and engine counters of a run.
func (s *SQLiteStore) FinishRun(ctx context.Context, id string, status RunStatus, stats RunStats, errMsg *string) error {
	if !status.IsTerminal() {
		return fmt.Errorf("status %s does not finish a run", status)
	}

	query := `
		UPDATE search_runs
		SET status = ?, nodes_explored = ?, max_depth = ?, solutions = ?,
			duration_ms = ?, error = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query,
		status,
		stats.NodesExplored,
		stats.MaxDepth,
		stats.Solutions,
		stats.Duration.Milliseconds(),
		errMsg,
		now,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	return expectOneRow(result, id)
}

// ListRuns lists runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	var (
		where []string
		args  []any
	)
	if filter.Problem != "" {
		where = append(where, "problem = ?")
		args = append(args, filter.Problem)
	}
	if filter.Strategy != "" {
		where = append(where, "strategy = ?")
		args = append(args, filter.Strategy)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + runColumns + ` FROM search_runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY started_at DESC, id LIMIT ? OFFSET ?`

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun deletes a run with its solutions and events.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM search_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return expectOneRow(result, id)
}

// AddSolutions stores solution paths for a run in one transaction.
// Indexes continue after any solutions already stored.
func (s *SQLiteStore) AddSolutions(ctx context.Context, runID string, solutions []Solution) error {
	if len(solutions) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(idx) + 1, 0) FROM run_solutions WHERE run_id = ?`, runID,
	).Scan(&next); err != nil {
		return fmt.Errorf("failed to read solution index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_solutions (run_id, idx, actions, cost, length)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare solution insert: %w", err)
	}
	defer stmt.Close()

	for i, sol := range solutions {
		actions, err := json.Marshal(sol.Actions)
		if err != nil {
			return fmt.Errorf("failed to encode solution: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, runID, next+i, string(actions), sol.Cost, sol.Length); err != nil {
			return fmt.Errorf("failed to add solution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit solutions: %w", err)
	}
	return nil
}

// ListSolutions returns the solutions of a run in the order they were found.
func (s *SQLiteStore) ListSolutions(ctx context.Context, runID string) ([]Solution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, actions, cost, length
		FROM run_solutions
		WHERE run_id = ?
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	solutions := []Solution{}
	for rows.Next() {
		var (
			sol     Solution
			actions string
		)
		if err := rows.Scan(&sol.RunID, &sol.Index, &actions, &sol.Cost, &sol.Length); err != nil {
			return nil, fmt.Errorf("failed to scan solution: %w", err)
		}
		if err := json.Unmarshal([]byte(actions), &sol.Actions); err != nil {
			return nil, fmt.Errorf("failed to decode solution: %w", err)
		}
		solutions = append(solutions, sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating solutions: %w", err)
	}

	return solutions, nil
}

// AppendEvents appends run events in one transaction.
func (s *SQLiteStore) AppendEvents(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, event := range events {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO run_events (run_id, level, type, message, details, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`, event.RunID, event.Level, event.Type, event.Message, event.Details, event.Timestamp.UTC())
		if err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get event ID: %w", err)
		}
		event.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

// GetEvents retrieves events of a run, oldest first, optionally by level.
func (s *SQLiteStore) GetEvents(ctx context.Context, runID string, level *EventLevel, limit, offset int) ([]*Event, error) {
	query := `
		SELECT id, run_id, level, type, message, details, timestamp
		FROM run_events
		WHERE run_id = ?
	`
	args := []any{runID}

	if level != nil {
		query += ` AND level = ?`
		args = append(args, *level)
	}

	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		err := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.Level,
			&event.Type,
			&event.Message,
			&event.Details,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}

	return nil
}
