package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a queried run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded validation of an input file.
type Run struct {
	ID        string
	Script    string
	Input     string
	RawStatus string
	Status    string
	Accepted  bool
	TimedOut  bool
	Abnormal  bool
	Runtime   time.Duration
	CreatedAt time.Time
}

// Verdict names the recorded outcome: ACCEPT, REJECT, TIMEOUT or ERROR.
func (r *Run) Verdict() string {
	switch {
	case r.TimedOut:
		return "TIMEOUT"
	case r.Abnormal:
		return "ERROR"
	case r.Accepted:
		return "ACCEPT"
	default:
		return "REJECT"
	}
}

// Store wraps a SQL database holding validation history.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path with WAL mode.
// Use ":memory:" for in-memory databases in tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db %s: %w", dbPath, err)
	}

	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenMySQL connects to a MySQL/MariaDB history database shared by several
// pipeline hosts.
func OpenMySQL(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("MySQL connection failed: %w; check that the server is running and history.dsn is correct", err)
	}
	for _, stmt := range mysqlSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// OpenConfigured opens the store for a configured driver name.
func OpenConfigured(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite":
		return Open(dsn)
	case "mysql":
		return OpenMySQL(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown history driver %q", driver)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRun records a run. A missing ID is filled with a new UUID and a
// zero CreatedAt with the current time.
func (s *Store) InsertRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, script, input, raw_status, status, accepted, timed_out, abnormal, runtime_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Script, run.Input, run.RawStatus, run.Status,
		boolInt(run.Accepted), boolInt(run.TimedOut), boolInt(run.Abnormal),
		run.Runtime.Microseconds(), run.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, script, input, raw_status, status, accepted, timed_out, abnormal, runtime_us, created_at
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs newest first, optionally limited to one script.
// A limit of zero or less returns all runs.
func (s *Store) ListRuns(ctx context.Context, script string, limit int) ([]*Run, error) {
	query := `SELECT id, script, input, raw_status, status, accepted, timed_out, abnormal, runtime_us, created_at FROM runs`
	var args []any
	if script != "" {
		query += ` WHERE script = ?`
		args = append(args, script)
	}
	query += ` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PruneBefore deletes runs created before t and returns how many were removed.
func (s *Store) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, t.UnixMicro())
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var accepted, timedOut, abnormal int
	var runtimeUs, createdAt int64

	err := row.Scan(
		&run.ID, &run.Script, &run.Input, &run.RawStatus, &run.Status,
		&accepted, &timedOut, &abnormal, &runtimeUs, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	run.Accepted = accepted != 0
	run.TimedOut = timedOut != 0
	run.Abnormal = abnormal != 0
	run.Runtime = time.Duration(runtimeUs) * time.Microsecond
	run.CreatedAt = time.UnixMicro(createdAt)
	return &run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
