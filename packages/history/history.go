// Package history stores run results in a SQLite database so that runs can
// be listed and compared over time.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned by Cases for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started_at     INTEGER NOT NULL,
	duration_us    INTEGER NOT NULL,
	total          INTEGER NOT NULL,
	passed         INTEGER NOT NULL,
	failed         INTEGER NOT NULL,
	errored        INTEGER NOT NULL,
	setup_failures INTEGER NOT NULL,
	success        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cases (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	suite       TEXT NOT NULL,
	name        TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	message     TEXT NOT NULL,
	duration_us INTEGER NOT NULL,
	synthetic   INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// Run is the stored summary of one run.
type Run struct {
	ID            string
	StartedAt     time.Time
	Duration      time.Duration
	Total         int
	Passed        int
	Failed        int
	Errored       int
	SetupFailures int
	Success       bool
}

// Case is one stored case result.
type Case struct {
	Suite     string
	Name      string
	Outcome   string
	Message   string
	Duration  time.Duration
	Synthetic bool
}

// FullName returns "suite.case".
func (c Case) FullName() string {
	return c.Suite + "." + c.Name
}

// Store is a run history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path. path may be
// a plain file name or a SQLite DSN that already carries query parameters.
func Open(path string) (*Store, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores a run and all of its case results. Setup failures are stored
// as errored "setup" cases of their suite.
func (s *Store) Save(ctx context.Context, result *runner.RunResult) error {
	if result == nil {
		return errors.New("nil run result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_us, total, passed, failed, errored, setup_failures, success)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.StartedAt.UnixMicro(), result.Duration.Microseconds(),
		result.Total(), result.Passed(), result.Failed(), result.Errored(),
		len(result.FailedSetups), result.Success())
	if err != nil {
		return fmt.Errorf("insert run %s: %w", result.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases (run_id, seq, suite, name, outcome, message, duration_us, synthetic)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, r := range result.Results {
		if _, err := stmt.ExecContext(ctx, result.ID, seq, r.Suite, r.Case,
			r.Outcome.Kind.String(), r.Outcome.Message, r.Duration.Microseconds(), r.Synthetic); err != nil {
			return fmt.Errorf("insert case %s: %w", r.FullName(), err)
		}
		seq++
	}
	for _, f := range result.FailedSetups {
		if _, err := stmt.ExecContext(ctx, result.ID, seq, f.Suite, "setup",
			"ERROR", f.Message, 0, true); err != nil {
			return fmt.Errorf("insert setup failure %s: %w", f.Suite, err)
		}
		seq++
	}

	return tx.Commit()
}

// Recent returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, duration_us, total, passed, failed, errored, setup_failures, success
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                   Run
			startedUs, duration int64
		)
		if err := rows.Scan(&r.ID, &startedUs, &duration, &r.Total, &r.Passed,
			&r.Failed, &r.Errored, &r.SetupFailures, &r.Success); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMicro(startedUs).UTC()
		r.Duration = time.Duration(duration) * time.Microsecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Cases returns the stored results of a run in execution order.
func (s *Store) Cases(ctx context.Context, runID string) ([]Case, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT suite, name, outcome, message, duration_us, synthetic
		 FROM cases WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	cases := make([]Case, 0)
	for rows.Next() {
		var (
			c        Case
			duration int64
		)
		if err := rows.Scan(&c.Suite, &c.Name, &c.Outcome, &c.Message, &duration, &c.Synthetic); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		c.Duration = time.Duration(duration) * time.Microsecond
		cases = append(cases, c)
	}
	return cases, rows.Err()
}
