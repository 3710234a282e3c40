// Package diagnostics records what a generation run did, for later inspection.
//
// The store is write-only from the generator's point of view: run summaries and
// adjacency snapshots go into SQLite tables, and nothing in this module ever
// rebuilds a model from them. The caller picks the SQLite driver and hands an
// open *sql.DB to SetupSchema and NewStore.
package diagnostics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/CTAG07/lexichain/pkg/markov"
)

const (
	schemaRuns = `
CREATE TABLE IF NOT EXISTS lexgen_runs (
    run_id          INTEGER PRIMARY KEY,
    started_at      INTEGER NOT NULL,
    duration_ms     INTEGER NOT NULL,
    corpus          TEXT NOT NULL,
    sentinel        TEXT NOT NULL,
    soft_limit      INTEGER NOT NULL,
    hard_limit      INTEGER NOT NULL,
    seed            INTEGER NOT NULL,
    unique_lexemes  INTEGER NOT NULL,
    transitions     INTEGER NOT NULL,
    dead_ends       INTEGER NOT NULL,
    emitted         INTEGER NOT NULL,
    terminated      INTEGER NOT NULL,
    hit_hard_limit  INTEGER NOT NULL,
    fallbacks       INTEGER NOT NULL
);
`
	schemaLexemes = `
CREATE TABLE IF NOT EXISTS lexgen_lexemes (
    run_id    INTEGER NOT NULL,
    lex_id    INTEGER NOT NULL,
    lex_text  TEXT NOT NULL,
    PRIMARY KEY (run_id, lex_id)
);
`
	schemaTransitions = `
CREATE TABLE IF NOT EXISTS lexgen_transitions (
    run_id      INTEGER NOT NULL,
    lex_id      INTEGER NOT NULL,
    next_lex_id INTEGER NOT NULL,
    frequency   INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (run_id, lex_id, next_lex_id)
);
`
)

// ErrNoModel is returned by RecordModel when given a nil model.
var ErrNoModel = errors.New("no model to record")

// SetupSchema creates the diagnostics tables if they don't exist.
func SetupSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, stmt := range []string{schemaRuns, schemaLexemes, schemaTransitions} {
		if _, err = tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create diagnostics schema: %w", err)
		}
	}
	return tx.Commit()
}

// Run is the summary of one training and generation run.
type Run struct {
	ID        int64
	StartedAt time.Time
	Duration  time.Duration
	Corpus    string
	Sentinel  string
	SoftLimit int
	HardLimit int
	Seed      uint64
	Stats     markov.ModelStats
	Result    markov.Result
}

// Store writes run summaries and model snapshots.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	insertRunStmt        *sql.Stmt
	insertLexemeStmt     *sql.Stmt
	upsertTransitionStmt *sql.Stmt
}

// NewStore prepares the statements used by the store. SetupSchema must have
// been called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	var err error
	s.insertRunStmt, err = db.Prepare(`
        INSERT INTO lexgen_runs (started_at, duration_ms, corpus, sentinel, soft_limit, hard_limit, seed,
                                 unique_lexemes, transitions, dead_ends, emitted, terminated, hit_hard_limit, fallbacks)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare run insert: %w", err)
	}
	s.insertLexemeStmt, err = db.Prepare("INSERT OR IGNORE INTO lexgen_lexemes (run_id, lex_id, lex_text) VALUES (?, ?, ?)")
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to prepare lexeme insert: %w", err)
	}
	s.upsertTransitionStmt, err = db.Prepare(`
        INSERT INTO lexgen_transitions (run_id, lex_id, next_lex_id) VALUES (?, ?, ?)
        ON CONFLICT(run_id, lex_id, next_lex_id) DO UPDATE SET frequency = frequency + 1`)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to prepare transition upsert: %w", err)
	}
	return s, nil
}

// SetLogger sets the logger used by the store.
func (s *Store) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// RecordRun inserts a run summary and returns its id.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	res, err := s.insertRunStmt.ExecContext(ctx,
		run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Corpus, run.Sentinel,
		run.SoftLimit, run.HardLimit, int64(run.Seed),
		run.Stats.UniqueLexemes, run.Stats.Transitions, run.Stats.DeadEnds,
		run.Result.Lexemes, run.Result.Terminated, run.Result.HitHardLimit, run.Result.DeadEnds)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	s.logger.DebugContext(ctx, "Recorded run", slog.Int64("run_id", id), slog.String("corpus", run.Corpus))
	return id, nil
}

// RecordModel snapshots the model's vocabulary and transitions under runID.
// Repeated successors collapse into a single row with a frequency.
func (s *Store) RecordModel(ctx context.Context, runID int64, m *markov.Model) error {
	if m == nil {
		return ErrNoModel
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	lexStmt := tx.StmtContext(ctx, s.insertLexemeStmt)
	transStmt := tx.StmtContext(ctx, s.upsertTransitionStmt)

	var transitions int
	for i, text := range m.Lexemes() {
		id := markov.LexID(i)
		if _, err = lexStmt.ExecContext(ctx, runID, int64(id), text); err != nil {
			return fmt.Errorf("failed to insert lexeme %q: %w", text, err)
		}
		for _, next := range m.Successors(id) {
			if _, err = transStmt.ExecContext(ctx, runID, int64(id), int64(next)); err != nil {
				return fmt.Errorf("failed to upsert transition from %q: %w", text, err)
			}
			transitions++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit model snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "Recorded model snapshot",
		slog.Int64("run_id", runID),
		slog.Int("unique_lexemes", m.UniqueLexemeCount()),
		slog.Int("transitions", transitions))
	return nil
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT run_id, started_at, duration_ms, corpus, sentinel, soft_limit, hard_limit, seed,
               unique_lexemes, transitions, dead_ends, emitted, terminated, hit_hard_limit, fallbacks
        FROM lexgen_runs ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run                   Run
			startedAt, durationMS int64
			seed                  int64
		)
		err = rows.Scan(&run.ID, &startedAt, &durationMS, &run.Corpus, &run.Sentinel,
			&run.SoftLimit, &run.HardLimit, &seed,
			&run.Stats.UniqueLexemes, &run.Stats.Transitions, &run.Stats.DeadEnds,
			&run.Result.Lexemes, &run.Result.Terminated, &run.Result.HitHardLimit, &run.Result.DeadEnds)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedAt)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Seed = uint64(seed)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// TransitionCount returns the number of recorded observations for runID,
// counting repeated successors by their frequency.
func (s *Store) TransitionCount(ctx context.Context, runID int64) (int, error) {
	var n sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT SUM(frequency) FROM lexgen_transitions WHERE run_id = ?", runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transitions: %w", err)
	}
	return int(n.Int64), nil
}

// Close releases the prepared statements. The database itself is owned by the
// caller.
func (s *Store) Close() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{s.insertRunStmt, s.insertLexemeStmt, s.upsertTransitionStmt} {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	return errors.Join(errs...)
}
