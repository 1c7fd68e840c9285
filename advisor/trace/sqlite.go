package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store writes decision traces to a SQLite database for offline analysis.
// Traces are never read back by the decision core.
type Store struct {
	db *sql.DB
}

// OpenStore creates or opens a SQLite trace database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to trace database: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteTrace stores dt in a single transaction.
func (s *Store) WriteTrace(ctx context.Context, dt *DecisionTrace) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trace write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, level, created_at) VALUES (?, ?, ?)`,
		dt.RunID, string(dt.Config.Level), time.Now().Unix()); err != nil {
		return fmt.Errorf("insert run %s: %w", dt.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO decisions
		(run_id, seq, tick, entity_id, outcome, variant, score, best_variant, best_score, regret, reason, events, dropped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare decision insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range dt.Decisions {
		if _, err := stmt.ExecContext(ctx,
			dt.RunID, i, int64(r.Tick), r.EntityID, r.Outcome, r.Variant, r.Score,
			r.BestVariant, r.BestScore, r.Regret, r.Reason, strings.Join(r.Events, ";"), r.Dropped); err != nil {
			return fmt.Errorf("insert decision %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trace write: %w", err)
	}
	return nil
}

// Decisions reads back the records of one run in recording order.
// Candidates are not stored.
func (s *Store) Decisions(ctx context.Context, runID string) ([]DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tick, entity_id, outcome, variant, score, best_variant,
		best_score, regret, reason, events, dropped FROM decisions WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var (
			r      DecisionRecord
			tick   int64
			events string
		)
		if err := rows.Scan(&tick, &r.EntityID, &r.Outcome, &r.Variant, &r.Score, &r.BestVariant,
			&r.BestScore, &r.Regret, &r.Reason, &events, &r.Dropped); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		r.Tick = uint64(tick)
		if events != "" {
			r.Events = strings.Split(events, ";")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
