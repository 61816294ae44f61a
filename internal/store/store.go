// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/wordblitz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			category TEXT NOT NULL,
			score INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			mistakes INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS error_events (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			expected TEXT NOT NULL,
			actual TEXT NOT NULL,
			word TEXT NOT NULL,
			position INTEGER NOT NULL,
			time_since_word_ms INTEGER NOT NULL,
			pattern TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_error_events_session ON error_events(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_error_events_pattern ON error_events(pattern);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its error events.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, events []model.ErrorEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, mode, difficulty, category, score, correct_words, total_words, mistakes, best_streak, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		string(rec.Mode),
		string(rec.Difficulty),
		rec.Category,
		rec.Score,
		rec.CorrectWords,
		rec.TotalWords,
		rec.Mistakes,
		rec.BestStreak,
		rec.DurationMs,
	)
	if err != nil {
		return err
	}

	if len(events) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO error_events (session_id, expected, actual, word, position, time_since_word_ms, pattern)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ev := range events {
			if _, err = stmt.ExecContext(ctx, rec.ID, ev.Expected, ev.Actual, ev.Word, ev.Position, ev.TimeSinceWordMs, ev.Pattern); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// ListSessions returns session aggregates filtered by stats config,
// oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, score, correct_words, total_words, mistakes, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Score, &agg.CorrectWords, &agg.TotalWords, &agg.Mistakes, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// PatternCounts aggregates stored error events by classification.
func (s *Store) PatternCounts(ctx context.Context) ([]model.PatternCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pattern, COUNT(*) AS n
		 FROM error_events
		 GROUP BY pattern
		 ORDER BY n DESC, pattern ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var counts []model.PatternCount
	for rows.Next() {
		var pc model.PatternCount
		if err := rows.Scan(&pc.Pattern, &pc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// KeyErrorCounts aggregates stored error events by expected key.
func (s *Store) KeyErrorCounts(ctx context.Context, limit int) ([]model.KeyErrorCount, error) {
	query := `SELECT expected, COUNT(*) AS n
		FROM error_events
		GROUP BY expected
		ORDER BY n DESC, expected ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var counts []model.KeyErrorCount
	for rows.Next() {
		var kc model.KeyErrorCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
