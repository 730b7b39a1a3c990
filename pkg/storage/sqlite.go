package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"

	_ "modernc.org/sqlite"
)

// timestampLayout is ISO 8601 with second precision. Timestamps are stored
// in UTC so that string ordering matches time ordering.
const timestampLayout = time.RFC3339

const selectColumns = "SELECT id, timestamp, percentage, state, time_to_empty, time_to_full FROM battery_history"

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, model.PersistenceError("create db directory", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, model.PersistenceError("open database", err)
	}

	// WAL lets the API server read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, model.PersistenceError("set WAL mode", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, model.PersistenceError("run migrations", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, record *model.HistoryRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO battery_history (timestamp, percentage, state, time_to_empty, time_to_full)
		 VALUES (?, ?, ?, ?, ?)`,
		record.Timestamp.UTC().Format(timestampLayout),
		record.Percentage,
		string(record.State),
		nullMinutes(record.TimeToEmpty),
		nullMinutes(record.TimeToFull),
	)
	if err != nil {
		return model.PersistenceError("insert reading", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.PersistenceError("read inserted id", err)
	}
	record.ID = id
	return nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.query(ctx, selectColumns+" ORDER BY timestamp DESC, id DESC LIMIT ?", limit)
}

func (s *SQLite) Since(ctx context.Context, from time.Time) ([]model.HistoryRecord, error) {
	return s.query(ctx, selectColumns+" WHERE timestamp >= ? ORDER BY timestamp ASC, id ASC",
		from.UTC().Format(timestampLayout))
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) query(ctx context.Context, query string, args ...any) ([]model.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.PersistenceError("query history", err)
	}
	defer rows.Close()

	var records []model.HistoryRecord
	for rows.Next() {
		var (
			r         model.HistoryRecord
			ts, state string
			toEmpty   sql.NullInt64
			toFull    sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &ts, &r.Percentage, &state, &toEmpty, &toFull); err != nil {
			return nil, model.PersistenceError("scan history row", err)
		}
		r.Timestamp, err = time.Parse(timestampLayout, ts)
		if err != nil {
			return nil, model.PersistenceError(fmt.Sprintf("parse timestamp of row %d", r.ID), err)
		}
		r.State = model.State(state)
		r.TimeToEmpty = minutesFromNull(toEmpty)
		r.TimeToFull = minutesFromNull(toFull)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, model.PersistenceError("iterate history", err)
	}
	return records, nil
}

func nullMinutes(m *int) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*m), Valid: true}
}

func minutesFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return model.Minutes(int(n.Int64))
}
