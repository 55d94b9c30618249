package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a durable Store backed by a single sessions table.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		user_id TEXT PRIMARY KEY,
		turns_json TEXT NOT NULL,
		last_active_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, userID string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT turns_json, last_active_at FROM sessions WHERE user_id = ?`, userID)

	var turnsJSON string
	var lastActive int64
	err := row.Scan(&turnsJSON, &lastActive)
	if err == sql.ErrNoRows {
		return Session{UserID: userID}, nil
	}
	if err != nil {
		return Session{UserID: userID}, fmt.Errorf("scan session row: %w", err)
	}

	out := Session{UserID: userID, LastActiveAt: time.Unix(lastActive, 0).UTC()}
	if err := json.Unmarshal([]byte(turnsJSON), &out.Turns); err != nil {
		return Session{UserID: userID}, fmt.Errorf("decode turns: %w", err)
	}
	return out, nil
}

func (s *SQLite) Put(ctx context.Context, userID string, turns []Turn, lastActiveAt time.Time) error {
	if turns == nil {
		turns = []Turn{}
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode turns: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO sessions (user_id, turns_json, last_active_at)
	VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		turns_json = excluded.turns_json,
		last_active_at = excluded.last_active_at`,
		userID, string(turnsJSON), lastActiveAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_active_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
