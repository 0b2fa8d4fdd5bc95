// Package statedb is the durable agent-state store: one SQLite row per
// agent, keyed by agent id, holding the serialized aggregate.
package statedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"minewright.ai/internal/protocol"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the save-on-every-mutation write pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS agents (
		agent_id   TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Load returns the stored state for agentID, reporting presence.
func (s *Store) Load(ctx context.Context, agentID string) (*protocol.AgentState, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM agents WHERE agent_id = ?`, agentID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var st protocol.AgentState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, false, fmt.Errorf("decode state %s: %w", agentID, err)
	}
	return &st, true, nil
}

// Save upserts the serialized state. Telemetry is persisted truncated to
// the buffer capacity by the caller; the store writes what it is given.
func (s *Store) Save(ctx context.Context, agentID string, st *protocol.AgentState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", agentID, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO agents (agent_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(agent_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		agentID, string(b), st.LastActive)
	return err
}

// Count reports the number of stored agents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n)
	return n, err
}
