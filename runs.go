package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// RunStore persists recommendation runs so a served result can be
// replayed or inspected later. Each run gets a UUID v4 id; the payload
// is stored as a JSON blob.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (creating if needed) the sqlite database at path.
func OpenRunStore(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create runs dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		payload    TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// CreateRun persists a run payload and returns its generated run id.
func (s *RunStore) CreateRun(payload RunPayload) (string, error) {
	runID := uuid.NewString()
	now := time.Now().UTC()

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal run payload: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO runs (run_id, created_at, payload) VALUES (?, ?, ?)",
		runID, now.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return runID, nil
}

// GetRun retrieves a run record by id. Returns (nil, nil) when the id
// is unknown.
func (s *RunStore) GetRun(runID string) (*RunRecord, error) {
	var createdAt, payloadJSON string
	err := s.db.QueryRow(
		"SELECT created_at, payload FROM runs WHERE run_id = ?", runID,
	).Scan(&createdAt, &payloadJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		timestamp = time.Time{}
	}

	var payload RunPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("parse run payload: %w", err)
	}

	return &RunRecord{
		RunID:     runID,
		Timestamp: timestamp,
		Payload:   payload,
	}, nil
}
