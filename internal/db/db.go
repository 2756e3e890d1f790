// Package db persists conversation transcripts in sqlite. Writes are
// best-effort: the caller logs failures and carries on, so a broken disk
// never blocks a chat turn.
package db

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chris/tutor/internal/llm"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a conversation has no stored transcript.
var ErrNotFound = errors.New("transcript not found")

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// SaveTranscript upserts the full message history for a conversation.
func (d *DB) SaveTranscript(id string, messages []llm.Message) error {
	blob, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshaling transcript: %w", err)
	}
	_, err = d.conn.Exec(`
		INSERT INTO transcripts (conversation_id, messages, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(conversation_id) DO UPDATE SET
			messages = excluded.messages,
			updated_at = excluded.updated_at`,
		id, string(blob))
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// LoadTranscript returns the stored history for a conversation, or
// ErrNotFound when none exists.
func (d *DB) LoadTranscript(id string) ([]llm.Message, error) {
	var blob string
	err := d.conn.QueryRow(
		`SELECT messages FROM transcripts WHERE conversation_id = ?`, id,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}

	var messages []llm.Message
	if err := json.Unmarshal([]byte(blob), &messages); err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	return messages, nil
}
