// Package persistence provides SQLite-based snapshot storage: an opaque
// serialize/deserialize boundary for shop and session state, plus the event
// log and session metadata.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		storage_key TEXT PRIMARY KEY,
		room_code TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		round INTEGER NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_room ON snapshots(room_code);
	CREATE INDEX IF NOT EXISTS idx_events_round ON events(round);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshot writes an opaque state snapshot under a fixed storage key.
// The value is marshalled here; internal structure is not inspected.
func (db *DB) SaveSnapshot(key, roomCode string, state any) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}
	_, err = db.conn.Exec(
		`INSERT OR REPLACE INTO snapshots (storage_key, room_code, payload, updated_at)
		 VALUES (?, ?, ?, ?)`,
		key, roomCode, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// LoadSnapshot restores a snapshot into out, only when the stored room code
// matches — a snapshot from another session is treated as absent.
func (db *DB) LoadSnapshot(key, roomCode string, out any) (bool, error) {
	var row struct {
		RoomCode string `db:"room_code"`
		Payload  string `db:"payload"`
	}
	err := db.conn.Get(&row,
		"SELECT room_code, payload FROM snapshots WHERE storage_key = ?", key)
	if err != nil {
		return false, nil // No snapshot is not an error
	}
	if row.RoomCode != roomCode {
		return false, nil
	}
	if err := json.Unmarshal([]byte(row.Payload), out); err != nil {
		return false, fmt.Errorf("unmarshal snapshot %s: %w", key, err)
	}
	return true, nil
}

// DeleteSnapshot removes a stored snapshot.
func (db *DB) DeleteSnapshot(key string) error {
	_, err := db.conn.Exec("DELETE FROM snapshots WHERE storage_key = ?", key)
	return err
}

// Event is one persisted announcement line.
type Event struct {
	Round       int    `db:"round" json:"round"`
	Description string `db:"description" json:"description"`
}

// SaveEvents appends announcement lines for a round.
func (db *DB) SaveEvents(round int, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, line := range lines {
		if _, err := tx.Exec(
			"INSERT INTO events (round, description, created_at) VALUES (?, ?, ?)",
			round, line, now,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N persisted announcement lines.
func (db *DB) RecentEvents(limit int) ([]Event, error) {
	var events []Event
	err := db.conn.Select(&events,
		"SELECT round, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in session metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO session_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM session_meta WHERE key = ?", key)
	return value, err
}
