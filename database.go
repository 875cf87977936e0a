package main

import (
	"database/sql"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// AccountRow represents a registered account.
type AccountRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// MatchRow represents a completed game in the archive.
type MatchRow struct {
	ID        int64   `json:"id"`
	RoomID    string  `json:"roomId"`
	MapType   string  `json:"mapType"`
	ScoreRed  int     `json:"scoreRed"`
	ScoreBlue int     `json:"scoreBlue"`
	Duration  float64 `json:"duration"` // seconds
	Reason    string  `json:"reason"`   // "time" or "score"
	CreatedAt string  `json:"createdAt"`
}

// OpenDB opens (or creates) the SQLite database.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id TEXT NOT NULL,
		map_type TEXT NOT NULL,
		score_red INTEGER NOT NULL DEFAULT 0,
		score_blue INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '',
		snapshot BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		room_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// GetSetting returns a settings value, or "" when absent.
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting upserts a settings value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

// UsernameExists reports whether an account with the username exists.
func (db *DB) UsernameExists(username string) (bool, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM accounts WHERE username = ?", username).Scan(&n)
	return n > 0, err
}

// CreateAccount inserts a new account and returns its id.
func (db *DB) CreateAccount(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO accounts (username, pass_hash) VALUES (?, ?)",
		username, passHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAccountByUsername returns the account, or nil when not found.
func (db *DB) GetAccountByUsername(username string) (*AccountRow, error) {
	row := &AccountRow{}
	err := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM accounts WHERE username = ?",
		username).Scan(&row.ID, &row.Username, &row.PassHash, &row.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// SaveMatch archives a finished game with its final state msgpack-encoded.
func (db *DB) SaveMatch(row MatchRow, state GameState) error {
	snapshot, err := msgpack.Marshal(state)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		`INSERT INTO matches (room_id, map_type, score_red, score_blue, duration, reason, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.RoomID, row.MapType, row.ScoreRed, row.ScoreBlue, row.Duration, row.Reason, snapshot)
	return err
}

// RecentMatches returns the latest archived matches, newest first.
func (db *DB) RecentMatches(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, room_id, map_type, score_red, score_blue, duration, reason, created_at
		 FROM matches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]MatchRow, 0, limit)
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.RoomID, &m.MapType, &m.ScoreRed, &m.ScoreBlue,
			&m.Duration, &m.Reason, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MatchSnapshot decodes the archived final state of a match.
func (db *DB) MatchSnapshot(matchID int64) (*GameState, error) {
	var blob []byte
	err := db.conn.QueryRow("SELECT snapshot FROM matches WHERE id = ?", matchID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state GameState
	if err := msgpack.Unmarshal(blob, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// InsertEvent stores one analytics event.
func (db *DB) InsertEvent(evtType, roomID, detail string, at time.Time) error {
	_, err := db.conn.Exec(
		"INSERT INTO events (type, room_id, detail, created_at) VALUES (?, ?, ?, ?)",
		evtType, roomID, detail, at)
	return err
}
