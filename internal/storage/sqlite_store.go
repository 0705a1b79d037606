package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id        TEXT PRIMARY KEY,
	position  INTEGER NOT NULL,
	title     TEXT NOT NULL,
	start_iso TEXT NOT NULL,
	enabled   INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS notified (
	entry_id TEXT NOT NULL,
	day      INTEGER NOT NULL,
	PRIMARY KEY (entry_id, day)
);`

// SQLiteStore keeps the same document as JSONStore in a SQLite database.
type SQLiteStore struct {
	base
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	s := &SQLiteStore{path: path}
	s.persist = s.write
	return s
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.state = newState()
	return s.write(s.state)
}

// Load opens the database, creating it with defaults when absent. A file
// that is not a daycounter database is reported as a parse error.
func (s *SQLiteStore) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		logger.Info("Database not found, creating defaults", "path", s.path)
		return s.Init()
	}
	if err := s.open(); err != nil {
		return err
	}

	for _, table := range []string{"entries", "settings", "notified"} {
		exists, err := s.tableExists(table)
		if err != nil {
			return fmt.Errorf("failed to parse storage %s: %w", s.path, err)
		}
		if !exists {
			return fmt.Errorf("failed to parse storage %s: missing table %q", s.path, table)
		}
	}

	st, err := s.read()
	if err != nil {
		return fmt.Errorf("failed to parse storage %s: %w", s.path, err)
	}
	st.normalize()
	s.state = st
	logger.Debug("Storage loaded", "path", s.path, "entries", len(st.Entries))
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// tableExists checks if a table exists in the SQLite database.
func (s *SQLiteStore) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStore) read() (*State, error) {
	st := &State{Entries: []models.Entry{}, Notified: make(map[string]models.DaySet)}

	rows, err := s.db.Query("SELECT id, title, start_iso, enabled FROM entries ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e     models.Entry
			start string
		)
		if err := rows.Scan(&e.ID, &e.Title, &start, &e.Enabled); err != nil {
			return nil, err
		}
		e.Start, err = time.Parse(time.RFC3339Nano, start)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		st.Entries = append(st.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kv := make(map[string]string)
	settingRows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer settingRows.Close()
	for settingRows.Next() {
		var key, value string
		if err := settingRows.Scan(&key, &value); err != nil {
			return nil, err
		}
		kv[key] = value
	}
	if err := settingRows.Err(); err != nil {
		return nil, err
	}
	if st.Settings, err = models.MapToSettings(kv); err != nil {
		return nil, err
	}

	notifiedRows, err := s.db.Query("SELECT entry_id, day FROM notified")
	if err != nil {
		return nil, err
	}
	defer notifiedRows.Close()
	for notifiedRows.Next() {
		var (
			id  string
			day int
		)
		if err := notifiedRows.Scan(&id, &day); err != nil {
			return nil, err
		}
		if _, ok := st.Notified[id]; !ok {
			st.Notified[id] = models.NewDaySet()
		}
		st.Notified[id].Add(day)
	}
	return st, notifiedRows.Err()
}

// write replaces the database contents with st in one transaction.
func (s *SQLiteStore) write(st *State) error {
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM entries", "DELETE FROM settings", "DELETE FROM notified"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to write storage: %w", err)
		}
	}

	for i, e := range st.Entries {
		if _, err := tx.Exec(
			"INSERT INTO entries (id, position, title, start_iso, enabled) VALUES (?, ?, ?, ?, ?)",
			e.ID, i, e.Title, e.Start.Format(time.RFC3339Nano), e.Enabled,
		); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", e.ID, err)
		}
	}

	for key, value := range models.SettingsToMap(st.Settings) {
		if _, err := tx.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to write setting %s: %w", key, err)
		}
	}

	for id, days := range st.Notified {
		for _, day := range days.Sorted() {
			if _, err := tx.Exec("INSERT INTO notified (entry_id, day) VALUES (?, ?)", id, day); err != nil {
				return fmt.Errorf("failed to write notified %s/%d: %w", id, day, err)
			}
		}
	}

	return tx.Commit()
}
