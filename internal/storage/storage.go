package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryPath keeps the journal for the lifetime of the process only.
const MemoryPath = ":memory:"

type Direction string

const (
	DirectionDo   Direction = "do"
	DirectionUndo Direction = "undo"
	DirectionRedo Direction = "redo"
)

// Entry is one applied action as recorded in the journal.
type Entry struct {
	ID        int
	SessionID string
	Kind      string
	Direction Direction
	Title     string
	Category  string
	Priority  int
	Due       sql.NullTime
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (and creates) the journal database. An empty path or
// MemoryPath gives an in-memory journal.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}
	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		dsn = sqliteDSN(dbPath)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: an in-memory database lives and dies with it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	direction TEXT NOT NULL,
	title TEXT NOT NULL,
	category TEXT DEFAULT '',
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureJournalColumns()
}

// ensureJournalColumns upgrades journals written before priority and due
// were tracked.
func (s *Store) ensureJournalColumns() error {
	required := map[string]string{
		"priority": "ALTER TABLE journal ADD COLUMN priority INTEGER NOT NULL DEFAULT 0;",
		"due":      "ALTER TABLE journal ADD COLUMN due TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(journal);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Append writes e and returns its row id. CreatedAt defaults to now.
func (s *Store) Append(e Entry) (int, error) {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	dueStr := sql.NullString{}
	if e.Due.Valid {
		dueStr = sql.NullString{String: e.Due.Time.UTC().Format(time.RFC3339), Valid: true}
	}
	res, err := s.db.Exec(`INSERT INTO journal (session_id, kind, direction, title, category, priority, due, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		e.SessionID, e.Kind, string(e.Direction), e.Title, e.Category, e.Priority, dueStr, created.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// Recent returns up to limit entries for sessionID, newest first. An empty
// sessionID matches every session.
func (s *Store) Recent(sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT id, session_id, kind, direction, title, category, priority, due, created_at FROM journal
WHERE (? = '' OR session_id = ?) ORDER BY id DESC LIMIT ?;`, sessionID, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var direction, createdStr string
		var dueStr sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &direction, &e.Title, &e.Category, &e.Priority, &dueStr, &createdStr); err != nil {
			return nil, err
		}
		e.Direction = Direction(direction)
		if dueStr.Valid {
			if parsed, err := time.Parse(time.RFC3339, dueStr.String); err == nil {
				e.Due = sql.NullTime{Time: parsed, Valid: true}
			}
		}
		if created, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			e.CreatedAt = created
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
