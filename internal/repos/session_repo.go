package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenSessionDB opens the SQLite database that holds login sessions and
// makes sure its schema exists.
func OpenSessionDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSessionSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSessionSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  last_seen  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`)
	return err
}

type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

type SessionRow struct {
	ID        string `db:"id"`
	UserID    int    `db:"user_id"`
	CreatedAt string `db:"created_at"`
	LastSeen  string `db:"last_seen"`
}

// Bind links sid to userID, replacing any earlier binding.
func (r *SessionRepo) Bind(sid string, userID int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(`
		INSERT INTO sessions(id, user_id, created_at, last_seen)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, last_seen=excluded.last_seen
	`, sid, userID, now, now)
	return err
}

// UserID resolves a session to its user and refreshes last_seen.
func (r *SessionRepo) UserID(sid string) (int, error) {
	var row SessionRow
	if err := r.db.Get(&row, `SELECT id, user_id, created_at, last_seen FROM sessions WHERE id = ?`, sid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	_, _ = r.db.Exec(`UPDATE sessions SET last_seen = ? WHERE id = ?`, time.Now().UTC().Format(time.RFC3339), sid)
	return row.UserID, nil
}

func (r *SessionRepo) Unbind(sid string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, sid)
	return err
}

// UnbindUserExcept drops every session of userID other than keep, e.g.
// after a password change.
func (r *SessionRepo) UnbindUserExcept(userID int, keep string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE user_id = ? AND id != ?`, userID, keep)
	return err
}

func (r *SessionRepo) CountForUser(userID int) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM sessions WHERE user_id = ?`, userID)
	return n, err
}
