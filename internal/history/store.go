package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/navigator"
)

// ErrNoSession is returned when no saved session matches.
var ErrNoSession = errors.New("no saved session")

// Summary describes a saved session.
type Summary struct {
	ID        string    `json:"id"`
	BaseURL   string    `json:"base_url"`
	Current   string    `json:"current"`
	Entries   int       `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists sessions in SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Save writes the session's entries and cursor, replacing any earlier
// snapshot of the same session.
func (s *Store) Save(ctx context.Context, baseURL string, sess *Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, base_url, cursor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			base_url = excluded.base_url,
			cursor = excluded.cursor,
			updated_at = excluded.updated_at`,
		sess.ID(), baseURL, sess.Index(), now, now)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries WHERE session_id = ?`, sess.ID()); err != nil {
		return fmt.Errorf("clearing history entries: %w", err)
	}
	for i, e := range sess.Entries() {
		var state sql.NullString
		if e.State != nil {
			data, err := json.Marshal(e.State)
			if err != nil {
				return fmt.Errorf("marshalling state: %w", err)
			}
			state = sql.NullString{String: string(data), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO history_entries (session_id, position, url, state)
			VALUES (?, ?, ?, ?)`,
			sess.ID(), i, e.URL, state)
		if err != nil {
			return fmt.Errorf("inserting history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

// Load restores the session with the given id and returns it with the site
// it was browsing.
func (s *Store) Load(ctx context.Context, id string) (*Session, string, error) {
	var baseURL string
	var cursor int
	err := s.db.QueryRowContext(ctx,
		`SELECT base_url, cursor FROM sessions WHERE id = ?`, id).Scan(&baseURL, &cursor)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("loading session %s: %w", id, ErrNoSession)
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading session %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, state FROM history_entries
		WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, "", fmt.Errorf("querying history entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var state sql.NullString
		if err := rows.Scan(&e.URL, &state); err != nil {
			return nil, "", fmt.Errorf("scanning history entry: %w", err)
		}
		if state.Valid {
			e.State = &navigator.State{}
			if err := json.Unmarshal([]byte(state.String), e.State); err != nil {
				return nil, "", fmt.Errorf("unmarshalling state: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating history entries: %w", err)
	}

	sess, err := Restore(id, entries, cursor)
	if err != nil {
		return nil, "", err
	}
	return sess, baseURL, nil
}

// Latest restores the most recently saved session.
func (s *Store) Latest(ctx context.Context) (*Session, string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM sessions ORDER BY updated_at DESC, created_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, "", ErrNoSession
	}
	if err != nil {
		return nil, "", fmt.Errorf("finding latest session: %w", err)
	}
	return s.Load(ctx, id)
}

// List returns up to limit sessions, most recent first. A limit of zero
// lists every session.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `
		SELECT s.id, s.base_url, s.updated_at,
			COALESCE((SELECT url FROM history_entries h WHERE h.session_id = s.id AND h.position = s.cursor), ''),
			(SELECT COUNT(*) FROM history_entries h WHERE h.session_id = s.id)
		FROM sessions s
		ORDER BY s.updated_at DESC, s.created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.BaseURL, &sum.UpdatedAt, &sum.Current, &sum.Entries); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a saved session and its entries.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting session %s: %w", id, ErrNoSession)
	}
	return nil
}
