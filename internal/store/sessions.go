package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateSession records a new session. An existing session with the same
// ID is left untouched and created is false.
func (db *DB) CreateSession(ctx context.Context, s Session) (bool, error) {
	return createSession(ctx, db.conn, s)
}

func createSession(ctx context.Context, ex execer, s Session) (bool, error) {
	if s.ID == "" {
		return false, errors.New("session id is required")
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	res, err := ex.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, device_info, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`,
		s.ID, nullString(s.UserID), nullString(s.DeviceInfo),
		s.StartedAt.UTC().Format(time.RFC3339Nano), formatTimePtr(s.EndedAt))
	if err != nil {
		return false, fmt.Errorf("inserting session %q: %w", s.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// EndSession stamps the session's end time.
func (db *DB) EndSession(ctx context.Context, id string, at time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE session_id = ?`,
		at.UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("ending session %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// GetSession returns a single session.
func (db *DB) GetSession(ctx context.Context, id string) (*Session, error) {
	return getSession(ctx, db.conn, id)
}

func getSession(ctx context.Context, ex execer, id string) (*Session, error) {
	row := ex.QueryRowContext(ctx, `
		SELECT session_id, COALESCE(user_id, ''), COALESCE(device_info, ''), started_at, ended_at
		FROM sessions WHERE session_id = ?`, id)

	var (
		s         Session
		startedAt string
		endedAt   sql.NullString
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.DeviceInfo, &startedAt, &endedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	s.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	s.EndedAt = parseTimePtr(endedAt)
	return &s, nil
}

// ListSessions returns sessions newest first with their row counts.
// A limit of zero or less returns all sessions.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := `
		SELECT s.session_id, COALESCE(s.user_id, ''), COALESCE(s.device_info, ''),
		       s.started_at, s.ended_at,
		       (SELECT COUNT(*) FROM interaction_events e WHERE e.session_id = s.session_id),
		       (SELECT COUNT(*) FROM emotion_samples m WHERE m.session_id = s.session_id),
		       (SELECT COUNT(*) FROM analyses a WHERE a.session_id = s.session_id)
		FROM sessions s
		ORDER BY s.started_at DESC, s.session_id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			s         SessionSummary
			startedAt string
			endedAt   sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.DeviceInfo, &startedAt, &endedAt,
			&s.EventCount, &s.SampleCount, &s.AnalysisCount); err != nil {
			return nil, err
		}
		s.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		s.EndedAt = parseTimePtr(endedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
