package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/event"
)

// InsertEvents appends events to a session. Sequence numbers continue from
// the highest stored one so insertion order survives equal timestamps.
func (db *DB) InsertEvents(ctx context.Context, sessionID string, events []event.Event) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := getSession(ctx, tx, sessionID); err != nil {
		return 0, err
	}
	n, err := insertEvents(ctx, tx, sessionID, events)
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func insertEvents(ctx context.Context, ex execer, sessionID string, events []event.Event) (int, error) {
	var seq int64
	if err := ex.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM interaction_events WHERE session_id = ?`,
		sessionID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("reading event sequence: %w", err)
	}

	for _, e := range events {
		seq++
		r := event.ToRecord(e)
		var x, y any
		if r.Position != nil {
			x, y = r.Position.X, r.Position.Y
		}
		var emotion, confidence any
		if r.Emotion != nil {
			emotion, confidence = r.Emotion.Emotion, r.Emotion.Confidence
		}
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO interaction_events
				(session_id, seq, type, ts, x, y, depth, path, duration, element, emotion, emotion_confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, seq, string(r.Type), r.Timestamp, x, y,
			floatPtr(r.Depth), nullString(r.Path), floatPtr(r.Duration), nullString(r.Element),
			emotion, confidence); err != nil {
			return 0, fmt.Errorf("inserting %s event at %d: %w", r.Type, r.Timestamp, err)
		}
	}
	return len(events), nil
}

// InsertSamples appends emotion samples to a session.
func (db *DB) InsertSamples(ctx context.Context, sessionID string, samples []event.Sample) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := getSession(ctx, tx, sessionID); err != nil {
		return 0, err
	}
	n, err := insertSamples(ctx, tx, sessionID, samples)
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func insertSamples(ctx context.Context, ex execer, sessionID string, samples []event.Sample) (int, error) {
	for _, s := range samples {
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO emotion_samples (session_id, ts, emotion, confidence)
			VALUES (?, ?, ?, ?)`,
			sessionID, s.Timestamp, s.Emotion, s.Confidence); err != nil {
			return 0, fmt.Errorf("inserting sample at %d: %w", s.Timestamp, err)
		}
	}
	return len(samples), nil
}

// ImportBundle writes a session and all of its events and samples in one
// transaction. Importing into an existing session appends to it.
func (db *DB) ImportBundle(ctx context.Context, s Session, b analyzer.Bundle) (ImportResult, error) {
	return db.importBundle(ctx, s, b, false)
}

// ReplaceBundle is ImportBundle for a bundle that holds the whole session:
// any events and samples already stored for it are discarded first.
func (db *DB) ReplaceBundle(ctx context.Context, s Session, b analyzer.Bundle) (ImportResult, error) {
	return db.importBundle(ctx, s, b, true)
}

func (db *DB) importBundle(ctx context.Context, s Session, b analyzer.Bundle, replace bool) (ImportResult, error) {
	if s.ID == "" {
		s.ID = b.SessionID
	}
	res := ImportResult{SessionID: s.ID}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	if res.Created, err = createSession(ctx, tx, s); err != nil {
		return res, err
	}
	if replace && !res.Created {
		for _, table := range []string{"interaction_events", "emotion_samples"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", s.ID); err != nil {
				return res, fmt.Errorf("clearing %s of %q: %w", table, s.ID, err)
			}
		}
	}
	if res.Events, err = insertEvents(ctx, tx, s.ID, b.Events); err != nil {
		return res, err
	}
	res.Kinds = event.CountByKind(b.Events)
	if res.Samples, err = insertSamples(ctx, tx, s.ID, b.Samples); err != nil {
		return res, err
	}
	return res, tx.Commit()
}

// LoadBundle reads a session's events and samples inside r, both in
// timestamp order. It satisfies analyzer.EventStore.
func (db *DB) LoadBundle(ctx context.Context, sessionID string, r analyzer.TimeRange) (analyzer.Bundle, error) {
	b := analyzer.Bundle{SessionID: sessionID}
	if _, err := db.GetSession(ctx, sessionID); err != nil {
		return b, err
	}

	events, err := db.loadEvents(ctx, sessionID, r)
	if err != nil {
		return b, err
	}
	samples, err := db.loadSamples(ctx, sessionID, r)
	if err != nil {
		return b, err
	}
	b.Events, b.Samples = events, samples
	return b, nil
}

func (db *DB) loadEvents(ctx context.Context, sessionID string, r analyzer.TimeRange) (event.Sequence, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT type, ts, x, y, depth, path, duration, element, emotion, emotion_confidence
		FROM interaction_events
		WHERE session_id = ? AND ts >= ? AND (? <= 0 OR ts <= ?)
		ORDER BY ts, seq`,
		sessionID, r.Start, r.End, r.End)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	out := event.Sequence{}
	for rows.Next() {
		var (
			rec                        event.Record
			kind                       string
			x, y, depth, duration, cnf sql.NullFloat64
			path, element, emotion     sql.NullString
		)
		if err := rows.Scan(&kind, &rec.Timestamp, &x, &y, &depth, &path, &duration,
			&element, &emotion, &cnf); err != nil {
			return nil, err
		}
		rec.Type = event.Kind(kind)
		rec.Path, rec.Element = path.String, element.String
		if x.Valid && y.Valid {
			rec.Position = &event.Position{X: x.Float64, Y: y.Float64}
		}
		if depth.Valid {
			rec.Depth = &depth.Float64
		}
		if duration.Valid {
			rec.Duration = &duration.Float64
		}
		if emotion.Valid {
			rec.Emotion = &event.Tag{Emotion: emotion.String, Confidence: cnf.Float64}
		}

		e, err := event.FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decoding stored event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) loadSamples(ctx context.Context, sessionID string, r analyzer.TimeRange) ([]event.Sample, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT ts, emotion, confidence
		FROM emotion_samples
		WHERE session_id = ? AND ts >= ? AND (? <= 0 OR ts <= ?)
		ORDER BY ts, id`,
		sessionID, r.Start, r.End, r.End)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	out := []event.Sample{}
	for rows.Next() {
		var s event.Sample
		if err := rows.Scan(&s.Timestamp, &s.Emotion, &s.Confidence); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func floatPtr(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
