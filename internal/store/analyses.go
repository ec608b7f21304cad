package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

// ErrAnalysisNotFound is returned when an analysis ID is not in the store.
var ErrAnalysisNotFound = errors.New("analysis not found")

// SaveAnalysis stores a diagnostic result for its session and returns the
// new analysis ID.
func (db *DB) SaveAnalysis(ctx context.Context, d *analyzer.Diagnostics, th analyzer.Thresholds, version string) (string, error) {
	if d == nil {
		return "", errors.New("nil diagnostics")
	}
	result, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding diagnostics: %w", err)
	}
	thresholds, err := json.Marshal(th)
	if err != nil {
		return "", fmt.Errorf("encoding thresholds: %w", err)
	}

	id := uuid.NewString()
	summary := d.OverallAssessment.Summary
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO analyses
			(id, session_id, analyzed_at, version, friction_points, max_severity, dominant_emotion, thresholds, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, d.SessionID, time.Now().UTC().Format(time.RFC3339Nano), version,
		summary.TotalFrictionPoints, summary.MaxSeverity,
		nullString(d.EmotionAnalysis.DominantEmotion), string(thresholds), string(result))
	if err != nil {
		return "", fmt.Errorf("saving analysis for session %q: %w", d.SessionID, err)
	}
	return id, nil
}

// ListAnalyses returns a session's saved analyses, newest first, without
// their full results. An empty session ID lists analyses for all sessions.
func (db *DB) ListAnalyses(ctx context.Context, sessionID string, limit int) ([]AnalysisRow, error) {
	query := `
		SELECT id, session_id, analyzed_at, version, friction_points, max_severity,
		       COALESCE(dominant_emotion, ''), thresholds
		FROM analyses
		WHERE (? = '' OR session_id = ?)
		ORDER BY analyzed_at DESC, id`
	args := []any{sessionID, sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRow
	for rows.Next() {
		var (
			a          AnalysisRow
			analyzedAt string
			thresholds string
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &analyzedAt, &a.Version,
			&a.FrictionPoints, &a.MaxSeverity, &a.DominantEmotion, &thresholds); err != nil {
			return nil, err
		}
		a.AnalyzedAt, _ = time.Parse(time.RFC3339Nano, analyzedAt)
		if err := json.Unmarshal([]byte(thresholds), &a.Thresholds); err != nil {
			return nil, fmt.Errorf("decoding thresholds of %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAnalysis returns one saved analysis including its full result.
func (db *DB) GetAnalysis(ctx context.Context, id string) (*AnalysisRow, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, session_id, analyzed_at, version, friction_points, max_severity,
		       COALESCE(dominant_emotion, ''), thresholds, result
		FROM analyses WHERE id = ?`, id)

	var (
		a                  AnalysisRow
		analyzedAt         string
		thresholds, result string
	)
	if err := row.Scan(&a.ID, &a.SessionID, &analyzedAt, &a.Version, &a.FrictionPoints,
		&a.MaxSeverity, &a.DominantEmotion, &thresholds, &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
		}
		return nil, err
	}
	a.AnalyzedAt, _ = time.Parse(time.RFC3339Nano, analyzedAt)
	if err := json.Unmarshal([]byte(thresholds), &a.Thresholds); err != nil {
		return nil, fmt.Errorf("decoding thresholds of %s: %w", id, err)
	}
	a.Result = &analyzer.Diagnostics{}
	if err := json.Unmarshal([]byte(result), a.Result); err != nil {
		return nil, fmt.Errorf("decoding result of %s: %w", id, err)
	}
	return &a, nil
}
