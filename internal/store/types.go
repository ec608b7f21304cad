// Package store is the SQLite event store: recorded sessions, their
// interaction events and emotion samples, and saved analyses.
package store

import (
	"time"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/event"
)

// Session is a recorded user session.
type Session struct {
	ID         string     `json:"session_id"`
	UserID     string     `json:"user_id,omitempty"`
	DeviceInfo string     `json:"device_info,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

// SessionSummary is a session with its row counts.
type SessionSummary struct {
	Session
	EventCount    int `json:"event_count"`
	SampleCount   int `json:"sample_count"`
	AnalysisCount int `json:"analysis_count"`
}

// ImportResult reports what an import wrote.
type ImportResult struct {
	SessionID string `json:"session_id"`
	Created   bool   `json:"created"`
	Events    int    `json:"events"`
	Samples   int    `json:"samples"`

	// Kinds counts the written events per kind.
	Kinds map[event.Kind]int `json:"kinds"`
}

// AnalysisRow is a saved analysis. Result is the full diagnostic.
type AnalysisRow struct {
	ID              string                `json:"id"`
	SessionID       string                `json:"session_id"`
	AnalyzedAt      time.Time             `json:"analyzed_at"`
	Version         string                `json:"version"`
	FrictionPoints  int                   `json:"friction_points"`
	MaxSeverity     int                   `json:"max_severity"`
	DominantEmotion string                `json:"dominant_emotion,omitempty"`
	Thresholds      analyzer.Thresholds   `json:"thresholds"`
	Result          *analyzer.Diagnostics `json:"result,omitempty"`
}
