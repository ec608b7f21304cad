package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/store"
)

// Store is the part of the event store the tools read.
type Store interface {
	analyzer.EventStore
	ListSessions(ctx context.Context, limit int) ([]store.SessionSummary, error)
	ListAnalyses(ctx context.Context, sessionID string, limit int) ([]store.AnalysisRow, error)
	GetAnalysis(ctx context.Context, id string) (*store.AnalysisRow, error)
}

// defaultLimit caps list results when the caller gives no limit.
const defaultLimit = 10

// SessionsResult holds the stored sessions, newest first.
type SessionsResult struct {
	Sessions []store.SessionSummary `json:"sessions"`
}

// AnalysesResult holds saved analyses without their full reports.
type AnalysesResult struct {
	Analyses []store.AnalysisRow `json:"analyses"`
}

var (
	listSessionsSchema   = json.RawMessage(`{"type":"object","properties":{"limit":{"type":"integer","description":"Number of sessions to return (default 10)"}},"additionalProperties":false}`)
	analyzeSessionSchema = json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"from":{"type":"integer","description":"Start offset in ms"},"to":{"type":"integer","description":"End offset in ms, 0 for the end of the session"}},"required":["session_id"],"additionalProperties":false}`)
	listAnalysesSchema   = json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string","description":"Only this session; empty for all"},"limit":{"type":"integer","description":"Number of analyses to return (default 10)"}},"additionalProperties":false}`)
	getAnalysisSchema    = json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"],"additionalProperties":false}`)
)

// addTools registers the session and analysis tools on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "list_sessions",
		Description: "Recorded user sessions with event, emotion sample and analysis counts.",
		InputSchema: listSessionsSchema,
		Handler:     s.handleListSessions,
	})
	s.registerTool(toolDef{
		Name:        "analyze_session",
		Description: "Friction points, engagement, emotion dynamics and severity-ranked issues for one stored session.",
		InputSchema: analyzeSessionSchema,
		Handler:     s.handleAnalyzeSession,
	})
	s.registerTool(toolDef{
		Name:        "list_analyses",
		Description: "Saved analyses with friction counts, worst severity and dominant emotion.",
		InputSchema: listAnalysesSchema,
		Handler:     s.handleListAnalyses,
	})
	s.registerTool(toolDef{
		Name:        "get_analysis",
		Description: "The full saved report of one analysis.",
		InputSchema: getAnalysisSchema,
		Handler:     s.handleGetAnalysis,
	})
}

func decodeArgs(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func limitOrDefault(n *int) int {
	if n == nil || *n <= 0 {
		return defaultLimit
	}
	return *n
}

func (s *Server) handleListSessions(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Limit *int `json:"limit"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	list, err := s.store.ListSessions(ctx, limitOrDefault(params.Limit))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []store.SessionSummary{}
	}
	return SessionsResult{Sessions: list}, nil
}

func (s *Server) handleAnalyzeSession(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		SessionID string `json:"session_id"`
		From      int64  `json:"from"`
		To        int64  `json:"to"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.SessionID == "" {
		return nil, errors.New("session_id is required")
	}
	return s.engine.AnalyzeSession(ctx, s.store, params.SessionID,
		analyzer.TimeRange{Start: params.From, End: params.To})
}

func (s *Server) handleListAnalyses(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		SessionID string `json:"session_id"`
		Limit     *int   `json:"limit"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	rows, err := s.store.ListAnalyses(ctx, params.SessionID, limitOrDefault(params.Limit))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.AnalysisRow{}
	}
	return AnalysesResult{Analyses: rows}, nil
}

func (s *Server) handleGetAnalysis(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, errors.New("id is required")
	}
	return s.store.GetAnalysis(ctx, params.ID)
}
