package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/event"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testBundle(id string) analyzer.Bundle {
	dur := 1500.0
	return analyzer.Bundle{
		SessionID: id,
		Events: event.Sequence{
			event.Pageview{Base: event.Base{Timestamp: 0, Path: "/checkout"}, Duration: &dur},
			event.Click{Base: event.Base{Timestamp: 100, Path: "/checkout"}, Position: event.Position{X: 120, Y: 48}, Element: "#pay"},
			event.Click{Base: event.Base{Timestamp: 100, Path: "/checkout"}, Position: event.Position{X: 121, Y: 48}},
			event.Scroll{Base: event.Base{Timestamp: 900, Tag: &event.Tag{Emotion: "Anger", Confidence: 0.8}}, Depth: 40},
			event.Mousemove{Base: event.Base{Timestamp: 2000}, Position: event.Position{X: 5, Y: 6}},
			event.Hover{Base: event.Base{Timestamp: 3000}, Element: "#help", Duration: 250},
		},
		Samples: []event.Sample{
			{Emotion: "Neutral", Confidence: 0.9, Timestamp: 0},
			{Emotion: "Anger", Confidence: 0.7, Timestamp: 1200},
			{Emotion: "Anger", Confidence: 0.8, Timestamp: 4000},
		},
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestCreateSession_DuplicateIsNoop(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := db.CreateSession(ctx, Session{ID: "s1", UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = db.CreateSession(ctx, Session{ID: "s1", UserID: "other"})
	require.NoError(t, err)
	assert.False(t, created)

	s, err := db.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Nil(t, s.EndedAt)
	assert.False(t, s.StartedAt.IsZero())
}

func TestCreateSession_RequiresID(t *testing.T) {
	_, err := openTestDB(t).CreateSession(context.Background(), Session{})
	assert.Error(t, err)
}

func TestEndSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.CreateSession(ctx, Session{ID: "s1"})
	require.NoError(t, err)

	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.EndSession(ctx, "s1", end))

	s, err := db.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, s.EndedAt)
	assert.True(t, end.Equal(*s.EndedAt))

	assert.ErrorIs(t, db.EndSession(ctx, "missing", end), ErrSessionNotFound)
}

func TestImportAndLoadBundle_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	in := testBundle("s1")

	res, err := db.ImportBundle(ctx, Session{UserID: "u1", DeviceInfo: "desktop"}, in)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{
		SessionID: "s1", Created: true, Events: 6, Samples: 3,
		Kinds: map[event.Kind]int{
			event.KindPageview: 1, event.KindClick: 2, event.KindScroll: 1,
			event.KindMousemove: 1, event.KindHover: 1,
		},
	}, res)

	out, err := db.LoadBundle(ctx, "s1", analyzer.TimeRange{})
	require.NoError(t, err)
	assert.Equal(t, in.Events, out.Events)
	assert.Equal(t, in.Samples, out.Samples)
}

func TestImportBundle_AppendsToExistingSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.ImportBundle(ctx, Session{}, testBundle("s1"))
	require.NoError(t, err)
	res, err := db.ImportBundle(ctx, Session{}, testBundle("s1"))
	require.NoError(t, err)
	assert.False(t, res.Created)

	var maxSeq int
	require.NoError(t, db.Conn().QueryRow(
		"SELECT MAX(seq) FROM interaction_events WHERE session_id = 's1'").Scan(&maxSeq))
	assert.Equal(t, 12, maxSeq)
}

func TestReplaceBundle_DiscardsPreviousRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.ImportBundle(ctx, Session{}, testBundle("s1"))
	require.NoError(t, err)
	smaller := testBundle("s1")
	smaller.Events = smaller.Events[:2]
	res, err := db.ReplaceBundle(ctx, Session{}, smaller)
	require.NoError(t, err)
	assert.False(t, res.Created)

	b, err := db.LoadBundle(ctx, "s1", analyzer.TimeRange{})
	require.NoError(t, err)
	assert.Equal(t, smaller.Events, b.Events)
	assert.Len(t, b.Samples, 3)
}

func TestLoadBundle_TimeRange(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.ImportBundle(ctx, Session{}, testBundle("s1"))
	require.NoError(t, err)

	b, err := db.LoadBundle(ctx, "s1", analyzer.TimeRange{Start: 100, End: 2000})
	require.NoError(t, err)
	require.Len(t, b.Events, 4)
	assert.Equal(t, int64(100), b.Events[0].At())
	assert.Equal(t, int64(2000), b.Events[3].At())
	require.Len(t, b.Samples, 1)
	assert.Equal(t, int64(1200), b.Samples[0].Timestamp)

	open, err := db.LoadBundle(ctx, "s1", analyzer.TimeRange{Start: 1000})
	require.NoError(t, err)
	assert.Len(t, open.Events, 2)
	assert.Len(t, open.Samples, 2)
}

func TestLoadBundle_EqualTimestampsKeepInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.ImportBundle(ctx, Session{}, testBundle("s1"))
	require.NoError(t, err)

	b, err := db.LoadBundle(ctx, "s1", analyzer.TimeRange{Start: 100, End: 100})
	require.NoError(t, err)
	require.Len(t, b.Events, 2)
	assert.Equal(t, "#pay", b.Events[0].(event.Click).Element)
	assert.Equal(t, 121.0, b.Events[1].(event.Click).Position.X)
}

func TestLoadBundle_UnknownSession(t *testing.T) {
	_, err := openTestDB(t).LoadBundle(context.Background(), "nope", analyzer.TimeRange{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLoadBundle_EmptySessionReturnsEmptySlices(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.CreateSession(ctx, Session{ID: "empty"})
	require.NoError(t, err)

	b, err := db.LoadBundle(ctx, "empty", analyzer.TimeRange{})
	require.NoError(t, err)
	assert.NotNil(t, b.Events)
	assert.Empty(t, b.Events)
	assert.NotNil(t, b.Samples)
}

func TestInsertEvents_UnknownSession(t *testing.T) {
	db := openTestDB(t)
	_, err := db.InsertEvents(context.Background(), "nope", testBundle("nope").Events)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = db.InsertSamples(context.Background(), "nope", testBundle("nope").Samples)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions_Counts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	_, err := db.ImportBundle(ctx, Session{StartedAt: older}, testBundle("a"))
	require.NoError(t, err)
	_, err = db.CreateSession(ctx, Session{ID: "b", StartedAt: newer})
	require.NoError(t, err)

	list, err := db.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, 0, list[0].EventCount)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, 6, list[1].EventCount)
	assert.Equal(t, 3, list[1].SampleCount)

	limited, err := db.ListSessions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveAndGetAnalysis(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	b := testBundle("s1")
	_, err := db.ImportBundle(ctx, Session{}, b)
	require.NoError(t, err)

	th := analyzer.DefaultThresholds()
	th.RageClicks.MinClicks = 2
	eng, err := analyzer.New(th)
	require.NoError(t, err)
	d, err := eng.Analyze(ctx, b)
	require.NoError(t, err)

	id, err := db.SaveAnalysis(ctx, d, th, "test")
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := db.GetAnalysis(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, th, got.Thresholds)
	assert.Equal(t, d.OverallAssessment.Summary.TotalFrictionPoints, got.FrictionPoints)
	assert.Equal(t, "Anger", got.DominantEmotion)
	require.NotNil(t, got.Result)
	assert.Equal(t, d.FrictionPoints, got.Result.FrictionPoints)
	assert.Equal(t, d.OverallAssessment, got.Result.OverallAssessment)

	rows, err := db.ListAnalyses(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)
	assert.Nil(t, rows[0].Result)

	all, err := db.ListAnalyses(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = db.GetAnalysis(ctx, "missing")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestSaveAnalysis_UnknownSessionFails(t *testing.T) {
	db := openTestDB(t)
	d := &analyzer.Diagnostics{SessionID: "ghost"}
	_, err := db.SaveAnalysis(context.Background(), d, analyzer.DefaultThresholds(), "test")
	assert.Error(t, err)
}
