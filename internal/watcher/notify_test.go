package watcher

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyFallback_Format(t *testing.T) {
	var buf bytes.Buffer
	err := notifyFallback(&buf, Alert{
		Level:     "critical",
		SessionID: "s-1",
		Title:     "Severe rage clicks",
		Message:   "Severity 5/5 at 1200ms (HIGH)",
		Time:      time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "[critical] Severe rage clicks (s-1): Severity 5/5 at 1200ms (HIGH)\n", buf.String())
}

func TestTitle_WithoutSession(t *testing.T) {
	assert.Equal(t, "Scan failed", title(Alert{Title: "Scan failed"}))
}
