// Package watcher polls an inbox directory for new session bundles,
// hands each one to a processor and raises alerts from the resulting
// diagnostics.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/bundle"
)

// Alert represents a notable finding raised by the watcher.
type Alert struct {
	Level     string // "info", "warning", "critical"
	SessionID string
	Title     string
	Message   string
	Time      time.Time
}

// ProcessFunc analyzes one bundle file, typically importing it on the way.
type ProcessFunc func(ctx context.Context, f *bundle.File) (*analyzer.Diagnostics, error)

// stamp identifies one version of a file on disk.
type stamp struct {
	size    int64
	modTime time.Time
}

// Watcher checks a directory at a regular interval. A file is processed
// again only when its size or modification time changes.
type Watcher struct {
	dir           string
	interval      time.Duration
	process       ProcessFunc
	alertFn       func(Alert)
	seen          map[string]stamp
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	now           func() time.Time
}

// New creates a Watcher over dir.
func New(dir string, interval time.Duration, process ProcessFunc, alertFn func(Alert)) *Watcher {
	return &Watcher{
		dir:           dir,
		interval:      interval,
		process:       process,
		alertFn:       alertFn,
		seen:          make(map[string]stamp),
		lastAlertKeys: make(map[string]bool),
		now:           time.Now,
	}
}

// Run checks immediately, then at every interval. Blocks until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.emit(w.Check(ctx))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.emit(w.Check(ctx))
		}
	}
}

func (w *Watcher) emit(alerts []Alert) {
	if w.alertFn == nil {
		return
	}
	for _, a := range alerts {
		w.alertFn(a)
	}
}

// Check performs one cycle: it processes every new or changed bundle and
// returns the alerts raised. Identical alerts are suppressed until the
// underlying findings change.
func (w *Watcher) Check(ctx context.Context) []Alert {
	pending, err := w.scan()
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Scan failed",
			Message: fmt.Sprintf("Could not read %s: %v", w.dir, err),
			Time:    w.now(),
		}}
	}

	var raw []Alert
	for path, st := range pending {
		if ctx.Err() != nil {
			break
		}
		alerts, err := w.handle(ctx, path)
		if err != nil && ctx.Err() != nil {
			// Interrupted, retry on the next run.
			break
		}
		raw = append(raw, alerts...)
		w.seen[path] = st
	}
	sortAlerts(raw)

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.SessionID + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	if len(raw) > 0 {
		w.lastAlertKeys = currentKeys
	}
	return alerts
}

// handle processes one bundle. The error is the processing failure, already
// reported as a warning alert.
func (w *Watcher) handle(ctx context.Context, path string) ([]Alert, error) {
	f, err := bundle.ParseFile(path)
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Unreadable bundle",
			Message: err.Error(),
			Time:    w.now(),
		}}, err
	}
	d, err := w.process(ctx, f)
	if err != nil {
		return []Alert{{
			Level:     "warning",
			SessionID: f.SessionID,
			Title:     "Analysis failed",
			Message:   err.Error(),
			Time:      w.now(),
		}}, err
	}
	return Evaluate(d, w.now()), nil
}

// scan returns the .json files in the directory that are new or changed
// since they were last processed.
func (w *Watcher) scan() (map[string]stamp, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}

	pending := make(map[string]stamp)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		st := stamp{size: info.Size(), modTime: info.ModTime()}
		if prev, ok := w.seen[path]; ok && prev == st {
			continue
		}
		pending[path] = st
	}
	return pending, nil
}
