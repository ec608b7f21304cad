// Package bundle reads recorded sessions from JSON files.
//
// A bundle file holds one session:
//
//	{"sessionId": "...", "userId": "...", "interactionEvents": [...], "emotionSamples": [...]}
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/event"
)

// File is a decoded bundle file.
type File struct {
	Path       string         `json:"-"`
	SessionID  string         `json:"sessionId"`
	UserID     string         `json:"userId,omitempty"`
	DeviceInfo string         `json:"deviceInfo,omitempty"`
	Events     event.Sequence `json:"interactionEvents"`
	Samples    []event.Sample `json:"emotionSamples"`
}

// Bundle returns the analyzer input for f.
func (f File) Bundle() analyzer.Bundle {
	return analyzer.Bundle{SessionID: f.SessionID, Events: f.Events, Samples: f.Samples}
}

// Decode reads one bundle from r.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	if f.Events == nil {
		f.Events = event.Sequence{}
	}
	return &f, nil
}

// ParseFile reads one bundle file. A bundle without a session ID takes the
// file name, minus extension, as its ID. The path "-" reads stdin.
func ParseFile(path string) (*File, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r = fh
	}

	f, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	if f.SessionID == "" && path != "-" {
		f.SessionID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if f.SessionID == "" {
		return nil, fmt.Errorf("parsing %s: missing sessionId", path)
	}
	return f, nil
}

// ParseDir reads every .json file in dir, sorted by name. Files that fail
// to parse are skipped and reported in the joined error alongside the
// files that did parse. A missing directory yields no files.
func ParseDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var (
		results []File
		errs    []error
	)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		f, err := ParseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *f)
	}
	return results, errors.Join(errs...)
}

// ParsePaths reads each path as a file, or as a directory of files.
func ParsePaths(paths []string) ([]File, error) {
	var (
		results []File
		errs    []error
	)
	for _, p := range paths {
		if p != "-" {
			if info, err := os.Stat(p); err == nil && info.IsDir() {
				files, err := ParseDir(p)
				results = append(results, files...)
				if err != nil {
					errs = append(errs, err)
				}
				continue
			}
		}
		f, err := ParseFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *f)
	}
	return results, errors.Join(errs...)
}
