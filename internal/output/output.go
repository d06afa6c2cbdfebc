// Package output writes the final enriched list to disk: the full JSON
// listing, a diff against the previous run, and optional per-title
// markdown notes.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smartshark27/movie-rating-checker/internal/fileutil"
	"github.com/smartshark27/movie-rating-checker/internal/media"
)

const (
	allMediaFile = "all-media.json"
	newMediaFile = "new-media.json"
)

// Writer persists aggregation results. Dir is recreated on every run;
// PreviousFile survives runs and powers the new-additions diff.
type Writer struct {
	Dir          string
	PreviousFile string
}

// WriteAll resets the output directory and writes the complete list.
func (w *Writer) WriteAll(list []media.Enriched) error {
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.Dir, allMediaFile)
	if err := fileutil.WriteJSONFile(ensureList(list), path); err != nil {
		return err
	}

	slog.Info("Saved media list", "path", path, "count", len(list))
	return nil
}

// WriteNewAdditions diffs the list against the previous run's snapshot
// and writes the titles that were not present before. A missing snapshot
// (first run) skips the diff without error; an unreadable or corrupt
// snapshot degrades to an empty previous list, so every title counts as
// new until the next SavePrevious replaces it.
func (w *Writer) WriteNewAdditions(list []media.Enriched) ([]media.Enriched, error) {
	data, err := os.ReadFile(w.PreviousFile)
	if os.IsNotExist(err) {
		slog.Info("No previous output found, skipping new media check")
		return nil, nil
	}

	var previous []media.Enriched
	if err != nil {
		slog.Warn("Previous output unreadable, treating all titles as new", "path", w.PreviousFile, "error", err)
	} else if err := json.Unmarshal(data, &previous); err != nil {
		slog.Warn("Previous output corrupt, treating all titles as new", "path", w.PreviousFile, "error", err)
		previous = nil
	} else {
		slog.Info("Loaded previous output", "count", len(previous))
	}

	previousTitles := make(map[string]struct{}, len(previous))
	for _, item := range previous {
		previousTitles[item.Title] = struct{}{}
	}

	var additions []media.Enriched
	for _, item := range list {
		if _, seen := previousTitles[item.Title]; !seen {
			additions = append(additions, item)
		}
	}

	if len(additions) == 0 {
		slog.Info("No new media found since last run")
		return nil, nil
	}

	path := filepath.Join(w.Dir, newMediaFile)
	if err := fileutil.WriteJSONFile(additions, path); err != nil {
		return nil, err
	}

	slog.Info("Saved new media", "path", path, "count", len(additions))
	return additions, nil
}

// SavePrevious snapshots the current list for the next run's diff.
func (w *Writer) SavePrevious(list []media.Enriched) error {
	data, err := json.MarshalIndent(ensureList(list), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal previous output: %w", err)
	}
	return fileutil.WriteFileAtomic(w.PreviousFile, data, 0644)
}

// ensureList keeps an empty result serializing as [] rather than null.
func ensureList(list []media.Enriched) []media.Enriched {
	if list == nil {
		return []media.Enriched{}
	}
	return list
}
